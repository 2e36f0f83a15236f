package repository

import "github.com/yogapw/forumgo/internal/domain/entity"

// CommentRepository defines database operations over comments.
type CommentRepository interface {
	Create(c *entity.Comment) error
	ListByAuthor(authorID string) ([]*entity.Comment, error)
	ListByDiscussion(discussionID string) ([]*entity.Comment, error)
}
