package repository

import "github.com/yogapw/forumgo/internal/domain/entity"

// DiscussionRepository defines database operations over discussions.
type DiscussionRepository interface {
	Create(d *entity.Discussion) error
	GetByID(id string) (*entity.Discussion, error)
	ListByAuthor(authorID string) ([]*entity.Discussion, error)
	ListByIDs(ids []string) ([]*entity.Discussion, error)
	ListRecent(limit int) ([]*entity.Discussion, error)
}

// FollowRepository manages the many-to-many follow relation between users
// and discussions.
type FollowRepository interface {
	Follow(userID, discussionID string) error
	Unfollow(userID, discussionID string) error
	ListFollowedIDs(userID string) ([]string, error)
}
