package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yogapw/forumgo/internal/domain/entity"
	"github.com/yogapw/forumgo/internal/domain/repository"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(c *entity.Comment) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (author_id, discussion_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.AuthorID, c.DiscussionID, c.Body)

	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CommentRepository) ListByAuthor(authorID string) ([]*entity.Comment, error) {
	return r.list(`WHERE author_id = $1`, authorID)
}

func (r *CommentRepository) ListByDiscussion(discussionID string) ([]*entity.Comment, error) {
	return r.list(`WHERE discussion_id = $1`, discussionID)
}

func (r *CommentRepository) list(where string, arg any) ([]*entity.Comment, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, discussion_id, body, created_at, updated_at
		FROM comments
	`+where+`
		ORDER BY created_at
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Comment{}
	for rows.Next() {
		c := &entity.Comment{}
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.DiscussionID, &c.Body, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
