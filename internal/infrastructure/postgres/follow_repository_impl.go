package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yogapw/forumgo/internal/domain/repository"
)

type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) Follow(userID, discussionID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO discussion_follows (user_id, discussion_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, discussion_id) DO NOTHING
	`, userID, discussionID)
	return err
}

func (r *FollowRepository) Unfollow(userID, discussionID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		DELETE FROM discussion_follows
		WHERE user_id = $1 AND discussion_id = $2
	`, userID, discussionID)
	return err
}

func (r *FollowRepository) ListFollowedIDs(userID string) ([]string, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT discussion_id
		FROM discussion_follows
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
