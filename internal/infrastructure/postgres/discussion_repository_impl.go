package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yogapw/forumgo/internal/domain/entity"
	"github.com/yogapw/forumgo/internal/domain/repository"
)

type DiscussionRepository struct {
	pool *pgxpool.Pool
}

func NewDiscussionRepository(pool *pgxpool.Pool) *DiscussionRepository {
	return &DiscussionRepository{pool: pool}
}

const discussionColumns = `id, author_id, title, body, created_at, updated_at`

func (r *DiscussionRepository) Create(d *entity.Discussion) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO discussions (author_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, d.AuthorID, d.Title, d.Body)

	return row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DiscussionRepository) GetByID(id string) (*entity.Discussion, error) {
	ctx := context.Background()
	d := &entity.Discussion{}

	row := r.pool.QueryRow(ctx, `
		SELECT `+discussionColumns+`
		FROM discussions
		WHERE id = $1
	`, id)

	if err := row.Scan(&d.ID, &d.AuthorID, &d.Title, &d.Body, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return d, nil
}

func (r *DiscussionRepository) ListByAuthor(authorID string) ([]*entity.Discussion, error) {
	return r.list(`
		SELECT `+discussionColumns+`
		FROM discussions
		WHERE author_id = $1
		ORDER BY created_at
	`, authorID)
}

func (r *DiscussionRepository) ListByIDs(ids []string) ([]*entity.Discussion, error) {
	if len(ids) == 0 {
		return []*entity.Discussion{}, nil
	}
	return r.list(`
		SELECT `+discussionColumns+`
		FROM discussions
		WHERE id = ANY($1)
		ORDER BY created_at
	`, ids)
}

func (r *DiscussionRepository) ListRecent(limit int) ([]*entity.Discussion, error) {
	return r.list(`
		SELECT `+discussionColumns+`
		FROM discussions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

func (r *DiscussionRepository) list(query string, arg any) ([]*entity.Discussion, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Discussion{}
	for rows.Next() {
		d := &entity.Discussion{}
		if err := rows.Scan(&d.ID, &d.AuthorID, &d.Title, &d.Body, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

var _ repository.DiscussionRepository = (*DiscussionRepository)(nil)
