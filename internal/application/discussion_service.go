package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yogapw/forumgo/internal/domain/entity"
	repo "github.com/yogapw/forumgo/internal/domain/repository"
)

var ErrDiscussionNotFound = errors.New("discussion not found")

// DiscussionService handles discussion and comment writes plus the follow
// relation and search.
type DiscussionService struct {
	Discussions repo.DiscussionRepository
	Comments    repo.CommentRepository
	Follows     repo.FollowRepository
	Redis       *redis.Client
	Logger      *logrus.Logger
	ES          *elasticsearch.Client
	ESIndex     string
}

func NewDiscussionService(discussions repo.DiscussionRepository, comments repo.CommentRepository, follows repo.FollowRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *DiscussionService {
	return &DiscussionService{
		Discussions: discussions,
		Comments:    comments,
		Follows:     follows,
		Redis:       rdb,
		Logger:      logger,
		ES:          es,
		ESIndex:     esIndex,
	}
}

func (s *DiscussionService) Create(ctx context.Context, authorID, title, body string) (*entity.Discussion, error) {
	d := &entity.Discussion{
		AuthorID: authorID,
		Title:    title,
		Body:     body,
	}
	if err := s.Discussions.Create(d); err != nil {
		return nil, err
	}
	_ = s.indexDiscussion(ctx, d)
	return d, nil
}

// Get returns a discussion with its comments in creation order.
func (s *DiscussionService) Get(id string) (*entity.Discussion, []*entity.Comment, error) {
	d, err := s.Discussions.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrDiscussionNotFound
		}
		return nil, nil, err
	}
	comments, err := s.Comments.ListByDiscussion(id)
	if err != nil {
		return nil, nil, err
	}
	return d, comments, nil
}

func (s *DiscussionService) ListRecent(limit int) ([]*entity.Discussion, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Discussions.ListRecent(limit)
}

// AddComment attaches a comment to an existing discussion.
func (s *DiscussionService) AddComment(ctx context.Context, authorID, discussionID, body string) (*entity.Comment, error) {
	if _, err := s.Discussions.GetByID(discussionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDiscussionNotFound
		}
		return nil, err
	}
	c := &entity.Comment{
		AuthorID:     authorID,
		DiscussionID: discussionID,
		Body:         body,
	}
	if err := s.Comments.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Follow adds the discussion to the user's follow set and returns the
// refreshed set.
func (s *DiscussionService) Follow(ctx context.Context, userID, discussionID string) ([]string, error) {
	if _, err := s.Discussions.GetByID(discussionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDiscussionNotFound
		}
		return nil, err
	}
	if err := s.Follows.Follow(userID, discussionID); err != nil {
		return nil, err
	}
	return s.reloadFollows(ctx, userID)
}

// Unfollow removes the discussion from the user's follow set and returns the
// refreshed set.
func (s *DiscussionService) Unfollow(ctx context.Context, userID, discussionID string) ([]string, error) {
	if err := s.Follows.Unfollow(userID, discussionID); err != nil {
		return nil, err
	}
	return s.reloadFollows(ctx, userID)
}

func (s *DiscussionService) reloadFollows(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.Follows.ListFollowedIDs(userID)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := refreshSessionFollows(ctx, s.Redis, userID, ids); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("session follow refresh failed")
		}
	}
	return ids, nil
}

func (s *DiscussionService) indexDiscussion(ctx context.Context, d *entity.Discussion) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         d.ID,
		"author_id":  d.AuthorID,
		"title":      d.Title,
		"body":       d.Body,
		"created_at": d.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: d.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("discussion_id", d.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("discussion_id", d.ID).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match search on title and body.
func (s *DiscussionService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "body"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
