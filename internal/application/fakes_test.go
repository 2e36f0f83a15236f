package application

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/yogapw/forumgo/internal/domain/entity"
	repo "github.com/yogapw/forumgo/internal/domain/repository"
)

type memUserRepo struct {
	byID      map[string]*entity.User
	updates   int
	deletes   int
	getErr    error
	updateErr error
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	m := &memUserRepo{byID: map[string]*entity.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUserRepo) Create(u *entity.User) error {
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", len(m.byID)+1)
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(id string) (*entity.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) Update(id string, p repo.UserPatch) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates++
	u, ok := m.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.Password = *p.PasswordHash
	}
	if p.ProfileImageURL != nil {
		u.ProfileImageURL = *p.ProfileImageURL
	}
	if p.CoverImageURL != nil {
		u.CoverImageURL = *p.CoverImageURL
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memUserRepo) Delete(id string) error {
	m.deletes++
	if _, ok := m.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memDiscussionRepo struct {
	byID    map[string]*entity.Discussion
	order   []string
	listErr error
	getErr  error
}

func newMemDiscussionRepo(discussions ...*entity.Discussion) *memDiscussionRepo {
	m := &memDiscussionRepo{byID: map[string]*entity.Discussion{}}
	for _, d := range discussions {
		m.byID[d.ID] = d
		m.order = append(m.order, d.ID)
	}
	return m
}

func (m *memDiscussionRepo) Create(d *entity.Discussion) error {
	if d.ID == "" {
		d.ID = fmt.Sprintf("d-%d", len(m.byID)+1)
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	m.byID[d.ID] = d
	m.order = append(m.order, d.ID)
	return nil
}

func (m *memDiscussionRepo) GetByID(id string) (*entity.Discussion, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if d, ok := m.byID[id]; ok {
		return d, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memDiscussionRepo) ListByAuthor(authorID string) ([]*entity.Discussion, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*entity.Discussion{}
	for _, id := range m.order {
		if d := m.byID[id]; d != nil && d.AuthorID == authorID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDiscussionRepo) ListByIDs(ids []string) ([]*entity.Discussion, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*entity.Discussion{}
	for _, id := range ids {
		if d, ok := m.byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDiscussionRepo) ListRecent(limit int) ([]*entity.Discussion, error) {
	out := []*entity.Discussion{}
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.byID[m.order[i]])
	}
	return out, nil
}

type memCommentRepo struct {
	comments []*entity.Comment
	listErr  error
}

func (m *memCommentRepo) Create(c *entity.Comment) error {
	if c.ID == "" {
		c.ID = fmt.Sprintf("c-%d", len(m.comments)+1)
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.comments = append(m.comments, c)
	return nil
}

func (m *memCommentRepo) ListByAuthor(authorID string) ([]*entity.Comment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*entity.Comment{}
	for _, c := range m.comments {
		if c.AuthorID == authorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCommentRepo) ListByDiscussion(discussionID string) ([]*entity.Comment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*entity.Comment{}
	for _, c := range m.comments {
		if c.DiscussionID == discussionID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memFollowRepo struct {
	follows map[string][]string
}

func newMemFollowRepo() *memFollowRepo {
	return &memFollowRepo{follows: map[string][]string{}}
}

func (m *memFollowRepo) Follow(userID, discussionID string) error {
	for _, id := range m.follows[userID] {
		if id == discussionID {
			return nil
		}
	}
	m.follows[userID] = append(m.follows[userID], discussionID)
	return nil
}

func (m *memFollowRepo) Unfollow(userID, discussionID string) error {
	out := []string{}
	for _, id := range m.follows[userID] {
		if id != discussionID {
			out = append(out, id)
		}
	}
	m.follows[userID] = out
	return nil
}

func (m *memFollowRepo) ListFollowedIDs(userID string) ([]string, error) {
	ids := m.follows[userID]
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// fakeUploader records uploads and optionally fails, standing in for GCS.
type fakeUploader struct {
	uploads []string
	err     error
}

func (f *fakeUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, objectPath)
	return "https://storage.example.com/media/" + objectPath, nil
}
