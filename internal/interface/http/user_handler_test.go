package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogapw/forumgo/internal/application"
	"github.com/yogapw/forumgo/internal/domain/entity"
	repo "github.com/yogapw/forumgo/internal/domain/repository"
	"github.com/yogapw/forumgo/pkg/validation"
)

type userRepoStub struct {
	byID    map[string]*entity.User
	updates int
}

func (s *userRepoStub) Create(u *entity.User) error {
	s.byID[u.ID] = u
	return nil
}

func (s *userRepoStub) GetByID(id string) (*entity.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (s *userRepoStub) GetByEmail(email string) (*entity.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *userRepoStub) Update(id string, p repo.UserPatch) error {
	u, ok := s.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	s.updates++
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.Password = *p.PasswordHash
	}
	return nil
}

func (s *userRepoStub) Delete(id string) error {
	if _, ok := s.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type discussionRepoStub struct{}

func (discussionRepoStub) Create(*entity.Discussion) error { return nil }
func (discussionRepoStub) GetByID(string) (*entity.Discussion, error) {
	return nil, repo.ErrNotFound
}
func (discussionRepoStub) ListByAuthor(string) ([]*entity.Discussion, error) {
	return []*entity.Discussion{}, nil
}
func (discussionRepoStub) ListByIDs([]string) ([]*entity.Discussion, error) {
	return []*entity.Discussion{}, nil
}
func (discussionRepoStub) ListRecent(int) ([]*entity.Discussion, error) {
	return []*entity.Discussion{}, nil
}

type commentRepoStub struct{}

func (commentRepoStub) Create(*entity.Comment) error { return nil }
func (commentRepoStub) ListByAuthor(string) ([]*entity.Comment, error) {
	return []*entity.Comment{}, nil
}
func (commentRepoStub) ListByDiscussion(string) ([]*entity.Comment, error) {
	return []*entity.Comment{}, nil
}

type followRepoStub struct{}

func (followRepoStub) Follow(string, string) error   { return nil }
func (followRepoStub) Unfollow(string, string) error { return nil }
func (followRepoStub) ListFollowedIDs(string) ([]string, error) {
	return []string{}, nil
}

// identity injects the session values the auth middleware would set.
func identity(userID string, isAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("isAdmin", isAdmin)
		c.Set("followIDs", []string{})
		c.Next()
	}
}

func newTestRouter(t *testing.T, users *userRepoStub, callerID string, isAdmin bool) *gin.Engine {
	t.Helper()
	return newTestRouterDir(t, users, callerID, isAdmin, t.TempDir())
}

func newTestRouterDir(t *testing.T, users *userRepoStub, callerID string, isAdmin bool, uploadsDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	svc := &application.Service{Users: users, Follows: followRepoStub{}, Logger: logger}
	profiles := application.NewProfileService(users, discussionRepoStub{}, commentRepoStub{}, logger)
	h := NewUserHandler(svc, profiles, logger, uploadsDir)

	r := gin.New()
	api := r.Group("/api", identity(callerID, isAdmin))
	api.GET("/users/:id", h.GetProfile)
	api.PUT("/users/:id", h.Update)
	api.DELETE("/users/:id", h.Delete)
	return r
}

func seedUsers(ids ...string) *userRepoStub {
	s := &userRepoStub{byID: map[string]*entity.User{}}
	for _, id := range ids {
		s.byID[id] = &entity.User{ID: id, Username: "user" + id, Email: "user" + id + "@example.com"}
	}
	return s
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateUser_ForbiddenForNonOwner(t *testing.T) {
	users := seedUsers("1", "2")
	r := newTestRouter(t, users, "1", false)

	w := doJSON(r, http.MethodPut, "/api/users/2", `{"username":"hijacked"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, users.updates)
	assert.Equal(t, "user2", users.byID["2"].Username)

	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "not allowed")
}

func TestUpdateUser_ForbiddenMultipartLeavesNoStagedFiles(t *testing.T) {
	users := seedUsers("1", "2")
	uploadsDir := t.TempDir()
	r := newTestRouterDir(t, users, "1", false, uploadsDir)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("profileImg", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png bytes"))
	require.NoError(t, err)
	fw, err = mw.CreateFormFile("coverImg", "cover.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/users/2", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, users.updates)

	entries, err := os.ReadDir(uploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged uploads must be gone once the request completes")
}

func TestUpdateUser_AdminEditsAnyUser(t *testing.T) {
	users := seedUsers("1", "2")
	r := newTestRouter(t, users, "1", true)

	w := doJSON(r, http.MethodPut, "/api/users/2", `{"username":"renamed"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "renamed", users.byID["2"].Username)

	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "renamed", env.Data["username"])
	assert.NotContains(t, env.Data, "password")
}

func TestUpdateUser_MissingTarget(t *testing.T) {
	r := newTestRouter(t, seedUsers("1"), "1", true)

	w := doJSON(r, http.MethodPut, "/api/users/9", `{"username":"ghost"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUser_InvalidPayload(t *testing.T) {
	users := seedUsers("1")
	r := newTestRouter(t, users, "1", false)

	w := doJSON(r, http.MethodPut, "/api/users/1", `{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, users.updates)
}

func TestDeleteUser_OwnerThenGone(t *testing.T) {
	users := seedUsers("1")
	r := newTestRouter(t, users, "1", false)

	w := doJSON(r, http.MethodDelete, "/api/users/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/users/1", "")
	assert.Equal(t, http.StatusFound, w.Code, "own id still redirects to /api/profile")

	// A different viewer sees the deleted profile as gone.
	r2 := newTestRouter(t, users, "2", false)
	w = doJSON(r2, http.MethodGet, "/api/users/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUser_ForbiddenForNonOwner(t *testing.T) {
	users := seedUsers("1", "2")
	r := newTestRouter(t, users, "1", false)

	w := doJSON(r, http.MethodDelete, "/api/users/2", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	_, err := users.GetByID("2")
	assert.NoError(t, err)
}

func TestGetProfile_OtherUser(t *testing.T) {
	users := seedUsers("1", "2")
	r := newTestRouter(t, users, "1", false)

	w := doJSON(r, http.MethodGet, "/api/users/2", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data struct {
			User     map[string]any `json:"user"`
			HasPosts bool           `json:"has_posts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "user2", env.Data.User["username"])
	assert.False(t, env.Data.HasPosts)
}
