package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogapw/forumgo/internal/domain/entity"
)

func newTestDiscussionService(discussions *memDiscussionRepo, comments *memCommentRepo, follows *memFollowRepo) *DiscussionService {
	return NewDiscussionService(discussions, comments, follows, nil, nil, nil, "")
}

func TestDiscussionCreateAndGet(t *testing.T) {
	discussions := newMemDiscussionRepo()
	comments := &memCommentRepo{}
	svc := newTestDiscussionService(discussions, comments, newMemFollowRepo())

	d, err := svc.Create(context.Background(), "1", "Hello", "first post")
	require.NoError(t, err)
	require.NotEmpty(t, d.ID)

	_, err = svc.AddComment(context.Background(), "2", d.ID, "welcome")
	require.NoError(t, err)

	got, cs, err := svc.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	require.Len(t, cs, 1)
	assert.Equal(t, "welcome", cs[0].Body)
}

func TestDiscussionGet_NotFound(t *testing.T) {
	svc := newTestDiscussionService(newMemDiscussionRepo(), &memCommentRepo{}, newMemFollowRepo())

	_, _, err := svc.Get("missing")

	assert.ErrorIs(t, err, ErrDiscussionNotFound)
}

func TestAddComment_MissingDiscussion(t *testing.T) {
	comments := &memCommentRepo{}
	svc := newTestDiscussionService(newMemDiscussionRepo(), comments, newMemFollowRepo())

	_, err := svc.AddComment(context.Background(), "1", "missing", "into the void")

	require.ErrorIs(t, err, ErrDiscussionNotFound)
	assert.Empty(t, comments.comments, "no comment may attach to a missing discussion")
}

func TestFollowUnfollow(t *testing.T) {
	discussions := newMemDiscussionRepo(
		&entity.Discussion{ID: "d-1", AuthorID: "2", Title: "Topic", Body: "x"},
	)
	svc := newTestDiscussionService(discussions, &memCommentRepo{}, newMemFollowRepo())

	ids, err := svc.Follow(context.Background(), "1", "d-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d-1"}, ids)

	// Following twice stays idempotent.
	ids, err = svc.Follow(context.Background(), "1", "d-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d-1"}, ids)

	ids, err = svc.Unfollow(context.Background(), "1", "d-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFollow_MissingDiscussion(t *testing.T) {
	svc := newTestDiscussionService(newMemDiscussionRepo(), &memCommentRepo{}, newMemFollowRepo())

	_, err := svc.Follow(context.Background(), "1", "missing")

	assert.ErrorIs(t, err, ErrDiscussionNotFound)
}

func TestListRecent_ClampsLimit(t *testing.T) {
	discussions := newMemDiscussionRepo(
		&entity.Discussion{ID: "d-1", AuthorID: "1", Title: "one", Body: "x"},
		&entity.Discussion{ID: "d-2", AuthorID: "1", Title: "two", Body: "x"},
	)
	svc := newTestDiscussionService(discussions, &memCommentRepo{}, newMemFollowRepo())

	out, err := svc.ListRecent(0)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = svc.ListRecent(1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "d-2", out[0].ID, "newest first")
}

func TestSearch_NoBackendConfigured(t *testing.T) {
	svc := newTestDiscussionService(newMemDiscussionRepo(), &memCommentRepo{}, newMemFollowRepo())

	out, err := svc.Search(context.Background(), "anything", 10)

	require.NoError(t, err)
	assert.Empty(t, out)
}
