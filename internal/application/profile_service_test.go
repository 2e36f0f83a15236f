package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogapw/forumgo/internal/domain/entity"
)

func TestAggregate_FullSnapshot(t *testing.T) {
	users := newMemUserRepo(testUser("1"))
	discussions := newMemDiscussionRepo(
		&entity.Discussion{ID: "d-1", AuthorID: "1", Title: "Hello", Body: "first"},
		&entity.Discussion{ID: "d-2", AuthorID: "1", Title: "Second", Body: "more"},
		&entity.Discussion{ID: "d-3", AuthorID: "2", Title: "Elsewhere", Body: "other"},
	)
	comments := &memCommentRepo{comments: []*entity.Comment{
		{ID: "c-1", AuthorID: "1", DiscussionID: "d-1", Body: "self reply"},
		{ID: "c-2", AuthorID: "2", DiscussionID: "d-1", Body: "not hers"},
	}}
	svc := NewProfileService(users, discussions, comments, nil)

	snap, err := svc.Aggregate("1", []string{"d-3"})

	require.NoError(t, err)
	assert.Equal(t, "1", snap.User.ID)
	assert.Len(t, snap.Discussions, 2)
	require.Len(t, snap.Comments, 1)
	require.NotNil(t, snap.Comments[0].DiscussionTitle)
	assert.Equal(t, "Hello", *snap.Comments[0].DiscussionTitle)
	require.Len(t, snap.Following, 1)
	assert.Equal(t, "d-3", snap.Following[0].ID)
	assert.True(t, snap.HasPosts)
}

func TestAggregate_MissingParentDiscussion(t *testing.T) {
	users := newMemUserRepo(testUser("1"))
	discussions := newMemDiscussionRepo()
	comments := &memCommentRepo{comments: []*entity.Comment{
		{ID: "c-1", AuthorID: "1", DiscussionID: "gone", Body: "orphaned"},
	}}
	svc := NewProfileService(users, discussions, comments, nil)

	snap, err := svc.Aggregate("1", nil)

	require.NoError(t, err, "a deleted parent discussion must not fail the snapshot")
	require.Len(t, snap.Comments, 1)
	assert.Nil(t, snap.Comments[0].DiscussionTitle)
	assert.True(t, snap.HasPosts, "the orphaned comment still counts as activity")
}

func TestAggregate_UserNotFound(t *testing.T) {
	svc := NewProfileService(newMemUserRepo(), newMemDiscussionRepo(), &memCommentRepo{}, nil)

	_, err := svc.Aggregate("9", nil)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAggregate_ReadFailureAborts(t *testing.T) {
	users := newMemUserRepo(testUser("1"))
	discussions := newMemDiscussionRepo()
	discussions.listErr = errors.New("db down")
	svc := NewProfileService(users, discussions, &memCommentRepo{}, nil)

	_, err := svc.Aggregate("1", nil)

	assert.EqualError(t, err, "db down")
}

func TestAggregate_FollowingIsViewerScoped(t *testing.T) {
	users := newMemUserRepo(testUser("1"))
	discussions := newMemDiscussionRepo(
		&entity.Discussion{ID: "d-1", AuthorID: "2", Title: "Viewer follows this", Body: "x"},
	)
	svc := NewProfileService(users, discussions, &memCommentRepo{}, nil)

	// The viewer's follow set drives Following even on someone else's profile.
	snap, err := svc.Aggregate("1", []string{"d-1"})
	require.NoError(t, err)
	require.Len(t, snap.Following, 1)
	assert.Equal(t, "d-1", snap.Following[0].ID)

	// An anonymous or non-following viewer gets an empty set.
	snap, err = svc.Aggregate("1", nil)
	require.NoError(t, err)
	assert.Empty(t, snap.Following)
}

func TestAggregate_EmptyProfile(t *testing.T) {
	svc := NewProfileService(newMemUserRepo(testUser("1")), newMemDiscussionRepo(), &memCommentRepo{}, nil)

	snap, err := svc.Aggregate("1", nil)

	require.NoError(t, err)
	assert.Empty(t, snap.Discussions)
	assert.Empty(t, snap.Comments)
	assert.False(t, snap.HasPosts)
}
