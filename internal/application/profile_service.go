package application

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/yogapw/forumgo/internal/domain/entity"
	repo "github.com/yogapw/forumgo/internal/domain/repository"
)

// ProfileService assembles the read-side view of a user's forum activity.
type ProfileService struct {
	Users       repo.UserRepository
	Discussions repo.DiscussionRepository
	Comments    repo.CommentRepository
	Logger      *logrus.Logger
}

func NewProfileService(users repo.UserRepository, discussions repo.DiscussionRepository, comments repo.CommentRepository, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Users: users, Discussions: discussions, Comments: comments, Logger: logger}
}

// CommentView is a comment annotated with its parent discussion's title,
// resolved at read time. DiscussionTitle is nil when the parent discussion
// no longer exists.
type CommentView struct {
	Comment         *entity.Comment
	DiscussionTitle *string
}

// ProfileSnapshot is a derived, per-request view; it is never persisted or
// cached across requests.
type ProfileSnapshot struct {
	User        *entity.User
	Discussions []*entity.Discussion
	Comments    []CommentView
	Following   []*entity.Discussion
	HasPosts    bool
}

// Aggregate gathers one user's discussions, comments, and the viewer's
// followed discussions into a consistent snapshot. The follow set belongs to
// the viewing session, not the profile owner, so it arrives as an explicit
// argument. Any repository read failure aborts the whole aggregation; only a
// comment whose parent discussion is gone degrades (nil title) instead of
// failing.
func (s *ProfileService) Aggregate(profileID string, viewerFollowIDs []string) (*ProfileSnapshot, error) {
	u, err := s.Users.GetByID(profileID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	discussions, err := s.Discussions.ListByAuthor(profileID)
	if err != nil {
		return nil, err
	}

	comments, err := s.Comments.ListByAuthor(profileID)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	titles := map[string]*string{}
	for _, c := range comments {
		title, seen := titles[c.DiscussionID]
		if !seen {
			d, err := s.Discussions.GetByID(c.DiscussionID)
			switch {
			case err == nil:
				title = &d.Title
			case errors.Is(err, repo.ErrNotFound):
				// Broken reference: keep the comment, drop the title.
				title = nil
			default:
				return nil, err
			}
			titles[c.DiscussionID] = title
		}
		views = append(views, CommentView{Comment: c, DiscussionTitle: title})
	}

	following, err := s.Discussions.ListByIDs(viewerFollowIDs)
	if err != nil {
		return nil, err
	}

	return &ProfileSnapshot{
		User:        u,
		Discussions: discussions,
		Comments:    views,
		Following:   following,
		HasPosts:    len(discussions) > 0 || len(views) > 0 || len(following) > 0,
	}, nil
}
