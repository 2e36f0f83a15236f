package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yogapw/forumgo/internal/application"
	"github.com/yogapw/forumgo/internal/domain/entity"
)

// View projections enumerate exactly the fields a response exposes. Fields
// not listed here (password hash, updated_at) are never serialized, so new
// sensitive columns stay private by default.

func userView(u *entity.User) gin.H {
	return gin.H{
		"id":                u.ID,
		"username":          u.Username,
		"email":             u.Email,
		"profile_image_url": u.ProfileImageURL,
		"cover_image_url":   u.CoverImageURL,
		"is_admin":          u.IsAdmin,
		"created_at":        u.CreatedAt,
	}
}

func discussionView(d *entity.Discussion) gin.H {
	return gin.H{
		"id":         d.ID,
		"author_id":  d.AuthorID,
		"title":      d.Title,
		"body":       d.Body,
		"created_at": d.CreatedAt,
	}
}

func commentView(c *entity.Comment) gin.H {
	return gin.H{
		"id":            c.ID,
		"author_id":     c.AuthorID,
		"discussion_id": c.DiscussionID,
		"body":          c.Body,
		"created_at":    c.CreatedAt,
	}
}

func snapshotView(snap *application.ProfileSnapshot) gin.H {
	discussions := make([]gin.H, 0, len(snap.Discussions))
	for _, d := range snap.Discussions {
		discussions = append(discussions, discussionView(d))
	}

	comments := make([]gin.H, 0, len(snap.Comments))
	for _, cv := range snap.Comments {
		v := commentView(cv.Comment)
		if cv.DiscussionTitle != nil {
			v["discussion_title"] = *cv.DiscussionTitle
		} else {
			v["discussion_title"] = nil
		}
		comments = append(comments, v)
	}

	following := make([]gin.H, 0, len(snap.Following))
	for _, d := range snap.Following {
		following = append(following, discussionView(d))
	}

	return gin.H{
		"user":        userView(snap.User),
		"discussions": discussions,
		"comments":    comments,
		"following":   following,
		"has_posts":   snap.HasPosts,
	}
}
