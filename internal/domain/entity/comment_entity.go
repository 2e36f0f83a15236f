package entity

import (
	"time"
)

// Comment is a reply inside a discussion. It references its parent discussion
// by id only; the parent's title is resolved at read time, not denormalized.
type Comment struct {
	ID           string
	AuthorID     string
	DiscussionID string
	Body         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
