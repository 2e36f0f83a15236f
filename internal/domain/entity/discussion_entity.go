package entity

import (
	"time"
)

// Discussion is a top-level forum thread. AuthorID is immutable after creation.
type Discussion struct {
	ID        string
	AuthorID  string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
