package repository

import "github.com/yogapw/forumgo/internal/domain/entity"

// UserPatch carries the fields of a partial user update. Nil pointers leave
// the stored value untouched, so the whole patch lands in one atomic write.
type UserPatch struct {
	Username        *string
	Email           *string
	PasswordHash    *string
	ProfileImageURL *string
	CoverImageURL   *string
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil &&
		p.ProfileImageURL == nil && p.CoverImageURL == nil
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(id string, patch UserPatch) error
	Delete(id string) error
}
