package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yogapw/forumgo/internal/domain/entity"
	repo "github.com/yogapw/forumgo/internal/domain/repository"
	"github.com/yogapw/forumgo/pkg/helpers"
	"github.com/yogapw/forumgo/pkg/mailer"
	mailtpl "github.com/yogapw/forumgo/pkg/mailer/templates"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("not allowed to modify this user")
)

// CanModify is the single ownership rule for user mutations: the caller must
// be the resource owner or an admin. It is pure; handlers map a deny to 403.
func CanModify(callerID string, callerIsAdmin bool, ownerID string) bool {
	if callerIsAdmin {
		return true
	}
	return callerID != "" && callerID == ownerID
}

// Uploader puts an object into durable storage and returns its public URL.
// helpers.GCSUploader is the production implementation.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// GCS folder namespaces for the two independent media slots.
const (
	profileImageFolder = "profile-image"
	coverImageFolder   = "cover-image"
)

type Service struct {
	Users       repo.UserRepository
	Follows     repo.FollowRepository
	Uploader    Uploader
	Redis       *redis.Client
	Logger      *logrus.Logger
	Pub         *helpers.RabbitPublisher
	AppName     string
	MailEnabled bool
}

func NewService(users repo.UserRepository, follows repo.FollowRepository, uploader Uploader, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, appName string, mailEnabled bool) *Service {
	return &Service{
		Users:       users,
		Follows:     follows,
		Uploader:    uploader,
		Redis:       rdb,
		Logger:      logger,
		Pub:         pub,
		AppName:     appName,
		MailEnabled: mailEnabled,
	}
}

// MediaUpload describes a multipart file already staged on local disk by the
// HTTP layer. The staged file is removed after its upload attempt, pass or
// fail.
type MediaUpload struct {
	LocalPath   string
	Filename    string
	ContentType string
}

// UpdateUserInput carries the optional fields of a user update. Empty string
// means "leave unchanged"; in particular an absent password never re-hashes
// or overwrites the stored credential.
type UpdateUserInput struct {
	Username     string
	Email        string
	Password     string
	ProfileImage *MediaUpload
	CoverImage   *MediaUpload
}

// UpdateUser authorizes the caller, precomputes the credential hash and media
// URLs, then applies everything in a single repository write. Nothing is
// hashed, uploaded, or written before authorization and existence pass.
// Staged media files never outlive the call: each slot's upload attempt
// removes its own file, and any file still on disk when the mutation fails
// early is discarded before returning.
func (s *Service) UpdateUser(ctx context.Context, callerID string, callerIsAdmin bool, targetID string, in UpdateUserInput) (u *entity.User, err error) {
	defer func() {
		if err != nil {
			s.discardStaged(in.ProfileImage)
			s.discardStaged(in.CoverImage)
		}
	}()

	if !CanModify(callerID, callerIsAdmin, targetID) {
		return nil, ErrForbidden
	}
	if _, err := s.Users.GetByID(targetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	patch := repo.UserPatch{}
	if in.Username != "" {
		patch.Username = &in.Username
	}
	if in.Email != "" {
		patch.Email = &in.Email
	}

	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			// Never fall through to persisting an unhashed password.
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	// Each slot uploads and cleans up independently; a failure in one slot
	// never touches the other slot's staged file.
	if in.ProfileImage != nil {
		url, err := s.replaceMedia(ctx, targetID, profileImageFolder, in.ProfileImage)
		if err != nil {
			return nil, err
		}
		patch.ProfileImageURL = &url
	}
	if in.CoverImage != nil {
		url, err := s.replaceMedia(ctx, targetID, coverImageFolder, in.CoverImage)
		if err != nil {
			return nil, err
		}
		patch.CoverImageURL = &url
	}

	// An input with no fields set is a valid no-op; skip the write.
	if !patch.IsEmpty() {
		if err := s.Users.Update(targetID, patch); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	u, err = s.Users.GetByID(targetID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"username":          u.Username,
			"profile_image_url": u.ProfileImageURL,
			"cover_image_url":   u.CoverImageURL,
			"updated_at":        nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	if patch.PasswordHash != nil {
		s.notifyPasswordChanged(ctx, u)
	}

	return u, nil
}

// DeleteUser removes the target user under the same ownership rule as update.
func (s *Service) DeleteUser(ctx context.Context, callerID string, callerIsAdmin bool, targetID string) error {
	if !CanModify(callerID, callerIsAdmin, targetID) {
		return ErrForbidden
	}
	if err := s.Users.Delete(targetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, sessionKey(targetID)).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", targetID).Warn("failed to drop session")
		}
	}
	return nil
}

// replaceMedia uploads the staged file for one media slot and returns the
// durable URL. The slot's local temp file is removed whether or not the
// upload succeeds; remove failures are logged and swallowed since they do
// not affect stored data. The superseded remote object is intentionally left
// in place; nothing references it once the user row points elsewhere.
func (s *Service) replaceMedia(ctx context.Context, userID, folder string, up *MediaUpload) (string, error) {
	defer func() {
		if err := os.Remove(up.LocalPath); err != nil && !os.IsNotExist(err) && s.Logger != nil {
			s.Logger.WithError(err).WithField("path", up.LocalPath).Warn("failed to remove staged upload")
		}
	}()

	f, err := os.Open(up.LocalPath)
	if err != nil {
		return "", fmt.Errorf("open staged upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(up.Filename))
	objectPath := filepath.ToSlash(filepath.Join(folder, userID, uuid.NewString()+ext))
	url, err := s.Uploader.Upload(ctx, objectPath, up.ContentType, f)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", folder, err)
	}
	return url, nil
}

// discardStaged removes a slot's staged file when the mutation fails before
// or after that slot's upload attempt. Already-consumed slots are a no-op.
func (s *Service) discardStaged(up *MediaUpload) {
	if up == nil {
		return
	}
	if err := os.Remove(up.LocalPath); err != nil && !os.IsNotExist(err) && s.Logger != nil {
		s.Logger.WithError(err).WithField("path", up.LocalPath).Warn("failed to remove staged upload")
	}
}

// GetUser fetches a user by id.
func (s *Service) GetUser(id string) (*entity.User, error) {
	u, err := s.Users.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Register creates a new user with a hashed credential and enqueues a
// welcome email.
func (s *Service) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	s.enqueueEmail(ctx, u, mailtpl.Welcome)
	return u, nil
}

// Authenticate validates email/password and returns the user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// OpenSession records an authenticated session in Redis, including the
// viewer's followed-discussion ids for profile aggregation.
func (s *Service) OpenSession(ctx context.Context, u *entity.User) ([]string, error) {
	followIDs, err := s.Follows.ListFollowedIDs(u.ID)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := writeSession(ctx, s.Redis, u, followIDs); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("redis session write failed")
		}
	}
	return followIDs, nil
}

// CloseSession drops the caller's session hash.
func (s *Service) CloseSession(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("failed to drop session")
	}
}

func (s *Service) notifyPasswordChanged(ctx context.Context, u *entity.User) {
	s.enqueueEmail(ctx, u, mailtpl.PasswordChanged)
}

func (s *Service) enqueueEmail(ctx context.Context, u *entity.User, template string) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data: map[string]any{
			"AppName":  s.AppName,
			"Username": u.Username,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "template": template}).Warn("enqueue email failed")
	}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
