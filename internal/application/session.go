package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yogapw/forumgo/internal/domain/entity"
)

// Sessions live in a Redis hash keyed by user id. The auth middleware reads
// the hash on every request; follow_ids is the viewer's followed-discussion
// set, kept current on login and on follow/unfollow.
const sessionTTL = 24 * time.Hour

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func writeSession(ctx context.Context, rdb *redis.Client, u *entity.User, followIDs []string) error {
	ids, err := json.Marshal(followIDs)
	if err != nil {
		return err
	}
	key := sessionKey(u.ID)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":           u.ID,
		"username":          u.Username,
		"email":             u.Email,
		"is_admin":          u.IsAdmin,
		"profile_image_url": u.ProfileImageURL,
		"cover_image_url":   u.CoverImageURL,
		"follow_ids":        string(ids),
		"created_at":        nowRFC3339(),
	})
	pipe.Expire(ctx, key, sessionTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func refreshSessionFollows(ctx context.Context, rdb *redis.Client, userID string, followIDs []string) error {
	ids, err := json.Marshal(followIDs)
	if err != nil {
		return err
	}
	return rdb.HSet(ctx, sessionKey(userID), "follow_ids", string(ids)).Err()
}

// DecodeFollowIDs parses the follow_ids session field. An empty or malformed
// value decodes to an empty set rather than an error; the store remains the
// source of truth.
func DecodeFollowIDs(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []string{}
	}
	return ids
}
