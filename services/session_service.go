package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"amora_server/models"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when no session blob exists for a user
var ErrSessionNotFound = errors.New("session not found")

// SessionService persists one serialized profile blob per user under a fixed
// key: written on every profile update, cleared on logout, read once at
// session restore so clients skip re-authentication.
type SessionService struct {
	Client redis.Cmdable
	TTL    time.Duration
}

// NewSessionService initializes a SessionService over a Redis client
func NewSessionService(client redis.Cmdable, ttl time.Duration) *SessionService {
	return &SessionService{Client: client, TTL: ttl}
}

func sessionKey(uid string) string {
	return "session:" + uid
}

// Save serializes the profile and stores it under the user's session key
func (ss *SessionService) Save(ctx context.Context, profile *models.UserProfile) error {
	blob, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := ss.Client.Set(ctx, sessionKey(profile.UserID), blob, ss.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store session for %s: %w", profile.UserID, err)
	}
	return nil
}

// Load reads the stored profile blob back
func (ss *SessionService) Load(ctx context.Context, uid string) (*models.UserProfile, error) {
	blob, err := ss.Client.Get(ctx, sessionKey(uid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session for %s: %w", uid, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(blob, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse session for %s: %w", uid, err)
	}
	return &profile, nil
}

// Clear removes the session blob on logout
func (ss *SessionService) Clear(ctx context.Context, uid string) error {
	if err := ss.Client.Del(ctx, sessionKey(uid)).Err(); err != nil {
		return fmt.Errorf("failed to clear session for %s: %w", uid, err)
	}
	return nil
}
