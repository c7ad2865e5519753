package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Gate is the access-token denylist. Entries are written only at revocation
// time and live as long as the access-token TTL, after which the tokens they
// block have expired on their own.
type Gate interface {
	RevokeSession(ctx context.Context, sessionID string) error
	SessionRevoked(ctx context.Context, sessionID string) (bool, error)
	InvalidateUser(ctx context.Context, userID string, at time.Time) error
	UserInvalidatedAt(ctx context.Context, userID string) (time.Time, bool, error)
}

type TokenGate struct {
	cache     *redis.Client
	accessTTL time.Duration
}

func NewTokenGate(cache *redis.Client, accessTTL time.Duration) *TokenGate {
	return &TokenGate{cache: cache, accessTTL: accessTTL}
}

func sessionDenyKey(sessionID string) string {
	return fmt.Sprintf("deny:session:%s", sessionID)
}

func userDenyKey(userID string) string {
	return fmt.Sprintf("deny:user:%s", userID)
}

func (g *TokenGate) RevokeSession(ctx context.Context, sessionID string) error {
	return g.cache.Set(ctx, sessionDenyKey(sessionID), "1", g.accessTTL).Err()
}

func (g *TokenGate) SessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	if err := g.cache.Get(ctx, sessionDenyKey(sessionID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// InvalidateUser records a watermark: access tokens issued before it are
// rejected. Used when an admin changes a user's role so stale role claims
// cannot retain privileges.
func (g *TokenGate) InvalidateUser(ctx context.Context, userID string, at time.Time) error {
	return g.cache.Set(ctx, userDenyKey(userID), strconv.FormatInt(at.Unix(), 10), g.accessTTL).Err()
}

func (g *TokenGate) UserInvalidatedAt(ctx context.Context, userID string) (time.Time, bool, error) {
	val, err := g.cache.Get(ctx, userDenyKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}

	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse watermark: %w", err)
	}
	return time.Unix(unix, 0), true, nil
}
