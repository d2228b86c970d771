package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable indicates the revocation backend is unreachable. It is
// never masked: revocation state that cannot be read means validation must
// fail closed, and revocation state that cannot be written is a hard error.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	tokenBlacklistPrefix = "token:blacklist:"
	userTokensPrefix     = "user:tokens:"
)

// Store is the revocation registry. It tracks which tokens (and which users'
// token sets) have been invalidated ahead of natural expiry.
//
// Every entry carries the configured retention TTL, which must be at least
// the maximum token lifetime: once a token's own expiry has passed the
// signature check already rejects it, so the revocation record is redundant
// and safe to evict. This bounds registry growth without a background sweep.
type Store struct {
	redis     redis.UniversalClient
	retention time.Duration
}

// NewStore creates a revocation registry backed by the given Redis client.
func NewStore(client redis.UniversalClient, retention time.Duration) *Store {
	return &Store{redis: client, retention: retention}
}

func tokenKey(token string) string {
	return tokenBlacklistPrefix + token
}

func userKey(userID string) string {
	return userTokensPrefix + userID
}

// Track associates an issued token with its user so that a later bulk
// revocation can find it. The association expires with the retention window.
func (s *Store) Track(ctx context.Context, token, userID string) error {
	pipe := s.redis.TxPipeline()
	pipe.SAdd(ctx, userKey(userID), token)
	pipe.Expire(ctx, userKey(userID), s.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Blacklist marks a single token revoked, keyed by the literal token string,
// and records it in the user's revoked set. The TTL is the retention window,
// independent of the token's remaining lifetime.
func (s *Store) Blacklist(ctx context.Context, token, userID string) error {
	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, tokenKey(token), userID, s.retention)
	pipe.SAdd(ctx, userKey(userID), token)
	pipe.Expire(ctx, userKey(userID), s.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsBlacklisted reports whether the token has been revoked.
func (s *Store) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.redis.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// RevokeAllUser marks every tracked token of the user revoked and drops the
// per-user set. Calling it for a user with no tracked tokens is a no-op.
func (s *Store) RevokeAllUser(ctx context.Context, userID string) error {
	tokens, err := s.redis.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(tokens) == 0 {
		return nil
	}

	pipe := s.redis.TxPipeline()
	for _, token := range tokens {
		pipe.Set(ctx, tokenKey(token), userID, s.retention)
	}
	pipe.Del(ctx, userKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// UserTokens returns the tokens currently tracked for a user. Used by tests
// and operational tooling; the engine itself only revokes.
func (s *Store) UserTokens(ctx context.Context, userID string) ([]string, error) {
	tokens, err := s.redis.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return tokens, nil
}
