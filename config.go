package florafolio

import (
	"errors"
	"time"

	"github.com/florafolio/florafolio/internal/rate"
	"github.com/florafolio/florafolio/password"
)

// Config defines a public type used by florafolio APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	JWT       JWTConfig
	Blacklist BlacklistConfig
	Throttle  ThrottleConfig
	Password  PasswordConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig carries the token codec settings. Secret and TTL come from the
// environment; there are no compiled-in defaults for the secret.
type JWTConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

/*
====================================
BLACKLIST CONFIG
====================================
*/

// BlacklistConfig controls the revocation registry retention window. The
// window must be at least the token TTL, otherwise a revoked token could be
// garbage-collected while still validatable.
type BlacklistConfig struct {
	Retention time.Duration
}

/*
====================================
THROTTLE CONFIG
====================================
*/

// ThrottleConfig controls the per-address login throttle.
type ThrottleConfig struct {
	MaxAttempts   int
	BlockDuration time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig carries argon2id parameters plus the engine-level minimum
// plaintext length enforced at registration and password change.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinLength   int
}

// DefaultConfig returns the stock configuration: one-hour tokens, seven-day
// revocation retention, 5-failure/15-minute throttle, interactive argon2id.
// The JWT secret is intentionally absent and must be supplied.
func DefaultConfig() Config {
	argon := password.DefaultConfig()
	throttle := rate.DefaultConfig()
	return Config{
		JWT: JWTConfig{
			TTL:    time.Hour,
			Issuer: "florafolio",
		},
		Blacklist: BlacklistConfig{
			Retention: 7 * 24 * time.Hour,
		},
		Throttle: ThrottleConfig{
			MaxAttempts:   throttle.MaxAttempts,
			BlockDuration: throttle.BlockDuration,
		},
		Password: PasswordConfig{
			Memory:      argon.Memory,
			Time:        argon.Time,
			Parallelism: argon.Parallelism,
			SaltLength:  argon.SaltLength,
			KeyLength:   argon.KeyLength,
			MinLength:   6,
		},
	}
}

func (c Config) validate() error {
	if len(c.JWT.Secret) == 0 {
		return errors.New("jwt secret is required")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt TTL must be positive")
	}
	if c.Blacklist.Retention < c.JWT.TTL {
		return errors.New("blacklist retention must cover the token TTL")
	}
	if c.Throttle.MaxAttempts <= 0 || c.Throttle.BlockDuration <= 0 {
		return errors.New("throttle thresholds must be positive")
	}
	if c.Password.MinLength < 1 {
		return errors.New("password minimum length must be at least 1")
	}
	return nil
}
