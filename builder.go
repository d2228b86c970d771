package florafolio

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/florafolio/florafolio/internal/rate"
	"github.com/florafolio/florafolio/jwt"
	"github.com/florafolio/florafolio/password"
	"github.com/florafolio/florafolio/session"
)

// Builder defines a public type used by florafolio APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	users  UserStore
	audit  AuditSink
	clock  func() time.Time

	built bool
}

// New starts a Builder with DefaultConfig. The JWT secret, a Redis client
// and a UserStore must still be supplied before Build.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing the revocation registry.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the credential-store collaborator.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.users = store
	return b
}

// WithAuditSink enables audit dispatch to the given sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.audit = sink
	return b
}

// WithClock injects the throttle clock. Intended for deterministic tests;
// production builds leave it unset and use wall-clock time.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// Build validates the configuration, wires the codec, registry, throttle
// and hasher, and returns a ready Engine. A Builder builds at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already consumed")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.users == nil {
		return nil, errors.New("user store is required")
	}
	if err := b.config.validate(); err != nil {
		return nil, err
	}

	codec, err := jwt.NewManager(jwt.Config{
		Secret: b.config.JWT.Secret,
		TTL:    b.config.JWT.TTL,
		Issuer: b.config.JWT.Issuer,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	throttleCfg := rate.Config{
		MaxAttempts:   b.config.Throttle.MaxAttempts,
		BlockDuration: b.config.Throttle.BlockDuration,
	}
	var throttle *rate.Limiter
	if b.clock != nil {
		throttle = rate.NewWithClock(throttleCfg, b.clock)
	} else {
		throttle = rate.New(throttleCfg)
	}

	store := session.NewStore(b.redis, b.config.Blacklist.Retention)

	b.built = true
	return &Engine{
		config:       b.config,
		users:        b.users,
		sessions:     session.NewManager(codec, store),
		throttle:     throttle,
		passwordHash: hasher,
		audit:        newAuditDispatcher(b.audit),
		metrics:      NewMetrics(),
	}, nil
}
