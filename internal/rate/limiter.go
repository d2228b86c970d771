package rate

import (
	"hash/fnv"
	"sync"
	"time"
)

// Config holds login throttle tuning parameters.
type Config struct {
	MaxAttempts   int
	BlockDuration time.Duration
}

// DefaultConfig returns the stock throttle: 5 failures trips a 15 minute block.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   5,
		BlockDuration: 15 * time.Minute,
	}
}

const shardCount = 32

// Limiter tracks failed login attempts per client address and issues
// temporary blocks. State is kept in sharded in-process maps so that
// concurrent requests from unrelated addresses never contend on one lock,
// while increments for a single address stay atomic.
//
// Stale state is reclaimed lazily when Blocked observes an expired block;
// there is no background sweep. The failure counter is deliberately left in
// place when a block is installed, so a burst right after a block lapses
// does not get five fresh failures for free.
type Limiter struct {
	config Config
	shards [shardCount]limiterShard
	now    func() time.Time
}

type limiterShard struct {
	mu       sync.Mutex
	attempts map[string]int
	blocked  map[string]time.Time
}

// New creates a login throttle with the given configuration.
func New(cfg Config) *Limiter {
	return NewWithClock(cfg, time.Now)
}

// NewWithClock creates a throttle with an injected clock. Block expiry is a
// wall-clock comparison, not a scheduled callback, so tests can simulate the
// passage of time deterministically.
func NewWithClock(cfg Config, now func() time.Time) *Limiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.BlockDuration <= 0 {
		cfg.BlockDuration = DefaultConfig().BlockDuration
	}

	l := &Limiter{config: cfg, now: now}
	for i := range l.shards {
		l.shards[i].attempts = make(map[string]int)
		l.shards[i].blocked = make(map[string]time.Time)
	}
	return l
}

func (l *Limiter) shard(addr string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(addr))
	return &l.shards[h.Sum32()%shardCount]
}

// Blocked reports whether the address is currently blocked. Observing an
// expired block evicts both the block record and the attempt counter; this
// is the single point where stale state is reclaimed.
func (l *Limiter) Blocked(addr string) bool {
	s := l.shard(addr)
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.blocked[addr]
	if !ok {
		return false
	}
	if l.now().Before(until) {
		return true
	}
	delete(s.blocked, addr)
	delete(s.attempts, addr)
	return false
}

// RecordFailure increments the failure counter for the address, creating it
// at 1 when absent. Reaching the configured threshold installs a block of
// the configured duration. Returns true when the address is now blocked.
func (l *Limiter) RecordFailure(addr string) bool {
	s := l.shard(addr)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[addr]++
	if s.attempts[addr] >= l.config.MaxAttempts {
		s.blocked[addr] = l.now().Add(l.config.BlockDuration)
		return true
	}
	return false
}

// RecordSuccess clears the failure counter and any block for the address.
func (l *Limiter) RecordSuccess(addr string) {
	s := l.shard(addr)
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.attempts, addr)
	delete(s.blocked, addr)
}

// Attempts returns the current failure count for an address. Missing
// addresses report zero.
func (l *Limiter) Attempts(addr string) int {
	s := l.shard(addr)
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attempts[addr]
}
