package florafolio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type mockUserStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]User
	byUsername map[string]uuid.UUID
	err        error

	findByUsernameCalls   int
	existsByUsernameCalls int
	findByIDCalls         int
	saveCalls             int
	updatePasswordCalls   int
	updateUsernameCalls   int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		users:      make(map[uuid.UUID]User),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findByUsernameCalls++

	if m.err != nil {
		return nil, m.err
	}
	id, ok := m.byUsername[username]
	if !ok {
		return nil, nil
	}
	user := m.users[id]
	return &user, nil
}

func (m *mockUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsByUsernameCalls++

	if m.err != nil {
		return false, m.err
	}
	_, ok := m.byUsername[username]
	return ok, nil
}

func (m *mockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findByIDCalls++

	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (m *mockUserStore) Save(ctx context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++

	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.byUsername[user.Username]; ok {
		return nil, ErrUsernameTaken
	}
	m.users[user.ID] = *user
	m.byUsername[user.Username] = user.ID
	saved := *user
	return &saved, nil
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updatePasswordCalls++

	if m.err != nil {
		return m.err
	}
	user, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = newHash
	m.users[id] = user
	return nil
}

func (m *mockUserStore) UpdateUsername(ctx context.Context, id uuid.UUID, newUsername string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateUsernameCalls++

	if m.err != nil {
		return m.err
	}
	user, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(m.byUsername, user.Username)
	user.Username = newUsername
	m.users[id] = user
	m.byUsername[newUsername] = id
	return nil
}

// storedHash returns the persisted password hash for assertions.
func (m *mockUserStore) storedHash(username string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byUsername[username]
	if !ok {
		return ""
	}
	return m.users[id].PasswordHash
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	// Reduced argon2 parameters so the suite stays fast.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Password.SaltLength = 16
	cfg.Password.KeyLength = 16
	return cfg
}

type testEnv struct {
	engine *Engine
	store  *mockUserStore
	clock  *fakeClock
	redis  *miniredis.Miniredis
}

func newTestEngine(t *testing.T) *testEnv {
	t.Helper()
	return newTestEngineWithSink(t, nil)
}

func newTestEngineWithSink(t *testing.T, sink AuditSink) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := newMockUserStore()
	clock := newFakeClock()

	builder := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithUserStore(store).
		WithClock(clock.Now)
	if sink != nil {
		builder = builder.WithAuditSink(sink)
	}
	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEnv{engine: engine, store: store, clock: clock, redis: mr}
}

func (env *testEnv) register(t *testing.T, username, plaintext string) *User {
	t.Helper()

	user, err := env.engine.Register(context.Background(), username, plaintext, username+"@example.com")
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}
	return user
}
