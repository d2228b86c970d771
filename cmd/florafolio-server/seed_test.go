package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/florafolio/florafolio"
	"github.com/florafolio/florafolio/password"
)

type seedStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]florafolio.User
	byUsername map[string]uuid.UUID
}

func newSeedStore() *seedStore {
	return &seedStore{
		users:      make(map[uuid.UUID]florafolio.User),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (s *seedStore) FindByUsername(ctx context.Context, username string) (*florafolio.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, nil
	}
	user := s.users[id]
	return &user, nil
}

func (s *seedStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byUsername[username]
	return ok, nil
}

func (s *seedStore) FindByID(ctx context.Context, id uuid.UUID) (*florafolio.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *seedStore) Save(ctx context.Context, user *florafolio.User) (*florafolio.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUsername[user.Username]; ok {
		return nil, florafolio.ErrUsernameTaken
	}
	s.users[user.ID] = *user
	s.byUsername[user.Username] = user.ID
	saved := *user
	return &saved, nil
}

func (s *seedStore) UpdatePassword(ctx context.Context, id uuid.UUID, newHash string) error {
	return nil
}

func (s *seedStore) UpdateUsername(ctx context.Context, id uuid.UUID, newUsername string) error {
	return nil
}

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestSeedUsersHonorsHasherParameters(t *testing.T) {
	store := newSeedStore()
	hasher, err := password.NewArgon2(password.Config{
		Memory:      16 * 1024,
		Time:        3,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}

	path := writeSeedFile(t, `
users:
  - username: admin
    password: change-me-now
    email: admin@example.com
    role: ADMIN
  - username: demo
    password: demo-password
    email: demo@example.com
    role: USER
`)
	if err := seedUsers(context.Background(), store, hasher, path); err != nil {
		t.Fatalf("seedUsers failed: %v", err)
	}

	admin, err := store.FindByUsername(context.Background(), "admin")
	if err != nil || admin == nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.Role != florafolio.RoleAdmin {
		t.Errorf("admin role = %q", admin.Role)
	}
	// The stored hash must carry the configured parameters, not defaults.
	if !strings.Contains(admin.PasswordHash, "m=16384,t=3,p=1") {
		t.Errorf("hash does not embed the configured parameters: %s", admin.PasswordHash)
	}
	if ok, err := hasher.Verify("change-me-now", admin.PasswordHash); err != nil || !ok {
		t.Errorf("seeded password does not verify: ok=%v err=%v", ok, err)
	}

	demo, _ := store.FindByUsername(context.Background(), "demo")
	if demo == nil || demo.Role != florafolio.RoleUser {
		t.Errorf("demo user = %+v", demo)
	}
}

func TestSeedUsersSkipsExistingAndBadEntries(t *testing.T) {
	store := newSeedStore()
	hasher, err := password.NewArgon2(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}

	existing := florafolio.User{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: "preexisting",
		Role:         florafolio.RoleAdmin,
	}
	if _, err := store.Save(context.Background(), &existing); err != nil {
		t.Fatalf("save existing: %v", err)
	}

	path := writeSeedFile(t, `
users:
  - username: admin
    password: overwrite-attempt
  - username: ""
    password: nameless
  - username: ghost
    password: ""
  - username: carol
    password: carol-password
    role: gardener
`)
	if err := seedUsers(context.Background(), store, hasher, path); err != nil {
		t.Fatalf("seedUsers failed: %v", err)
	}

	admin, _ := store.FindByUsername(context.Background(), "admin")
	if admin.PasswordHash != "preexisting" {
		t.Error("existing account was overwritten")
	}
	if ghost, _ := store.FindByUsername(context.Background(), "ghost"); ghost != nil {
		t.Error("entry without password was created")
	}

	// Unknown roles fall back to USER.
	carol, _ := store.FindByUsername(context.Background(), "carol")
	if carol == nil || carol.Role != florafolio.RoleUser {
		t.Errorf("carol = %+v", carol)
	}
}

func TestSeedUsersMissingFileIsNoop(t *testing.T) {
	store := newSeedStore()
	hasher, err := password.NewArgon2(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}

	if err := seedUsers(context.Background(), store, hasher, filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(store.users) != 0 {
		t.Error("users created from a missing file")
	}
}
