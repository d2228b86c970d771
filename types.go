package florafolio

import (
	"context"

	"github.com/google/uuid"
)

// Role enumerates the access levels a user can hold.
type Role string

const (
	// RoleAdmin may administer the catalog.
	RoleAdmin Role = "ADMIN"
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "USER"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the account record held by the credential store. PasswordHash is
// the PHC-encoded argon2id hash; the plaintext never appears here.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Email        string
	Role         Role
}

// UserStore is the credential-store collaborator the engine consults. It is
// keyed by username (case-sensitive) and by id. Lookups return (nil, nil)
// when the user is absent; a non-nil error always means the store itself
// failed and surfaces as ErrStoreUnavailable.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Save(ctx context.Context, user *User) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, newHash string) error
	UpdateUsername(ctx context.Context, id uuid.UUID, newUsername string) error
}

// LoginResult is the success payload of [Engine.Login].
type LoginResult struct {
	UserID   uuid.UUID
	Username string
	Role     Role
	Token    string
}

// AuthResult identifies the caller behind a validated token.
type AuthResult struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}
