package florafolio

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 20
)

// Register creates an account with the default USER role. Username
// collisions are case-sensitive exact matches: "Alice" and "alice" are
// distinct accounts. The plaintext is hashed immediately and never stored
// or returned.
func (e *Engine) Register(ctx context.Context, username, plaintext, email string) (*User, error) {
	if e == nil || e.passwordHash == nil {
		return nil, ErrEngineNotReady
	}

	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return nil, ErrUsernamePolicy
	}
	if len(plaintext) < e.config.Password.MinLength {
		return nil, ErrPasswordPolicy
	}

	exists, err := e.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, storeFault(err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := e.passwordHash.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user, err := e.users.Save(ctx, &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         RoleUser,
	})
	if err != nil {
		// The store may lose the race we checked above; its duplicate
		// error passes through unchanged.
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, storeFault(err)
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(auditEventRegister, true, user.ID, user.Username, "", nil)
	return user, nil
}
