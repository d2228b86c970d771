package florafolio

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/florafolio/florafolio/jwt"
)

// ChangePassword verifies the current password, stores the new hash and
// revokes every token previously issued to the user, forcing re-login
// everywhere. When the caller presented a token, a fresh one is issued so
// the active client does not have to log in again; otherwise the returned
// token is empty.
func (e *Engine) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, presentedToken string) (string, error) {
	if e == nil || e.passwordHash == nil {
		return "", ErrEngineNotReady
	}

	if len(newPassword) < e.config.Password.MinLength {
		return "", ErrPasswordPolicy
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return "", storeFault(err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	ok, err := e.passwordHash.Verify(currentPassword, user.PasswordHash)
	if err != nil || !ok {
		e.emitAudit(auditEventPasswordChange, false, userID, user.Username, "", ErrUnauthorized)
		return "", ErrUnauthorized
	}

	newHash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		return "", err
	}
	if err := e.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return "", storeFault(err)
	}

	// Every outstanding token predates the new password; none survive.
	if err := e.sessions.RevokeAll(ctx, userID); err != nil {
		return "", err
	}
	e.emitAudit(auditEventRevokeAll, true, userID, user.Username, "", nil)

	var freshToken string
	if presentedToken != "" {
		freshToken, err = e.sessions.Issue(ctx, user.Username, user.ID, string(user.Role))
		if err != nil {
			return "", err
		}
	}

	e.metricInc(MetricPasswordChange)
	e.emitAudit(auditEventPasswordChange, true, userID, user.Username, "", nil)
	return freshToken, nil
}

// ChangeUsername renames the account. The presented token (if any) is
// revoked because its subject claim is now stale, and a replacement bound
// to the new username is issued.
func (e *Engine) ChangeUsername(ctx context.Context, userID uuid.UUID, newUsername, presentedToken string) (string, error) {
	if e == nil || e.sessions == nil {
		return "", ErrEngineNotReady
	}

	if len(newUsername) < usernameMinLen || len(newUsername) > usernameMaxLen {
		return "", ErrUsernamePolicy
	}

	exists, err := e.users.ExistsByUsername(ctx, newUsername)
	if err != nil {
		return "", storeFault(err)
	}
	if exists {
		return "", ErrUsernameTaken
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return "", storeFault(err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	if err := e.users.UpdateUsername(ctx, userID, newUsername); err != nil {
		return "", storeFault(err)
	}

	var freshToken string
	if presentedToken != "" {
		// A token that no longer decodes is already dead and there is
		// nothing left to revoke; a registry failure is not, and must
		// surface before a fresh token goes out.
		if err := e.sessions.Revoke(ctx, presentedToken); err != nil && !errors.Is(err, jwt.ErrDecode) {
			return "", err
		}

		freshToken, err = e.sessions.Issue(ctx, newUsername, user.ID, string(user.Role))
		if err != nil {
			return "", err
		}
	}

	e.metricInc(MetricUsernameChange)
	e.emitAudit(auditEventUsernameChange, true, userID, newUsername, "", nil)
	return freshToken, nil
}
