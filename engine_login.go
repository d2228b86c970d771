package florafolio

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/florafolio/florafolio/jwt"
)

// Login authenticates the credentials and mints a token.
//
// The flow is: throttle check first, then credential verification, then
// token issuance. Unknown-username and wrong-password failures are
// indistinguishable to the caller and both feed the throttle, so the
// throttle's behavior cannot be used to probe which usernames exist.
func (e *Engine) Login(ctx context.Context, username, plaintext, clientAddr string) (*LoginResult, error) {
	if e == nil || e.passwordHash == nil {
		return nil, ErrEngineNotReady
	}

	if e.throttle != nil && e.throttle.Blocked(clientAddr) {
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(auditEventLoginRateLimited, false, uuid.Nil, username, clientAddr, ErrLoginRateLimited)
		return nil, ErrLoginRateLimited
	}

	user, err := e.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, storeFault(err)
	}
	if user == nil {
		e.recordLoginFailure(username, clientAddr)
		return nil, ErrInvalidCredentials
	}

	ok, err := e.passwordHash.Verify(plaintext, user.PasswordHash)
	if err != nil || !ok {
		e.recordLoginFailure(username, clientAddr)
		return nil, ErrInvalidCredentials
	}

	if e.throttle != nil {
		e.throttle.RecordSuccess(clientAddr)
	}

	token, err := e.sessions.Issue(ctx, user.Username, user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(auditEventLoginSuccess, true, user.ID, user.Username, clientAddr, nil)

	return &LoginResult{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	}, nil
}

func (e *Engine) recordLoginFailure(username, clientAddr string) {
	if e.throttle != nil {
		e.throttle.RecordFailure(clientAddr)
	}
	e.metricInc(MetricLoginFailure)
	e.emitAudit(auditEventLoginFailure, false, uuid.Nil, username, clientAddr, ErrInvalidCredentials)
}

// Logout revokes the presented token. A token that no longer decodes is
// reported as ErrTokenInvalid; a registry outage propagates.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}

	if err := e.sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, jwt.ErrDecode) {
			return ErrTokenInvalid
		}
		return err
	}

	e.metricInc(MetricLogout)
	e.emitAudit(auditEventLogout, true, e.OwnerID(token), "", "", nil)
	return nil
}
