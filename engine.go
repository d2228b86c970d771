package florafolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/florafolio/florafolio/internal/rate"
	"github.com/florafolio/florafolio/password"
	"github.com/florafolio/florafolio/session"
)

// Engine defines a public type used by florafolio APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	users        UserStore
	sessions     *session.Manager
	throttle     *rate.Limiter
	passwordHash *password.Argon2
	audit        *auditDispatcher
	metrics      *Metrics
}

// Close flushes and stops the audit dispatcher. Safe on a nil Engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Sessions exposes the session manager for transport-layer token checks.
func (e *Engine) Sessions() *session.Manager {
	if e == nil {
		return nil
	}
	return e.sessions
}

// AuditDropped reports how many audit events were discarded under pressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(eventType string, success bool, userID uuid.UUID, username, addr string, opErr error) {
	if e == nil || e.audit == nil {
		return
	}
	event := AuditEvent{
		EventType: eventType,
		Username:  username,
		Address:   addr,
		Success:   success,
	}
	if userID != uuid.Nil {
		event.UserID = userID.String()
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	e.audit.Emit(event)
}

// storeFault wraps a user-store failure so callers can match
// ErrStoreUnavailable while keeping the cause.
func storeFault(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// Authenticate resolves the caller identity behind a bearer token: the
// signature, expiry and revocation registry are all consulted. It returns
// ErrTokenInvalid for anything that should not be trusted.
func (e *Engine) Authenticate(ctx context.Context, token string) (*AuthResult, error) {
	if e == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.sessions.Parse(token)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		return nil, ErrTokenInvalid
	}
	if !e.sessions.Validate(ctx, token, claims.Subject) {
		e.metricInc(MetricTokenRejected)
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		return nil, ErrTokenInvalid
	}

	return &AuthResult{
		UserID:   userID,
		Username: claims.Subject,
		Role:     Role(claims.Role),
	}, nil
}

// OwnerID is the best-effort identity check used for "is this my own
// profile" decisions. Decode failure degrades to uuid.Nil (anonymous),
// never to an error: a bad token must not abort a public request.
func (e *Engine) OwnerID(token string) uuid.UUID {
	if e == nil || e.sessions == nil || token == "" {
		return uuid.Nil
	}
	id, err := e.sessions.ExtractUserID(token)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// UserByID looks up an account, mapping absence to ErrUserNotFound.
func (e *Engine) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}
	user, err := e.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeFault(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UserByUsername looks up an account by exact username.
func (e *Engine) UserByUsername(ctx context.Context, username string) (*User, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}
	user, err := e.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, storeFault(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// IsNotFound reports whether the error is the engine's not-found kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
