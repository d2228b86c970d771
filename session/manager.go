package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/florafolio/florafolio/jwt"
)

// Manager is the authentication core: it composes the token codec with the
// revocation registry to expose issue/validate/revoke. The codec alone cannot
// support logout or password-change invalidation for stateless signed tokens,
// so every mutating operation here goes through the registry.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	codec *jwt.Manager
	store *Store
}

// NewManager composes a token codec and a revocation registry.
func NewManager(codec *jwt.Manager, store *Store) *Manager {
	return &Manager{codec: codec, store: store}
}

// Issue mints a signed token for the user and tracks it in the per-user set
// so RevokeAll can find it later. Issue fails when the registry is down:
// an untracked token would survive a bulk revocation.
func (m *Manager) Issue(ctx context.Context, username string, userID uuid.UUID, role string) (string, error) {
	token, err := m.codec.Generate(username, userID, role)
	if err != nil {
		return "", err
	}
	if err := m.store.Track(ctx, token, userID.String()); err != nil {
		return "", err
	}
	return token, nil
}

// Validate fails closed. It returns true only when the signature verifies,
// the subject matches expectedUsername exactly, the token has not expired,
// and neither the token nor its user has been revoked. Malformed input,
// expiry and registry outages all report false; Validate never returns an
// error and never panics.
func (m *Manager) Validate(ctx context.Context, token, expectedUsername string) bool {
	claims, err := m.codec.Parse(token)
	if err != nil {
		return false
	}
	if claims.Subject != expectedUsername {
		return false
	}
	revoked, err := m.store.IsBlacklisted(ctx, token)
	if err != nil || revoked {
		return false
	}
	return true
}

// Revoke decodes the user id out of the token and records the revocation.
// The token must still decode; revoking garbage (or an already-expired
// token) reports jwt.ErrDecode.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.codec.Parse(token)
	if err != nil {
		return err
	}
	return m.store.Blacklist(ctx, token, claims.UserID)
}

// RevokeAll invalidates every token previously issued to the user. It is
// idempotent: a user with no tracked tokens is a no-op, not an error.
func (m *Manager) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return m.store.RevokeAllUser(ctx, userID.String())
}

// ExtractUsername is a pure decode passthrough to the codec.
func (m *Manager) ExtractUsername(token string) (string, error) {
	return m.codec.ExtractUsername(token)
}

// ExtractUserID is a pure decode passthrough to the codec.
func (m *Manager) ExtractUserID(token string) (uuid.UUID, error) {
	return m.codec.ExtractUserID(token)
}

// ExtractExpiration is a pure decode passthrough to the codec.
func (m *Manager) ExtractExpiration(token string) (time.Time, error) {
	return m.codec.ExtractExpiration(token)
}

// Parse exposes typed claims for callers that need role or subject without
// a registry round-trip (e.g. request guards that follow up with Validate).
func (m *Manager) Parse(token string) (*jwt.Claims, error) {
	return m.codec.Parse(token)
}
