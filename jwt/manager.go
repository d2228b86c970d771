package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrDecode is returned whenever a token cannot be decoded: bad signature,
// wrong signing algorithm, truncated input, expired or otherwise invalid
// claims. Callers doing best-effort identity checks (e.g. "is this the
// caller's own profile?") must treat ErrDecode as "not the owner", never
// as a reason to fail the whole request.
var ErrDecode = errors.New("token decode failed")

const minSecretBytes = 32

// Config defines a public type used by florafolio APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// Claims is the typed payload carried by every access token. Subject holds
// the username; UserID and Role are custom claims validated at decode time.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies compact HS256 access tokens. It holds the
// server secret and never exposes it.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config Config
}

// NewManager validates the codec configuration and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("hs256 secret must be at least %d bytes", minSecretBytes)
	}
	return &Manager{config: cfg}, nil
}

// TTL reports the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// Generate builds and signs a token with subject=username, the user id and
// role claims, issued-at now and expiry now+TTL. The token is not persisted
// anywhere; the caller owns the only copy.
func (m *Manager) Generate(username string, userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
			Issuer:    m.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.Secret)
}

// Parse verifies the signature and registered claims and returns the typed
// payload. Every failure mode collapses into ErrDecode; Parse never panics
// on hostile input.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !token.Valid {
		return nil, ErrDecode
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing uid claim", ErrDecode)
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("%w: malformed uid claim", ErrDecode)
	}
	return claims, nil
}

// ExtractUsername returns the subject claim of a well-formed token.
func (m *Manager) ExtractUsername(tokenStr string) (string, error) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractUserID returns the user id claim of a well-formed token.
func (m *Manager) ExtractUserID(tokenStr string) (uuid.UUID, error) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.UserID)
}

// ExtractExpiration returns the expiry timestamp of a well-formed token.
func (m *Manager) ExtractExpiration(tokenStr string) (time.Time, error) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrDecode)
	}
	return claims.ExpiresAt.Time, nil
}
