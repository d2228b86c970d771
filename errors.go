package florafolio

import "errors"

var (
	// ErrInvalidCredentials is returned for both unknown-username and
	// wrong-password logins; the two are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when a registration or rename collides
	// with an existing username (case-sensitive exact match).
	ErrUsernameTaken = errors.New("username already exists")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized is returned when the presented current password does
	// not verify during a credential update.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrLoginRateLimited is returned when the client address is blocked by
	// the login throttle.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrTokenInvalid is returned for a malformed, expired or revoked token
	// presented where a valid one is required.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrStoreUnavailable is returned when the durable user store cannot be
	// reached; retry policy belongs to the storage collaborator, not here.
	ErrStoreUnavailable = errors.New("user store unavailable")
	// ErrUsernamePolicy is returned when a username fails the 3-20 character
	// rule.
	ErrUsernamePolicy = errors.New("username must be 3-20 characters")
	// ErrPasswordPolicy is returned when a password is shorter than the
	// configured minimum.
	ErrPasswordPolicy = errors.New("password below minimum length")
	// ErrEngineNotReady is returned when an Engine method is called before
	// Builder.Build wired its dependencies.
	ErrEngineNotReady = errors.New("engine not initialized")
)
