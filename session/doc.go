// Package session owns session control for stateless signed tokens: a
// Redis-backed revocation registry (Store) and the Manager that composes
// the registry with the token codec into issue/validate/revoke.
//
// Registry entries are keyed by the literal token string and expire with a
// retention window that must cover the maximum token lifetime, so revocation
// state never outlives the tokens it protects against.
package session
