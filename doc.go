// Package florafolio is the authentication and catalog core of the
// florafolio backend: JWT issuance and validation, token revocation
// (single-token and all-tokens-for-a-user), a per-address login throttle,
// and the orchestrating Engine that authenticates credentials against a
// pluggable user store.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// florafolio is the public surface. It exposes [Engine], [Builder],
// [Config] and value types (User, LoginResult, AuthResult). The token
// codec lives in jwt, session control in session, password hashing in
// password; the login throttle is internal and reachable only through
// Engine behavior.
//
// # What this package must NOT do
//
//   - Log or store plaintext passwords, ever.
//   - Reveal through errors whether a username exists when credentials
//     are wrong.
//   - Raise decode failures out of best-effort identity checks; those
//     degrade to the least-privileged view.
package florafolio
