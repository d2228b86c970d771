// Package jwt is the token codec: it signs and verifies the compact HS256
// access tokens issued by the engine. The codec is deliberately stateless;
// revocation lives in the session package because a signed token cannot be
// recalled by signature checks alone.
package jwt
