// Package password provides argon2id hashing and verification for user
// credentials. The credential store only ever sees the PHC-encoded hash;
// hashing is never the store's job.
package password
