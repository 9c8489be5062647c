// Package auth manages user accounts and credentials.
//
// Passwords are hashed with argon2id and stored in PHC string format, so the
// cost parameters travel with the hash and can be raised without invalidating
// existing accounts. Verification is constant time.
//
// Service covers signup, password login, OAuth create-on-first-login,
// password reset, and deactivation. Login failures are indistinguishable:
// a missing account, a deactivated account, and a wrong password all return
// ErrInvalidCredentials.
package auth
