// Package token manages the lifecycle of access and refresh tokens.
//
// Access tokens are short-lived HMAC-signed JWTs validated statelessly.
// Refresh tokens are long-lived and additionally gated by a single-slot
// whitelist: at most one refresh token is valid per subject at any time,
// stored under the subject's key in Redis. Issuing or rotating tokens
// replaces the whitelist entry; revoking deletes it.
//
//	manager, err := token.New(accessSecret, refreshSecret,
//		token.NewRedisWhitelist(redisClient))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pair, err := manager.Issue(ctx, userID, email)         // login
//	claims, err := manager.Validate(ctx, raw, token.KindAccess)
//	pair, err = manager.Rotate(ctx, pair.Refresh)          // refresh
//	err = manager.Revoke(ctx, userID)                      // logout
//
// Rotation is single-use. Concurrent rotations for one subject race on the
// whitelist key with last-writer-wins semantics; the losing client's next
// refresh fails exactly like an expired token and it must log in again.
package token
