// Package jwt provides an RFC 7519 compliant JSON Web Token implementation
// using HMAC-SHA256.
//
// The package supports generation, validation, and parsing of JWTs with
// standard claims and custom payload structures. Signature verification uses
// constant-time comparison, and temporal claims (exp, nbf) are validated in
// UTC.
//
// Basic usage:
//
//	service, err := jwt.NewFromString("your-256-bit-secret")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	claims := jwt.StandardClaims{
//		Subject:   "user123",
//		IssuedAt:  time.Now().Unix(),
//		ExpiresAt: time.Now().Add(time.Hour).Unix(),
//	}
//
//	token, err := service.Generate(claims)
//
// Custom claims embed StandardClaims:
//
//	type SessionClaims struct {
//		jwt.StandardClaims
//		Email string `json:"email"`
//	}
//
//	var parsed SessionClaims
//	if err := service.Parse(token, &parsed); err != nil {
//		// jwt.ErrExpiredToken, jwt.ErrInvalidSignature, ...
//	}
package jwt
