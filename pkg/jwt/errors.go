package jwt

import "errors"

var (
	// ErrMissingSigningKey is returned when the service is created without a signing key.
	ErrMissingSigningKey = errors.New("signing key is required")
	// ErrInvalidToken is returned when a token is structurally malformed.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidSignature is returned when the signature does not match the payload.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpiredToken is returned when the exp claim is in the past.
	ErrExpiredToken = errors.New("token has expired")
	// ErrTokenNotActive is returned when the nbf claim is in the future.
	ErrTokenNotActive = errors.New("token is not active yet")
	// ErrUnexpectedSigningMethod is returned when the header declares an algorithm other than HS256.
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")
)
