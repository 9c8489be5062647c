package jwt

import "time"

// StandardClaims represents the registered JWT claims from RFC 7519.
// All timestamps are Unix seconds; temporal validation is performed in UTC.
type StandardClaims struct {
	ID        string `json:"jti,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid checks the temporal claims against the current UTC time.
// Zero-valued claims are skipped.
func (c StandardClaims) Valid() error {
	now := time.Now().UTC().Unix()

	if c.ExpiresAt != 0 && now >= c.ExpiresAt {
		return ErrExpiredToken
	}
	if c.NotBefore != 0 && now < c.NotBefore {
		return ErrTokenNotActive
	}

	return nil
}
