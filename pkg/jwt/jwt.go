package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// Service signs and parses JSON Web Tokens with a single HMAC-SHA256 key.
// A Service is safe for concurrent use.
type Service struct {
	signingKey []byte
}

// New creates a JWT service with the provided signing key.
// The key should be cryptographically secure and at least 32 bytes long.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &Service{signingKey: signingKey}, nil
}

// NewFromString creates a JWT service from a string signing key.
func NewFromString(signingKey string) (*Service, error) {
	return New([]byte(signingKey))
}

// Generate produces a signed compact JWT from any JSON-serializable claims value.
func (s *Service) Generate(claims any) (string, error) {
	headerJSON, err := json.Marshal(header{Alg: "HS256", Typ: "JWT"})
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) +
		"." + base64.RawURLEncoding.EncodeToString(payloadJSON)

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(s.sign(signingInput)), nil
}

// Parse verifies the token signature and temporal claims, then unmarshals the
// payload into claims. The signature is checked before any payload data is
// trusted, using a constant-time comparison.
func (s *Service) Parse(token string, claims any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return ErrInvalidToken
	}
	if h.Alg != "HS256" {
		return ErrUnexpectedSigningMethod
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return ErrInvalidToken
	}
	if !hmac.Equal(signature, s.sign(parts[0]+"."+parts[1])) {
		return ErrInvalidSignature
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrInvalidToken
	}

	var std StandardClaims
	if err := json.Unmarshal(payloadJSON, &std); err != nil {
		return ErrInvalidToken
	}
	if err := std.Valid(); err != nil {
		return err
	}

	if err := json.Unmarshal(payloadJSON, claims); err != nil {
		return ErrInvalidToken
	}

	return nil
}

func (s *Service) sign(input string) []byte {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}
