package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicescreen/interviewd/pkg/jwt"
)

type testClaims struct {
	jwt.StandardClaims
	Email string `json:"email"`
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires signing key", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.New(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

		_, err = jwt.NewFromString("")
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})

	t.Run("creates service", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.NewFromString("test-secret-key")
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestGenerateParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("test-secret-key")
	require.NoError(t, err)

	t.Run("round trip with custom claims", func(t *testing.T) {
		t.Parallel()

		now := time.Now().UTC()
		claims := testClaims{
			StandardClaims: jwt.StandardClaims{
				Subject:   "user123",
				IssuedAt:  now.Unix(),
				ExpiresAt: now.Add(time.Hour).Unix(),
			},
			Email: "user@example.com",
		}

		token, err := svc.Generate(claims)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var parsed testClaims
		require.NoError(t, svc.Parse(token, &parsed))
		assert.Equal(t, "user123", parsed.Subject)
		assert.Equal(t, "user@example.com", parsed.Email)
		assert.Equal(t, claims.ExpiresAt, parsed.ExpiresAt)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.StandardClaims{
			Subject:   "user123",
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		})
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrExpiredToken)
	})

	t.Run("rejects token before nbf", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.StandardClaims{
			Subject:   "user123",
			NotBefore: time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrTokenNotActive)
	})

	t.Run("rejects tampered payload", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.StandardClaims{Subject: "user123"})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		tampered := parts[0] + ".eyJzdWIiOiJhdHRhY2tlciJ9." + parts[2]

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(tampered, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("rejects token signed with different key", func(t *testing.T) {
		t.Parallel()

		other, err := jwt.NewFromString("different-secret-key")
		require.NoError(t, err)

		token, err := other.Generate(jwt.StandardClaims{Subject: "user123"})
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		t.Parallel()

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse("not-a-token", &parsed), jwt.ErrInvalidToken)
		assert.ErrorIs(t, svc.Parse("a.b", &parsed), jwt.ErrInvalidToken)
		assert.ErrorIs(t, svc.Parse("", &parsed), jwt.ErrInvalidToken)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		t.Parallel()

		// {"alg":"none","typ":"JWT"}
		noneHeader := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0"
		token, err := svc.Generate(jwt.StandardClaims{Subject: "user123"})
		require.NoError(t, err)
		parts := strings.Split(token, ".")

		var parsed jwt.StandardClaims
		err = svc.Parse(noneHeader+"."+parts[1]+"."+parts[2], &parsed)
		assert.ErrorIs(t, err, jwt.ErrUnexpectedSigningMethod)
	})
}
