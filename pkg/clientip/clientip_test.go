package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voicescreen/interviewd/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	t.Run("remote addr fallback", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "203.0.113.7:51234"
		assert.Equal(t, "203.0.113.7", clientip.GetIP(r))
	})

	t.Run("cloudflare header wins", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.0.0.1:80"
		r.Header.Set("CF-Connecting-IP", "198.51.100.2")
		r.Header.Set("X-Forwarded-For", "192.0.2.9")
		assert.Equal(t, "198.51.100.2", clientip.GetIP(r))
	})

	t.Run("leftmost forwarded-for entry", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "192.0.2.9, 10.0.0.1, 10.0.0.2")
		assert.Equal(t, "192.0.2.9", clientip.GetIP(r))
	})

	t.Run("invalid header falls through", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "203.0.113.7:51234"
		r.Header.Set("X-Real-IP", "not-an-ip")
		assert.Equal(t, "203.0.113.7", clientip.GetIP(r))
	})

	t.Run("ipv6 normalized", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-IP", "2001:db8::1")
		assert.Equal(t, "2001:db8::1", clientip.GetIP(r))
	})

	t.Run("unspecified address rejected", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "0.0.0.0:0"
		assert.Equal(t, "", clientip.GetIP(r))
	})
}
