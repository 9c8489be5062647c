package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicescreen/interviewd/core/server"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing address", func(t *testing.T) {
		t.Parallel()

		_, err := server.NewFromConfig(server.Config{}, nil)
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		srv, err := server.NewFromConfig(server.Config{Addr: ":0"}, nil)
		require.NoError(t, err)
		assert.NotNil(t, srv)
	})
}

func TestServerLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("stop before start is a no-op", func(t *testing.T) {
		t.Parallel()

		srv := server.New("127.0.0.1:0")
		assert.NoError(t, srv.Stop())
	})

	t.Run("run exits cleanly on cancellation", func(t *testing.T) {
		t.Parallel()

		srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- srv.Run(ctx, http.NewServeMux())()
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("start fails on a bad address", func(t *testing.T) {
		t.Parallel()

		srv := server.New("256.256.256.256:99999")
		err := srv.Start(context.Background(), http.NewServeMux())
		assert.Error(t, err)
	})
}
