package registry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicescreen/interviewd/core/registry"
)

// dialWSConn spins up an echo-less test server and returns the server-side
// WSConn plus the raw client connection.
func dialWSConn(t *testing.T) (*registry.WSConn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	connCh := make(chan *registry.WSConn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- registry.NewWSConn(ws)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	select {
	case conn := <-connCh:
		t.Cleanup(func() { _ = conn.Close() })
		return conn, client
	case <-time.After(2 * time.Second):
		t.Fatal("server connection not established")
		return nil, nil
	}
}

func TestWSConnReceive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("receives binary frames", func(t *testing.T) {
		t.Parallel()

		conn, client := dialWSConn(t)
		require.NoError(t, client.WriteMessage(websocket.BinaryMessage, []byte{0x4f, 0x67, 0x67}))

		data, err := conn.ReceiveBytes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x4f, 0x67, 0x67}, data)
	})

	t.Run("text timeout returns empty without error", func(t *testing.T) {
		t.Parallel()

		conn, _ := dialWSConn(t)
		start := time.Now()
		text, err := conn.ReceiveText(ctx, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Empty(t, text)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("receives text within the window", func(t *testing.T) {
		t.Parallel()

		conn, client := dialWSConn(t)
		require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("def solve():")))

		text, err := conn.ReceiveText(ctx, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "def solve():", text)
	})

	t.Run("receive on closed peer fails fast", func(t *testing.T) {
		t.Parallel()

		conn, client := dialWSConn(t)
		require.NoError(t, client.Close())

		deadline, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		_, err := conn.ReceiveBytes(deadline)
		assert.ErrorIs(t, err, registry.ErrConnClosed)
	})

	t.Run("receive respects context cancellation", func(t *testing.T) {
		t.Parallel()

		conn, _ := dialWSConn(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := conn.ReceiveBytes(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWSConnSend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trips text and bytes", func(t *testing.T) {
		t.Parallel()

		conn, client := dialWSConn(t)

		require.NoError(t, conn.SendText(ctx, "Problem 1: two sum --"))
		msgType, data, err := client.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, msgType)
		assert.Equal(t, "Problem 1: two sum --", string(data))

		require.NoError(t, conn.SendBytes(ctx, []byte{1, 2, 3}))
		msgType, data, err = client.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.BinaryMessage, msgType)
		assert.Equal(t, []byte{1, 2, 3}, data)
	})

	t.Run("send after close fails fast", func(t *testing.T) {
		t.Parallel()

		conn, _ := dialWSConn(t)
		require.NoError(t, conn.Close())

		// The read pump needs a moment to observe the close.
		assert.Eventually(t, func() bool {
			return conn.SendText(ctx, "late") != nil
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		conn, _ := dialWSConn(t)
		require.NoError(t, conn.Close())
		assert.NotPanics(t, func() { _ = conn.Close() })
	})
}
