package ws_test

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

	"github.com/shashiranjanraj/stockroom/pkg/middleware"
	"github.com/shashiranjanraj/stockroom/pkg/ws"
)

func dial(t *testing.T, srv *httptest.Server, topic string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?topic=" + topic
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *ws.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishGoesToTopicOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Upgrade(w, r, r.URL.Query().Get("topic"))
	}))
	defer srv.Close()

	a := dial(t, srv, "session-a")
	b := dial(t, srv, "session-b")
	waitClients(t, hub, 2)

	hub.Publish("session-a", []byte(`{"type":"phase"}`))
	hub.Broadcast([]byte(`{"type":"ping"}`))

	_ = a.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := a.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"phase"}`, string(msg))

	_ = b.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err = b.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ping"}`, string(msg))

	require.NoError(t, a.Close())
	waitClients(t, hub, 1)
}

func dialWithOrigin(srv *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?topic=page"
	return websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{origin}})
}

func TestHub_RejectsForeignOrigins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := middleware.DefaultCORSOptions()
	opts.AllowedOrigins = []string{"https://dash.test"}

	hub := ws.NewHub()
	hub.SetCheckOrigin(opts.CheckOrigin)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Upgrade(w, r, r.URL.Query().Get("topic"))
	}))
	defer srv.Close()

	_, resp, err := dialWithOrigin(srv, "https://evil.test")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dialWithOrigin(srv, "https://dash.test")
	require.NoError(t, err)
	conn.Close()
}

func TestHub_DefaultsToSameOrigin(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Upgrade(w, r, "page")
	}))
	defer srv.Close()

	_, _, err := dialWithOrigin(srv, "https://evil.test")
	assert.Error(t, err)

	conn, _, err := dialWithOrigin(srv, srv.URL)
	require.NoError(t, err)
	conn.Close()
}
