package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialUpdates(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/updates?token=" + token
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

func TestUpdatesPingPong(t *testing.T) {
	env := newTestEnv(t, 0)
	token := env.login(t, "alice@example.com")

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, _, err := dialUpdates(t, srv, token)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	var resp map[string]any
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "pong", resp["type"])
}

func TestUpdatesAnnouncesMutations(t *testing.T) {
	env := newTestEnv(t, 0)
	token := env.login(t, "alice@example.com")

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, _, err := dialUpdates(t, srv, token)
	require.NoError(t, err)
	defer conn.Close()

	// The pong proves the connection is registered before mutating.
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	var pong map[string]any
	require.NoError(t, conn.ReadJSON(&pong))

	w := env.do(t, http.MethodPost, "/v1/messages", token, map[string]string{"text": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var event map[string]string
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, map[string]string{"type": "changed", "store": "messages"}, event)
}

func TestUpdatesRejectsStaleToken(t *testing.T) {
	env := newTestEnv(t, 0)
	stale := env.login(t, "alice@example.com")
	env.login(t, "bob@example.com")

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	_, resp, err := dialUpdates(t, srv, stale)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
