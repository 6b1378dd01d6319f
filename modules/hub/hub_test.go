package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspiration-poster-server/modules/poster"
)

func dialTestHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestHubBroadcastsStatusTransitions(t *testing.T) {
	h := NewHub()
	conn := dialTestHub(t, h)

	require.Eventually(t, func() bool {
		return h.Watchers() == 1
	}, time.Second, 10*time.Millisecond)

	h.OnStatus("run-1", poster.StatusGeneratingText)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event StatusEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "generation_status", event.Type)
	assert.Equal(t, "run-1", event.RunID)
	assert.Equal(t, poster.StatusGeneratingText, event.Status)
}

func TestHubRemovesDisconnectedWatchers(t *testing.T) {
	h := NewHub()
	conn := dialTestHub(t, h)

	require.Eventually(t, func() bool {
		return h.Watchers() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return h.Watchers() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubBroadcastWithoutWatchers(t *testing.T) {
	h := NewHub()

	// must not block or panic with nobody connected
	h.OnStatus("run-1", poster.StatusComplete)
	assert.Equal(t, 0, h.Watchers())
}
