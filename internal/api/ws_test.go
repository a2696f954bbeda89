package api

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

func TestSolveEventsWebSocketStream(t *testing.T) {
	s, _ := newTestServer()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/solves/", s.SolveByIDHandler)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/solves/abc/events/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello SolveEvent
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "hello", hello.Type)
	assert.Equal(t, "abc", hello.Data["solveId"])

	// subscriber is registered before the hello frame is written
	s.Broker.Publish("abc", SolveEvent{Type: "solve.completed", Data: map[string]any{"solveId": "abc"}})

	var evt SolveEvent
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "solve.completed", evt.Type)
}
