package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// solveEventsWS streams solve events for one id over a WebSocket. The client
// gets a hello frame, then every event published for the id until it hangs up.
func (s *Server) solveEventsWS(w http.ResponseWriter, r *http.Request, solveID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ch := s.Broker.Subscribe(solveID)
	defer s.Broker.Unsubscribe(solveID, ch)

	hello := SolveEvent{Type: "hello", Data: map[string]any{
		"solveId": solveID,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	}}
	if err := conn.WriteJSON(hello); err != nil {
		return
	}

	// drain client frames so control messages are processed and we notice
	// the peer closing
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(1 << 20)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(20 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case evt := <-ch:
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}
}
