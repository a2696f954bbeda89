// Package main runs a demo WebSocket client for solve events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

const demoRequest = `{
  "instance": {
    "depot": {"id": 0, "name": "depot", "x": 0, "y": 0, "demand": 0, "time_window": {"start": "08:00", "end": "18:00"}, "service_time": 0},
    "customers": [
      {"id": 1, "name": "c1", "x": 10, "y": 0, "demand": 5, "time_window": {"start": "08:00", "end": "18:00"}, "service_time": 10},
      {"id": 2, "name": "c2", "x": 0, "y": 10, "demand": 5, "time_window": {"start": "08:00", "end": "18:00"}, "service_time": 10}
    ],
    "fleet": [{"id": "van", "capacity": 10, "units": 2}]
  }
}`

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Run one solve to get a record id
	resp, err := http.Post(base+"/v1/solve", "application/json", bytes.NewReader([]byte(demoRequest)))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var solveResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&solveResp); err != nil {
		log.Fatal(err)
	}
	if solveResp.ID == "" {
		log.Fatal("no solve id returned")
	}
	log.Printf("Solve ID: %s", solveResp.ID)

	// Connect WS for its event stream
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/solves/" + solveResp.ID + "/events/ws"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m struct {
				Type string         `json:"type"`
				Data map[string]any `json:"data"`
			}
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			b, _ := json.Marshal(m.Data)
			log.Printf("WS <- %s: %s", m.Type, string(b))
		}
	}()

	// Trigger events via rerun
	time.Sleep(500 * time.Millisecond)
	rr, err := http.Post(fmt.Sprintf("%s/v1/solves/%s/rerun", base, solveResp.ID), "application/json", nil)
	if err == nil {
		_ = rr.Body.Close()
	}

	// Wait briefly to receive a few messages
	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
