package api

import (
	"sync"
)

// SolveEvent is one progress or completion event for a solve run.
type SolveEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan SolveEvent]struct{} // solveId -> set of channels
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan SolveEvent]struct{}{}}
}

func (b *Broker) Subscribe(solveID string) chan SolveEvent {
	ch := make(chan SolveEvent, 8)
	b.mu.Lock()
	if b.subs[solveID] == nil {
		b.subs[solveID] = map[chan SolveEvent]struct{}{}
	}
	b.subs[solveID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(solveID string, ch chan SolveEvent) {
	b.mu.Lock()
	if m := b.subs[solveID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(b.subs, solveID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

func (b *Broker) Publish(solveID string, evt SolveEvent) {
	b.mu.Lock()
	for ch := range b.subs[solveID] {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
