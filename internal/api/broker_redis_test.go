package api

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisBroker(t *testing.T) *RedisBroker {
	t.Helper()
	m := miniredis.RunT(t)
	t.Setenv("REDIS_URL", "redis://"+m.Addr())
	b, err := NewRedisBroker()
	require.NoError(t, err)
	return b
}

func recvEvent(t *testing.T, ch chan SolveEvent) SolveEvent {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "channel closed before event arrived")
		return evt
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return SolveEvent{}
	}
}

func TestRedisBrokerPublishSubscribe(t *testing.T) {
	b := newTestRedisBroker(t)
	ch := b.Subscribe("s1")
	defer b.Unsubscribe("s1", ch)

	b.Publish("s1", SolveEvent{Type: "solve.completed", Data: map[string]any{"solveId": "s1"}})
	evt := recvEvent(t, ch)
	assert.Equal(t, "solve.completed", evt.Type)
	assert.Equal(t, "s1", evt.Data["solveId"])
}

func TestRedisBrokerUnsubscribeClosesChannelOnce(t *testing.T) {
	b := newTestRedisBroker(t)
	ch := b.Subscribe("s1")
	b.Unsubscribe("s1", ch)

	// the reader goroutine owns the close; wait for it
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}

	// publishing after unsubscribe must not panic the reader
	b.Publish("s1", SolveEvent{Type: "solve.completed"})
	time.Sleep(50 * time.Millisecond)

	// a second unsubscribe for the same channel is a no-op
	b.Unsubscribe("s1", ch)
}

func TestRedisBrokerIndependentSubscribers(t *testing.T) {
	b := newTestRedisBroker(t)
	ch1 := b.Subscribe("s1")
	ch2 := b.Subscribe("s1")

	b.Unsubscribe("s1", ch1)
	select {
	case _, ok := <-ch1:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("first channel not closed")
	}

	// the surviving subscriber still receives events
	b.Publish("s1", SolveEvent{Type: "solve.completed"})
	evt := recvEvent(t, ch2)
	assert.Equal(t, "solve.completed", evt.Type)
	b.Unsubscribe("s1", ch2)
}
