package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"routeopt/internal/model"
)

// Memory is the in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu         sync.Mutex
	solves     map[string]SolveRecord
	solveOrder []string // newest first
	subs       map[string]model.Subscription
	subOrder   []string
	deliveries map[string]*memDelivery
	delOrder   []string
}

// memDelivery augments WebhookDelivery with scheduling state.
type memDelivery struct {
	WebhookDelivery
	NextAttemptAt time.Time
	LastError     string
	ResponseCode  int
	LatencyMs     int
	DeliveredAt   *time.Time
}

func NewMemory() *Memory {
	return &Memory{
		solves:     map[string]SolveRecord{},
		subs:       map[string]model.Subscription{},
		deliveries: map[string]*memDelivery{},
	}
}

func (m *Memory) SaveSolve(ctx context.Context, req model.SolveRequest, result *model.SolveResult) (SolveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := SolveRecord{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Request:   req,
		Result:    result,
	}
	m.solves[rec.ID] = rec
	m.solveOrder = append([]string{rec.ID}, m.solveOrder...)
	return rec, nil
}

func (m *Memory) GetSolve(ctx context.Context, id string) (SolveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.solves[id]
	if !ok {
		return SolveRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListSolves(ctx context.Context, cursor string, limit int) ([]SolveSummary, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	start := 0
	if cursor != "" {
		for i, id := range m.solveOrder {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	var out []SolveSummary
	next := ""
	for i := start; i < len(m.solveOrder); i++ {
		if len(out) == limit {
			next = m.solveOrder[i-1]
			break
		}
		out = append(out, Summarize(m.solves[m.solveOrder[i]]))
	}
	return out, next, nil
}

func (m *Memory) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := model.Subscription{ID: uuid.New().String(), URL: req.URL, Events: req.Events, Secret: req.Secret}
	m.subs[s.ID] = s
	m.subOrder = append(m.subOrder, s.ID)
	return s, nil
}

func (m *Memory) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Subscription, 0, len(m.subOrder))
	for _, id := range m.subOrder {
		out = append(out, m.subs[id])
	}
	return out, nil
}

func (m *Memory) GetSubscriptionsForEvent(ctx context.Context, eventType string) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subscription
	for _, id := range m.subOrder {
		s := m.subs[id]
		for _, e := range s.Events {
			if e == eventType || e == "*" {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) DeleteSubscription(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[id]; !ok {
		return ErrNotFound
	}
	delete(m.subs, id)
	for i, sid := range m.subOrder {
		if sid == id {
			m.subOrder = append(m.subOrder[:i], m.subOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) EnqueueWebhook(ctx context.Context, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	m.deliveries[id] = &memDelivery{
		WebhookDelivery: WebhookDelivery{
			ID:             id,
			SubscriptionID: subscriptionID,
			EventType:      eventType,
			URL:            url,
			Secret:         secret,
			Payload:        payload,
			Status:         "pending",
		},
		NextAttemptAt: time.Now(),
	}
	m.delOrder = append(m.delOrder, id)
	return id, nil
}

func (m *Memory) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	now := time.Now()
	var out []WebhookDelivery
	for _, id := range m.delOrder {
		d := m.deliveries[id]
		if d.Status != "pending" || d.NextAttemptAt.After(now) {
			continue
		}
		out = append(out, d.WebhookDelivery)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return ErrNotFound
	}
	d.Attempts++
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	if success {
		d.Status = "delivered"
		now := time.Now()
		d.DeliveredAt = &now
		return nil
	}
	if nextAttemptAt != nil {
		d.NextAttemptAt = *nextAttemptAt
	}
	return nil
}

func (m *Memory) FailWebhookDelivery(ctx context.Context, id, lastError string, responseCode, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return ErrNotFound
	}
	d.Attempts++
	d.Status = "failed"
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	return nil
}
