package store

import (
	"context"
	"errors"
	"time"

	"routeopt/internal/model"
)

// ErrNotFound is returned for lookups of unknown ids.
var ErrNotFound = errors.New("not found")

// SolveRecord is one persisted pipeline run: the request that produced it
// and the full result bundle.
type SolveRecord struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Request   model.SolveRequest `json:"request"`
	Result    *model.SolveResult `json:"result"`
}

// SolveSummary is the list-view projection of a record.
type SolveSummary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Clusters      int       `json:"clusters"`
	DistanceAfter float64   `json:"distance_after"`
}

// WebhookDelivery is one queued webhook attempt.
type WebhookDelivery struct {
	ID             string
	SubscriptionID string
	EventType      string
	URL            string
	Secret         string
	Payload        []byte
	Status         string
	Attempts       int
}

// Store is the persistence interface used by the API server.
type Store interface {
	// Solve results
	SaveSolve(ctx context.Context, req model.SolveRequest, result *model.SolveResult) (SolveRecord, error)
	GetSolve(ctx context.Context, id string) (SolveRecord, error)
	ListSolves(ctx context.Context, cursor string, limit int) ([]SolveSummary, string, error)

	// Webhook subscriptions
	CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
	GetSubscriptionsForEvent(ctx context.Context, eventType string) ([]model.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error

	// Webhook delivery queue
	EnqueueWebhook(ctx context.Context, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id, lastError string, responseCode, latencyMs int) error
}

// Summarize projects a record for list responses.
func Summarize(rec SolveRecord) SolveSummary {
	s := SolveSummary{ID: rec.ID, CreatedAt: rec.CreatedAt}
	if rec.Result != nil {
		s.Clusters = rec.Result.Clustering.TotalClusters
		s.DistanceAfter = rec.Result.Summary.DistanceAfter
	}
	return s
}
