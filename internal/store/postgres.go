package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"routeopt/internal/model"
)

// Postgres persists solve records and webhook state. Result bundles are
// stored as jsonb: they are read back whole, never queried field by field.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Migrate creates the schema when missing. Dev helper, same spirit as
// running migrations on boot.
func (p *Postgres) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS solves (
			id uuid PRIMARY KEY,
			created_at timestamptz NOT NULL DEFAULT now(),
			request jsonb NOT NULL,
			result jsonb NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id uuid PRIMARY KEY,
			url text NOT NULL,
			events jsonb NOT NULL,
			secret text NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS webhook_deliveries (
			id uuid PRIMARY KEY,
			subscription_id uuid NOT NULL,
			event_type text NOT NULL,
			url text NOT NULL,
			secret text NOT NULL DEFAULT '',
			payload jsonb NOT NULL,
			status text NOT NULL DEFAULT 'pending',
			attempts int NOT NULL DEFAULT 0,
			next_attempt_at timestamptz NOT NULL DEFAULT now(),
			last_error text NOT NULL DEFAULT '',
			response_code int NOT NULL DEFAULT 0,
			latency_ms int NOT NULL DEFAULT 0,
			created_at timestamptz NOT NULL DEFAULT now(),
			delivered_at timestamptz
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_due ON webhook_deliveries (status, next_attempt_at)`,
	}
	for _, s := range stmts {
		if _, err := p.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (p *Postgres) SaveSolve(ctx context.Context, req model.SolveRequest, result *model.SolveResult) (SolveRecord, error) {
	rec := SolveRecord{ID: uuid.New().String(), CreatedAt: time.Now().UTC(), Request: req, Result: result}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return SolveRecord{}, err
	}
	resJSON, err := json.Marshal(result)
	if err != nil {
		return SolveRecord{}, err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO solves (id, created_at, request, result) VALUES ($1,$2,$3,$4)`,
		rec.ID, rec.CreatedAt, reqJSON, resJSON)
	if err != nil {
		return SolveRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) GetSolve(ctx context.Context, id string) (SolveRecord, error) {
	var rec SolveRecord
	var reqJSON, resJSON []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT id::text, created_at, request, result FROM solves WHERE id=$1`, id).
		Scan(&rec.ID, &rec.CreatedAt, &reqJSON, &resJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return SolveRecord{}, ErrNotFound
	}
	if err != nil {
		return SolveRecord{}, err
	}
	if err := json.Unmarshal(reqJSON, &rec.Request); err != nil {
		return SolveRecord{}, err
	}
	if err := json.Unmarshal(resJSON, &rec.Result); err != nil {
		return SolveRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) ListSolves(ctx context.Context, cursor string, limit int) ([]SolveSummary, string, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT id::text, created_at,
			(result->'clustering'->>'total_clusters')::int,
			(result->'summary'->>'distance_after')::float8
		FROM solves`
	args := []any{}
	if cursor != "" {
		q += ` WHERE created_at < (SELECT created_at FROM solves WHERE id=$1)`
		args = append(args, cursor)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit+1)
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var out []SolveSummary
	for rows.Next() {
		var s SolveSummary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Clusters, &s.DistanceAfter); err != nil {
			return nil, "", err
		}
		out = append(out, s)
	}
	next := ""
	if len(out) > limit {
		out = out[:limit]
		next = out[limit-1].ID
	}
	return out, next, rows.Err()
}

func (p *Postgres) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	s := model.Subscription{ID: uuid.New().String(), URL: req.URL, Events: req.Events, Secret: req.Secret}
	events, err := json.Marshal(req.Events)
	if err != nil {
		return model.Subscription{}, err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, url, events, secret) VALUES ($1,$2,$3,$4)`,
		s.ID, s.URL, events, s.Secret)
	if err != nil {
		return model.Subscription{}, err
	}
	return s, nil
}

func (p *Postgres) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, url, events, secret FROM subscriptions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

func (p *Postgres) GetSubscriptionsForEvent(ctx context.Context, eventType string) ([]model.Subscription, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id::text, url, events, secret FROM subscriptions WHERE events @> to_jsonb(ARRAY[$1::text]) OR events @> '["*"]'`,
		eventType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

func scanSubscriptions(rows *sql.Rows) ([]model.Subscription, error) {
	var out []model.Subscription
	for rows.Next() {
		var s model.Subscription
		var events []byte
		if err := rows.Scan(&s.ID, &s.URL, &events, &s.Secret); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(events, &s.Events); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) DeleteSubscription(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) EnqueueWebhook(ctx context.Context, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	id := uuid.New().String()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO webhook_deliveries (id, subscription_id, event_type, url, secret, payload) VALUES ($1,$2,$3,$4,$5,$6)`,
		id, subscriptionID, eventType, url, secret, payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id::text, subscription_id::text, event_type, url, secret, payload, status, attempts
		 FROM webhook_deliveries
		 WHERE status='pending' AND next_attempt_at <= now()
		 ORDER BY next_attempt_at LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WebhookDelivery
	for rows.Next() {
		var d WebhookDelivery
		if err := rows.Scan(&d.ID, &d.SubscriptionID, &d.EventType, &d.URL, &d.Secret, &d.Payload, &d.Status, &d.Attempts); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode, latencyMs int) error {
	if success {
		_, err := p.db.ExecContext(ctx,
			`UPDATE webhook_deliveries SET status='delivered', attempts=attempts+1, last_error=$2, response_code=$3, latency_ms=$4, delivered_at=now() WHERE id=$1`,
			id, lastError, responseCode, latencyMs)
		return err
	}
	var next time.Time
	if nextAttemptAt != nil {
		next = *nextAttemptAt
	} else {
		next = time.Now().Add(time.Minute)
	}
	_, err := p.db.ExecContext(ctx,
		`UPDATE webhook_deliveries SET attempts=attempts+1, next_attempt_at=$2, last_error=$3, response_code=$4, latency_ms=$5 WHERE id=$1`,
		id, next, lastError, responseCode, latencyMs)
	return err
}

func (p *Postgres) FailWebhookDelivery(ctx context.Context, id, lastError string, responseCode, latencyMs int) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE webhook_deliveries SET status='failed', attempts=attempts+1, last_error=$2, response_code=$3, latency_ms=$4 WHERE id=$1`,
		id, lastError, responseCode, latencyMs)
	return err
}
