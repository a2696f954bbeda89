package api

import (
	"context"
	"os"
	"strings"

	"routeopt/internal/auth"
	"routeopt/internal/config"
	"routeopt/internal/store"
	"routeopt/internal/webhooks"
)

type Server struct {
	Cfg    config.Config
	Store  store.Store
	Pub    *webhooks.Publisher
	Auth   *auth.Verifier
	Broker EventBroker
}

// NewServer wires the store, broker, and publisher. With no DATABASE_URL the
// store is in-memory; with no REDIS_URL events stay process-local.
func NewServer(cfg config.Config) (*Server, error) {
	var s store.Store
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		if os.Getenv("DB_MIGRATE") != "false" {
			if err := sp.Migrate(context.Background()); err != nil {
				return nil, err
			}
		}
		s = sp
	}
	var broker EventBroker
	if os.Getenv("REDIS_URL") != "" {
		if rb, err := NewRedisBroker(); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}
	return &Server{Cfg: cfg, Store: s, Pub: webhooks.NewPublisher(s), Auth: auth.NewVerifierFromEnv(), Broker: broker}, nil
}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
	return webhooks.NewWorker(s.Store)
}
