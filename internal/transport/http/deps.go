package http

import (
	"context"

	"github.com/campus-explorer-api/internal/application/campus"
	"github.com/campus-explorer-api/internal/application/session"
	"github.com/campus-explorer-api/internal/metrics"
	"github.com/campus-explorer-api/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// ConsoleRegistry is the minimal interface the router requires from the console registry.
type ConsoleRegistry interface {
	Get(consoleID string) (*session.Authority, bool)
	Create(ctx context.Context) (string, *session.Authority, error)
}

// Deps holds everything the router wires into handlers.
type Deps struct {
	Consoles ConsoleRegistry
	Campus   campus.Service
	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer
}

// registryStore adapts the registry to the middleware's ConsoleStore.
type registryStore struct {
	consoles ConsoleRegistry
}

func (s registryStore) Lookup(consoleID string) (middleware.Console, bool) {
	a, ok := s.consoles.Get(consoleID)
	if !ok {
		return nil, false
	}
	return a, true
}

func (s registryStore) Open(ctx context.Context) (string, middleware.Console, error) {
	consoleID, a, err := s.consoles.Create(ctx)
	if err != nil {
		return "", nil, err
	}
	return consoleID, a, nil
}
