// Package server exposes the event log over HTTP and gRPC.
package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/eventlog/internal/identity"
	"github.com/alfredjeanlab/eventlog/internal/recorder"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the event log API.
type Server struct {
	rec      *recorder.Recorder
	db       Pinger
	verifier *identity.Verifier
	logger   *slog.Logger
}

// New returns a Server for rec. verifier may be nil to disable
// authentication.
func New(rec *recorder.Recorder, db Pinger, verifier *identity.Verifier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{rec: rec, db: db, verifier: verifier, logger: logger}
}
