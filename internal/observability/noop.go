package observability

import (
	"context"
	"time"
)

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

func (NoopMetrics) EventCreated(context.Context, string)                       {}
func (NoopMetrics) EventSkipped(context.Context, string, string)               {}
func (NoopMetrics) EventDeleted(context.Context)                               {}
func (NoopMetrics) HookFired(context.Context, string, error)                   {}
func (NoopMetrics) RecordQuery(context.Context, string, time.Duration, error) {}
