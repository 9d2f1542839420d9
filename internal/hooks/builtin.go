package hooks

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/alfredjeanlab/eventlog/internal/events"
	"github.com/alfredjeanlab/eventlog/internal/model"
)

// Names of the built-in handlers.
const (
	HandlerCommand = "command"
	HandlerPublish = "publish"
	HandlerLog     = "log"
)

// RegisterBuiltins registers the command, publish and log handlers.
func RegisterBuiltins(d *Dispatcher, pub events.Publisher, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	d.Register(HandlerCommand, CommandHandler{})
	d.Register(HandlerPublish, PublishHandler{Publisher: pub})
	d.Register(HandlerLog, LogHandler{Logger: logger})
}

// PublishHandler sends the record to the subject in the "subject" argument,
// defaulting to eventlog.hook.<type>.
type PublishHandler struct {
	Publisher events.Publisher
}

func (h PublishHandler) Handle(ctx context.Context, eventType string, rec *model.Record) error {
	if h.Publisher == nil {
		return nil
	}
	return h.Publisher.Publish(ctx, Arg(ctx, "subject", "eventlog.hook."+eventType), rec)
}

// LogHandler writes a structured log line for the record. Arguments are
// "level" (debug, info, warn or error) and "message".
type LogHandler struct {
	Logger *slog.Logger
}

func (h LogHandler) Handle(ctx context.Context, eventType string, rec *model.Record) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(Arg(ctx, "level", "info")))); err != nil {
		return err
	}
	attrs := []any{"type", eventType, "id", rec.ID}
	if rec.CreatedBy != nil {
		attrs = append(attrs, "created_by", *rec.CreatedBy)
	}
	if rec.URL != "" {
		attrs = append(attrs, "url", rec.URL)
	}
	if len(rec.Data) > 0 && json.Valid(rec.Data) {
		attrs = append(attrs, "data", string(rec.Data))
	}
	h.Logger.Log(ctx, level, Arg(ctx, "message", "event recorded"), attrs...)
	return nil
}
