// Package recorder records application events and reads them back for the
// activity feed.
//
// A Recorder validates each event against the type registry, writes it through
// the store, then runs the hooks registered for its type and announces it on
// the message bus. Reads return formatted events with the type descriptor,
// the decoded payload and the acting user attached.
package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/alfredjeanlab/eventlog/internal/events"
	"github.com/alfredjeanlab/eventlog/internal/hooks"
	"github.com/alfredjeanlab/eventlog/internal/identity"
	"github.com/alfredjeanlab/eventlog/internal/model"
	"github.com/alfredjeanlab/eventlog/internal/observability"
	"github.com/alfredjeanlab/eventlog/internal/registry"
	"github.com/alfredjeanlab/eventlog/internal/store"
)

// Recorder creates, deletes and reads events.
type Recorder struct {
	store      store.Store
	registry   *registry.Registry
	hooks      *hooks.Dispatcher
	publisher  events.Publisher
	production bool
	logger     *slog.Logger
	now        func() time.Time
	metrics    observability.Metrics
	tracer     *observability.Tracer
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithPublisher sets the bus publisher. The default discards messages.
func WithPublisher(p events.Publisher) Option {
	return func(r *Recorder) { r.publisher = p }
}

// WithProduction marks the deployment as production, which enables the
// impersonation guard on Create.
func WithProduction(prod bool) Option {
	return func(r *Recorder) { r.production = prod }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// WithClock overrides the time source used for relative recorded dates.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m observability.Metrics) Option {
	return func(r *Recorder) { r.metrics = m }
}

// WithTracer sets the tracer.
func WithTracer(t *observability.Tracer) Option {
	return func(r *Recorder) { r.tracer = t }
}

// New returns a Recorder over st. reg is the type taxonomy; d may be nil when
// no hooks should run.
func New(st store.Store, reg *registry.Registry, d *hooks.Dispatcher, opts ...Option) *Recorder {
	r := &Recorder{
		store:     st,
		registry:  reg,
		hooks:     d,
		publisher: events.NoopPublisher{},
		logger:    slog.Default(),
		now:       time.Now,
		metrics:   observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = observability.NewTracer(nil)
	}
	return r
}

// SyncTypes writes every registered type to storage so events can reference
// them. It is called once at startup.
func (r *Recorder) SyncTypes(ctx context.Context) error {
	types := r.registry.All()
	if err := r.store.SyncTypes(ctx, types); err != nil {
		return fmt.Errorf("sync event types: %w", err)
	}
	r.logger.Debug("recorder: synced event types", "count", len(types))
	return nil
}

// CreateParams describes an event to record.
type CreateParams struct {
	// Type is the registered event type slug.
	Type string
	// Data is the payload, stored as JSON. nil stores NULL. A json.RawMessage
	// is stored as given.
	Data any
	// CreatedBy credits the event to a user. 0 falls back to the actor in
	// the context.
	CreatedBy int64
	// Ref is an optional id of the object the event concerns. 0 stores NULL.
	Ref int64
	// Recorded backdates the event, parsed by model.ParseRecorded. Empty
	// uses the storage time.
	Recorded string
}

// Create records an event and returns its id.
//
// In production, an impersonated actor records nothing and Create returns
// (0, nil). An unregistered type returns model.ErrUnrecognisedType, which
// callers should treat as a programming error. A failed write returns
// model.ErrNotCreated. Hooks run after the insert, each on its own copy of
// the record; their failures are logged and never affect the result.
func (r *Recorder) Create(ctx context.Context, p CreateParams) (id int64, err error) {
	ctx, span := r.tracer.Start(ctx, "recorder.create", attribute.String("event.type", p.Type))
	defer func() { observability.End(span, err) }()

	who := identity.FromContext(ctx)
	if r.production && who.Impersonating() {
		r.logger.Debug("recorder: skipping event recorded while impersonating", "type", p.Type, "actor", who.String())
		r.metrics.EventSkipped(ctx, p.Type, "impersonating")
		return 0, nil
	}

	rec, et, err := r.prepare(ctx, p, who)
	if err != nil {
		return 0, err
	}

	id, err = r.insert(ctx, rec, et)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	if id <= 0 {
		return 0, model.ErrNotCreated
	}
	rec.ID = id
	r.metrics.EventCreated(ctx, rec.Type)
	msg := r.createdMessage(rec)

	if r.hooks != nil && len(et.Hooks) > 0 {
		n := r.hooks.Fire(ctx, rec.Type, et.Hooks, rec)
		observability.AddEvent(ctx, "hooks.fired",
			attribute.Int("hooks", len(et.Hooks)),
			attribute.Int("succeeded", n),
		)
	}

	if err := r.publisher.Publish(ctx, events.TopicEventCreated, msg); err != nil {
		r.logger.Warn("recorder: publish failed", "topic", events.TopicEventCreated, "id", id, "err", err)
	}
	return id, nil
}

// insert writes rec. A registered type without a storage row (registered
// after SyncTypes ran) is synced and the insert retried once.
func (r *Recorder) insert(ctx context.Context, rec *model.Record, et *model.EventType) (int64, error) {
	start := time.Now()
	id, err := r.store.InsertEvent(ctx, rec)
	if errors.Is(err, model.ErrNotCreated) {
		if serr := r.store.SyncTypes(ctx, []*model.EventType{et}); serr != nil {
			r.logger.Warn("recorder: sync late type failed", "type", et.Slug, "err", serr)
		} else {
			id, err = r.store.InsertEvent(ctx, rec)
		}
	}
	r.metrics.RecordQuery(ctx, "insert", time.Since(start), err)
	return id, err
}

// prepare validates p and builds the row to insert.
func (r *Recorder) prepare(ctx context.Context, p CreateParams, who identity.Identity) (*model.Record, *model.EventType, error) {
	if p.Type == "" {
		return nil, nil, model.NewValidationError("type", "Event type not defined.")
	}
	et, ok := r.registry.Lookup(p.Type)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", model.ErrUnrecognisedType, p.Type)
	}

	rec := &model.Record{
		Type: p.Type,
		URL:  identity.Origin(ctx),
	}

	switch {
	case p.CreatedBy != 0:
		createdBy := p.CreatedBy
		rec.CreatedBy = &createdBy
	case who.ActorID != nil:
		actor := *who.ActorID
		rec.CreatedBy = &actor
	}

	data, err := encodeData(p.Data)
	if err != nil {
		return nil, nil, model.NewValidationError("data", err.Error())
	}
	rec.Data = data

	// A zero ref is indistinguishable from "no ref" and is stored as NULL.
	if p.Ref != 0 {
		ref := p.Ref
		rec.Ref = &ref
	}

	if p.Recorded != "" {
		t, err := model.ParseRecorded(p.Recorded, r.now().UTC())
		if err != nil {
			return nil, nil, model.NewValidationError("recorded", err.Error())
		}
		t = t.UTC()
		rec.Created = &t
	}

	return rec, et, nil
}

func encodeData(v any) (json.RawMessage, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		if len(d) == 0 {
			return nil, nil
		}
		if !json.Valid(d) {
			return nil, errors.New("invalid JSON payload")
		}
		return d, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return b, nil
}

// createdMessage builds the bus notification for rec.
func (r *Recorder) createdMessage(rec *model.Record) events.EventCreated {
	created := r.now().UTC()
	if rec.Created != nil {
		created = *rec.Created
	}
	rec = rec.Clone()
	return events.EventCreated{
		ID:        rec.ID,
		Type:      rec.Type,
		CreatedBy: rec.CreatedBy,
		URL:       rec.URL,
		Data:      decodeData(rec.Data),
		Ref:       rec.Ref,
		Created:   created,
	}
}

// Destroy deletes the event with id.
func (r *Recorder) Destroy(ctx context.Context, id int64) (err error) {
	ctx, span := r.tracer.Start(ctx, "recorder.destroy", attribute.Int64("event.id", id))
	defer func() { observability.End(span, err) }()

	if id <= 0 {
		return model.NewValidationError("id", "Event ID not defined.")
	}

	start := time.Now()
	err = r.store.DeleteEvent(ctx, id)
	r.metrics.RecordQuery(ctx, "delete", time.Since(start), err)
	if err != nil {
		return err
	}
	r.metrics.EventDeleted(ctx)

	if err := r.publisher.Publish(ctx, events.TopicEventDeleted, events.EventDeleted{ID: id}); err != nil {
		r.logger.Warn("recorder: publish failed", "topic", events.TopicEventDeleted, "id", id, "err", err)
	}
	return nil
}
