package recorder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// GetAll returns the events matching f, newest first unless f.Sort says
// otherwise.
func (r *Recorder) GetAll(ctx context.Context, f model.EventFilter) ([]*model.Event, error) {
	start := time.Now()
	rows, err := r.store.ListEvents(ctx, f)
	r.metrics.RecordQuery(ctx, "list", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Event, len(rows))
	for i, row := range rows {
		out[i] = r.format(row)
	}
	return out, nil
}

// GetByType returns the events of type slug matching f.
func (r *Recorder) GetByType(ctx context.Context, slug string, f model.EventFilter) ([]*model.Event, error) {
	f.Where = append(append([]model.Condition(nil), f.Where...), model.Condition{Column: "type", Value: slug})
	return r.GetAll(ctx, f)
}

// GetByUser returns the events created by user id matching f.
func (r *Recorder) GetByUser(ctx context.Context, userID int64, f model.EventFilter) ([]*model.Event, error) {
	f.Where = append(append([]model.Condition(nil), f.Where...), model.Condition{Column: "created_by", Value: userID})
	return r.GetAll(ctx, f)
}

// GetByID returns a single event, or model.ErrNotFound.
func (r *Recorder) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	start := time.Now()
	row, err := r.store.GetEvent(ctx, id)
	r.metrics.RecordQuery(ctx, "get", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return r.format(row), nil
}

// CountAll counts the events matching f. Pagination fields are ignored.
func (r *Recorder) CountAll(ctx context.Context, f model.EventFilter) (int, error) {
	start := time.Now()
	n, err := r.store.CountEvents(ctx, f)
	r.metrics.RecordQuery(ctx, "count", time.Since(start), err)
	return n, err
}

// Types returns every registered event type in registration order.
func (r *Recorder) Types() []*model.EventType {
	return r.registry.All()
}

// Type returns the registered type slug.
func (r *Recorder) Type(slug string) (*model.EventType, bool) {
	return r.registry.Lookup(slug)
}

// TypesFlat maps each registered slug to its display label.
func (r *Recorder) TypesFlat() map[string]string {
	return r.registry.AllFlat()
}

// format turns a storage row into the read model.
func (r *Recorder) format(row *model.Row) *model.Event {
	et, ok := r.registry.Lookup(row.Type)
	if !ok {
		et = model.UnknownType(row.Type)
	}

	var data any
	if row.Data != nil {
		data = decodeData(json.RawMessage(*row.Data))
	}

	return &model.Event{
		ID:      row.ID,
		Type:    et,
		URL:     row.URL,
		Data:    data,
		Ref:     row.Ref,
		Created: row.Created,
		User: model.Actor{
			ID:         row.CreatedBy,
			Email:      row.Email,
			FirstName:  row.FirstName,
			LastName:   row.LastName,
			ProfileImg: row.ProfileImg,
			Gender:     row.Gender,
		},
	}
}

// decodeData decodes a stored payload. Payloads that are not valid JSON
// predate the JSON column format and are returned as the raw string.
func decodeData(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
