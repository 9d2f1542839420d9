// Package archive exports the event log as JSONL and ships it to S3 or a git
// repository, on demand or on a schedule.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/eventlog/internal/idgen"
	"github.com/alfredjeanlab/eventlog/internal/model"
)

// pageSize is the number of events fetched per query while exporting.
const pageSize = 500

// Source is the event reader an export pulls from. *recorder.Recorder
// satisfies it.
type Source interface {
	GetAll(ctx context.Context, f model.EventFilter) ([]*model.Event, error)
}

// Header is the first JSONL record of an export.
type Header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	BatchID    string    `json:"batch_id"`
	Timestamp  time.Time `json:"timestamp"`
	EventCount int       `json:"event_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string       `json:"type"`
	Data *model.Event `json:"data"`
}

// ExportJSONL writes every event from src to w as JSONL, oldest first, after
// a header line. It returns the header that was written.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) (*Header, error) {
	var all []*model.Event
	for page := 1; ; page++ {
		batch, err := src.GetAll(ctx, model.EventFilter{Sort: "id", Page: page, PerPage: pageSize})
		if err != nil {
			return nil, fmt.Errorf("list events page %d: %w", page, err)
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			break
		}
	}

	batchID, err := idgen.BatchID()
	if err != nil {
		return nil, err
	}
	h := &Header{
		Version:    "1",
		Type:       "header",
		BatchID:    batchID,
		Timestamp:  time.Now().UTC(),
		EventCount: len(all),
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(h); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	for _, ev := range all {
		if err := enc.Encode(record{Type: "event", Data: ev}); err != nil {
			return nil, fmt.Errorf("encode event %d: %w", ev.ID, err)
		}
	}
	return h, nil
}
