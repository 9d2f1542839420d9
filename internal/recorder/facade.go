package recorder

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrNoDefault is returned by the package-level helpers before SetDefault.
var ErrNoDefault = errors.New("recorder: no default recorder configured")

var defaultRecorder atomic.Pointer[Recorder]

// SetDefault installs r as the recorder used by CreateEvent.
func SetDefault(r *Recorder) {
	defaultRecorder.Store(r)
}

// Default returns the recorder installed by SetDefault, or nil.
func Default() *Recorder {
	return defaultRecorder.Load()
}

// EventOption sets an optional CreateParams field for CreateEvent.
type EventOption func(*CreateParams)

// By credits the event to user id.
func By(userID int64) EventOption {
	return func(p *CreateParams) { p.CreatedBy = userID }
}

// Ref attaches a reference id.
func Ref(id int64) EventOption {
	return func(p *CreateParams) { p.Ref = id }
}

// At backdates the event. See model.ParseRecorded for accepted forms.
func At(recorded string) EventOption {
	return func(p *CreateParams) { p.Recorded = recorded }
}

// CreateEvent records an event on the default recorder.
func CreateEvent(ctx context.Context, eventType string, data any, opts ...EventOption) (int64, error) {
	r := Default()
	if r == nil {
		return 0, ErrNoDefault
	}
	p := CreateParams{Type: eventType, Data: data}
	for _, opt := range opts {
		opt(&p)
	}
	return r.Create(ctx, p)
}

// MustCreateEvent is like CreateEvent but panics if the event cannot be
// recorded.
func MustCreateEvent(ctx context.Context, eventType string, data any, opts ...EventOption) int64 {
	id, err := CreateEvent(ctx, eventType, data, opts...)
	if err != nil {
		panic(err)
	}
	return id
}
