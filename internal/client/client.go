// Package client talks to a running eventlog server over its HTTP/JSON API.
package client

import (
	"encoding/json"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// CreateEventRequest holds parameters for recording an event.
type CreateEventRequest struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedBy int64           `json:"created_by,omitempty"`
	Ref       int64           `json:"ref,omitempty"`
	Recorded  string          `json:"recorded,omitempty"`
}

// CreateEventResponse is the result of CreateEvent. Event is nil when the
// server skipped the event.
type CreateEventResponse struct {
	Event   *model.Event
	Skipped bool
}

// ListEventsRequest holds the list and count query parameters.
type ListEventsRequest struct {
	Keywords string
	Filter   string
	OrderBy  string
	Page     int
	PerPage  int
	Type     string
	User     int64
}

// ListEventsResponse is one page of events.
type ListEventsResponse struct {
	Events  []*model.Event `json:"events"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// TypeInfo is a registered event type as listed by the server.
type TypeInfo struct {
	Slug         string `json:"slug"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	DisplayLabel string `json:"display_label"`
	Hooks        int    `json:"hooks"`
}
