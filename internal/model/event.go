package model

import (
	"encoding/json"
	"time"
)

// Event is a formatted event record as returned to readers of the log.
type Event struct {
	ID      int64      `json:"id"`
	Type    *EventType `json:"type"`
	URL     string     `json:"url,omitempty"`
	Data    any        `json:"data"`
	Ref     *int64     `json:"ref"`
	Created time.Time  `json:"created"`
	User    Actor      `json:"user"`
}

// Actor is the user credited with an event. A nil ID means the event was
// originated by the system.
type Actor struct {
	ID         *int64 `json:"id"`
	Email      string `json:"email,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	ProfileImg string `json:"profile_img,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

// Record is the prepared row written for a new event. It is also the value
// handed to hooks once the insert succeeded, at which point ID is set.
type Record struct {
	ID        int64           `json:"id,omitempty"`
	Type      string          `json:"type"`
	CreatedBy *int64          `json:"created_by"`
	URL       string          `json:"url"`
	Data      json.RawMessage `json:"data"`
	Ref       *int64          `json:"ref"`
	Created   *time.Time      `json:"created,omitempty"` // nil = storage default time
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.CreatedBy != nil {
		v := *r.CreatedBy
		c.CreatedBy = &v
	}
	if r.Ref != nil {
		v := *r.Ref
		c.Ref = &v
	}
	if r.Created != nil {
		v := *r.Created
		c.Created = &v
	}
	if r.Data != nil {
		c.Data = append(json.RawMessage(nil), r.Data...)
	}
	return &c
}

// Row is a raw event row joined with the actor's identity columns.
type Row struct {
	ID         int64
	Type       string
	URL        string
	Data       *string
	Ref        *int64
	Created    time.Time
	CreatedBy  *int64
	Email      string
	FirstName  string
	LastName   string
	ProfileImg string
	Gender     string
}
