// Package events publishes event log changes to the message bus.
package events

import (
	"context"
	"time"
)

// Topics emitted by the recorder. Subscribers can match both with
// TopicAll.
const (
	TopicEventCreated = "eventlog.event.created"
	TopicEventDeleted = "eventlog.event.deleted"

	TopicAll = "eventlog.>"
)

// EventCreated is published after an event row has been written.
type EventCreated struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	CreatedBy *int64    `json:"created_by"`
	URL       string    `json:"url,omitempty"`
	Data      any       `json:"data"`
	Ref       *int64    `json:"ref"`
	Created   time.Time `json:"created"`
}

// EventDeleted is published after an event row has been removed.
type EventDeleted struct {
	ID int64 `json:"id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
