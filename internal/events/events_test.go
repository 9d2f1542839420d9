package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = NoopPublisher{}
	if err := pub.Publish(context.Background(), TopicEventCreated, EventCreated{}); err != nil {
		t.Fatalf("NoopPublisher.Publish returned unexpected error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("NoopPublisher.Close returned unexpected error: %v", err)
	}
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicEventCreated, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	actor := int64(7)
	event := EventCreated{ID: 42, Type: "user_login", CreatedBy: &actor, Data: map[string]any{"ip": "10.0.0.1"}}
	if err := pub.Publish(context.Background(), TopicEventCreated, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		if ct := msg.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var got EventCreated
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.ID != 42 || got.Type != "user_login" {
			t.Errorf("got %+v, want id=42 type=user_login", got)
		}
		if got.CreatedBy == nil || *got.CreatedBy != 7 {
			t.Errorf("created_by = %v, want 7", got.CreatedBy)
		}
		if got.Ref != nil {
			t.Errorf("ref = %v, want nil", *got.Ref)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_PublishBothTopics(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 2)
	sub, err := nc.ChanSubscribe(TopicAll, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	if err := pub.Publish(context.Background(), TopicEventCreated, EventCreated{ID: 1}); err != nil {
		t.Fatalf("Publish created: %v", err)
	}
	if err := pub.Publish(context.Background(), TopicEventDeleted, EventDeleted{ID: 1}); err != nil {
		t.Fatalf("Publish deleted: %v", err)
	}
	pub.conn.Flush()

	var subjects []string
	for i := 0; i < 2; i++ {
		select {
		case msg := <-ch:
			subjects = append(subjects, msg.Subject)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
	if subjects[0] != TopicEventCreated || subjects[1] != TopicEventDeleted {
		t.Errorf("subjects = %v", subjects)
	}
}

func TestNATSPublisher_CancelledContext(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.Publish(ctx, TopicEventCreated, EventCreated{}); err == nil {
		t.Error("expected error publishing with a cancelled context")
	}
}

func TestNATSPublisher_Close(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if err := pub.Publish(context.Background(), TopicEventCreated, EventCreated{}); err == nil {
		t.Error("expected error publishing after close")
	}
}
