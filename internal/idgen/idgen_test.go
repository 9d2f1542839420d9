package idgen

import (
	"regexp"
	"strings"
	"testing"
)

var batchPattern = regexp.MustCompile(`^exp-[a-zA-Z0-9]{12}$`)

func TestBatchID(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := BatchID()
		if err != nil {
			t.Fatalf("BatchID() error on iteration %d: %v", i, err)
		}
		if !batchPattern.MatchString(id) {
			t.Fatalf("BatchID() = %q, does not match %s", id, batchPattern)
		}
	}
}

func TestBatchID_Unique(t *testing.T) {
	const count = 5_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := BatchID()
		if err != nil {
			t.Fatalf("BatchID() error: %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestNew(t *testing.T) {
	id, err := New("tail-", 6)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !strings.HasPrefix(id, "tail-") || len(id) != len("tail-")+6 {
		t.Errorf("New(%q, 6) = %q", "tail-", id)
	}
}

func TestNew_BadLength(t *testing.T) {
	if _, err := New("x-", 0); err == nil {
		t.Fatal("New with zero length: expected error")
	}
}
