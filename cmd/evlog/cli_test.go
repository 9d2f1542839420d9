package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/eventlog/internal/hooks"
	"github.com/alfredjeanlab/eventlog/internal/model"
	"github.com/alfredjeanlab/eventlog/internal/registry"
	"github.com/alfredjeanlab/eventlog/internal/ui"
)

func TestFilterFromFlags(t *testing.T) {
	fs := listCmd.Flags()
	t.Cleanup(func() {
		for _, name := range []string{"keywords", "filter", "order-by", "page", "per-page"} {
			f := fs.Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})

	if err := fs.Parse([]string{
		"--keywords", "login", "--filter", `type = "user_login"`,
		"--order-by", "created desc", "--page", "2", "--per-page", "10",
	}); err != nil {
		t.Fatal(err)
	}
	f := filterFromFlags(fs)
	if f.Keywords != "login" || f.Expr != `type = "user_login"` || f.Sort != "created desc" {
		t.Errorf("unexpected filter: %+v", f)
	}
	if f.Page != 2 || f.PerPage != 10 {
		t.Errorf("page = %d, per_page = %d; want 2, 10", f.Page, f.PerPage)
	}
}

func TestFilterFromFlags_CountHasNoPaging(t *testing.T) {
	f := filterFromFlags(countCmd.Flags())
	if f.Page != 0 || f.PerPage != 0 || f.Sort != "" {
		t.Errorf("count filter should not page or sort: %+v", f)
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	if _, err := parseID("abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestActorLabel(t *testing.T) {
	ui.SetColor(false)
	id := int64(7)
	if got := actorLabel(&id, "bob@example.com"); got != "#7 bob@example.com" {
		t.Errorf("actorLabel = %q", got)
	}
	if got := actorLabel(&id, ""); got != "#7" {
		t.Errorf("actorLabel = %q", got)
	}
	if got := actorLabel(nil, ""); got != "system" {
		t.Errorf("actorLabel(nil) = %q", got)
	}
}

func TestDataSummary(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"legacy", "legacy"},
		{map[string]any{"a": 1.0}, `{"a":1}`},
		{[]any{1.0, "x"}, `[1,"x"]`},
	}
	for _, tt := range tests {
		if got := dataSummary(tt.in); got != tt.want {
			t.Errorf("dataSummary(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate(strings.Repeat("x", 20), 10); got != "xxxxxxx..." {
		t.Errorf("truncate = %q", got)
	}
}

func TestFormatBusMessage(t *testing.T) {
	ui.SetColor(false)

	created := `{"id":3,"type":"user_login","created_by":9,"url":"/login","data":null,"ref":null,"created":"2024-05-01T10:00:00Z"}`
	got := formatBusMessage([]byte(created))
	want := "2024-05-01 10:00:00 #3 user_login by #9 /login"
	if got != want {
		t.Errorf("created = %q, want %q", got, want)
	}

	if got := formatBusMessage([]byte(`{"id":4}`)); got != "deleted #4" {
		t.Errorf("deleted = %q", got)
	}

	if got := formatBusMessage([]byte("not json")); !strings.HasPrefix(got, "unreadable message") {
		t.Errorf("bad message = %q", got)
	}
}

func TestColorizeHelpOutput(t *testing.T) {
	ui.SetColor(true)
	t.Cleanup(func() { ui.SetColor(false) })

	in := "Usage:\n  evlog <command>\n\nEvents:\n  create      Record an event\n\nFlags:\n      --by int   user id (default 0)\n"
	out := colorizeHelpOutput(in)

	if !strings.Contains(out, "Usage:\n") {
		t.Error("Usage header should stay unstyled")
	}
	if !strings.Contains(out, ui.RenderType("Events:")) {
		t.Error("group header not styled")
	}
	if !strings.Contains(out, ui.RenderID("create")) {
		t.Error("command name not styled")
	}
	if !strings.Contains(out, ui.RenderMuted("int")) {
		t.Error("flag type not styled")
	}
}

func TestTimeLayout(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := ts.Format(timeLayout); got != "2024-01-02 03:04:05" {
		t.Errorf("format = %q", got)
	}
}

func TestListRequest(t *testing.T) {
	f := model.EventFilter{Keywords: "k", Expr: "ref > 1", Sort: "id", Page: 3, PerPage: 20}
	req := listRequest(f, "user_login", 5)
	if req.Keywords != "k" || req.Filter != "ref > 1" || req.OrderBy != "id" {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.Page != 3 || req.PerPage != 20 || req.Type != "user_login" || req.User != 5 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestRemote(t *testing.T) {
	old := serverURL
	t.Cleanup(func() { serverURL = old })

	serverURL = ""
	if remote() != nil {
		t.Error("expected no client without --server")
	}
	serverURL = "http://localhost:8080"
	if remote() == nil {
		t.Error("expected a client with --server")
	}
}

func TestCheckHooks(t *testing.T) {
	reg := registry.New()
	reg.RegisterType("user_login", "", "",
		model.HookSpec{Handler: "known"},
		model.HookSpec{Handler: "nowhere"},
		model.HookSpec{Handler: "known", When: "data.total >"},
	)
	disp := hooks.NewDispatcher(nil)
	disp.Register("known", hooks.HandlerFunc(func(context.Context, string, *model.Record) error { return nil }))

	var buf bytes.Buffer
	checkHooks(reg, disp, slog.New(slog.NewTextHandler(&buf, nil)))
	out := buf.String()

	if strings.Count(out, "hook handler is not registered") != 1 || !strings.Contains(out, "handler=nowhere") {
		t.Errorf("missing handler warning not logged once:\n%s", out)
	}
	if strings.Count(out, "hook condition does not compile") != 1 {
		t.Errorf("bad condition warning not logged once:\n%s", out)
	}
}
