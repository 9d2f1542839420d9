package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	method string
	path   string
	query  url.Values
	body   string
	auth   string

	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.Query()
	h.auth = r.Header.Get("Authorization")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

func newTestClient(t *testing.T, h http.Handler, token string) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", token)
}

func TestCreateEvent(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusCreated,
		responseBody: `{"id":5,"type":{"slug":"user_login","label":"Login","hooks":[]},"data":{"ip":"10.0.0.1"},"ref":null,"created":"2024-05-01T10:00:00Z","user":{"id":3}}`,
	}
	c := newTestClient(t, h, "tok")

	resp, err := c.CreateEvent(context.Background(), &CreateEventRequest{
		Type: "user_login",
		Data: []byte(`{"ip":"10.0.0.1"}`),
		Ref:  9,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/events" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if h.auth != "Bearer tok" {
		t.Errorf("Authorization = %q", h.auth)
	}
	if h.body != `{"type":"user_login","data":{"ip":"10.0.0.1"},"ref":9}` {
		t.Errorf("body = %s", h.body)
	}
	if resp.Skipped || resp.Event == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Event.ID != 5 || resp.Event.Type.Slug != "user_login" || *resp.Event.User.ID != 3 {
		t.Errorf("event = %+v", resp.Event)
	}
}

func TestCreateEvent_Skipped(t *testing.T) {
	h := &testHandler{responseBody: `{"id":0,"skipped":true}`}
	c := newTestClient(t, h, "")

	resp, err := c.CreateEvent(context.Background(), &CreateEventRequest{Type: "user_login"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if !resp.Skipped || resp.Event != nil {
		t.Errorf("expected skipped response, got %+v", resp)
	}
	if h.auth != "" {
		t.Errorf("no token should send no Authorization header, got %q", h.auth)
	}
}

func TestListEvents_Query(t *testing.T) {
	h := &testHandler{responseBody: `{"events":[{"id":1,"type":{"slug":"a"}},{"id":2,"type":{"slug":"b"}}],"total":7,"page":2,"per_page":2}`}
	c := newTestClient(t, h, "")

	resp, err := c.ListEvents(context.Background(), &ListEventsRequest{
		Keywords: "login",
		Filter:   `ref > 3`,
		OrderBy:  "created",
		Page:     2,
		PerPage:  2,
		Type:     "user_login",
		User:     4,
	})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	want := map[string]string{
		"keywords": "login",
		"filter":   "ref > 3",
		"order_by": "created",
		"page":     "2",
		"per_page": "2",
		"type":     "user_login",
		"user":     "4",
	}
	for k, v := range want {
		if got := h.query.Get(k); got != v {
			t.Errorf("query %s = %q, want %q", k, got, v)
		}
	}
	if len(resp.Events) != 2 || resp.Total != 7 || resp.Page != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestListEvents_NoQuery(t *testing.T) {
	h := &testHandler{responseBody: `{"events":[],"total":0,"page":0,"per_page":0}`}
	c := newTestClient(t, h, "")

	if _, err := c.ListEvents(context.Background(), &ListEventsRequest{}); err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(h.query) != 0 {
		t.Errorf("expected no query parameters, got %v", h.query)
	}
}

func TestCountEvents(t *testing.T) {
	h := &testHandler{responseBody: `{"count":12}`}
	c := newTestClient(t, h, "")

	n, err := c.CountEvents(context.Background(), &ListEventsRequest{Type: "x"})
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if n != 12 || h.path != "/v1/events/count" || h.query.Get("type") != "x" {
		t.Errorf("n = %d, path = %s, query = %v", n, h.path, h.query)
	}
}

func TestGetAndDeleteEvent(t *testing.T) {
	h := &testHandler{responseBody: `{"id":8,"type":{"slug":"x"},"data":"legacy"}`}
	c := newTestClient(t, h, "")

	ev, err := c.GetEvent(context.Background(), 8)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if h.path != "/v1/events/8" || ev.Data != "legacy" {
		t.Errorf("path = %s, data = %v", h.path, ev.Data)
	}

	h.statusCode = http.StatusNoContent
	h.responseBody = ""
	if err := c.DeleteEvent(context.Background(), 8); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if h.method != http.MethodDelete {
		t.Errorf("method = %s", h.method)
	}
}

func TestTypes(t *testing.T) {
	h := &testHandler{responseBody: `{"types":[{"slug":"user_login","label":"","display_label":"User Login","hooks":2}]}`}
	c := newTestClient(t, h, "")

	types, err := c.ListTypes(context.Background())
	if err != nil {
		t.Fatalf("ListTypes: %v", err)
	}
	if len(types) != 1 || types[0].DisplayLabel != "User Login" || types[0].Hooks != 2 {
		t.Errorf("types = %+v", types)
	}

	h.responseBody = `{"slug":"a b","label":"A"}`
	typ, err := c.GetType(context.Background(), "a b")
	if err != nil {
		t.Fatalf("GetType: %v", err)
	}
	if h.path != "/v1/types/a b" || typ.Label != "A" {
		t.Errorf("path = %q, type = %+v", h.path, typ)
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json error", http.StatusNotFound, `{"error":"event not found"}`, "event not found"},
		{"plain body", http.StatusBadGateway, "upstream down", "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &testHandler{statusCode: tt.status, responseBody: tt.body}
			c := newTestClient(t, h, "")

			_, err := c.GetEvent(context.Background(), 1)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Message != tt.message {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	h := &testHandler{responseBody: `{"status":"ok"}`}
	c := newTestClient(t, h, "")

	status, err := c.Health(context.Background())
	if err != nil || status != "ok" {
		t.Errorf("Health = %q, %v", status, err)
	}
}
