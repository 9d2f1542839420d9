package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/alfredjeanlab/eventlog/internal/identity"
	"github.com/alfredjeanlab/eventlog/internal/model"
	"github.com/alfredjeanlab/eventlog/internal/recorder"
)

func TestAuthMiddleware_Disabled(t *testing.T) {
	env := newTestEnv(t, nil)
	if w := env.do(t, http.MethodGet, "/v1/events", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	v := identity.NewVerifier("s3cret")
	env := newTestEnv(t, v)

	token, err := v.Issue(identity.User(21), 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other, err := identity.NewVerifier("other").Issue(identity.User(21), 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name   string
		header []string
		want   int
	}{
		{"missing header", nil, http.StatusUnauthorized},
		{"wrong scheme", []string{"Authorization", "Basic abc"}, http.StatusUnauthorized},
		{"wrong secret", []string{"Authorization", "Bearer " + other}, http.StatusUnauthorized},
		{"valid", []string{"Authorization", "Bearer " + token}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/v1/events", "", tt.header...)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}

	if w := env.do(t, http.MethodGet, "/v1/health", ""); w.Code != http.StatusOK {
		t.Fatalf("health must be exempt, got %d", w.Code)
	}
}

func TestAuthMiddleware_CreditsActor(t *testing.T) {
	v := identity.NewVerifier("s3cret")
	env := newTestEnv(t, v)
	token, _ := v.Issue(identity.User(21), 0)

	w := env.do(t, http.MethodPost, "/v1/events", `{"type":"user_login"}`, "Authorization", "Bearer "+token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	evs, err := env.rec.GetByUser(context.Background(), 21, model.EventFilter{})
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("expected event credited to user 21, got %d", len(evs))
	}
}

func TestAuthMiddleware_ImpersonationInProduction(t *testing.T) {
	v := identity.NewVerifier("s3cret")
	env := newTestEnv(t, v)
	prod := recorder.New(env.store, env.reg, nil, recorder.WithProduction(true))
	env.srv = New(prod, env.store, v, nil)
	env.handler = env.srv.NewHTTPHandler()

	admin := int64(1)
	user := int64(21)
	token, _ := v.Issue(identity.Identity{ActorID: &user, ImpersonatorID: &admin}, 0)

	w := env.do(t, http.MethodPost, "/v1/events", `{"type":"user_login"}`, "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 skip, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[map[string]any](t, w)["skipped"]; got != true {
		t.Fatalf("skipped = %v", got)
	}
	w = env.do(t, http.MethodGet, "/v1/events/count", "", "Authorization", "Bearer "+token)
	if n := decode[map[string]int](t, w)["count"]; n != 0 {
		t.Fatalf("expected nothing recorded, count = %d", n)
	}
}
