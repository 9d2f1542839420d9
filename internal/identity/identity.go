// Package identity carries the acting user and request origin through a
// context, and verifies the bearer tokens that establish them.
package identity

import (
	"context"
	"strconv"
)

// Identity is the actor on whose behalf a request runs.
type Identity struct {
	// ActorID is the logged-in user, nil for anonymous or system callers.
	ActorID *int64
	// ImpersonatorID is the real user when ActorID is being impersonated.
	ImpersonatorID *int64
}

// Impersonating reports whether the actor is being impersonated.
func (i Identity) Impersonating() bool {
	return i.ImpersonatorID != nil
}

// User returns an Identity for user id.
func User(id int64) Identity {
	return Identity{ActorID: &id}
}

// String renders the actor id, or "system".
func (i Identity) String() string {
	if i.ActorID == nil {
		return "system"
	}
	s := strconv.FormatInt(*i.ActorID, 10)
	if i.ImpersonatorID != nil {
		s += " (as " + strconv.FormatInt(*i.ImpersonatorID, 10) + ")"
	}
	return s
}

type identityKey struct{}

type originKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx. The zero Identity (system
// actor) is returned when none was set.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// WithOrigin returns a context carrying the URL the current request was made
// against.
func WithOrigin(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, originKey{}, url)
}

// Origin returns the request URL stored in ctx, or "".
func Origin(ctx context.Context) string {
	u, _ := ctx.Value(originKey{}).(string)
	return u
}
