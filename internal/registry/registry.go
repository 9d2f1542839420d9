// Package registry holds the event type taxonomy.
//
// A Registry is assembled once at startup from module configuration files
// followed by an application override file (see Load) and is treated as
// read-only afterwards.
package registry

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// Registry maps event type slugs to their descriptors, preserving the order in
// which slugs were first registered.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*model.EventType
	order []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{types: make(map[string]*model.EventType)}
}

// Register adds t to the registry. A type with an empty slug is rejected and
// false is returned. Registering an existing slug replaces its label,
// description and hooks entirely; the slug keeps its original position.
func (r *Registry) Register(t model.EventType) bool {
	if strings.TrimSpace(t.Slug) == "" {
		return false
	}
	if t.Hooks == nil {
		t.Hooks = []model.HookSpec{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[t.Slug]; !ok {
		r.order = append(r.order, t.Slug)
	}
	r.types[t.Slug] = t.Clone()
	return true
}

// RegisterType is shorthand for Register with individual fields.
func (r *Registry) RegisterType(slug, label, description string, hooks ...model.HookSpec) bool {
	return r.Register(model.EventType{
		Slug:        slug,
		Label:       label,
		Description: description,
		Hooks:       hooks,
	})
}

// Lookup returns the descriptor for slug.
func (r *Registry) Lookup(slug string) (*model.EventType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[slug]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// All returns every registered type ordered by first registration.
func (r *Registry) All() []*model.EventType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.EventType, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.types[slug].Clone())
	}
	return out
}

// Label is a slug and its display label.
type Label struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// FlatLabels returns the display label of every type in registration order.
func (r *Registry) FlatLabels() []Label {
	all := r.All()
	out := make([]Label, len(all))
	for i, t := range all {
		out[i] = Label{Slug: t.Slug, Label: DisplayLabel(t)}
	}
	return out
}

// AllFlat returns a slug to display label mapping.
func (r *Registry) AllFlat() map[string]string {
	labels := r.FlatLabels()
	out := make(map[string]string, len(labels))
	for _, l := range labels {
		out[l.Slug] = l.Label
	}
	return out
}

// DisplayLabel returns t's label, or its slug title-cased with underscores
// turned into spaces when no label was supplied.
func DisplayLabel(t *model.EventType) string {
	if t.Label != "" {
		return t.Label
	}
	return cases.Title(language.English).String(strings.ReplaceAll(t.Slug, "_", " "))
}
