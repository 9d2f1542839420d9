package model

// EventType describes a category of event. Types are identified by Slug only.
type EventType struct {
	Slug        string     `json:"slug" toml:"slug" yaml:"slug"`
	Label       string     `json:"label" toml:"label" yaml:"label"`
	Description string     `json:"description" toml:"description" yaml:"description"`
	Hooks       []HookSpec `json:"hooks,omitempty" toml:"hooks" yaml:"hooks"`
}

// HookSpec references a hook handler registered with the hook dispatcher.
type HookSpec struct {
	// Handler is the registered handler name, e.g. "command" or "publish".
	Handler string `json:"handler" toml:"handler" yaml:"handler"`
	// Args are handler specific parameters.
	Args map[string]string `json:"args,omitempty" toml:"args" yaml:"args"`
	// When is an optional CEL expression over event_type, id, url, ref,
	// created_by and data; empty means always.
	When string `json:"when,omitempty" toml:"when" yaml:"when"`
}

// UnknownType returns the descriptor used for rows whose type is no longer
// registered.
func UnknownType(slug string) *EventType {
	return &EventType{Slug: slug, Hooks: []HookSpec{}}
}

// Clone returns a deep copy of the type so registry state cannot be mutated
// through returned values.
func (t *EventType) Clone() *EventType {
	if t == nil {
		return nil
	}
	c := *t
	c.Hooks = make([]HookSpec, len(t.Hooks))
	for i, h := range t.Hooks {
		c.Hooks[i] = h
		if h.Args != nil {
			args := make(map[string]string, len(h.Args))
			for k, v := range h.Args {
				args[k] = v
			}
			c.Hooks[i].Args = args
		}
	}
	return &c
}
