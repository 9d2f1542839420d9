package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

func TestRegister_EmptySlug(t *testing.T) {
	r := New()
	assert.False(t, r.RegisterType("", "Label", "desc"))
	assert.False(t, r.RegisterType("   ", "Label", "desc"))
	assert.Equal(t, 0, r.Len())
}

func TestRegister_LastWins(t *testing.T) {
	r := New()
	require.True(t, r.RegisterType("user_login", "Login", "first",
		model.HookSpec{Handler: "log"},
		model.HookSpec{Handler: "command", Args: map[string]string{"command": "true"}},
	))
	require.True(t, r.RegisterType("user_login", "Logged in", "second",
		model.HookSpec{Handler: "publish"},
	))

	got, ok := r.Lookup("user_login")
	require.True(t, ok)
	assert.Equal(t, "Logged in", got.Label)
	assert.Equal(t, "second", got.Description)
	require.Len(t, got.Hooks, 1)
	assert.Equal(t, "publish", got.Hooks[0].Handler)
	assert.Equal(t, 1, r.Len())
}

func TestRegister_KeepsFirstPosition(t *testing.T) {
	r := New()
	r.RegisterType("a", "A", "")
	r.RegisterType("b", "B", "")
	r.RegisterType("a", "A2", "")

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Slug)
	assert.Equal(t, "A2", all[0].Label)
	assert.Equal(t, "b", all[1].Slug)
}

func TestLookup_NotFound(t *testing.T) {
	r := New()
	_, ok := r.Lookup("missing")
	assert.False(t, ok)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	r := New()
	r.RegisterType("a", "A", "", model.HookSpec{Handler: "log", Args: map[string]string{"k": "v"}})

	got, _ := r.Lookup("a")
	got.Label = "changed"
	got.Hooks[0].Args["k"] = "changed"

	again, _ := r.Lookup("a")
	assert.Equal(t, "A", again.Label)
	assert.Equal(t, "v", again.Hooks[0].Args["k"])
}

func TestAllFlat(t *testing.T) {
	r := New()
	r.RegisterType("password_changed", "", "")
	r.RegisterType("user_login", "User logged in", "")
	r.RegisterType("api_key_REVOKED", "", "")

	flat := r.AllFlat()
	assert.Equal(t, map[string]string{
		"password_changed": "Password Changed",
		"user_login":       "User logged in",
		"api_key_REVOKED":  "Api Key Revoked",
	}, flat)

	labels := r.FlatLabels()
	require.Len(t, labels, 3)
	assert.Equal(t, Label{Slug: "password_changed", Label: "Password Changed"}, labels[0])
}

func TestRegister_NilHooksNormalised(t *testing.T) {
	r := New()
	r.Register(model.EventType{Slug: "x"})
	got, _ := r.Lookup("x")
	assert.NotNil(t, got.Hooks)
	assert.Empty(t, got.Hooks)
}
