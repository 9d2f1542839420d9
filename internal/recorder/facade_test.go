package recorder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

func TestCreateEvent_NoDefault(t *testing.T) {
	SetDefault(nil)
	_, err := CreateEvent(context.Background(), "user_login", nil)
	assert.ErrorIs(t, err, ErrNoDefault)
}

func TestCreateEvent(t *testing.T) {
	f := newFixture(t)
	SetDefault(f.rec)
	t.Cleanup(func() { SetDefault(nil) })
	require.Same(t, f.rec, Default())

	ctx := context.Background()
	id, err := CreateEvent(ctx, "user_login", map[string]string{"via": "sso"}, By(3), Ref(11), At("2024-02-03"))
	require.NoError(t, err)

	ev, err := f.rec.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ev.User.ID)
	assert.Equal(t, int64(3), *ev.User.ID)
	require.NotNil(t, ev.Ref)
	assert.Equal(t, int64(11), *ev.Ref)
	assert.Equal(t, 2024, ev.Created.Year())
	assert.Equal(t, map[string]any{"via": "sso"}, ev.Data)
}

func TestMustCreateEvent_PanicsOnUnrecognisedType(t *testing.T) {
	f := newFixture(t)
	SetDefault(f.rec)
	t.Cleanup(func() { SetDefault(nil) })

	assert.NotPanics(t, func() {
		assert.Positive(t, MustCreateEvent(context.Background(), "user_login", nil))
	})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, model.ErrUnrecognisedType))
	}()
	MustCreateEvent(context.Background(), "not_registered", nil)
}
