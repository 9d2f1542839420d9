package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

func TestParse_Empty(t *testing.T) {
	c, err := Parse("   ")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		filter     string
		wantClause string
		wantParams []any
	}{
		{`type = "user_login"`, "t.slug = ?", []any{"user_login"}},
		{`created_by = 42`, "e.created_by = ?", []any{int64(42)}},
		{`ref != 0`, "e.ref != ?", []any{int64(0)}},
		{
			`type = "a" AND created_by >= 3`,
			"(t.slug = ? AND e.created_by >= ?)",
			[]any{"a", int64(3)},
		},
		{
			`type = "a" OR type = "b"`,
			"(t.slug = ? OR t.slug = ?)",
			[]any{"a", "b"},
		},
		{
			`created > timestamp("2024-01-02T03:04:05+01:00")`,
			"e.created > ?",
			[]any{time.Date(2024, 1, 2, 2, 4, 5, 0, time.UTC)},
		},
		{`NOT email = "a@example.com"`, "NOT ue.email = ?", []any{"a@example.com"}},
	} {
		t.Run(tc.filter, func(t *testing.T) {
			c, err := Parse(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.wantClause, c.Clause)
			assert.Equal(t, tc.wantParams, c.Params)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, f := range []string{
		`password = "x"`,
		`type = `,
		`type = 5`,
		`created > timestamp("yesterday")`,
	} {
		t.Run(f, func(t *testing.T) {
			_, err := Parse(f)
			assert.Error(t, err)
		})
	}
}

func TestWhere(t *testing.T) {
	c, err := Where([]model.Condition{
		{Column: "type", Value: "user_login"},
		{Column: "created_by", Op: ">", Value: int64(5)},
		{Column: "ref", Value: nil},
		{Column: "created_by", Op: "!=", Value: nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "(t.slug = ? AND e.created_by > ? AND e.ref IS NULL AND e.created_by IS NOT NULL)", c.Clause)
	assert.Equal(t, []any{"user_login", int64(5)}, c.Params)
}

func TestWhere_Empty(t *testing.T) {
	c, err := Where(nil)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestWhere_Errors(t *testing.T) {
	for name, conds := range map[string][]model.Condition{
		"unknown column": {{Column: "password", Value: "x"}},
		"bad operator":   {{Column: "id", Op: "LIKE", Value: "x"}},
		"null ordering":  {{Column: "ref", Op: "<", Value: nil}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Where(conds)
			assert.Error(t, err)
		})
	}
}

func TestAnd(t *testing.T) {
	single := And(SQLCondition{}, SQLCondition{Clause: "a = ?", Params: []any{1}})
	assert.Equal(t, "a = ?", single.Clause)

	both := And(SQLCondition{Clause: "a = ?", Params: []any{1}}, SQLCondition{Clause: "b = ?", Params: []any{2}})
	assert.Equal(t, "(a = ? AND b = ?)", both.Clause)
	assert.Equal(t, []any{1, 2}, both.Params)
}

func TestOrderBy(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"", DefaultOrder},
		{"created desc", "e.created DESC, e.id DESC"},
		{"created", "e.created ASC, e.id ASC"},
		{"type, created desc", "t.slug ASC, e.created DESC, e.id DESC"},
		{"id desc", "e.id DESC"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := OrderBy(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOrderBy_Errors(t *testing.T) {
	for _, in := range []string{"password", "created sideways", "url"} {
		_, err := OrderBy(in)
		assert.Error(t, err, in)
	}
}

func TestColumn(t *testing.T) {
	c, ok := column("type")
	assert.True(t, ok)
	assert.Equal(t, "t.slug", c)

	_, ok = column("password")
	assert.False(t, ok)
}
