package hooks

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// conditionCache compiles hook conditions once per distinct expression.
type conditionCache struct {
	mu    sync.Mutex
	env   *cel.Env
	progs map[string]cel.Program
	err   error
}

func newConditionCache() *conditionCache {
	env, err := cel.NewEnv(
		cel.Variable("event_type", cel.StringType),
		cel.Variable("id", cel.IntType),
		cel.Variable("url", cel.StringType),
		cel.Variable("ref", cel.DynType),
		cel.Variable("created_by", cel.DynType),
		// Decoded JSON payload; null when the event has no data.
		cel.Variable("data", cel.DynType),
	)
	return &conditionCache{env: env, progs: make(map[string]cel.Program), err: err}
}

func (c *conditionCache) program(expr string) (cel.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	if p, ok := c.progs[expr]; ok {
		return p, nil
	}
	p, err := compileCondition(c.env, expr)
	if err != nil {
		return nil, err
	}
	c.progs[expr] = p
	return p, nil
}

// CompileCondition reports whether expr is a valid hook condition.
func CompileCondition(expr string) error {
	_, err := newConditionCache().program(strings.TrimSpace(expr))
	return err
}

func compileCondition(env *cel.Env, expr string) (cel.Program, error) {
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("parse condition: %w", iss.Err())
	}
	checked, iss := env.Check(ast)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("check condition: %w", iss.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) && !checked.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("condition must evaluate to bool, got %s", checked.OutputType())
	}
	return env.Program(checked)
}

func (c *conditionCache) eval(expr, eventType string, rec *model.Record) (bool, error) {
	prog, err := c.program(strings.TrimSpace(expr))
	if err != nil {
		return false, err
	}

	var data any
	if len(rec.Data) > 0 {
		if err := json.Unmarshal(rec.Data, &data); err != nil {
			data = string(rec.Data)
		}
	}
	out, _, err := prog.Eval(map[string]any{
		"event_type": eventType,
		"id":         rec.ID,
		"url":        rec.URL,
		"ref":        optionalInt(rec.Ref),
		"created_by": optionalInt(rec.CreatedBy),
		"data":       data,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate condition: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition returned %T, want bool", out.Value())
	}
	return b, nil
}

func optionalInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
