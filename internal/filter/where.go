package filter

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// Where translates explicit column conditions into a single AND-ed condition.
// A nil value with = or != becomes IS NULL / IS NOT NULL.
func Where(conds []model.Condition) (SQLCondition, error) {
	parts := make([]SQLCondition, 0, len(conds))
	for _, c := range conds {
		col, ok := column(c.Column)
		if !ok {
			return SQLCondition{}, fmt.Errorf("unknown field: %s", c.Column)
		}
		op := strings.TrimSpace(c.Op)
		if op == "" {
			op = "="
		}
		if _, ok := comparisonOps[op]; !ok {
			return SQLCondition{}, fmt.Errorf("unsupported operator: %s", c.Op)
		}

		if c.Value == nil {
			switch op {
			case "=":
				parts = append(parts, SQLCondition{Clause: col + " IS NULL"})
			case "!=":
				parts = append(parts, SQLCondition{Clause: col + " IS NOT NULL"})
			default:
				return SQLCondition{}, fmt.Errorf("operator %s cannot compare with null", op)
			}
			continue
		}
		parts = append(parts, SQLCondition{
			Clause: fmt.Sprintf("%s %s ?", col, op),
			Params: []any{c.Value},
		})
	}
	return And(parts...), nil
}
