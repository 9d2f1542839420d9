package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/ordering"
)

// DefaultOrder lists newest events first, breaking ties by id.
const DefaultOrder = "e.created DESC, e.id DESC"

// orderFields are the fields an order_by may name.
var orderFields = []string{"id", "type", "ref", "created", "created_by"}

// OrderBy translates an AIP-132 order_by string into an ORDER BY list. An
// empty string yields DefaultOrder. The id column is appended as a tie
// breaker when not named.
func OrderBy(orderBy string) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return DefaultOrder, nil
	}

	var ob ordering.OrderBy
	if err := ob.UnmarshalString(orderBy); err != nil {
		return "", fmt.Errorf("parse order_by: %w", err)
	}
	if err := ob.ValidateForPaths(orderFields...); err != nil {
		return "", fmt.Errorf("order_by: %w", err)
	}

	parts := make([]string, 0, len(ob.Fields)+1)
	hasID := false
	lastDesc := false
	for _, f := range ob.Fields {
		col, _ := column(f.Path)
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
		hasID = hasID || f.Path == "id"
		lastDesc = f.Desc
	}
	if !hasID {
		dir := "ASC"
		if lastDesc {
			dir = "DESC"
		}
		parts = append(parts, "e.id "+dir)
	}
	return strings.Join(parts, ", "), nil
}
