package model

// DefaultPerPage is the page size used when a page is requested without one.
const DefaultPerPage = 50

// EventFilter holds criteria for querying events.
type EventFilter struct {
	Keywords string      `json:"keywords,omitempty"` // matched against type slug and actor email
	Where    []Condition `json:"where,omitempty"`
	Expr     string      `json:"filter,omitempty"`   // AIP-160 filter, e.g. `type = "user_login"`
	Sort     string      `json:"order_by,omitempty"` // AIP-132 order_by, default "created desc"
	Page     int         `json:"page,omitempty"`     // 1-based; 0 disables pagination
	PerPage  int         `json:"per_page,omitempty"`
}

// Condition is an explicit where-clause on a named event column.
type Condition struct {
	Column string `json:"column"` // id, type, url, ref, created, created_by, email
	Op     string `json:"op"`     // =, !=, <, <=, >, >=; empty means =
	Value  any    `json:"value"`
}

// Limit returns the LIMIT/OFFSET pair for the filter. ok is false when the
// filter is not paginated.
func (f EventFilter) Limit() (limit, offset int, ok bool) {
	if f.Page == 0 {
		return 0, 0, false
	}
	page := f.Page - 1
	if page < 0 {
		page = 0
	}
	limit = f.PerPage
	if limit <= 0 {
		limit = DefaultPerPage
	}
	return limit, page * limit, true
}
