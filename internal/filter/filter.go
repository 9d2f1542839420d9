// Package filter translates event list criteria into SQL fragments.
//
// Three inputs are supported: AIP-160 filter expressions (Parse), explicit
// column conditions (Where) and AIP-132 order_by strings (OrderBy). Every
// fragment uses ? placeholders; the store rebinds them for its dialect.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// SQLCondition represents a SQL WHERE clause fragment with parameters.
type SQLCondition struct {
	// Clause is the SQL WHERE clause (e.g., "t.slug = ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// Empty reports whether c constrains nothing.
func (c SQLCondition) Empty() bool {
	return c.Clause == ""
}

// And joins conditions with AND, skipping empty ones.
func And(conds ...SQLCondition) SQLCondition {
	var (
		clauses []string
		params  []any
	)
	for _, c := range conds {
		if c.Empty() {
			continue
		}
		clauses = append(clauses, c.Clause)
		params = append(params, c.Params...)
	}
	switch len(clauses) {
	case 0:
		return SQLCondition{}
	case 1:
		return SQLCondition{Clause: clauses[0], Params: params}
	}
	return SQLCondition{Clause: "(" + strings.Join(clauses, " AND ") + ")", Params: params}
}

// fieldMapping maps filter field names to columns of the event list query.
var fieldMapping = map[string]string{
	"id":         "e.id",
	"type":       "t.slug",
	"url":        "e.url",
	"ref":        "e.ref",
	"created":    "e.created",
	"created_by": "e.created_by",
	"email":      "ue.email",
}

// column returns the SQL column for a filter field name.
func column(field string) (string, bool) {
	c, ok := fieldMapping[field]
	return c, ok
}

// Declarations returns the field declarations for event filtering.
func Declarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("id", filtering.TypeInt),
		filtering.DeclareIdent("type", filtering.TypeString),
		filtering.DeclareIdent("url", filtering.TypeString),
		filtering.DeclareIdent("ref", filtering.TypeInt),
		filtering.DeclareIdent("created", filtering.TypeTimestamp),
		filtering.DeclareIdent("created_by", filtering.TypeInt),
		filtering.DeclareIdent("email", filtering.TypeString),
	)
}

// Parse parses an AIP-160 filter expression and returns a SQL condition.
// Returns an empty condition for an empty filter string.
func Parse(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}

	decls, err := Declarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}

	f, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}

	return translateExpr(f.CheckedExpr.GetExpr())
}

func translateExpr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	default:
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

var comparisonOps = map[string]string{
	"=":  "=",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

func translateCall(call *expr.Expr_Call) (SQLCondition, error) {
	switch call.Function {
	case filtering.FunctionAnd:
		return translateLogical(call.Args, "AND")
	case filtering.FunctionOr:
		return translateLogical(call.Args, "OR")
	case filtering.FunctionNot:
		if len(call.Args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := translateExpr(call.Args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
	}
	if op, ok := comparisonOps[call.Function]; ok {
		return translateComparison(call.Args, op)
	}
	return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
}

func translateLogical(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}

	left, err := translateExpr(args[0])
	if err != nil {
		return SQLCondition{}, err
	}

	right, err := translateExpr(args[1])
	if err != nil {
		return SQLCondition{}, err
	}

	return SQLCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return SQLCondition{}, err
	}

	col, ok := column(field)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", field)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}

	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", col, op),
		Params: []any{value},
	}, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	case *expr.Expr_CallExpr:
		if kind.CallExpr.Function == filtering.FunctionTimestamp && len(kind.CallExpr.Args) == 1 {
			return extractTimestampValue(kind.CallExpr.Args[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.Function)
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return int64(kind.Uint64Value), nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

// extractTimestampValue returns the argument of timestamp("...") in UTC.
func extractTimestampValue(e *expr.Expr) (time.Time, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp argument must be a constant string")
	}
	s, ok := c.ConstExpr.GetConstantKind().(*expr.Constant_StringValue)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp argument must be a string")
	}
	t, err := time.Parse(time.RFC3339Nano, s.StringValue)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: %s", s.StringValue)
	}
	return t.UTC(), nil
}
