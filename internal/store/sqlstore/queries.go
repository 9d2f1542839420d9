package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/eventlog/internal/filter"
	"github.com/alfredjeanlab/eventlog/internal/model"
)

// rowColumns is the column list of the event list query, in scanRow order.
const rowColumns = `e.id, t.slug, e.url, e.data, e.ref, e.created, e.created_by,
	ue.email, u.first_name, u.last_name, u.profile_img, u.gender`

// eventJoins joins an event to its type and, when known, its actor.
const eventJoins = `FROM event e
	JOIN event_type t ON t.id = e.type_id
	LEFT JOIN users u ON u.id = e.created_by
	LEFT JOIN user_email ue ON ue.user_id = u.id AND ue.is_primary = TRUE`

func querySyncTypes(ctx context.Context, c conn, types []*model.EventType) error {
	for _, t := range types {
		_, err := c.exec(ctx, `
			INSERT INTO event_type (slug, label, description)
			VALUES (?, ?, ?)
			ON CONFLICT (slug) DO UPDATE SET label = excluded.label, description = excluded.description`,
			t.Slug, t.Label, t.Description,
		)
		if err != nil {
			return fmt.Errorf("sync type %s: %w", t.Slug, err)
		}
	}
	return nil
}

func queryInsertEvent(ctx context.Context, c conn, rec *model.Record) (int64, error) {
	var id int64
	err := c.queryRow(ctx, `
		INSERT INTO event (type_id, url, data, ref, created, created_by)
		SELECT t.id, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP), ?
		FROM event_type t WHERE t.slug = ?
		RETURNING id`,
		rec.URL,
		nullData(rec.Data),
		nullInt64Ptr(rec.Ref),
		nullTimePtr(rec.Created),
		nullInt64Ptr(rec.CreatedBy),
		rec.Type,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no event_type row for %s", model.ErrNotCreated, rec.Type)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func queryGetEvent(ctx context.Context, c conn, id int64) (*model.Row, error) {
	row := c.queryRow(ctx, `SELECT `+rowColumns+` `+eventJoins+` WHERE e.id = ?`, id)
	return scanRow(row)
}

// buildWhere assembles the WHERE clause shared by list and count.
func buildWhere(d Dialect, f model.EventFilter) (string, []any, error) {
	var conds []filter.SQLCondition

	if kw := strings.TrimSpace(f.Keywords); kw != "" {
		// Slugs are lower snake case, so "User Login" finds user_login.
		slug := strings.ReplaceAll(strings.ToLower(kw), " ", "_")
		like := d.like()
		conds = append(conds, filter.SQLCondition{
			Clause: fmt.Sprintf(`(t.slug %[1]s '%%' || ? || '%%' ESCAPE '\' OR ue.email %[1]s '%%' || ? || '%%' ESCAPE '\')`, like),
			Params: []any{escapeLike(slug), escapeLike(kw)},
		})
	}

	where, err := filter.Where(f.Where)
	if err != nil {
		return "", nil, err
	}
	conds = append(conds, where)

	expr, err := filter.Parse(f.Expr)
	if err != nil {
		return "", nil, err
	}
	conds = append(conds, expr)

	all := filter.And(conds...)
	if all.Empty() {
		return "", nil, nil
	}
	return " WHERE " + all.Clause, all.Params, nil
}

// likeEscaper makes %, _ and the escape character itself match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func queryListEvents(ctx context.Context, c conn, f model.EventFilter) ([]*model.Row, error) {
	where, args, err := buildWhere(c.dialect, f)
	if err != nil {
		return nil, model.NewValidationError("filter", err.Error())
	}
	orderBy, err := filter.OrderBy(f.Sort)
	if err != nil {
		return nil, model.NewValidationError("order_by", err.Error())
	}

	q := `SELECT ` + rowColumns + ` ` + eventJoins + where + ` ORDER BY ` + orderBy
	if limit, offset, ok := f.Limit(); ok {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := c.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func queryCountEvents(ctx context.Context, c conn, f model.EventFilter) (int, error) {
	where, args, err := buildWhere(c.dialect, f)
	if err != nil {
		return 0, model.NewValidationError("filter", err.Error())
	}
	var n int
	if err := c.queryRow(ctx, `SELECT COUNT(*) `+eventJoins+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func queryDeleteEvent(ctx context.Context, c conn, id int64) error {
	res, err := c.exec(ctx, `DELETE FROM event WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
