package sqlstore

import (
	"database/sql"
	"time"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanRow scans a single row into a model.Row.
// The row must contain columns in the order defined by rowColumns.
func scanRow(row scannable) (*model.Row, error) {
	var r model.Row
	var (
		url        sql.NullString
		data       sql.NullString
		ref        sql.NullInt64
		createdBy  sql.NullInt64
		email      sql.NullString
		firstName  sql.NullString
		lastName   sql.NullString
		profileImg sql.NullString
		gender     sql.NullString
	)

	err := row.Scan(
		&r.ID,
		&r.Type,
		&url,
		&data,
		&ref,
		&r.Created,
		&createdBy,
		&email,
		&firstName,
		&lastName,
		&profileImg,
		&gender,
	)
	if err != nil {
		return nil, err
	}

	r.URL = url.String
	r.Email = email.String
	r.FirstName = firstName.String
	r.LastName = lastName.String
	r.ProfileImg = profileImg.String
	r.Gender = gender.String
	r.Created = r.Created.UTC()

	if data.Valid {
		s := data.String
		r.Data = &s
	}
	if ref.Valid {
		v := ref.Int64
		r.Ref = &v
	}
	if createdBy.Valid {
		v := createdBy.Int64
		r.CreatedBy = &v
	}
	return &r, nil
}

// scanRows scans all rows into a slice of model.Row.
func scanRows(rows *sql.Rows) ([]*model.Row, error) {
	var out []*model.Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// nullInt64Ptr converts a *int64 to sql.NullInt64 (nil = NULL).
func nullInt64Ptr(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// nullTimePtr converts a *time.Time to sql.NullTime (nil = NULL).
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// nullData converts a JSON payload to a nullable TEXT value (nil = NULL).
func nullData(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
