package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// DuplicateError reports a unique-constraint violation on a named field so
// handlers can return a field-specific message instead of a raw SQL error.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// constraint name fragment -> user-facing field name
var duplicateFields = map[string]string{
	"email":      "email",
	"enrollment": "enrollment number",
	"code":       "subject code",
	"tuple":      "timetable slot",
	"date_slot":  "attendance record",
}

// TranslateDuplicate converts a Postgres unique violation (SQLSTATE 23505)
// into a DuplicateError. Any other error is returned unchanged.
func TranslateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		name := strings.ToLower(pgErr.ConstraintName)
		for fragment, field := range duplicateFields {
			if strings.Contains(name, fragment) {
				return &DuplicateError{Field: field}
			}
		}
		return &DuplicateError{Field: "record"}
	}
	return err
}
