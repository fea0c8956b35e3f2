package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// UniqueViolation describes a rejected write that duplicated a unique key.
// Constraint is the index name when the driver reports it (Postgres); Columns
// are the key columns when the driver reports them (SQLite).
type UniqueViolation struct {
	Constraint string
	Columns    []string
}

// AsUniqueViolation reports whether err is a unique-key violation raised by
// Postgres or SQLite.
func AsUniqueViolation(err error) (UniqueViolation, bool) {
	if err == nil {
		return UniqueViolation{}, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return UniqueViolation{}, false
		}
		return UniqueViolation{Constraint: pgErr.ConstraintName}, true
	}

	const marker = "UNIQUE constraint failed: "
	msg := err.Error()
	if i := strings.Index(msg, marker); i >= 0 {
		rest := msg[i+len(marker):]
		if j := strings.Index(rest, " ("); j >= 0 {
			rest = rest[:j]
		}
		var cols []string
		for _, part := range strings.Split(rest, ",") {
			part = strings.TrimSpace(part)
			if dot := strings.LastIndex(part, "."); dot >= 0 {
				part = part[dot+1:]
			}
			if part != "" {
				cols = append(cols, part)
			}
		}
		return UniqueViolation{Columns: cols}, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return UniqueViolation{}, true
	}
	return UniqueViolation{}, false
}
