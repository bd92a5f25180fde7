package sqlgraph

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsConstraintError returns true if the error resulted from a database
// constraint violation. Driver errors are classified in place; the engine
// never wraps them.
func IsConstraintError(err error) bool {
	return kindOf(err) != 0
}

// Constraint classes, resolved per driver.
type constraintKind int

const (
	uniqueKind constraintKind = iota + 1
	foreignKeyKind
	checkKind
)

var (
	pgCodes = map[pq.ErrorCode]constraintKind{
		"23505": uniqueKind,
		"23503": foreignKeyKind,
		"23514": checkKind,
	}
	mysqlNumbers = map[uint16]constraintKind{
		1062: uniqueKind,
		1451: foreignKeyKind, // cannot delete or update a parent row
		1452: foreignKeyKind, // cannot add or update a child row
		3819: checkKind,
	}
	sqliteCodes = map[int]constraintKind{
		sqlite3.SQLITE_CONSTRAINT_UNIQUE:     uniqueKind,
		sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY: uniqueKind,
		sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY: foreignKeyKind,
		sqlite3.SQLITE_CONSTRAINT_CHECK:      checkKind,
	}
	// Message fragments for drivers wrapped by proxies that hide the typed error.
	fragments = map[constraintKind][]string{
		uniqueKind:     {"Error 1062", "violates unique constraint", "UNIQUE constraint failed"},
		foreignKeyKind: {"Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed"},
		checkKind:      {"Error 3819", "violates check constraint", "CHECK constraint failed"},
	}
)

func kindOf(err error) constraintKind {
	if err == nil {
		return 0
	}
	var (
		pgErr     *pq.Error
		mysqlErr  *mysql.MySQLError
		sqliteErr *sqlite.Error
	)
	switch {
	case errors.As(err, &pgErr):
		return pgCodes[pgErr.Code]
	case errors.As(err, &mysqlErr):
		return mysqlNumbers[mysqlErr.Number]
	case errors.As(err, &sqliteErr):
		if k, ok := sqliteCodes[sqliteErr.Code()]; ok {
			return k
		}
	}
	msg := err.Error()
	for k, subs := range fragments {
		for _, sub := range subs {
			if strings.Contains(msg, sub) {
				return k
			}
		}
	}
	return 0
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool {
	return kindOf(err) == uniqueKind
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	return kindOf(err) == foreignKeyKind
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool {
	return kindOf(err) == checkKind
}
