package movierental

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrKind says what went wrong talking to the database.
type ErrKind int

const (
	// KindStatement covers rejected statements: syntax errors, type
	// mismatches and anything not classified more precisely.
	KindStatement ErrKind = iota
	KindConnection
	KindUniqueViolation
	KindForeignKeyViolation
	KindNotNullViolation
)

func (k ErrKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindUniqueViolation:
		return "unique violation"
	case KindForeignKeyViolation:
		return "foreign key violation"
	case KindNotNullViolation:
		return "not-null violation"
	default:
		return "statement"
	}
}

// ErrBadArgument is returned when a command argument cannot be converted to
// the type the statement needs.
var ErrBadArgument = errors.New("bad argument")

// DatabaseError is the single error type surfaced by DB and the record
// operations built on it.
type DatabaseError struct {
	Op   string
	Kind ErrKind
	Err  error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether err is a DatabaseError caused by a
// unique constraint.
func IsUniqueViolation(err error) bool {
	var dbErr *DatabaseError
	return errors.As(err, &dbErr) && dbErr.Kind == KindUniqueViolation
}

// IsConnectionError reports whether err is a DatabaseError caused by an
// unreachable database.
func IsConnectionError(err error) bool {
	var dbErr *DatabaseError
	return errors.As(err, &dbErr) && dbErr.Kind == KindConnection
}

// wrapErr turns a driver error into a *DatabaseError. nil stays nil. An
// existing DatabaseError keeps its kind and cause but takes the new op.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return &DatabaseError{Op: op, Kind: dbErr.Kind, Err: dbErr.Err}
	}
	return &DatabaseError{Op: op, Kind: classify(err), Err: err}
}

// SQLSTATE class 23 codes shared by pgx and lib/pq.
const (
	sqlStateNotNull    = "23502"
	sqlStateForeignKey = "23503"
	sqlStateUnique     = "23505"
)

func classify(err error) ErrKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return kindFromSQLState(pgErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return kindFromSQLState(string(pqErr.Code))
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return KindUniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			return KindForeignKeyViolation
		case sqlite3.ErrConstraintNotNull:
			return KindNotNullViolation
		}
		switch liteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB:
			return KindConnection
		}
		return KindStatement
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return KindConnection
	}
	return KindStatement
}

func kindFromSQLState(code string) ErrKind {
	switch code {
	case sqlStateUnique:
		return KindUniqueViolation
	case sqlStateForeignKey:
		return KindForeignKeyViolation
	case sqlStateNotNull:
		return KindNotNullViolation
	}
	// Class 08 is connection exception.
	if len(code) == 5 && code[:2] == "08" {
		return KindConnection
	}
	return KindStatement
}
