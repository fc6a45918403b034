package movierental

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "github.com/mattn/go-sqlite3"    // registers "sqlite3"
)

// Row is a single result row keyed by column name.
type Row map[string]any

// Result is the materialized outcome of a statement.
type Result struct {
	Columns []string
	Rows    []Row

	// RowCount is the number of returned rows for Query and the number of
	// affected rows for Exec.
	RowCount int64
}

// dialect supplies the SQL that differs between database engines.
type dialect interface {
	driverName() string
	dsn(cfg Config) string
	rebind(query string) string
	createMoviesSql() string
	createCustomersSql() string
	createRentalsSql() string
	nowSql() string
}

func newDialect(driver string) (dialect, error) {
	switch strings.ToLower(driver) {
	case "pg", "pgx":
		return pgDialect{driver: "pgx"}, nil
	case "postgres":
		return pgDialect{driver: "postgres"}, nil
	case "sqlite3", "sqlite":
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("db driver '%s' not supported. Must be one of: pg, postgres or sqlite3", driver)
	}
}

// DB owns the connection pool used by every operation of one invocation.
type DB struct {
	cfg     Config
	db      *sql.DB
	dialect dialect
}

// Open connects with cfg and verifies the connection.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	cfg = cfg.withDefaults()
	d, err := newDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(d.driverName(), d.dsn(cfg))
	if err != nil {
		return nil, &DatabaseError{Op: "open", Kind: KindConnection, Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, &DatabaseError{Op: "open", Kind: KindConnection, Err: err}
	}
	return &DB{cfg: cfg, db: sqlDB, dialect: d}, nil
}

// New wraps an already opened pool. The driver in cfg selects the dialect.
func New(cfg Config, db *sql.DB) (*DB, error) {
	cfg = cfg.withDefaults()
	d, err := newDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	return &DB{cfg: cfg, db: db, dialect: d}, nil
}

// Close releases the pool.
func (c *DB) Close() error {
	return c.db.Close()
}

// Query runs a statement that returns rows and collects all of them.
func (c *DB) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	rows, err := c.db.QueryContext(ctx, c.dialect.rebind(query), args...)
	if err != nil {
		return nil, wrapErr("query", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, wrapErr("query", err)
	}
	res := &Result{Columns: cols}
	for rows.Next() {
		row, err := scanRow(rows, cols)
		if err != nil {
			return nil, wrapErr("query", err)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("query", err)
	}
	res.RowCount = int64(len(res.Rows))
	return res, nil
}

// Exec runs a statement that returns no rows.
func (c *DB) Exec(ctx context.Context, query string, args ...any) (*Result, error) {
	r, err := c.db.ExecContext(ctx, c.dialect.rebind(query), args...)
	if err != nil {
		return nil, wrapErr("exec", err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return nil, wrapErr("exec", err)
	}
	return &Result{RowCount: n}, nil
}

// Stream runs a query and yields its rows one at a time. The sequence can
// only be ranged over once; the rows are closed when iteration stops.
func (c *DB) Stream(ctx context.Context, query string, args ...any) iter.Seq2[Row, error] {
	used := false
	return func(yield func(Row, error) bool) {
		if used {
			yield(nil, &DatabaseError{Op: "stream", Kind: KindStatement, Err: fmt.Errorf("result already consumed")})
			return
		}
		used = true

		rows, err := c.db.QueryContext(ctx, c.dialect.rebind(query), args...)
		if err != nil {
			yield(nil, wrapErr("query", err))
			return
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			yield(nil, wrapErr("query", err))
			return
		}
		for rows.Next() {
			row, err := scanRow(rows, cols)
			if err != nil {
				yield(nil, wrapErr("query", err))
				return
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, wrapErr("query", err))
		}
	}
}

// Ping asks the server for its current time.
func (c *DB) Ping(ctx context.Context) (time.Time, error) {
	res, err := c.Query(ctx, c.dialect.nowSql())
	if err != nil {
		return time.Time{}, err
	}
	if len(res.Rows) == 0 {
		return time.Time{}, &DatabaseError{Op: "ping", Kind: KindStatement, Err: fmt.Errorf("no rows returned")}
	}
	now, err := asTime(res.Rows[0]["now"])
	if err != nil {
		return time.Time{}, &DatabaseError{Op: "ping", Kind: KindStatement, Err: err}
	}
	return now, nil
}

func scanRow(rows *sql.Rows, cols []string) (Row, error) {
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(Row, len(cols))
	for i, col := range cols {
		// lib/pq hands back text as []byte.
		if b, ok := vals[i].([]byte); ok {
			vals[i] = string(b)
		}
		row[strings.ToLower(col)] = vals[i]
	}
	return row, nil
}
