package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/theseus/internal/migration"
)

// Repo implements every tracker store over database/sql. Queries are written
// with ? placeholders and rebound for the configured dialect.
type Repo struct {
	db         *sql.DB
	dialect    migration.Dialect
	isConflict func(error) bool
	now        func() time.Time
}

// NewRepo wraps an open database. isConflict classifies driver errors that
// signal a uniqueness violation.
func NewRepo(db *sql.DB, dialect migration.Dialect, isConflict func(error) bool) *Repo {
	if isConflict == nil {
		isConflict = func(error) bool { return false }
	}
	return &Repo{
		db:         db,
		dialect:    dialect,
		isConflict: isConflict,
		now:        time.Now,
	}
}

// SetClock overrides the time source used for created/updated stamps
func (r *Repo) SetClock(now func() time.Time) {
	r.now = now
}

// DB returns the underlying connection
func (r *Repo) DB() *sql.DB {
	return r.db
}

type scanner interface {
	Scan(dest ...interface{}) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *Repo) q(query string) string {
	return r.dialect.Rebind(query)
}

func (r *Repo) stamp() string {
	return formatTime(r.now())
}

// insert runs an INSERT ... RETURNING id and returns the new id
func (r *Repo) insert(ctx context.Context, ex execer, what, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := ex.QueryRowContext(ctx, r.q(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, r.wrapWrite(what, err)
	}
	return id, nil
}

// exec runs a write that must touch exactly one row
func (r *Repo) exec(ctx context.Context, ex execer, what string, query string, args ...interface{}) error {
	res, err := ex.ExecContext(ctx, r.q(query), args...)
	if err != nil {
		return r.wrapWrite(what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return nil
}

func (r *Repo) wrapWrite(what string, err error) error {
	if r.isConflict(err) {
		return fmt.Errorf("%s already exists: %w", what, ErrConflict)
	}
	return fmt.Errorf("failed to write %s: %w", what, err)
}

func notFound(what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to read %s: %w", what, err)
}

func (r *Repo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// limitClause appends LIMIT when n is positive
func limitClause(query string, n int, args []interface{}) (string, []interface{}) {
	if n <= 0 {
		return query, args
	}
	return query + " LIMIT ?", append(args, n)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// clockArg keeps the caller's offset so stored clock times read back as entered
func clockArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func timeArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func timePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func strArg(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intArg(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

func floatArg(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}
