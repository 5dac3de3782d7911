package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements RowStore against a Postgres-compatible service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a pooled connection to the row store. The pool is
// request-scoped in practice (one Lambda invocation), so limits stay small.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromDB wraps an existing connection (used by tests).
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Search runs one filtered lookup for a single category. Keyword filters are
// OR-combined ILIKE substring matches across the query's text columns; code
// filters are exact IN-list matches.
func (s *PostgresStore) Search(ctx context.Context, q CategoryQuery) ([]Row, error) {
	sqlText, args := buildSelect(q)

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", q.Table, err)
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Table, err)
		}
		r := Row{}
		for i, c := range cols {
			r[c] = normalizeValue(vals[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows %s: %w", q.Table, err)
	}
	return out, nil
}

// buildSelect assembles the per-category SELECT. Placeholders are always used
// for keyword and code values; identifiers come from the static category table,
// never from user input.
func buildSelect(q CategoryQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	for _, kw := range q.Keywords {
		args = append(args, "%"+kw+"%")
		ph := fmt.Sprintf("$%d", len(args))
		for _, col := range q.Columns {
			conds = append(conds, fmt.Sprintf("%s ILIKE %s", col, ph))
		}
	}

	if len(q.Codes) > 0 && len(q.CodeColumns) > 0 {
		phs := make([]string, 0, len(q.Codes))
		for _, code := range q.Codes {
			args = append(args, code)
			phs = append(phs, fmt.Sprintf("$%d", len(args)))
		}
		inList := strings.Join(phs, ", ")
		for _, col := range q.CodeColumns {
			conds = append(conds, fmt.Sprintf("%s IN (%s)", col, inList))
		}
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(q.Table)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " OR "))
	}
	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
		b.WriteString(" DESC")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	b.WriteString(fmt.Sprintf(" LIMIT %d", limit))

	return b.String(), args
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
