package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	pin_number TEXT NOT NULL UNIQUE,
	mobile_number TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS %[2]s (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	designation TEXT NOT NULL,
	mobile_number TEXT NOT NULL,
	vip_code TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS %[3]s (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	designation TEXT NOT NULL,
	mobile_number TEXT NOT NULL,
	fac_code TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PostgresStore inserts over database/sql with the lib/pq driver.
type PostgresStore struct {
	db *sql.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

// EnsureSchema creates the registration tables when they are missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context, attendee, vip, faculty string) error {
	query := fmt.Sprintf(schema,
		pq.QuoteIdentifier(attendee),
		pq.QuoteIdentifier(vip),
		pq.QuoteIdentifier(faculty),
	)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, table string, rec models.Record) error {
	query, args := insertQuery(table, rec.Columns())
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return &Error{Code: string(pqErr.Code), Message: pqErr.Message, Err: err}
		}
		return &Error{Message: err.Error(), Err: err}
	}
	return nil
}

func insertQuery(table string, cols map[string]any) (string, []any) {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	quoted := make([]string, len(names))
	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		quoted[i] = pq.QuoteIdentifier(name)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = cols[name]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, args
}
