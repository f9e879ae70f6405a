// Package sqltable reads the CUI to SNOMED CT mapping from a database table.
//
// Any database/sql driver works; SQLite (modernc.org/sqlite) and PostgreSQL
// (jackc/pgx) are registered by this package.
package sqltable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	mapentry "github.com/karupanerura/cts2-mapentry"
	"github.com/karupanerura/cts2-mapentry/source"
)

// DefaultQuery selects the pairs from the conventional table.
const DefaultQuery = "SELECT cui, code FROM cui_to_snomed"

// ErrUnknownDriver is returned by Open for drivers this package does not register.
var ErrUnknownDriver = errors.New("sqltable: unknown driver")

// Source is an index source that reads (cui, code) rows.
// Rows with an empty or NULL column are skipped.
type Source struct {
	db    *sql.DB
	query string
}

var _ mapentry.IndexSource[string, string] = (*Source)(nil)

// New creates a source running query against db. An empty query means DefaultQuery.
// The query must return two text columns: the CUI and the code.
func New(db *sql.DB, query string) *Source {
	if query == "" {
		query = DefaultQuery
	}
	return &Source{db: db, query: query}
}

// Open opens and pings a database using one of the registered drivers.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if !slices.Contains([]string{DriverSQLite, DriverPostgres}, driver) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqltable: open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqltable: ping %s: %w", driver, err)
	}
	return db, nil
}

// GetAll runs the query and collects the pairs.
func (s *Source) GetAll(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("sqltable: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pairs source.Pairs
	for rows.Next() {
		var cui, code sql.NullString
		if err := rows.Scan(&cui, &code); err != nil {
			return nil, fmt.Errorf("sqltable: scan: %w", err)
		}
		c, v := strings.TrimSpace(cui.String), strings.TrimSpace(code.String)
		if c == "" || v == "" {
			continue
		}
		pairs.Add(c, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqltable: rows: %w", err)
	}
	return pairs.Map(), nil
}
