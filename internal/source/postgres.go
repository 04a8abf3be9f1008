package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/engine"
)

// PostgresAdapter scans a Postgres database, yielding one item per
// non-NULL column value, connecting via pgxpool.New against a connection
// string.
type PostgresAdapter struct {
	ConnString string
	// Schema defaults to "public".
	Schema string
	// Tables restricts the scan to these table names; empty scans every
	// table in Schema.
	Tables []string
	// RowLimit caps the number of rows read per table; 0 means unlimited.
	RowLimit int
	// SamplePercent keeps roughly this percentage of rows, deterministically
	// selected by row number; 0 or >=100 means every row is kept.
	SamplePercent int
}

// Items connects, resolves the table list via information_schema, and
// streams one engine.Item per scanned cell.
func (a *PostgresAdapter) Items(ctx context.Context) (<-chan engine.Item, error) {
	schema := a.Schema
	if schema == "" {
		schema = "public"
	}

	pool, err := pgxpool.New(ctx, a.ConnString)
	if err != nil {
		return nil, fmt.Errorf("source: connecting to postgres: %w", err)
	}

	tables := a.Tables
	if len(tables) == 0 {
		tables, err = listPostgresTables(ctx, pool, schema)
		if err != nil {
			pool.Close()
			return nil, err
		}
	}

	out := make(chan engine.Item)
	go func() {
		defer close(out)
		defer pool.Close()
		for _, table := range tables {
			if err := streamPostgresTable(ctx, pool, schema, table, a.RowLimit, a.SamplePercent, out); err != nil {
				out <- item{
					sourceID: fmt.Sprintf("postgres://%s/%s", schema, table),
					err:      err,
					loc:      detect.LocationContext{SourceID: schema, TableOrCollection: table},
				}
			}
		}
	}()
	return out, nil
}

func listPostgresTables(ctx context.Context, pool *pgxpool.Pool, schema string) ([]string, error) {
	rows, err := pool.Query(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = $1", schema)
	if err != nil {
		return nil, fmt.Errorf("source: listing postgres tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func listPostgresColumns(ctx context.Context, pool *pgxpool.Pool, schema, table string) ([]string, error) {
	rows, err := pool.Query(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position",
		schema, table)
	if err != nil {
		return nil, fmt.Errorf("source: listing columns for %q: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func streamPostgresTable(ctx context.Context, pool *pgxpool.Pool, schema, table string, rowLimit, samplePercent int, out chan<- engine.Item) error {
	columns, err := listPostgresColumns(ctx, pool, schema, table)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	query := fmt.Sprintf("SELECT %s FROM %s", joinIdents(quoted), pgx.Identifier{schema, table}.Sanitize())

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("source: querying table %q: %w", table, err)
	}
	defer rows.Close()

	rowNum := 0
	kept := 0
	for rows.Next() {
		rowNum++
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("source: scanning row in %q: %w", table, err)
		}
		if !keepSampledRow(rowNum, samplePercent) {
			continue
		}
		if rowLimit > 0 && kept >= rowLimit {
			break
		}
		kept++
		rowID := fmt.Sprintf("%d", rowNum)
		for i, v := range values {
			text, ok := cellToText(v)
			if !ok {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- item{
				sourceID: fmt.Sprintf("postgres://%s/%s/%s/%s", schema, table, rowID, columns[i]),
				text:     text,
				loc: detect.LocationContext{
					SourceID:          table,
					TableOrCollection: table,
					RowKey:            rowID,
					ColumnOrField:     columns[i],
				},
			}:
			}
		}
	}
	return rows.Err()
}

func joinIdents(idents []string) string {
	out := ""
	for i, s := range idents {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
