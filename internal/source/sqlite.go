package source

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/engine"
)

// SQLiteAdapter scans a SQLite database file, yielding one item per
// non-NULL column value so each finding's Location can name the exact
// table, row, and column it came from.
type SQLiteAdapter struct {
	Path string
	// Tables restricts the scan to these table names; empty scans every
	// user table.
	Tables []string
	// RowLimit caps the number of rows read per table; 0 means unlimited.
	RowLimit int
	// SamplePercent keeps roughly this percentage of rows, deterministically
	// selected by row number; 0 or >=100 means every row is kept.
	SamplePercent int
}

// Items opens the database, resolves the table list, and streams one
// engine.Item per scanned cell over the returned channel, which closes
// once every table has been read or ctx is canceled.
func (a *SQLiteAdapter) Items(ctx context.Context) (<-chan engine.Item, error) {
	db, err := gorm.Open(sqlite.Open(a.Path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("source: opening sqlite database %q: %w", a.Path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("source: obtaining sql.DB: %w", err)
	}

	tables := a.Tables
	if len(tables) == 0 {
		tables, err = listSQLiteTables(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	out := make(chan engine.Item)
	go func() {
		defer close(out)
		defer sqlDB.Close()
		for _, table := range tables {
			if err := streamSQLiteTable(ctx, sqlDB, table, a.RowLimit, a.SamplePercent, out); err != nil {
				out <- item{
					sourceID: fmt.Sprintf("sqlite://%s/%s", a.Path, table),
					err:      err,
					loc:      detect.LocationContext{SourceID: a.Path, TableOrCollection: table},
				}
			}
		}
	}()
	return out, nil
}

func listSQLiteTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("source: listing sqlite tables: %w", err)
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

func streamSQLiteTable(ctx context.Context, db *sql.DB, table string, rowLimit, samplePercent int, out chan<- engine.Item) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT rowid, * FROM %q", table))
	if err != nil {
		return fmt.Errorf("source: querying table %q: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	kept := 0
	rowNum := 0
	for rows.Next() {
		rowNum++
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("source: scanning row in %q: %w", table, err)
		}

		if !keepSampledRow(rowNum, samplePercent) {
			continue
		}
		if rowLimit > 0 && kept >= rowLimit {
			break
		}
		kept++

		rowID := fmt.Sprintf("%v", values[0])
		for i := 1; i < len(columns); i++ {
			text, ok := cellToText(values[i])
			if !ok {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- item{
				sourceID: fmt.Sprintf("sqlite://%s/%s/%s", table, rowID, columns[i]),
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

func cellToText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case []byte:
		return string(t), len(t) > 0
	default:
		s := fmt.Sprintf("%v", t)
		return s, s != ""
	}
}
