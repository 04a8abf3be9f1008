package main

import (
	"context"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/engine"
)

// filterItems drops items whose table/collection is in excludeTables, or
// whose column/field fails the columns/excludeColumns policy, without the
// caller needing to know which concrete adapter produced them. An empty
// columns set means every column is included.
func filterItems(ctx context.Context, in <-chan engine.Item, excludeTables, columns, excludeColumns map[string]struct{}) <-chan engine.Item {
	if len(excludeTables) == 0 && len(columns) == 0 && len(excludeColumns) == 0 {
		return in
	}
	out := make(chan engine.Item)
	go func() {
		defer close(out)
		for it := range in {
			loc := it.Location()
			if _, skip := excludeTables[loc.TableOrCollection]; skip {
				continue
			}
			if len(columns) > 0 {
				if _, keep := columns[loc.ColumnOrField]; !keep {
					continue
				}
			}
			if _, skip := excludeColumns[loc.ColumnOrField]; skip {
				continue
			}
			select {
			case out <- it:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// finishDBScan filters a database adapter's item stream by the
// tables/columns policy and runs the engine over what remains.
func finishDBScan(ctx context.Context, registry *detect.Registry, opts engine.Options, items <-chan engine.Item, excludeTables, columns, excludeColumns map[string]struct{}, rf *reportFlags) (bool, error) {
	filtered := filterItems(ctx, items, excludeTables, columns, excludeColumns)
	e := engine.New(registry, opts)
	results := e.Scan(ctx, filtered)
	return rf.writeReport(results)
}
