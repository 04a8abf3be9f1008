package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/hemlocksec/pii-radar/internal/config"
	"github.com/hemlocksec/pii-radar/internal/engine"
	"github.com/hemlocksec/pii-radar/internal/source"
)

func runScanDB(args []string) (bool, error) {
	fs := flag.NewFlagSet("scan-db", flag.ContinueOnError)
	rf := addReportFlags(fs)
	dbType := fs.String("db-type", "", "postgres|mongodb|sqlite")
	connection := fs.String("connection", "", "connection string, URI, or file path")
	database := fs.String("database", "", "database name (postgres schema, mongo database)")
	tables := fs.String("tables", "", "comma-separated tables/collections to include")
	excludeTables := fs.String("exclude-tables", "", "comma-separated tables/collections to exclude")
	columns := fs.String("columns", "", "comma-separated columns to include")
	excludeColumns := fs.String("exclude-columns", "", "comma-separated columns to exclude")
	rowLimit := fs.Int("row-limit", 0, "maximum rows per table (0 = unlimited)")
	samplePercent := fs.Int("sample-percent", 100, "percentage of rows to sample")
	// pool-size only applies to the Postgres adapter's connection pool; the
	// sqlite and mongo drivers here manage their own single connection.
	poolSize := fs.Int("pool-size", 0, "postgres connection pool size (0 = driver default)")
	if err := fs.Parse(args); err != nil {
		return false, err
	}

	cfg, err := config.Load(*rf.configPath)
	if err != nil {
		return false, err
	}
	rf.resolve(cfg)

	registry, err := engine.BuildRegistry(*rf.pluginDir)
	if err != nil {
		return false, err
	}
	opts, err := rf.engineOptions()
	if err != nil {
		return false, err
	}

	tableList := splitCSV(*tables)
	excludeSet := toSet(splitCSV(*excludeTables))
	columnSet := toSet(splitCSV(*columns))
	excludeColumnSet := toSet(splitCSV(*excludeColumns))

	ctx := context.Background()

	switch *dbType {
	case "sqlite":
		a := &source.SQLiteAdapter{Path: *connection, Tables: tableList, RowLimit: *rowLimit, SamplePercent: *samplePercent}
		ch, err := a.Items(ctx)
		if err != nil {
			return false, err
		}
		return finishDBScan(ctx, registry, opts, ch, excludeSet, columnSet, excludeColumnSet, rf)
	case "postgres":
		connString := *connection
		if *poolSize > 0 {
			connString = appendConnParam(connString, "pool_max_conns", fmt.Sprintf("%d", *poolSize))
		}
		a := &source.PostgresAdapter{ConnString: connString, Schema: *database, Tables: tableList, RowLimit: *rowLimit, SamplePercent: *samplePercent}
		ch, err := a.Items(ctx)
		if err != nil {
			return false, err
		}
		return finishDBScan(ctx, registry, opts, ch, excludeSet, columnSet, excludeColumnSet, rf)
	case "mongodb":
		a := &source.MongoAdapter{URI: *connection, Database: *database, Collections: tableList, RowLimit: *rowLimit, SamplePercent: *samplePercent}
		ch, err := a.Items(ctx)
		if err != nil {
			return false, err
		}
		return finishDBScan(ctx, registry, opts, ch, excludeSet, columnSet, excludeColumnSet, rf)
	default:
		return false, fmt.Errorf("unknown --db-type %q", *dbType)
	}
}

// appendConnParam appends a key=value pair to a libpq-style connection
// string (space-separated) or a postgres:// URI (? query parameter).
func appendConnParam(connString, key, value string) string {
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		sep := "?"
		if strings.Contains(connString, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%s%s=%s", connString, sep, key, value)
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s=%s", connString, key, value))
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
