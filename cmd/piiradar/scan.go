package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/hemlocksec/pii-radar/internal/config"
	"github.com/hemlocksec/pii-radar/internal/engine"
	"github.com/hemlocksec/pii-radar/internal/extract"
	"github.com/hemlocksec/pii-radar/internal/ignore"
	"github.com/hemlocksec/pii-radar/internal/source"
)

var documentExtensions = map[string]struct{}{
	".pdf":  {},
	".xlsx": {},
	".xlsm": {},
	".html": {},
	".htm":  {},
	".docx": {},
}

func runScan(args []string) (bool, error) {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	rf := addReportFlags(fs)
	extractDocs := fs.Bool("extract-documents", false, "extract text from PDF/XLSX/HTML/DOCX documents")
	maxDepth := fs.Int("max-depth", 0, "maximum directory recursion depth (0 = unlimited)")
	maxFilesizeMB := fs.Int64("max-filesize", 100, "maximum file size to scan, in MiB")
	followSymlinks := fs.Bool("follow-symlinks", false, "follow symbolic links while walking")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if fs.NArg() < 1 {
		return false, fmt.Errorf("scan requires a path argument")
	}
	root := fs.Arg(0)

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

	walkOpts := ignore.Options{
		MaxDepth:           *maxDepth,
		FollowSymlinks:     *followSymlinks,
		MaxFileSize:        *maxFilesizeMB * 1024 * 1024,
		ExtractDocuments:   *extractDocs,
		DocumentExtensions: documentExtensions,
	}

	extractors := extract.NewRegistry()
	if *extractDocs {
		extractors = extract.Default()
	}

	adapter := source.NewFileAdapter(root, walkOpts, extractors)
	ctx := context.Background()
	var skipped source.Skips
	items := adapter.Items(ctx, &skipped)

	e := engine.New(registry, opts)
	results := e.Scan(ctx, items)

	return rf.writeReport(results)
}
