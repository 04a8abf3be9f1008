package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/hemlocksec/pii-radar/internal/config"
	"github.com/hemlocksec/pii-radar/internal/engine"
	"github.com/hemlocksec/pii-radar/internal/source"
)

// headerList implements flag.Value so -header can be repeated, e.g.
// -header "Authorization: Bearer xyz" -header "Accept: application/json".
type headerList []string

func (h *headerList) String() string { return strings.Join(*h, ",") }

func (h *headerList) Set(value string) error {
	*h = append(*h, value)
	return nil
}

func (h headerList) toMap() map[string]string {
	out := map[string]string{}
	for _, raw := range h {
		k, v, ok := strings.Cut(raw, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

func runAPI(args []string) (bool, error) {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	rf := addReportFlags(fs)
	method := fs.String("method", "GET", "HTTP method: GET|POST|PUT|PATCH|DELETE")
	body := fs.String("body", "", "request body, sent with whichever method is used")
	timeoutSec := fs.Int("timeout", 30, "request timeout in seconds")
	noRedirects := fs.Bool("no-redirects", false, "do not follow HTTP redirects")
	var headers headerList
	fs.Var(&headers, "header", "request header \"Name: Value\" (repeatable)")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if fs.NArg() < 1 {
		return false, fmt.Errorf("api requires at least one URL argument")
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

	headerMap := headers.toMap()
	endpoints := make([]source.Endpoint, 0, fs.NArg())
	for _, url := range fs.Args() {
		endpoints = append(endpoints, source.Endpoint{
			URL:     url,
			Method:  strings.ToUpper(*method),
			Headers: headerMap,
			Body:    *body,
		})
	}

	adapter := &source.HTTPAdapter{
		Endpoints:   endpoints,
		Timeout:     time.Duration(*timeoutSec) * time.Second,
		NoRedirects: *noRedirects,
	}

	ctx := context.Background()
	e := engine.New(registry, opts)
	results := e.Scan(ctx, adapter.Items(ctx))

	return rf.writeReport(results)
}
