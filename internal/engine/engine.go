// Package engine implements the scan engine: a fixed worker pool that runs
// every enabled detector over each source item's text, resolves overlapping
// matches, consults the allowlist, and runs the context analyzer. The
// fork-join shape (buffered job channel, fixed goroutine pool, a
// sync.WaitGroup, a separate result-collector goroutine) works over a
// generic Item source rather than a filesystem walker directly, so it also
// serves database and HTTP adapters.
package engine

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/hemlocksec/pii-radar/internal/allowlist"
	"github.com/hemlocksec/pii-radar/internal/artcontext"
	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/hoststats"
	"github.com/hemlocksec/pii-radar/internal/model"
)

// Item is one unit of scannable text handed to the engine by a source
// adapter (file, database row, or HTTP exchange). Text is already
// extracted: document-format extraction happens in the adapter, not here.
type Item interface {
	SourceID() string
	Text() (string, error)
	Location() detect.LocationContext
	ExtractionUsed() bool
}

// ProgressFunc is invoked after each item finishes, reporting how many
// items have been processed so far. total is 0 when the source can't report
// an upfront count (e.g. a streaming HTTP adapter).
type ProgressFunc func(processed, total int)

// Options configures a Scan Engine run.
type Options struct {
	// Workers is the size of the fixed worker pool. Non-positive values
	// fall back to runtime.NumCPU().
	Workers int

	MinConfidence model.Confidence

	// Countries restricts findings to these ISO country codes plus
	// UniversalCountry matches. Empty means no restriction.
	Countries map[string]struct{}

	// ContextWindow overrides the context analyzer's window size; 0 uses
	// artcontext.DefaultWindow.
	ContextWindow int

	// DisableContext skips the context analyzer entirely (the --no-context
	// flag), leaving each match's severity at the detector's default.
	DisableContext bool

	Allowlist *allowlist.Allowlist

	Progress ProgressFunc
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Engine runs a fixed detector registry against a stream of Items.
type Engine struct {
	registry *detect.Registry
	analyzer *artcontext.Analyzer
	opts     Options
}

// New builds an Engine bound to registry. The registry is expected to
// already be filtered to the desired countries/categories: the engine
// iterates whatever IterEnabled returns.
func New(registry *detect.Registry, opts Options) *Engine {
	return &Engine{
		registry: registry,
		analyzer: artcontext.NewAnalyzer(opts.ContextWindow),
		opts:     opts,
	}
}

// Scan drains items, runs every enabled detector over each one concurrently
// across a fixed worker pool, and folds the results into a ScanResults.
// Scan blocks until items is closed and every in-flight item has completed,
// or ctx is canceled, whichever happens first.
func (e *Engine) Scan(ctx context.Context, items <-chan Item) *model.ScanResults {
	results := model.NewScanResults()
	startSample := hoststats.Sample()

	workers := e.opts.workers()
	out := make(chan model.FileResult, workers*4)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range items {
				select {
				case <-ctx.Done():
					return
				default:
				}
				out <- e.scanItem(item)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	processed := 0
	for fr := range out {
		results.AddFileResult(fr)
		if fr.Error != "" && len(fr.Matches) == 0 && fr.ExtractionUsed {
			results.AddExtractionFailure(fr.SourceID, fr.Error)
		} else if fr.Error == "" && fr.ExtractionUsed {
			results.ExtractedOK++
		}
		processed++
		if e.opts.Progress != nil {
			e.opts.Progress(processed, 0)
		}
	}

	endSample := hoststats.Sample()
	results.HostStats = &model.HostStats{Start: startSample, End: endSample}
	results.Duration = time.Since(results.StartedAt)
	return results
}

// scanItem is the unit of work executed by each pool worker: extract text,
// run every enabled detector, resolve overlaps, apply the allowlist and
// context analyzer, and filter by confidence/country.
func (e *Engine) scanItem(item Item) model.FileResult {
	fr := model.FileResult{SourceID: item.SourceID(), ExtractionUsed: item.ExtractionUsed()}

	text, err := item.Text()
	if err != nil {
		fr.Error = err.Error()
		return fr
	}

	loc := item.Location()

	var raw []model.Match
	for _, d := range e.registry.IterEnabled() {
		raw = append(raw, d.Detect(text, loc)...)
	}

	resolved := resolveOverlaps(raw, e.registry.Order())

	matches := make([]model.Match, 0, len(resolved))
	for _, m := range resolved {
		if e.opts.Allowlist != nil && e.opts.Allowlist.Contains(m.ValueRaw) {
			continue
		}
		if !e.opts.DisableContext {
			category, snippet := e.analyzer.Analyze(text, m.Start, m.End, m.ValueRaw)
			m.GdprArticle9Category = category
			m.ContextSnippet = snippet
			m.Severity = artcontext.ApplySeverity(m.Severity, category)
		}
		if loc.LineForOffset != nil {
			m.Location.Line = loc.LineForOffset(m.Start)
		}
		if loc.ColumnForOffset != nil {
			m.Location.Column = loc.ColumnForOffset(m.Start)
		}
		if m.Confidence < e.opts.MinConfidence {
			continue
		}
		if len(e.opts.Countries) > 0 && m.Country != model.UniversalCountry {
			if _, ok := e.opts.Countries[m.Country]; !ok {
				continue
			}
		}
		matches = append(matches, m)
	}

	fr.Matches = matches
	return fr
}

// resolveOverlaps applies the overlap-resolution policy: among matches whose
// byte spans overlap, the higher-confidence match wins; ties break to the
// longer span; remaining ties break to the detector registered earlier.
// A detector's own output is assumed already non-overlapping with itself,
// so this only needs to arbitrate across detectors.
func resolveOverlaps(matches []model.Match, order []string) []model.Match {
	if len(matches) <= 1 {
		return matches
	}

	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}

	priority := append([]model.Match(nil), matches...)
	sort.SliceStable(priority, func(i, j int) bool {
		a, b := priority[i], priority[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		lenA, lenB := a.End-a.Start, b.End-b.Start
		if lenA != lenB {
			return lenA > lenB
		}
		return rank[a.DetectorID] < rank[b.DetectorID]
	})

	var kept []model.Match
	for _, m := range priority {
		overlaps := false
		for _, k := range kept {
			if m.Start < k.End && k.Start < m.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, m)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}
