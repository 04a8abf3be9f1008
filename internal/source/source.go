// Package source implements the concrete Source Adapters that feed the
// Scan Engine: file, SQLite, Postgres, MongoDB, and HTTP. Each adapter only
// produces engine.Item values (source id, extracted text, and location
// metadata); none of them filter detectors, apply context, or compute
// severity, which the engine computes after translation.
package source

import (
	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/engine"
)

// item is the shared engine.Item implementation behind every adapter.
type item struct {
	sourceID       string
	text           string
	err            error
	loc            detect.LocationContext
	extractionUsed bool
}

func (i item) SourceID() string                  { return i.sourceID }
func (i item) Text() (string, error)             { return i.text, i.err }
func (i item) Location() detect.LocationContext  { return i.loc }
func (i item) ExtractionUsed() bool              { return i.extractionUsed }

var _ engine.Item = item{}

// lineColumnFuncs precomputes byte offsets of each line start in text so a
// detector's byte offset can be translated into a 1-based (line, column)
// pair without rescanning the text for every match.
func lineColumnFuncs(text string) (func(int) int, func(int) int) {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	lineFor := func(offset int) int {
		lo, hi := 0, len(starts)-1
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if starts[mid] <= offset {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		return lo + 1
	}
	columnFor := func(offset int) int {
		line := lineFor(offset)
		return offset - starts[line-1] + 1
	}
	return lineFor, columnFor
}

// keepSampledRow implements the deterministic --sample-percent policy: row
// numbers are 1-based, and a row is kept when its position modulo 100
// falls below the requested percentage, so two runs over the same table
// sample the same rows. 0 or >=100 keeps every row.
func keepSampledRow(rowNum, samplePercent int) bool {
	if samplePercent <= 0 || samplePercent >= 100 {
		return true
	}
	return (rowNum-1)%100 < samplePercent
}
