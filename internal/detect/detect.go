// Package detect defines the detector contract shared by built-in and
// plugin detectors, and the registry that the Scan Engine iterates.
package detect

import (
	"fmt"

	"github.com/hemlocksec/pii-radar/internal/model"
)

// LocationContext describes where in a text blob a candidate was found, passed to
// a Detector so it can stamp a Match's Location without knowing how its
// caller addresses the source. LineForOffset/ColumnForOffset are computed
// lazily by the walker/adapter that owns the text.
type LocationContext struct {
	SourceID          string
	LineForOffset     func(byteOffset int) int
	ColumnForOffset   func(byteOffset int) int
	TableOrCollection string
	RowKey            string
	ColumnOrField     string
	URL               string
	Method            string
}

// Detector finds and validates one class of PII. Implementations must be
// pure with respect to text (no mutation), must not retain references to
// text beyond the returned matches, and must be safe for concurrent
// invocation from multiple workers.
type Detector interface {
	ID() string
	Name() string
	Country() string
	Category() model.Category
	DefaultSeverity() model.Severity
	Detect(text string, loc LocationContext) []model.Match
}

// Registry maintains insertion-ordered detectors keyed by ID. Register
// mutates the registry and is not safe for concurrent use; once
// registration is finished, the read methods are safe for concurrent
// access, and the Filter methods return modified copies.
type Registry struct {
	order     []string
	detectors map[string]Detector
	enabled   map[string]bool
}

// NewRegistry returns an empty registry; detectors are added with Register.
func NewRegistry() *Registry {
	return &Registry{detectors: map[string]Detector{}, enabled: map[string]bool{}}
}

// Register adds a detector, rejecting a duplicate ID.
func (r *Registry) Register(d Detector) error {
	if _, exists := r.detectors[d.ID()]; exists {
		return fmt.Errorf("detect: duplicate detector id %q", d.ID())
	}
	r.order = append(r.order, d.ID())
	r.detectors[d.ID()] = d
	r.enabled[d.ID()] = true
	return nil
}

// Get returns the detector registered under id.
func (r *Registry) Get(id string) (Detector, bool) {
	d, ok := r.detectors[id]
	return d, ok
}

// Len returns the number of registered detectors.
func (r *Registry) Len() int { return len(r.order) }

// IterEnabled returns detectors in stable registration order, skipping any
// disabled by FilterCountries/FilterCategories.
func (r *Registry) IterEnabled() []Detector {
	out := make([]Detector, 0, len(r.order))
	for _, id := range r.order {
		if r.enabled[id] {
			out = append(out, r.detectors[id])
		}
	}
	return out
}

// Order returns the registration order of detector IDs, used by overlap
// resolution's "earlier detector_id in registry order" tiebreak.
func (r *Registry) Order() []string {
	return append([]string(nil), r.order...)
}

// FilterCountries returns a new Registry with only detectors whose country
// is in the set or is model.UniversalCountry.
func (r *Registry) FilterCountries(countries map[string]struct{}) *Registry {
	if len(countries) == 0 {
		return r.clone()
	}
	out := r.clone()
	for id, d := range out.detectors {
		if d.Country() == model.UniversalCountry {
			continue
		}
		if _, ok := countries[d.Country()]; !ok {
			out.enabled[id] = false
		}
	}
	return out
}

// FilterCategories returns a new Registry with only detectors whose
// category is in the set.
func (r *Registry) FilterCategories(categories map[model.Category]struct{}) *Registry {
	if len(categories) == 0 {
		return r.clone()
	}
	out := r.clone()
	for id, d := range out.detectors {
		if _, ok := categories[d.Category()]; !ok {
			out.enabled[id] = false
		}
	}
	return out
}

func (r *Registry) clone() *Registry {
	out := &Registry{
		order:     append([]string(nil), r.order...),
		detectors: make(map[string]Detector, len(r.detectors)),
		enabled:   make(map[string]bool, len(r.enabled)),
	}
	for k, v := range r.detectors {
		out.detectors[k] = v
	}
	for k, v := range r.enabled {
		out.enabled[k] = v
	}
	return out
}

// Records returns a DetectorRecord view suitable for the `detectors` CLI
// subcommand and JSON introspection.
func (r *Registry) Records() []model.DetectorRecord {
	out := make([]model.DetectorRecord, 0, len(r.order))
	for _, id := range r.order {
		d := r.detectors[id]
		out = append(out, model.DetectorRecord{
			ID:              d.ID(),
			Name:            d.Name(),
			Country:         d.Country(),
			Category:        d.Category(),
			DefaultSeverity: d.DefaultSeverity(),
			Enabled:         r.enabled[id],
		})
	}
	return out
}
