package detect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/detect/builtin"
	"github.com/hemlocksec/pii-radar/internal/model"
)

func newRegistry(t *testing.T) *detect.Registry {
	t.Helper()
	r := detect.NewRegistry()
	require.NoError(t, r.Register(builtin.EmailDetector()))
	require.NoError(t, r.Register(builtin.NLBSNDetector()))
	return r
}

func TestRegisterRejectsDuplicateID(t *testing.T) {
	r := newRegistry(t)
	err := r.Register(builtin.EmailDetector())
	assert.Error(t, err)
}

func TestIterEnabledPreservesRegistrationOrder(t *testing.T) {
	r := newRegistry(t)
	ids := make([]string, 0, r.Len())
	for _, d := range r.IterEnabled() {
		ids = append(ids, d.ID())
	}
	assert.Equal(t, []string{"universal_email", "nl_bsn"}, ids)
}

func TestFilterCountriesKeepsUniversalDetectors(t *testing.T) {
	r := newRegistry(t)
	filtered := r.FilterCountries(map[string]struct{}{"DE": {}})

	enabled := filtered.IterEnabled()
	require.Len(t, enabled, 1)
	assert.Equal(t, "universal_email", enabled[0].ID())
}

func TestFilterCategoriesDisablesNonMatching(t *testing.T) {
	r := newRegistry(t)
	filtered := r.FilterCategories(map[model.Category]struct{}{model.CategoryNationalID: {}})

	enabled := filtered.IterEnabled()
	require.Len(t, enabled, 1)
	assert.Equal(t, "nl_bsn", enabled[0].ID())
}

func TestRecordsReflectsEnabledState(t *testing.T) {
	r := newRegistry(t)
	filtered := r.FilterCountries(map[string]struct{}{"NL": {}})

	records := filtered.Records()
	require.Len(t, records, 2)

	byID := map[string]model.DetectorRecord{}
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	assert.True(t, byID["universal_email"].Enabled)
	assert.True(t, byID["nl_bsn"].Enabled)
}
