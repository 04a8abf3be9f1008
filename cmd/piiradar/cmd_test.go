package main

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/engine"
)

func TestSplitCSVTrimsAndDropsEmpty(t *testing.T) {
	got := splitCSV(" users , , orders ,accounts")
	want := []string{"users", "orders", "accounts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitCSV() = %v, want %v", got, want)
	}
}

func TestSplitCSVEmptyInput(t *testing.T) {
	if got := splitCSV(""); got != nil {
		t.Errorf("splitCSV(\"\") = %v, want nil", got)
	}
}

func TestToSetBuildsMembership(t *testing.T) {
	set := toSet([]string{"a", "b", "a"})
	if len(set) != 2 {
		t.Fatalf("toSet() len = %d, want 2", len(set))
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("toSet() keys = %v", keys)
	}
}

func TestHeaderListSetAppendsAndToMapParsesPairs(t *testing.T) {
	var h headerList
	if err := h.Set("Authorization: Bearer xyz"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := h.Set("Accept:application/json"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got := h.toMap()
	want := map[string]string{
		"Authorization": "Bearer xyz",
		"Accept":        "application/json",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toMap() = %v, want %v", got, want)
	}
}

func TestHeaderListSkipsMalformedEntries(t *testing.T) {
	h := headerList{"not-a-header-pair"}
	if got := h.toMap(); len(got) != 0 {
		t.Errorf("toMap() = %v, want empty", got)
	}
}

func TestParseCountriesNormalizesCase(t *testing.T) {
	got := parseCountries("nl, de ,FR")
	want := map[string]struct{}{"NL": {}, "DE": {}, "FR": {}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseCountries() = %v, want %v", got, want)
	}
}

func TestParseCountriesEmptyReturnsNil(t *testing.T) {
	if got := parseCountries(""); got != nil {
		t.Errorf("parseCountries(\"\") = %v, want nil", got)
	}
}

type fakeDBItem struct {
	table  string
	column string
}

func (f fakeDBItem) SourceID() string      { return f.table + "/" + f.column }
func (f fakeDBItem) Text() (string, error) { return "x", nil }
func (f fakeDBItem) Location() detect.LocationContext {
	return detect.LocationContext{TableOrCollection: f.table, ColumnOrField: f.column}
}
func (f fakeDBItem) ExtractionUsed() bool { return false }

func drainItems(t *testing.T, ch <-chan engine.Item) []engine.Item {
	t.Helper()
	var out []engine.Item
	for it := range ch {
		out = append(out, it)
	}
	return out
}

func TestFilterItemsDropsExcludedTable(t *testing.T) {
	in := make(chan engine.Item, 2)
	in <- fakeDBItem{table: "users", column: "email"}
	in <- fakeDBItem{table: "secrets", column: "token"}
	close(in)

	out := filterItems(context.Background(), in, toSet([]string{"secrets"}), nil, nil)
	got := drainItems(t, out)
	if len(got) != 1 || got[0].SourceID() != "users/email" {
		t.Fatalf("expected only users/email to survive, got %v", got)
	}
}

func TestFilterItemsHonorsColumnIncludeAndExclude(t *testing.T) {
	in := make(chan engine.Item, 3)
	in <- fakeDBItem{table: "users", column: "email"}
	in <- fakeDBItem{table: "users", column: "bio"}
	in <- fakeDBItem{table: "users", column: "password_hash"}
	close(in)

	out := filterItems(context.Background(), in, nil, toSet([]string{"email", "bio"}), toSet([]string{"bio"}))
	got := drainItems(t, out)
	if len(got) != 1 || got[0].Location().ColumnOrField != "email" {
		t.Fatalf("expected only the email column to survive, got %v", got)
	}
}
