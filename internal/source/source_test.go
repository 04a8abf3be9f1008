package source

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// toBSONM converts plain Go map/slice literals into the bson.M/bson.A
// shapes flattenBSON expects, so tests can write ordinary composite
// literals instead of bson.M{...} nesting everywhere.
func toBSONM(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := bson.M{}
		for k, sub := range val {
			m[k] = toBSONM(sub)
		}
		return m
	case []interface{}:
		a := bson.A{}
		for _, sub := range val {
			a = append(a, toBSONM(sub))
		}
		return a
	default:
		return v
	}
}

func TestLineColumnFuncs(t *testing.T) {
	text := "first line\nsecond line\nthird"
	lineFor, colFor := lineColumnFuncs(text)

	if got := lineFor(0); got != 1 {
		t.Errorf("lineFor(0) = %d, want 1", got)
	}
	secondLineStart := len("first line\n")
	if got := lineFor(secondLineStart); got != 2 {
		t.Errorf("lineFor(%d) = %d, want 2", secondLineStart, got)
	}
	if got := colFor(secondLineStart); got != 1 {
		t.Errorf("colFor(%d) = %d, want 1", secondLineStart, got)
	}
	if got := colFor(secondLineStart + 3); got != 4 {
		t.Errorf("colFor(%d) = %d, want 4", secondLineStart+3, got)
	}
}

func TestCellToText(t *testing.T) {
	cases := []struct {
		in   interface{}
		text string
		ok   bool
	}{
		{nil, "", false},
		{"", "", false},
		{"hello", "hello", true},
		{[]byte("bytes"), "bytes", true},
		{42, "42", true},
	}
	for _, c := range cases {
		text, ok := cellToText(c.in)
		if text != c.text || ok != c.ok {
			t.Errorf("cellToText(%v) = (%q, %v), want (%q, %v)", c.in, text, ok, c.text, c.ok)
		}
	}
}

func TestFlattenBSONNestedFields(t *testing.T) {
	doc := map[string]interface{}{
		"name": "Jane",
		"address": map[string]interface{}{
			"city": "Amsterdam",
		},
		"tags": []interface{}{"a", "b"},
	}
	fields := map[string]string{}
	flattenBSON("", toBSONM(doc), fields)

	if fields["name"] != "Jane" {
		t.Errorf("fields[name] = %q, want Jane", fields["name"])
	}
	if fields["address.city"] != "Amsterdam" {
		t.Errorf("fields[address.city] = %q, want Amsterdam", fields["address.city"])
	}
	if fields["tags[0]"] != "a" || fields["tags[1]"] != "b" {
		t.Errorf("unexpected flattened tags: %+v", fields)
	}
}

func TestKeepSampledRowKeepsEverythingAtZeroOrAtLeastHundred(t *testing.T) {
	for _, pct := range []int{0, 100, 150} {
		for row := 1; row <= 5; row++ {
			if !keepSampledRow(row, pct) {
				t.Errorf("keepSampledRow(%d, %d) = false, want true", row, pct)
			}
		}
	}
}

func TestKeepSampledRowIsDeterministicAndProportional(t *testing.T) {
	kept := 0
	const total = 1000
	for row := 1; row <= total; row++ {
		if keepSampledRow(row, 25) {
			kept++
		}
	}
	if kept != total/4 {
		t.Errorf("kept %d of %d rows at 25%%, want %d", kept, total, total/4)
	}

	for row := 1; row <= total; row++ {
		if keepSampledRow(row, 25) != keepSampledRow(row, 25) {
			t.Errorf("keepSampledRow(%d, 25) was not deterministic", row)
		}
	}
}
