package store

import (
	"testing"

	"github.com/icct-edu/campus-events/internal/core/ports"
)

func TestMatchEquality_NumericRepresentations(t *testing.T) {
	// json decoding yields float64, bson yields int32/int64
	rec := ports.Record{"capacity": float64(40), "campus": "Cainta"}

	if !matchEquality(rec, map[string]any{"capacity": 40}) {
		t.Fatalf("int filter must match float64 value")
	}
	if !matchEquality(rec, map[string]any{"capacity": int64(40), "campus": "Cainta"}) {
		t.Fatalf("multi-field filter with int64 must match")
	}
	if matchEquality(rec, map[string]any{"capacity": 41}) {
		t.Fatalf("different number must not match")
	}
	if matchEquality(rec, map[string]any{"campus": "Antipolo"}) {
		t.Fatalf("different string must not match")
	}
}

func TestMatchCondition_Operators(t *testing.T) {
	cases := []struct {
		name string
		have any
		cond ports.Condition
		want bool
	}{
		{"eq string", "Cainta", ports.Condition{Op: ports.OpEq, Value: "Cainta"}, true},
		{"ne", "Cainta", ports.Condition{Op: ports.OpNe, Value: "Antipolo"}, true},
		{"gt number", float64(12), ports.Condition{Op: ports.OpGt, Value: 10}, true},
		{"gt equal", float64(10), ports.Condition{Op: ports.OpGt, Value: 10}, false},
		{"lt", float64(3), ports.Condition{Op: ports.OpLt, Value: 10}, true},
		{"gte boundary", float64(10), ports.Condition{Op: ports.OpGte, Value: 10}, true},
		{"lte boundary", float64(10), ports.Condition{Op: ports.OpLte, Value: 10}, true},
		{"gt date string", "2099-03-10", ports.Condition{Op: ports.OpGt, Value: "2024-01-01"}, true},
		{"in", "Cainta", ports.Condition{Op: ports.OpIn, Value: []string{"Cainta", "Antipolo"}}, true},
		{"in miss", "Taytay", ports.Condition{Op: ports.OpIn, Value: []string{"Cainta", "Antipolo"}}, false},
		{"in non-slice", "Cainta", ports.Condition{Op: ports.OpIn, Value: "Cainta"}, false},
		{"like", "Web Development Workshop", ports.Condition{Op: ports.OpLike, Value: "develop"}, true},
		{"like miss", "Web Development Workshop", ports.Condition{Op: ports.OpLike, Value: "robotics"}, false},
		{"unknown op", "x", ports.Condition{Op: "regex", Value: "x"}, false},
	}

	for _, tc := range cases {
		if got := matchCondition(tc.have, tc.cond); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMatchConditions_AllMustHold(t *testing.T) {
	rec := ports.Record{"campus": "Cainta", "registered": float64(20)}

	ok := matchConditions(rec, map[string]ports.Condition{
		"campus":     {Op: ports.OpEq, Value: "Cainta"},
		"registered": {Op: ports.OpGte, Value: 20},
	})
	if !ok {
		t.Fatalf("expected both conditions to hold")
	}

	ok = matchConditions(rec, map[string]ports.Condition{
		"campus":     {Op: ports.OpEq, Value: "Cainta"},
		"registered": {Op: ports.OpGt, Value: 20},
	})
	if ok {
		t.Fatalf("one failing condition must reject the record")
	}
}

func TestMatchSearch(t *testing.T) {
	rec := ports.Record{
		"title":       "Web Development Workshop",
		"description": "Learn modern web development",
		"capacity":    float64(40),
	}

	if !matchSearch(rec, "WORKSHOP", []string{"title", "description"}) {
		t.Fatalf("search must be case-insensitive")
	}
	if !matchSearch(rec, "modern", []string{"title", "description"}) {
		t.Fatalf("any field may match")
	}
	if matchSearch(rec, "robotics", []string{"title", "description"}) {
		t.Fatalf("absent term must not match")
	}
	// non-string fields are skipped, not stringified
	if matchSearch(rec, "40", []string{"capacity"}) {
		t.Fatalf("numeric fields must not participate in search")
	}
}

func TestValuesEqual_Booleans(t *testing.T) {
	if !valuesEqual(true, true) {
		t.Fatalf("true == true")
	}
	if valuesEqual(true, "true") {
		t.Fatalf("bool must not equal its string form")
	}
}
