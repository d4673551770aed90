package store

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/icct-edu/campus-events/internal/core/ports"
)

// matchEquality reports whether rec satisfies every field of filter.
// Both drivers observe this exact semantics for filtered reads.
func matchEquality(rec ports.Record, filter map[string]any) bool {
	for field, want := range filter {
		if !valuesEqual(rec[field], want) {
			return false
		}
	}
	return true
}

// matchConditions reports whether rec satisfies every per-field condition.
func matchConditions(rec ports.Record, conditions map[string]ports.Condition) bool {
	for field, cond := range conditions {
		if !matchCondition(rec[field], cond) {
			return false
		}
	}
	return true
}

func matchCondition(have any, cond ports.Condition) bool {
	switch cond.Op {
	case ports.OpEq:
		return valuesEqual(have, cond.Value)
	case ports.OpNe:
		return !valuesEqual(have, cond.Value)
	case ports.OpGt:
		return compareValues(have, cond.Value) > 0
	case ports.OpLt:
		return compareValues(have, cond.Value) < 0
	case ports.OpGte:
		return compareValues(have, cond.Value) >= 0
	case ports.OpLte:
		return compareValues(have, cond.Value) <= 0
	case ports.OpIn:
		return valueIn(have, cond.Value)
	case ports.OpLike:
		return likeMatch(have, cond.Value)
	default:
		return false
	}
}

// matchSearch reports whether any named field contains term
// (case-insensitive substring).
func matchSearch(rec ports.Record, term string, fields []string) bool {
	needle := strings.ToLower(term)
	for _, field := range fields {
		val, ok := rec[field].(string)
		if !ok || val == "" {
			continue
		}
		if strings.Contains(strings.ToLower(val), needle) {
			return true
		}
	}
	return false
}

// valuesEqual compares record values across the numeric representations the
// two backends produce (json float64, bson int32/int64).
func valuesEqual(a, b any) bool {
	if fa, aok := toFloat(a); aok {
		fb, bok := toFloat(b)
		return bok && fa == fb
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		return ok && sa == sb
	}
	if ba, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ba == bb
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values: numerically when both are numbers, else
// lexically on their string forms (which is what ISO date strings need).
func compareValues(a, b any) int {
	if fa, aok := toFloat(a); aok {
		if fb, bok := toFloat(b); bok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		return strings.Compare(sa, sb)
	}
	return strings.Compare(stringify(a), stringify(b))
}

func valueIn(have, set any) bool {
	rv := reflect.ValueOf(set)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if valuesEqual(have, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func likeMatch(have, want any) bool {
	hs, ok := have.(string)
	if !ok {
		hs = stringify(have)
	}
	ws, ok := want.(string)
	if !ok {
		return false
	}
	return hs != "" && strings.Contains(strings.ToLower(hs), strings.ToLower(ws))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case bool:
		return strconv.FormatBool(n)
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
