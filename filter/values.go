package filter

import (
	"encoding/json"
	"reflect"
	"strings"
)

// asFilter accepts any string keyed map, not only Filter, so callers can pass
// nested literals like map[string]int.
func asFilter(v any) (Filter, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	result := make(Filter, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		result[iter.Key().String()] = iter.Value().Interface()
	}
	return result, true
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []Filter:
		result := make([]any, len(l))
		for i, item := range l {
			result[i] = item
		}
		return result, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	result := make([]any, rv.Len())
	for i := range result {
		result[i] = rv.Index(i).Interface()
	}
	return result, true
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// equal compares two decoded JSON values. Numbers are equal by value whatever
// their Go type.
func equal(a, b any) bool {

	if na, ok := toNumber(a); ok {
		nb, ok := toNumber(b)
		return ok && na == nb
	}

	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if la, ok := asList(a); ok {
		lb, ok := asList(b)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	}

	if ma, ok := asFilter(a); ok {
		mb, ok := asFilter(b)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, exists := mb[k]
			if !exists || !equal(va, vb) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

// compare orders numbers and strings. ok is false when the values cannot be
// ordered against each other.
func compare(a, b any) (c int, ok bool) {

	if na, isNumber := toNumber(a); isNumber {
		nb, isNumber := toNumber(b)
		if !isNumber {
			return 0, false
		}
		switch {
		case na < nb:
			return -1, true
		case na > nb:
			return 1, true
		}
		return 0, true
	}

	sa, isString := a.(string)
	if !isString {
		return 0, false
	}
	sb, isString := b.(string)
	if !isString {
		return 0, false
	}

	return strings.Compare(sa, sb), true
}
