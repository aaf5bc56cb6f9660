package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"devcamper/internal/query"
)

// fieldsFunc exposes a record under its query field names, with numbers as
// float64 so they compare with converted predicate values.
type fieldsFunc[T any] func(T) map[string]any

// find evaluates a list request in memory with the same semantics as the
// SQL store: filter, order with an id tiebreak, count, then window.
func find[T any](items []T, p query.Params, fields fieldsFunc[T]) query.Result[T] {
	type row struct {
		item T
		vals map[string]any
	}
	rows := make([]row, 0, len(items))
	for _, it := range items {
		vals := fields(it)
		if matchAll(vals, p.Filter) {
			rows = append(rows, row{it, vals})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, s := range p.Sort {
			c := compareSort(rows[i].vals[s.Field], rows[j].vals[s.Field])
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return compareSort(rows[i].vals[query.IDField], rows[j].vals[query.IDField]) < 0
	})

	total := int64(len(rows))
	start := min(max(p.Page.StartIndex(), 0), len(rows))
	end := min(max(p.Page.EndIndex(), start), len(rows))

	out := make([]T, 0, end-start)
	for _, r := range rows[start:end] {
		out = append(out, r.item)
	}
	return query.Result[T]{Items: out, Total: total}
}

func matchAll(vals map[string]any, preds []query.Predicate) bool {
	for _, p := range preds {
		if !match(vals[p.Field], p) {
			return false
		}
	}
	return true
}

func match(v any, p query.Predicate) bool {
	if v == nil {
		return false
	}
	if arr, ok := v.([]string); ok {
		want := make(map[string]bool, len(arr))
		for _, s := range arr {
			want[s] = true
		}
		if p.Op == query.OpIn {
			for _, pv := range p.Values {
				if want[fmt.Sprint(pv)] {
					return true
				}
			}
			return false
		}
		return want[fmt.Sprint(p.Value())]
	}

	switch p.Op {
	case query.OpIn:
		for _, pv := range p.Values {
			if c, ok := compare(v, pv); ok && c == 0 {
				return true
			}
		}
		return false
	case query.OpGt, query.OpGte, query.OpLt, query.OpLte:
		c, ok := compare(v, p.Value())
		if !ok {
			return false
		}
		switch p.Op {
		case query.OpGt:
			return c > 0
		case query.OpGte:
			return c >= 0
		case query.OpLt:
			return c < 0
		default:
			return c <= 0
		}
	default:
		c, ok := compare(v, p.Value())
		return ok && c == 0
	}
}

// compare orders two values of the same kind. ok is false when the kinds
// differ.
func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return strings.Compare(x, y), ok
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case time.Time:
		y, ok := b.(time.Time)
		return x.Compare(y), ok
	}
	return 0, false
}

// compareSort sorts missing values last, like NULLs in an ascending
// Postgres ordering.
func compareSort(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c, _ := compare(a, b)
	return c
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
