package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Op is a comparison operator supported in filter parameters.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

var operators = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// ParseOp maps the bracketed operator of a query key (averageCost[lte]) to
// an Op. Unknown operators are an error.
func ParseOp(s string) (Op, error) {
	op, ok := operators[s]
	if !ok {
		return "", fmt.Errorf("unsupported operator %q", s)
	}
	return op, nil
}

// Reserved parameters control presentation and are never filter predicates.
var Reserved = map[string]struct{}{
	"select": {},
	"sort":   {},
	"page":   {},
	"limit":  {},
}

// Predicate is one typed condition of a filter. Predicates of a filter are
// combined with AND.
type Predicate struct {
	Field  string
	Column string
	Kind   Kind
	Op     Op
	// Values holds exactly one element for every operator except OpIn.
	Values []any
}

// Value returns the single operand of a non-IN predicate.
func (p Predicate) Value() any {
	if len(p.Values) == 0 {
		return nil
	}
	return p.Values[0]
}

var keyPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)(?:\[([A-Za-z]+)\])?$`)

// ParseFilter turns the non-reserved query parameters into predicates.
// Keys are parsed structurally as field or field[op], so field names are
// never rewritten. Predicates are returned ordered by key to keep the
// generated queries stable.
func ParseFilter(values url.Values, schema Schema) ([]Predicate, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		if _, ok := Reserved[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	preds := make([]Predicate, 0, len(keys))
	for _, key := range keys {
		p, err := parsePredicate(key, values[key], schema)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func parsePredicate(key string, raw []string, schema Schema) (Predicate, error) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return Predicate{}, &Error{Param: key, Msg: "malformed filter key"}
	}
	name, opName := m[1], m[2]

	field, ok := schema.Lookup(name)
	if !ok || !field.Queryable() {
		return Predicate{}, &Error{Param: key, Msg: fmt.Sprintf("unknown field %q", name)}
	}

	op := OpEq
	if opName != "" {
		var err error
		if op, err = ParseOp(opName); err != nil {
			return Predicate{}, &Error{Param: key, Msg: err.Error()}
		}
	}
	if !field.Kind.allows(op) {
		return Predicate{}, &Error{Param: key, Msg: fmt.Sprintf("operator %s not supported on %s field", op, field.Kind)}
	}

	if op == OpIn {
		raw = splitList(raw)
	}
	if len(raw) == 0 {
		return Predicate{}, &Error{Param: key, Msg: "missing value"}
	}
	if op != OpIn && len(raw) > 1 {
		return Predicate{}, &Error{Param: key, Msg: "repeated value; use [in] to match several"}
	}

	vals := make([]any, 0, len(raw))
	for _, r := range raw {
		v, err := field.Kind.convert(r)
		if err != nil {
			return Predicate{}, &Error{Param: key, Msg: err.Error()}
		}
		vals = append(vals, v)
	}

	return Predicate{
		Field:  name,
		Column: field.Column,
		Kind:   field.Kind,
		Op:     op,
		Values: vals,
	}, nil
}

// splitList flattens repeated and comma separated values, dropping empties.
func splitList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
