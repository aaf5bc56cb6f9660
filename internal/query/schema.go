package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the value type of a queryable field. It decides how raw query
// string values are converted and which operators the field accepts.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindTime
	KindTextArray
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindTextArray:
		return "text array"
	default:
		return "unknown"
	}
}

// Field describes one API field of a resource.
type Field struct {
	// Column is the storage column the field maps to. It is only ever taken
	// from a Schema, never from request input. Fields without a column can
	// be selected but not filtered or sorted on.
	Column string
	Kind   Kind
}

// Queryable reports whether the field can appear in a filter or a sort.
func (f Field) Queryable() bool { return f.Column != "" }

// Schema maps API field names (as they appear in JSON and in the query
// string) to their storage description.
type Schema map[string]Field

// Lookup returns the field registered under name.
func (s Schema) Lookup(name string) (Field, bool) {
	f, ok := s[name]
	return f, ok
}

// convert parses a raw query string value according to the field kind.
func (k Kind) convert(raw string) (any, error) {
	switch k {
	case KindText, KindTextArray:
		return raw, nil
	case KindNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	case KindTime:
		raw = strings.TrimSpace(raw)
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("%q is not a date", raw)
	default:
		return nil, fmt.Errorf("unsupported field kind %d", k)
	}
}

// allows reports whether the operator is meaningful for this kind.
func (k Kind) allows(op Op) bool {
	switch op {
	case OpEq, OpIn:
		return true
	case OpGt, OpGte, OpLt, OpLte:
		return k == KindNumber || k == KindTime || k == KindText
	default:
		return false
	}
}
