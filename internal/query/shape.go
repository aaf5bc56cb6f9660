package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CreatedAtField is the field every resource exposes for its creation time.
const CreatedAtField = "createdAt"

// IDField is always part of a projection.
const IDField = "id"

// SortField orders results by one column.
type SortField struct {
	Field  string
	Column string
	Desc   bool
}

// DefaultSort orders by creation time, newest first.
func DefaultSort(schema Schema) []SortField {
	f := schema[CreatedAtField]
	return []SortField{{Field: CreatedAtField, Column: f.Column, Desc: true}}
}

// ParseSort parses "name,-averageCost" into sort fields, in the order given.
// An empty value yields the default sort.
func ParseSort(raw string, schema Schema) ([]SortField, error) {
	names := splitList([]string{raw})
	if len(names) == 0 {
		return DefaultSort(schema), nil
	}

	out := make([]SortField, 0, len(names))
	for _, name := range names {
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimLeft(name, "-+")
		f, ok := schema.Lookup(name)
		if !ok || !f.Queryable() {
			return nil, &Error{Param: "sort", Msg: fmt.Sprintf("unknown field %q", name)}
		}
		out = append(out, SortField{Field: name, Column: f.Column, Desc: desc})
	}
	return out, nil
}

// ParseSelect parses "name,phone" into the list of fields to return.
func ParseSelect(raw string, schema Schema) ([]string, error) {
	names := splitList([]string{raw})
	if len(names) == 0 {
		return nil, nil
	}
	for _, name := range names {
		if _, ok := schema.Lookup(name); !ok {
			return nil, &Error{Param: "select", Msg: fmt.Sprintf("unknown field %q", name)}
		}
	}
	return names, nil
}

// Project restricts each item to the selected fields, working on the JSON
// representation of the item. The id is always kept. Dotted fields keep
// their top-level object (location.city keeps location).
func Project[T any](items []T, fields []string) ([]map[string]json.RawMessage, error) {
	keep := map[string]struct{}{IDField: {}}
	for _, f := range fields {
		top, _, _ := strings.Cut(f, ".")
		keep[top] = struct{}{}
	}

	out := make([]map[string]json.RawMessage, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("project: marshal: %w", err)
		}
		var full map[string]json.RawMessage
		if err := json.Unmarshal(b, &full); err != nil {
			return nil, fmt.Errorf("project: unmarshal: %w", err)
		}
		m := make(map[string]json.RawMessage, len(keep))
		for k := range keep {
			if v, ok := full[k]; ok {
				m[k] = v
			}
		}
		out = append(out, m)
	}
	return out, nil
}
