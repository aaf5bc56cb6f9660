// Package query turns list request query strings into typed filter, sort,
// projection and page values, and shapes list results into the response
// envelope shared by every list endpoint.
//
//	GET /api/v1/bootcamps?averageCost[lte]=10000&select=name,phone&sort=-name&page=2&limit=2
package query

import (
	"fmt"
	"net/url"
)

// Params is the parsed form of a list request. It is built once per
// request and handed explicitly to the store.
type Params struct {
	Filter []Predicate
	Select []string
	Sort   []SortField
	Page   Page
}

// Parse builds Params from a request query string against the schema of
// the listed resource.
func Parse(values url.Values, schema Schema) (Params, error) {
	filter, err := ParseFilter(values, schema)
	if err != nil {
		return Params{}, err
	}
	sel, err := ParseSelect(values.Get("select"), schema)
	if err != nil {
		return Params{}, err
	}
	srt, err := ParseSort(values.Get("sort"), schema)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Filter: filter,
		Select: sel,
		Sort:   srt,
		Page:   ParsePage(values.Get("page"), values.Get("limit")),
	}, nil
}

// Where returns a copy of p with an extra equality predicate, used by
// nested routes such as /bootcamps/{id}/reviews.
func (p Params) Where(field string, schema Schema, value any) Params {
	f := schema[field]
	out := p
	out.Filter = append(append([]Predicate(nil), p.Filter...), Predicate{
		Field:  field,
		Column: f.Column,
		Kind:   f.Kind,
		Op:     OpEq,
		Values: []any{value},
	})
	return out
}

// Result is one page of records plus the number of records matching the
// filter across all pages.
type Result[T any] struct {
	Items []T
	Total int64
}

// Envelope is the JSON body of every list response.
type Envelope struct {
	Success    bool       `json:"success"`
	Count      int        `json:"count"`
	Pagination Pagination `json:"pagination"`
	Data       any        `json:"data"`
}

// NewEnvelope wraps a result page, applying the projection from p.
func NewEnvelope[T any](res Result[T], p Params) (Envelope, error) {
	items := res.Items
	if items == nil {
		items = []T{}
	}

	var data any = items
	if len(p.Select) > 0 {
		projected, err := Project(items, p.Select)
		if err != nil {
			return Envelope{}, err
		}
		data = projected
	}

	return Envelope{
		Success:    true,
		Count:      len(items),
		Pagination: Paginate(p.Page, res.Total),
		Data:       data,
	}, nil
}

// Error reports an unusable query parameter.
type Error struct {
	Param string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Msg)
}
