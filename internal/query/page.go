package query

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
)

// Page identifies a result window. It doubles as the next/prev descriptor
// in the pagination block of a response.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ParsePage reads page and limit, falling back to the defaults for missing,
// non-numeric or non-positive input.
func ParsePage(page, limit string) Page {
	return Page{
		Page:  positiveOr(page, DefaultPage),
		Limit: positiveOr(limit, DefaultLimit),
	}
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// StartIndex is the number of matching records skipped before this page.
// It saturates at math.MaxInt, which lies past the end of any result.
func (p Page) StartIndex() int { return mulSat(p.Page-1, p.Limit) }

// EndIndex is the index one past the last record of this page. It
// saturates like StartIndex.
func (p Page) EndIndex() int { return mulSat(p.Page, p.Limit) }

func mulSat(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

// Pagination links to the neighbouring pages that exist.
type Pagination struct {
	Next *Page `json:"next,omitempty"`
	Prev *Page `json:"prev,omitempty"`
}

// Paginate derives the neighbour descriptors of p given the total number of
// records matching the filter.
func Paginate(p Page, total int64) Pagination {
	var pg Pagination
	if int64(p.EndIndex()) < total {
		pg.Next = &Page{Page: p.Page + 1, Limit: p.Limit}
	}
	if p.StartIndex() > 0 {
		pg.Prev = &Page{Page: p.Page - 1, Limit: p.Limit}
	}
	return pg
}
