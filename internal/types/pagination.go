package types

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	// MaxPage keeps Offset well inside int range for any limit.
	MaxPage = math.MaxInt32 / MaxPageSize
)

type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest reads ?page and ?limit, falling back to defaults for
// missing or invalid values.
func ParsePageRequest(page, limit string) PageRequest {
	p := PageRequest{Page: 1, Limit: DefaultPageSize}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = min(n, MaxPage)
	} else if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(page, "-") {
		p.Page = MaxPage
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = min(n, MaxPageSize)
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Page[T any] struct {
	Count    int64 `json:"count"`
	Next     *int  `json:"next"`
	Previous *int  `json:"previous"`
	Results  []T   `json:"results"`
}

func NewPage[T any](req PageRequest, count int64, results []T) *Page[T] {
	if results == nil {
		results = []T{}
	}
	page := &Page[T]{Count: count, Results: results}
	if int64(req.Page*req.Limit) < count {
		next := req.Page + 1
		page.Next = &next
	}
	if req.Page > 1 {
		prev := req.Page - 1
		page.Previous = &prev
	}
	return page
}
