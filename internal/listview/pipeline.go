// Package listview is the single filter/paginate pipeline behind every list
// screen. Each view used to carry its own copy of this logic with slightly
// different guards; they all go through Apply now.
package listview

import (
	"strconv"
	"strings"
)

// PageSizeAll disables pagination: one page holding every filtered item.
const PageSizeAll = 0

// FilterAll is the bypass value a dropdown sends when no filter is selected.
const FilterAll = "All"

type Predicate[T any] func(T) bool

// FilterSet matches an item iff every predicate matches.
type FilterSet[T any] []Predicate[T]

func (fs FilterSet[T]) Matches(item T) bool {
	for _, pred := range fs {
		if !pred(item) {
			return false
		}
	}
	return true
}

// SearchAny is a case-insensitive substring match over name-like fields.
// An empty term matches everything; a missing field reads as "".
func SearchAny[T any](term string, fields func(T) []string) Predicate[T] {
	term = strings.ToLower(strings.TrimSpace(term))
	return func(item T) bool {
		if term == "" {
			return true
		}
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
		return false
	}
}

// FieldEquals requires exact equality unless the wanted value is empty or
// the All bypass.
func FieldEquals[T any](want string, field func(T) string) Predicate[T] {
	return func(item T) bool {
		if want == "" || want == FilterAll {
			return true
		}
		return field(item) == want
	}
}

// MemberNamed requires the item's related collection to contain an entry
// with the selected name.
func MemberNamed[T any](want string, names func(T) []string) Predicate[T] {
	return func(item T) bool {
		if want == "" || want == FilterAll {
			return true
		}
		for _, n := range names(item) {
			if n == want {
				return true
			}
		}
		return false
	}
}

// RefEquals compares a nullable id reference against a selected value parsed
// from the query string. A nil reference never matches, and neither does an
// unparseable selection.
func RefEquals[T any](want string, ref func(T) *uint64) Predicate[T] {
	if want == "" || want == FilterAll {
		return func(T) bool { return true }
	}

	id, err := strconv.ParseUint(want, 10, 64)
	if err != nil {
		return func(T) bool { return false }
	}

	return func(item T) bool {
		r := ref(item)
		return r != nil && *r == id
	}
}

type PageRequest struct {
	Page int
	Size int
}

type Result[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	PageCount  int `json:"page_count"`
	Page       int `json:"page"`
}

// Apply runs filter then paginate, preserving store order. A page stranded
// past the end after a filter change is clamped back onto the last page
// instead of rendering empty.
func Apply[T any](items []T, filters FilterSet[T], page PageRequest) Result[T] {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if filters.Matches(item) {
			filtered = append(filtered, item)
		}
	}

	total := len(filtered)

	if page.Size <= PageSizeAll {
		return Result[T]{Items: filtered, TotalCount: total, PageCount: 1, Page: 1}
	}

	pageCount := (total + page.Size - 1) / page.Size

	p := page.Page
	if p < 1 {
		p = 1
	}
	if pageCount > 0 && p > pageCount {
		p = pageCount
	}

	if pageCount == 0 {
		return Result[T]{Items: filtered, TotalCount: 0, PageCount: 0, Page: 1}
	}

	start := (p - 1) * page.Size
	end := start + page.Size
	if end > total {
		end = total
	}

	return Result[T]{Items: filtered[start:end], TotalCount: total, PageCount: pageCount, Page: p}
}
