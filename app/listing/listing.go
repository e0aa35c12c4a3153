// Package listing filters and orders the records a list view has loaded.
// Every function returns a new slice and leaves its input untouched.
package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NormalizeQuery trims and lower-cases a search query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Filter keeps items where any field contains query, case-insensitively.
// An empty query returns items unchanged.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	q := NormalizeQuery(query)
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// SortBy returns a copy of items stably ordered by key under locale collation.
func SortBy[T any](items []T, key func(T) string) []T {
	out := slices.Clone(items)
	c := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b T) int {
		return c.CompareString(key(a), key(b))
	})
	return out
}
