package utils

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// FuzzyFilter returns the indexes of items matching query, best match first.
// An empty query matches everything in order.
func FuzzyFilter(query string, items []string) []int {
	if strings.TrimSpace(query) == "" {
		idx := make([]int, len(items))
		for i := range items {
			idx[i] = i
		}
		return idx
	}

	matches := fuzzy.Find(query, items)
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	return idx
}

// BestMatch returns the item closest to query, or "" when nothing matches
func BestMatch(query string, items []string) string {
	for _, item := range items {
		if strings.EqualFold(item, query) {
			return item
		}
	}

	matches := fuzzy.Find(query, items)
	if len(matches) == 0 {
		return ""
	}
	return items[matches[0].Index]
}
