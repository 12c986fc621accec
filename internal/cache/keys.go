package cache

import (
	"sort"
	"strconv"
	"strings"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
)

// Separators are ASCII control characters, which never occur in criteria,
// branch codes or part numbers.
const (
	partSep   = "\x1f" // unit separator, between key components
	branchSep = "\x1e" // record separator, between branch codes

	searchPrefix = "search"
	peakPrefix   = "peak"
	noSort       = "nosort"
)

var defaultSort = models.SortSpec{Field: models.SortByPartNumber, Direction: models.SortAsc}

// SearchKey derives the cache identity of a query. Branch order and
// surrounding whitespace do not change the key; every field that changes the
// result does.
func SearchKey(q *models.SearchQuery) string {
	if q == nil {
		return searchPrefix + partSep + "nil"
	}
	nq := q.Normalize()

	available := "0"
	if nq.OnlyAvailable {
		available = "1"
	}

	// the engine's default order is partNumber ascending, so it shares the unsorted key
	sortPart := noSort
	if nq.Sort != nil && *nq.Sort != defaultSort {
		sortPart = nq.Sort.String()
	}

	return strings.Join([]string{
		searchPrefix,
		"c:" + strings.ToLower(nq.Criteria),
		"b:" + string(nq.By),
		"br:" + branchKey(nq.Branches),
		"a:" + available,
		"p:" + strconv.Itoa(nq.Page),
		"s:" + strconv.Itoa(nq.Size),
		"o:" + sortPart,
	}, partSep)
}

// PeakKey derives the cache identity of an availability lookup
func PeakKey(partNumber string) string {
	return peakPrefix + partSep + strings.ToUpper(strings.TrimSpace(partNumber))
}

func branchKey(branches []string) string {
	set := make(map[string]struct{}, len(branches))
	for _, b := range branches {
		if b = strings.ToUpper(strings.TrimSpace(b)); b != "" {
			set[b] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return strings.Join(out, branchSep)
}

// SearchPattern and PeakPattern match every key of a namespace in the response cache
const (
	SearchPattern = searchPrefix + partSep + "*"
	PeakPattern   = peakPrefix + partSep + "*"
)
