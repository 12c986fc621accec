package cache

import (
	"strings"
	"testing"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSearchKey_BranchOrderIndependent(t *testing.T) {
	a := SearchKey(&models.SearchQuery{Branches: []string{"SEA", "PDX"}})
	b := SearchKey(&models.SearchQuery{Branches: []string{"PDX", "SEA"}})
	c := SearchKey(&models.SearchQuery{Branches: []string{" pdx", "sea ", "SEA"}})
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestSearchKey_CriteriaWhitespaceAndCase(t *testing.T) {
	assert.Equal(t,
		SearchKey(&models.SearchQuery{Criteria: "PN-1000"}),
		SearchKey(&models.SearchQuery{Criteria: "  pn-1000 "}),
	)
}

func TestSearchKey_DefaultsMatchExplicitValues(t *testing.T) {
	assert.Equal(t,
		SearchKey(&models.SearchQuery{}),
		SearchKey(&models.SearchQuery{By: models.SearchByPartNumber, Page: -1, Size: 0}),
	)
}

func TestSearchKey_DistinguishesEveryField(t *testing.T) {
	asc := &models.SortSpec{Field: models.SortByBranch, Direction: models.SortAsc}
	desc := &models.SortSpec{Field: models.SortByBranch, Direction: models.SortDesc}

	queries := []models.SearchQuery{
		{},
		{Criteria: "bolt"},
		{Criteria: "bolt", By: models.SearchByDescription},
		{Criteria: "bolt", By: models.SearchBySupplierSKU},
		{Branches: []string{"SEA"}},
		{Branches: []string{"SEA", "PDX"}},
		{Branches: []string{"SEAPDX"}},
		{OnlyAvailable: true},
		{Page: 1},
		{Size: 10},
		{Page: 1, Size: 1},
		{Page: 11},
		{Sort: asc},
		{Sort: desc},
	}

	seen := make(map[string]int)
	for i := range queries {
		key := SearchKey(&queries[i])
		if j, dup := seen[key]; dup {
			t.Fatalf("queries %d and %d share key %q", j, i, key)
		}
		seen[key] = i
	}
}

func TestSearchKey_UnsortedSentinel(t *testing.T) {
	assert.Contains(t, SearchKey(&models.SearchQuery{}), noSort)
	assert.NotContains(t, SearchKey(&models.SearchQuery{Sort: &models.SortSpec{Field: models.SortByUom}}), noSort)
}

func TestSearchKey_DefaultSortSharesUnsortedKey(t *testing.T) {
	unsorted := SearchKey(&models.SearchQuery{Criteria: "bolt"})

	assert.Equal(t, unsorted, SearchKey(&models.SearchQuery{Criteria: "bolt",
		Sort: &models.SortSpec{Field: models.SortByPartNumber, Direction: models.SortAsc}}))
	assert.Equal(t, unsorted, SearchKey(&models.SearchQuery{Criteria: "bolt",
		Sort: &models.SortSpec{Field: models.SortByPartNumber}}))
	assert.NotEqual(t, unsorted, SearchKey(&models.SearchQuery{Criteria: "bolt",
		Sort: &models.SortSpec{Field: models.SortByPartNumber, Direction: models.SortDesc}}))
}

func TestKeys_NamespacesAreDisjoint(t *testing.T) {
	assert.True(t, strings.HasPrefix(SearchKey(&models.SearchQuery{}), searchPrefix+partSep))
	assert.Equal(t, "peak"+partSep+"PN-1000", PeakKey(" pn-1000 "))
	assert.NotEqual(t, PeakKey("x"), SearchKey(&models.SearchQuery{Criteria: "x"}))
}
