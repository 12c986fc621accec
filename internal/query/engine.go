// Package query filters, sorts, paginates and aggregates inventory records.
//
// Search and PeakAvailability are pure functions over a record slice; Engine
// binds them to a repository for the HTTP host and the in-process transport.
package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/repository"
)

// ErrInvalidArgument is returned for an absent query or a blank part number
var ErrInvalidArgument = errors.New("invalid argument")

// Search filters, sorts and paginates records. Total is the match count before
// pagination; a page past the end is empty, not an error.
func Search(records []models.InventoryItem, q *models.SearchQuery) (models.SearchResult, error) {
	if q == nil {
		return models.SearchResult{}, fmt.Errorf("%w: query is required", ErrInvalidArgument)
	}
	nq := q.Normalize()

	match := newMatcher(nq)
	filtered := make([]models.InventoryItem, 0, len(records))
	for _, r := range records {
		if match(r) {
			filtered = append(filtered, r)
		}
	}

	sortItems(filtered, nq.Sort)

	total := len(filtered)
	// compare before multiplying: page*size can overflow for huge page indexes
	if total == 0 || nq.Page > (total-1)/nq.Size {
		return models.SearchResult{Total: total, Items: []models.InventoryItem{}}, nil
	}
	start := nq.Page * nq.Size
	end := total
	if nq.Size < total-start {
		end = start + nq.Size
	}

	return models.SearchResult{Total: total, Items: filtered[start:end]}, nil
}

func newMatcher(q models.SearchQuery) func(models.InventoryItem) bool {
	criteria := strings.ToLower(q.Criteria)
	field := searchFields[q.By]
	if field == nil {
		field = searchFields[models.SearchByPartNumber]
	}

	var branches map[string]struct{}
	if len(q.Branches) > 0 {
		branches = make(map[string]struct{}, len(q.Branches))
		for _, b := range q.Branches {
			branches[normalizeBranch(b)] = struct{}{}
		}
	}

	return func(item models.InventoryItem) bool {
		if criteria != "" && !strings.Contains(strings.ToLower(field(item)), criteria) {
			return false
		}
		if branches != nil {
			if _, ok := branches[normalizeBranch(item.Branch)]; !ok {
				return false
			}
		}
		if q.OnlyAvailable && item.AvailableQty <= 0 {
			return false
		}
		return true
	}
}

var searchFields = map[models.SearchField]func(models.InventoryItem) string{
	models.SearchByPartNumber:  func(i models.InventoryItem) string { return i.PartNumber },
	models.SearchByDescription: func(i models.InventoryItem) string { return i.Description },
	models.SearchBySupplierSKU: func(i models.InventoryItem) string { return i.SupplierSKU },
}

func sortItems(items []models.InventoryItem, spec *models.SortSpec) {
	s := models.SortSpec{Field: models.SortByPartNumber, Direction: models.SortAsc}
	if spec != nil {
		s = *spec
	}
	cmp, ok := comparators[s.Field]
	if !ok {
		cmp = comparators[models.SortByPartNumber]
	}
	desc := s.Direction == models.SortDesc

	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(&items[i], &items[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// PeakAvailability sums a part's quantity per branch. The part number is
// matched exactly after trimming and upper-casing; no match yields a zero result.
func PeakAvailability(records []models.InventoryItem, partNumber string) (models.AvailabilityResult, error) {
	trimmed := strings.TrimSpace(partNumber)
	if trimmed == "" {
		return models.AvailabilityResult{}, fmt.Errorf("%w: partNumber is required", ErrInvalidArgument)
	}
	want := repository.NormalizePartNumber(trimmed)

	sums := make(map[string]int)
	for _, r := range records {
		if repository.NormalizePartNumber(r.PartNumber) != want {
			continue
		}
		sums[normalizeBranch(r.Branch)] += r.AvailableQty
	}

	result := models.AvailabilityResult{
		PartNumber: trimmed,
		Branches:   make([]models.BranchAvailability, 0, len(sums)),
	}
	for branch, qty := range sums {
		result.Branches = append(result.Branches, models.BranchAvailability{Branch: branch, Qty: qty})
	}
	sort.Slice(result.Branches, func(i, j int) bool {
		a, b := result.Branches[i], result.Branches[j]
		if a.Qty != b.Qty {
			return a.Qty > b.Qty
		}
		return a.Branch < b.Branch
	})

	// total is always the sum of the breakdown
	for _, b := range result.Branches {
		result.TotalAvailable += b.Qty
	}
	return result, nil
}

func normalizeBranch(b string) string {
	return strings.ToUpper(strings.TrimSpace(b))
}

// Engine runs queries against a repository snapshot
type Engine struct {
	repo repository.ReadRepository
}

// NewEngine creates an engine over repo
func NewEngine(repo repository.ReadRepository) *Engine {
	return &Engine{repo: repo}
}

// Search runs Search over every stored record
func (e *Engine) Search(ctx context.Context, q *models.SearchQuery) (models.SearchResult, error) {
	if q == nil {
		return Search(nil, nil)
	}
	records, err := e.repo.All(ctx)
	if err != nil {
		return models.SearchResult{}, err
	}
	return Search(records, q)
}

// PeakAvailability aggregates one part across branches
func (e *Engine) PeakAvailability(ctx context.Context, partNumber string) (models.AvailabilityResult, error) {
	if strings.TrimSpace(partNumber) == "" {
		return PeakAvailability(nil, partNumber)
	}
	records, err := e.repo.FindByPartNumber(ctx, partNumber)
	if err != nil {
		return models.AvailabilityResult{}, err
	}
	return PeakAvailability(records, partNumber)
}

// Part returns every branch record of a part
func (e *Engine) Part(ctx context.Context, partNumber string) ([]models.InventoryItem, error) {
	if strings.TrimSpace(partNumber) == "" {
		return nil, fmt.Errorf("%w: partNumber is required", ErrInvalidArgument)
	}
	return e.repo.FindByPartNumber(ctx, partNumber)
}
