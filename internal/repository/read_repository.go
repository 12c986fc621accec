package repository

import (
	"context"
	"strings"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
)

// ReadRepository defines the interface for read operations
type ReadRepository interface {
	All(ctx context.Context) ([]models.InventoryItem, error)
	FindByPartNumber(ctx context.Context, partNumber string) ([]models.InventoryItem, error)
	Count(ctx context.Context) (int, error)
}

// InMemoryReadRepository holds the whole dataset in process memory.
// Records are never mutated after construction.
type InMemoryReadRepository struct {
	items  []models.InventoryItem
	byPart map[string][]int
}

// NewInMemoryRepository copies items into a new repository
func NewInMemoryRepository(items []models.InventoryItem) *InMemoryReadRepository {
	r := &InMemoryReadRepository{
		items:  make([]models.InventoryItem, len(items)),
		byPart: make(map[string][]int),
	}
	for i, item := range items {
		r.items[i] = item.Clone()
		key := NormalizePartNumber(item.PartNumber)
		r.byPart[key] = append(r.byPart[key], i)
	}
	return r
}

// All returns a copy of every record in storage order
func (r *InMemoryReadRepository) All(ctx context.Context) ([]models.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.InventoryItem, len(r.items))
	for i, item := range r.items {
		out[i] = item.Clone()
	}
	return out, nil
}

// FindByPartNumber returns every branch record of a part. No match is an empty slice.
func (r *InMemoryReadRepository) FindByPartNumber(ctx context.Context, partNumber string) ([]models.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := r.byPart[NormalizePartNumber(partNumber)]
	out := make([]models.InventoryItem, 0, len(idx))
	for _, i := range idx {
		out = append(out, r.items[i].Clone())
	}
	return out, nil
}

// Count returns the number of stored records
func (r *InMemoryReadRepository) Count(ctx context.Context) (int, error) {
	return len(r.items), nil
}

// NormalizePartNumber trims and upper-cases a part identifier
func NormalizePartNumber(partNumber string) string {
	return strings.ToUpper(strings.TrimSpace(partNumber))
}
