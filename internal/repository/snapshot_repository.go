package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
)

// SnapshotLoader builds a complete dataset from its source
type SnapshotLoader func(ctx context.Context) (*InMemoryReadRepository, error)

// SQLiteSnapshot loads the snapshot database at dbPath
func SQLiteSnapshot(dbPath string) SnapshotLoader {
	return func(ctx context.Context) (*InMemoryReadRepository, error) {
		return NewSQLiteRepository(ctx, dbPath)
	}
}

// GeneratedSnapshot builds the deterministic dataset for count and seed
func GeneratedSnapshot(count int, seed int64) SnapshotLoader {
	return func(ctx context.Context) (*InMemoryReadRepository, error) {
		return NewInMemoryRepository(Generate(count, seed)), nil
	}
}

// SnapshotRepository serves reads from the current dataset. Reload builds a
// new dataset and swaps it in whole; records in a dataset are never changed,
// and a read sees either the old dataset or the new one.
type SnapshotRepository struct {
	load    SnapshotLoader
	current atomic.Pointer[InMemoryReadRepository]
	// serializes reloads so an older load cannot replace a newer one
	reloadMu sync.Mutex
}

// NewSnapshotRepository runs the first load
func NewSnapshotRepository(ctx context.Context, load SnapshotLoader) (*SnapshotRepository, error) {
	r := &SnapshotRepository{load: load}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload replaces the dataset. On failure the current dataset keeps serving.
func (r *SnapshotRepository) Reload(ctx context.Context) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	next, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload snapshot: %w", err)
	}
	r.current.Store(next)
	return nil
}

func (r *SnapshotRepository) All(ctx context.Context) ([]models.InventoryItem, error) {
	return r.current.Load().All(ctx)
}

func (r *SnapshotRepository) FindByPartNumber(ctx context.Context, partNumber string) ([]models.InventoryItem, error) {
	return r.current.Load().FindByPartNumber(ctx, partNumber)
}

func (r *SnapshotRepository) Count(ctx context.Context) (int, error) {
	return r.current.Load().Count(ctx)
}
