package client

import (
	"context"
	"strings"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/cache"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
	apperrors "github.com/wrightcn2/Inventory-Search-Code-Test/pkg/errors"

	"go.uber.org/zap"
)

// CachedClient fronts a Transport with one Result Cache per operation.
// Identical queries issued within the TTL share a single upstream call.
type CachedClient struct {
	transport Transport
	searches  *cache.ResultCache[models.SearchResult]
	peaks     *cache.ResultCache[models.AvailabilityResult]
	logger    *zap.Logger
}

// NewCachedClient builds the search and peak caches from opts. The two caches
// do not share capacity.
func NewCachedClient(transport Transport, opts cache.Options) *CachedClient {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &CachedClient{
		transport: transport,
		searches:  cache.NewResultCache[models.SearchResult]("search", opts),
		peaks:     cache.NewResultCache[models.AvailabilityResult]("peak", opts),
		logger:    opts.Logger,
	}
}

// Search returns the page for q, reusing a live cached or in-flight result.
// Every caller gets its own copy of the cached page.
func (c *CachedClient) Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error) {
	nq := q.Normalize()
	key := cache.SearchKey(&nq)
	res, err := c.searches.Get(ctx, key, func(ctx context.Context) (models.SearchResult, error) {
		return c.transport.Search(ctx, nq)
	})
	if err != nil {
		return models.SearchResult{}, err
	}
	return res.Clone(), nil
}

// PeakAvailability returns the per-branch breakdown for partNumber.
// A blank identifier is rejected without touching the cache.
func (c *CachedClient) PeakAvailability(ctx context.Context, partNumber string) (models.AvailabilityResult, error) {
	pn := strings.TrimSpace(partNumber)
	if pn == "" {
		return models.AvailabilityResult{}, apperrors.NewInvalidArgument("partNumber is required", "partNumber")
	}
	res, err := c.peaks.Get(ctx, cache.PeakKey(pn), func(ctx context.Context) (models.AvailabilityResult, error) {
		return c.transport.PeakAvailability(ctx, pn)
	})
	if err != nil {
		return models.AvailabilityResult{}, err
	}
	return res.Clone(), nil
}

// Close drops every cached entry
func (c *CachedClient) Close() {
	c.searches.Purge()
	c.peaks.Purge()
	c.logger.Debug("Cached client closed")
}
