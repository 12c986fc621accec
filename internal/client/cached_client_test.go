package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/cache"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/query"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/repository"
	apperrors "github.com/wrightcn2/Inventory-Search-Code-Test/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

// stubTransport counts calls and lets a test hold or fail them
type stubTransport struct {
	searchCalls int32
	peakCalls   int32
	gate        chan struct{}

	mu   sync.Mutex
	fail error
}

func (s *stubTransport) setFail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *stubTransport) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail
}

func (s *stubTransport) Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error) {
	atomic.AddInt32(&s.searchCalls, 1)
	if s.gate != nil {
		<-s.gate
	}
	if err := s.failure(); err != nil {
		return models.SearchResult{}, err
	}
	return models.SearchResult{Total: q.Page + 1, Items: []models.InventoryItem{}}, nil
}

func (s *stubTransport) PeakAvailability(ctx context.Context, partNumber string) (models.AvailabilityResult, error) {
	atomic.AddInt32(&s.peakCalls, 1)
	if err := s.failure(); err != nil {
		return models.AvailabilityResult{}, err
	}
	return models.AvailabilityResult{PartNumber: partNumber, Branches: []models.BranchAvailability{}}, nil
}

func TestCachedClient_EquivalentQueriesShareOneCall(t *testing.T) {
	tr := &stubTransport{}
	c := NewCachedClient(tr, cache.Options{})
	defer c.Close()
	ctx := context.Background()

	_, err := c.Search(ctx, models.SearchQuery{Criteria: "PN-1", Branches: []string{"SEA", "PDX"}})
	require.NoError(t, err)
	_, err = c.Search(ctx, models.SearchQuery{Criteria: " pn-1", Branches: []string{"pdx", "SEA"}, Size: 20})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&tr.searchCalls))
}

func TestCachedClient_DifferentPagesAreSeparateEntries(t *testing.T) {
	tr := &stubTransport{}
	c := NewCachedClient(tr, cache.Options{})
	ctx := context.Background()

	first, err := c.Search(ctx, models.SearchQuery{Page: 0})
	require.NoError(t, err)
	second, err := c.Search(ctx, models.SearchQuery{Page: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Total)
	assert.Equal(t, 2, second.Total)
	assert.Equal(t, int32(2), atomic.LoadInt32(&tr.searchCalls))
}

func TestCachedClient_ConcurrentSearchesCoalesce(t *testing.T) {
	tr := &stubTransport{gate: make(chan struct{})}
	c := NewCachedClient(tr, cache.Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Search(ctx, models.SearchQuery{Criteria: "bolt"})
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&tr.searchCalls) == 1 }, timeout, tick)
	close(tr.gate)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&tr.searchCalls))
}

func TestCachedClient_FailureIsNotCached(t *testing.T) {
	tr := &stubTransport{}
	c := NewCachedClient(tr, cache.Options{})
	ctx := context.Background()

	tr.setFail(apperrors.NewUpstreamFailure("down", errors.New("refused")))
	_, err := c.PeakAvailability(ctx, "PN-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamFailure(err))

	tr.setFail(nil)
	res, err := c.PeakAvailability(ctx, "PN-1")
	require.NoError(t, err)
	assert.Equal(t, "PN-1", res.PartNumber)
	assert.Equal(t, int32(2), atomic.LoadInt32(&tr.peakCalls))
}

func TestCachedClient_BlankPartNumberSkipsTransport(t *testing.T) {
	tr := &stubTransport{}
	c := NewCachedClient(tr, cache.Options{})

	_, err := c.PeakAvailability(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidArgument(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&tr.peakCalls))
}

func TestCachedClient_CloseDropsEntries(t *testing.T) {
	tr := &stubTransport{}
	c := NewCachedClient(tr, cache.Options{})
	ctx := context.Background()

	_, err := c.PeakAvailability(ctx, "PN-1")
	require.NoError(t, err)
	c.Close()
	_, err = c.PeakAvailability(ctx, "PN-1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&tr.peakCalls))
}

func TestCachedClient_CallersCannotCorruptCachedResults(t *testing.T) {
	engine := query.NewEngine(repository.NewInMemoryRepository(repository.Generate(60, 42)))
	c := NewCachedClient(NewLocalTransport(engine), cache.Options{})
	defer c.Close()
	ctx := context.Background()
	q := models.SearchQuery{Criteria: "PN-1000", Size: 5}

	first, err := c.Search(ctx, q)
	require.NoError(t, err)
	require.NotEmpty(t, first.Items)
	want := first.Items[0].PartNumber
	first.Items[0].PartNumber = "mutated"
	first.Items[0].AvailableQty = -1

	second, err := c.Search(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, want, second.Items[0].PartNumber)
	assert.GreaterOrEqual(t, second.Items[0].AvailableQty, 0)

	peak, err := c.PeakAvailability(ctx, "PN-1000")
	require.NoError(t, err)
	require.NotEmpty(t, peak.Branches)
	branch := peak.Branches[0]
	peak.Branches[0] = models.BranchAvailability{Branch: "mutated", Qty: -1}

	again, err := c.PeakAvailability(ctx, "PN-1000")
	require.NoError(t, err)
	assert.Equal(t, branch, again.Branches[0])
}
