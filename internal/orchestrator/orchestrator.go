// Package orchestrator turns search, sort and page triggers into debounced
// queries and publishes only the newest result.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/metrics"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a trigger becomes a request
const DefaultDebounce = 50 * time.Millisecond

// ErrStopped is returned by triggers after Run has returned
var ErrStopped = errors.New("orchestrator stopped")

// Searcher issues queries. client.CachedClient is the production implementation.
type Searcher interface {
	Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error)
	PeakAvailability(ctx context.Context, partNumber string) (models.AvailabilityResult, error)
}

// Form holds the user-entered search fields
type Form struct {
	Criteria      string
	By            models.SearchField
	Branches      []string
	OnlyAvailable bool
	Size          int
}

// Options configures an Orchestrator
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
	// OnChange receives every published state, from the Run goroutine
	OnChange func(State)
}

type triggerKind int

const (
	triggerSearch triggerKind = iota
	triggerSort
	triggerPage
	triggerPeak
)

type trigger struct {
	kind       triggerKind
	form       Form
	sort       *models.SortSpec
	page       int
	partNumber string
	ack        chan struct{}
}

type searchOutcome struct {
	generation uint64
	query      models.SearchQuery
	result     models.SearchResult
	err        error
}

type peakOutcome struct {
	generation uint64
	partNumber string
	result     models.AvailabilityResult
	err        error
}

// Orchestrator is a state machine driven by Run. All query state is owned
// by the Run goroutine; State returns the last published snapshot.
type Orchestrator struct {
	searcher Searcher
	debounce time.Duration
	logger   *zap.Logger
	onChange func(State)

	triggers chan trigger
	searches chan searchOutcome
	peaks    chan peakOutcome
	done     chan struct{}

	mu        sync.RWMutex
	published State
}

// New creates an orchestrator. Call Run before sending triggers.
func New(searcher Searcher, opts Options) *Orchestrator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Orchestrator{
		searcher:  searcher,
		debounce:  opts.Debounce,
		logger:    opts.Logger,
		onChange:  opts.OnChange,
		triggers:  make(chan trigger),
		searches:  make(chan searchOutcome),
		peaks:     make(chan peakOutcome),
		done:      make(chan struct{}),
		published: State{Peak: PeakState{Status: PeakNotFetched}},
	}
}

// Search submits the form. Loading is published before Search returns; the
// request itself is issued after the debounce window. The page resets to 0.
func (o *Orchestrator) Search(form Form) error {
	return o.send(trigger{kind: triggerSearch, form: form})
}

// SetSort changes the sort order. A nil spec means unsorted.
func (o *Orchestrator) SetSort(spec *models.SortSpec) error {
	return o.send(trigger{kind: triggerSort, sort: spec})
}

// SetPage changes the zero-based page index
func (o *Orchestrator) SetPage(page int) error {
	return o.send(trigger{kind: triggerPage, page: page})
}

// LookupPeak fetches the branch breakdown for one part. It is not debounced.
func (o *Orchestrator) LookupPeak(partNumber string) error {
	return o.send(trigger{kind: triggerPeak, partNumber: partNumber})
}

// send hands t to the loop and waits until the loop has handled it
func (o *Orchestrator) send(t trigger) error {
	t.ack = make(chan struct{})
	select {
	case o.triggers <- t:
	case <-o.done:
		return ErrStopped
	}
	select {
	case <-t.ack:
		return nil
	case <-o.done:
		return ErrStopped
	}
}

// State returns a copy of the last published state
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.published.clone()
}

// loop holds everything the Run goroutine owns
type loop struct {
	form       Form
	sort       *models.SortSpec
	page       int
	generation uint64
	inFlight   bool
	hasResult  bool

	peakGeneration uint64

	state State
	timer *time.Timer
}

// Run processes triggers until ctx is done. It must be called exactly once.
func (o *Orchestrator) Run(ctx context.Context) {
	defer close(o.done)

	l := &loop{state: o.State()}
	var fire <-chan time.Time
	defer func() {
		if l.timer != nil {
			l.timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			o.logger.Debug("Orchestrator stopped", zap.Error(ctx.Err()))
			return

		case t := <-o.triggers:
			if t.kind == triggerPeak {
				o.startPeak(ctx, l, t.partNumber)
				close(t.ack)
				continue
			}

			o.applyTrigger(l, t)
			if l.timer != nil {
				l.timer.Stop()
			}
			l.timer = time.NewTimer(o.debounce)
			fire = l.timer.C
			close(t.ack)

		case <-fire:
			fire = nil
			o.startSearch(ctx, l)

		case out := <-o.searches:
			o.finishSearch(l, out)

		case out := <-o.peaks:
			o.finishPeak(l, out)
		}
	}
}

func (o *Orchestrator) applyTrigger(l *loop, t trigger) {
	switch t.kind {
	case triggerSearch:
		l.form = t.form
		l.page = 0
		l.state.Loading = true
		o.publish(l)
	case triggerSort:
		l.sort = t.sort
	case triggerPage:
		l.page = t.page
	}

	if l.inFlight {
		// the outstanding request is now stale
		l.generation++
		l.inFlight = false
	}
}

func (o *Orchestrator) startSearch(ctx context.Context, l *loop) {
	l.generation++
	l.inFlight = true
	q := models.SearchQuery{
		Criteria:      l.form.Criteria,
		By:            l.form.By,
		Branches:      append([]string(nil), l.form.Branches...),
		OnlyAvailable: l.form.OnlyAvailable,
		Sort:          l.sort,
		Page:          l.page,
		Size:          l.form.Size,
	}.Normalize()

	l.state.Loading = true
	l.state.Generation = l.generation
	o.publish(l)

	o.logger.Debug("Issuing search",
		zap.Uint64("generation", l.generation),
		zap.String("criteria", q.Criteria),
		zap.Int("page", q.Page),
		zap.Int("size", q.Size),
	)

	gen := l.generation
	go func() {
		res, err := o.searcher.Search(ctx, q)
		select {
		case o.searches <- searchOutcome{generation: gen, query: q, result: res, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (o *Orchestrator) finishSearch(l *loop, out searchOutcome) {
	if out.generation != l.generation || !l.inFlight {
		metrics.SupersededResults.Inc()
		o.logger.Debug("Discarding superseded result",
			zap.Uint64("generation", out.generation),
			zap.Uint64("current", l.generation),
		)
		return
	}
	l.inFlight = false
	l.state.Loading = false
	l.state.Query = out.query

	if out.err != nil {
		o.logger.Warn("Search failed", zap.Uint64("generation", out.generation), zap.Error(out.err))
		l.state.Err = errorMessage(out.err)
		if !l.hasResult {
			l.state.Total = 0
			l.state.Items = []models.InventoryItem{}
		}
		o.publish(l)
		return
	}

	l.hasResult = true
	l.state.Err = ""
	l.state.Total = out.result.Total
	l.state.Items = out.result.Items
	if l.state.Items == nil {
		l.state.Items = []models.InventoryItem{}
	}
	o.publish(l)
}

func (o *Orchestrator) startPeak(ctx context.Context, l *loop, partNumber string) {
	l.peakGeneration++
	gen := l.peakGeneration
	l.state.Peak = PeakState{Status: PeakLoading, PartNumber: partNumber}
	o.publish(l)

	go func() {
		res, err := o.searcher.PeakAvailability(ctx, partNumber)
		select {
		case o.peaks <- peakOutcome{generation: gen, partNumber: partNumber, result: res, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (o *Orchestrator) finishPeak(l *loop, out peakOutcome) {
	if out.generation != l.peakGeneration {
		return
	}
	if out.err != nil {
		o.logger.Warn("Peak availability lookup failed", zap.String("part_number", out.partNumber), zap.Error(out.err))
		l.state.Peak = PeakState{Status: PeakFailed, PartNumber: out.partNumber, Err: errorMessage(out.err)}
	} else {
		res := out.result
		l.state.Peak = PeakState{Status: PeakLoaded, PartNumber: out.partNumber, Result: &res}
	}
	o.publish(l)
}

func (o *Orchestrator) publish(l *loop) {
	snapshot := l.state.clone()
	o.mu.Lock()
	o.published = snapshot
	o.mu.Unlock()

	if o.onChange != nil {
		o.onChange(snapshot.clone())
	}
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "request failed"
}
