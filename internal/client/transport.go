package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/metrics"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/query"
	apperrors "github.com/wrightcn2/Inventory-Search-Code-Test/pkg/errors"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Transport delivers queries to the query engine's host. Every call has
// exactly one outcome: a result or an error.
type Transport interface {
	Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error)
	PeakAvailability(ctx context.Context, partNumber string) (models.AvailabilityResult, error)
}

// HTTPTransport calls the inventory HTTP API through a circuit breaker
type HTTPTransport struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewHTTPTransport creates a transport for baseURL. The timeout bounds each call.
func NewHTTPTransport(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPTransport {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "inventory-api",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// A rejected argument says nothing about the upstream's health.
			return err == nil || apperrors.IsInvalidArgument(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.CircuitBreakerState.WithLabelValues(name).Set(state)
			logger.Warn("Circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &HTTPTransport{client: client, breaker: breaker, logger: logger}
}

// Search calls GET /inventory/search
func (t *HTTPTransport) Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error) {
	nq := q.Normalize()
	params := map[string]string{
		"criteria":      nq.Criteria,
		"by":            string(nq.By),
		"onlyAvailable": strconv.FormatBool(nq.OnlyAvailable),
		"page":          strconv.Itoa(nq.Page),
		"size":          strconv.Itoa(nq.Size),
	}
	if len(nq.Branches) > 0 {
		params["branches"] = strings.Join(nq.Branches, ",")
	}
	if nq.Sort != nil {
		params["sort"] = nq.Sort.String()
	}

	var out models.SearchResult
	err := t.call(ctx, "search", "/inventory/search", params, &out)
	return out, err
}

// PeakAvailability calls GET /inventory/availability/peak
func (t *HTTPTransport) PeakAvailability(ctx context.Context, partNumber string) (models.AvailabilityResult, error) {
	var out models.AvailabilityResult
	err := t.call(ctx, "peak", "/inventory/availability/peak", map[string]string{"partNumber": partNumber}, &out)
	return out, err
}

func (t *HTTPTransport) call(ctx context.Context, operation, path string, params map[string]string, dest interface{}) error {
	_, err := t.breaker.Execute(func() (interface{}, error) {
		return nil, t.do(ctx, path, params, dest)
	})

	switch {
	case err == nil:
		metrics.UpstreamCalls.WithLabelValues(operation, "success").Inc()
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.UpstreamCalls.WithLabelValues(operation, "rejected").Inc()
		return apperrors.NewUpstreamFailure("inventory service unavailable", err)
	default:
		metrics.UpstreamCalls.WithLabelValues(operation, "failure").Inc()
		t.logger.Warn("Upstream call failed", zap.String("operation", operation), zap.Error(err))
		return err
	}
}

func (t *HTTPTransport) do(ctx context.Context, path string, params map[string]string, dest interface{}) error {
	envelope := struct {
		Data     interface{} `json:"data"`
		IsFailed bool        `json:"isFailed"`
		Message  string      `json:"message"`
	}{Data: dest}

	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&envelope).
		SetError(&envelope).
		Get(path)
	if err != nil {
		return apperrors.NewUpstreamFailure("inventory service request failed", err)
	}

	if envelope.IsFailed {
		message := envelope.Message
		if message == "" {
			message = fmt.Sprintf("inventory service returned %d", resp.StatusCode())
		}
		if resp.StatusCode() == http.StatusBadRequest {
			return apperrors.NewInvalidArgument(message, path)
		}
		return apperrors.NewUpstreamFailure(message, nil)
	}
	if resp.IsError() {
		return apperrors.NewUpstreamFailure(fmt.Sprintf("inventory service returned %d", resp.StatusCode()), nil)
	}
	return nil
}

// LocalTransport runs queries against an in-process engine
type LocalTransport struct {
	engine *query.Engine
}

// NewLocalTransport wraps engine as a Transport
func NewLocalTransport(engine *query.Engine) *LocalTransport {
	return &LocalTransport{engine: engine}
}

func (t *LocalTransport) Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error) {
	res, err := t.engine.Search(ctx, &q)
	return res, mapEngineError(err)
}

func (t *LocalTransport) PeakAvailability(ctx context.Context, partNumber string) (models.AvailabilityResult, error) {
	res, err := t.engine.PeakAvailability(ctx, partNumber)
	return res, mapEngineError(err)
}

func mapEngineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, query.ErrInvalidArgument):
		return apperrors.NewInvalidArgument(err.Error(), "query")
	default:
		return apperrors.NewUpstreamFailure("query failed", err)
	}
}
