package analytics_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petergfitz2/athena-ai-sub000/internal/api/handlers"
	analyticsHandler "github.com/petergfitz2/athena-ai-sub000/internal/api/handlers/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/api/middleware"
	"github.com/petergfitz2/athena-ai-sub000/internal/api/router"
	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/infra/synthetic"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/metrics"
	analyticsService "github.com/petergfitz2/athena-ai-sub000/internal/service/analytics"
)

type stubHoldings map[string][]analytics.Holding

func (s stubHoldings) GetHoldings(_ context.Context, accountID string) ([]analytics.Holding, error) {
	h, ok := s[accountID]
	if !ok {
		return nil, analytics.ErrHoldingsNotFound
	}
	return h, nil
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

type shortSeriesProvider struct{ *synthetic.Provider }

func (p shortSeriesProvider) GetReturns(ctx context.Context, symbol string, lookback int) (analytics.ReturnSeries, error) {
	if symbol == "SHRT" {
		return p.Provider.GetReturns(ctx, symbol, lookback/2)
	}
	return p.Provider.GetReturns(ctx, symbol, lookback)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		RequestID string `json:"request_id"`
		Cached    bool   `json:"cached"`
	} `json:"meta"`
	Error struct {
		Code   string `json:"code"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	} `json:"error"`
}

type testServer struct {
	handler http.Handler
	metrics *metrics.Registry
}

func newTestServer(t *testing.T, withCache bool) *testServer {
	t.Helper()

	provider := synthetic.NewProvider(42)
	svc := analyticsService.NewService(shortSeriesProvider{provider}, analytics.Params{
		RiskFreeRate:   0.05,
		PeriodsPerYear: 252,
		LookbackDays:   120,
	})
	reg := metrics.NewRegistry()
	svc.SetObserver(reg)

	h := analyticsHandler.NewHandler(svc, stubHoldings{
		"ACC-1": {{Symbol: "AAPL", Weight: 0.5}, {Symbol: "MSFT", Weight: 0.3}, {Symbol: "BND", Weight: 0.2}},
	})
	h.SetMetrics(reg)
	if withCache {
		h.SetCache(&memoryCache{items: map[string][]byte{}}, provider)
	}

	return &testServer{
		handler: router.NewRouter(&router.Config{
			AnalyticsHandler: h,
			HealthHandler:    handlers.NewHealthHandler(nil, nil, "test"),
			Metrics:          reg,
		}),
		metrics: reg,
	}
}

func (s *testServer) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func holdingsBody(holdings ...analytics.Holding) analyticsHandler.HoldingsRequest {
	return analyticsHandler.HoldingsRequest{Holdings: holdings}
}

func TestHandler_Risk(t *testing.T) {
	s := newTestServer(t, false)

	t.Run("by account", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/analytics/risk?account_id=ACC-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), env.Meta.RequestID)

		var m analytics.RiskMetrics
		require.NoError(t, json.Unmarshal(env.Data, &m))
		assert.GreaterOrEqual(t, m.ValueAtRisk99, m.ValueAtRisk95)
		assert.InDelta(t, 1.2, m.DiversificationRatio, 1e-12)
	})

	t.Run("empty holdings is the neutral baseline", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/analytics/risk", holdingsBody())
		require.Equal(t, http.StatusOK, rec.Code)

		var m analytics.RiskMetrics
		require.NoError(t, json.Unmarshal(env.Data, &m))
		assert.Equal(t, analytics.NeutralRiskMetrics(), m)
		assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Fallbacks.WithLabelValues("risk", "no_holdings")))
	})

	t.Run("unknown account", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/analytics/risk?account_id=NOPE", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("missing account id", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodGet, "/api/v1/analytics/risk", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Performance(t *testing.T) {
	s := newTestServer(t, false)

	rec, env := s.do(t, http.MethodPost, "/api/v1/analytics/performance",
		holdingsBody(analytics.Holding{Symbol: "AAPL", Weight: 0.6}, analytics.Holding{Symbol: "BND", Weight: 0.4}))
	require.Equal(t, http.StatusOK, rec.Code)

	var m analytics.PerformanceMetrics
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.Greater(t, m.Volatility, 0.0)
	assert.GreaterOrEqual(t, m.MaxDrawdown, 0.0)

	assert.Equal(t, 1, testutil.CollectAndCount(s.metrics.OperationDuration))
}

func TestHandler_Correlation(t *testing.T) {
	s := newTestServer(t, false)

	t.Run("single holding", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/analytics/correlation",
			holdingsBody(analytics.Holding{Symbol: "AAPL", Weight: 1}))
		require.Equal(t, http.StatusOK, rec.Code)

		var m analytics.CorrelationMatrix
		require.NoError(t, json.Unmarshal(env.Data, &m))
		assert.Equal(t, []string{"AAPL"}, m.Symbols)
		assert.Equal(t, [][]float64{{1}}, m.Matrix)
		assert.NotEmpty(t, m.Interpretation)
	})

	t.Run("mismatched series are unprocessable", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/analytics/correlation",
			holdingsBody(analytics.Holding{Symbol: "AAPL", Weight: 0.5}, analytics.Holding{Symbol: "SHRT", Weight: 0.5}))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "UNPROCESSABLE_SERIES", env.Error.Code)
	})
}

func TestHandler_Validation(t *testing.T) {
	s := newTestServer(t, false)

	t.Run("malformed body", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/analytics/risk", `{"holdings":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_PARAMETER", env.Error.Code)
	})

	t.Run("invalid holdings", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/analytics/risk",
			holdingsBody(analytics.Holding{Symbol: "AAPL", Weight: 0.5}, analytics.Holding{Symbol: "", Weight: 0.2}, analytics.Holding{Symbol: "BND", Weight: 3}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		require.Len(t, env.Error.Fields, 2)
		assert.Equal(t, "holdings[1]", env.Error.Fields[0].Field)
		assert.Equal(t, "holdings[2]", env.Error.Fields[1].Field)
	})
}

func TestHandler_Cache(t *testing.T) {
	s := newTestServer(t, true)
	body := holdingsBody(analytics.Holding{Symbol: "AAPL", Weight: 0.7}, analytics.Holding{Symbol: "MSFT", Weight: 0.3})

	rec, first := s.do(t, http.MethodPost, "/api/v1/analytics/risk", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, first.Meta.Cached)

	rec, second := s.do(t, http.MethodPost, "/api/v1/analytics/risk", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, second.Meta.Cached)
	assert.JSONEq(t, string(first.Data), string(second.Data))

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CacheHits.WithLabelValues("risk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CacheMisses.WithLabelValues("risk")))
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, false)

	rec, _ := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/health/db", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "disabled")
}
