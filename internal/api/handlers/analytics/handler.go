package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/petergfitz2/athena-ai-sub000/internal/api/response"
	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/infra/cache"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/logger"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/metrics"
	analyticsService "github.com/petergfitz2/athena-ai-sub000/internal/service/analytics"
)

// maxBodyBytes limits POST bodies.
const maxBodyBytes = 1 << 20

// ResultCache stores computed records, e.g. *cache.ResultCache.
type ResultCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// =============================================================================
// Handler
// =============================================================================

// Handler Analytics API 핸들러
type Handler struct {
	service   *analyticsService.Service
	holdings  analytics.HoldingsRepository
	cache     ResultCache
	versioner analytics.SeriesVersioner
	metrics   *metrics.Registry
}

// NewHandler 새 핸들러 생성. holdings may be nil, in which case only the POST
// routes can resolve a portfolio.
func NewHandler(service *analyticsService.Service, holdings analytics.HoldingsRepository) *Handler {
	return &Handler{service: service, holdings: holdings}
}

// SetCache enables result caching keyed on the series version.
func (h *Handler) SetCache(c ResultCache, versioner analytics.SeriesVersioner) {
	h.cache = c
	h.versioner = versioner
}

// SetMetrics 메트릭 레지스트리 설정
func (h *Handler) SetMetrics(m *metrics.Registry) {
	h.metrics = m
}

// =============================================================================
// Request Types
// =============================================================================

// HoldingsRequest body of the POST routes
type HoldingsRequest struct {
	Holdings []analytics.Holding `json:"holdings"`
}

// =============================================================================
// Routes
// =============================================================================

// GetPerformance handles GET /api/v1/analytics/performance?account_id=
func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	if holdings, ok := h.accountHoldings(w, r); ok {
		serve(h, w, r, analyticsService.OpPerformance, holdings, h.service.ComputePerformanceMetrics)
	}
}

// PostPerformance handles POST /api/v1/analytics/performance
func (h *Handler) PostPerformance(w http.ResponseWriter, r *http.Request) {
	if holdings, ok := h.bodyHoldings(w, r); ok {
		serve(h, w, r, analyticsService.OpPerformance, holdings, h.service.ComputePerformanceMetrics)
	}
}

// GetCorrelation handles GET /api/v1/analytics/correlation?account_id=
func (h *Handler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	if holdings, ok := h.accountHoldings(w, r); ok {
		serve(h, w, r, analyticsService.OpCorrelation, holdings, h.service.ComputeCorrelationMatrix)
	}
}

// PostCorrelation handles POST /api/v1/analytics/correlation
func (h *Handler) PostCorrelation(w http.ResponseWriter, r *http.Request) {
	if holdings, ok := h.bodyHoldings(w, r); ok {
		serve(h, w, r, analyticsService.OpCorrelation, holdings, h.service.ComputeCorrelationMatrix)
	}
}

// GetRisk handles GET /api/v1/analytics/risk?account_id=
func (h *Handler) GetRisk(w http.ResponseWriter, r *http.Request) {
	if holdings, ok := h.accountHoldings(w, r); ok {
		serve(h, w, r, analyticsService.OpRisk, holdings, h.service.ComputeRiskMetrics)
	}
}

// PostRisk handles POST /api/v1/analytics/risk
func (h *Handler) PostRisk(w http.ResponseWriter, r *http.Request) {
	if holdings, ok := h.bodyHoldings(w, r); ok {
		serve(h, w, r, analyticsService.OpRisk, holdings, h.service.ComputeRiskMetrics)
	}
}

// =============================================================================
// Holdings resolution
// =============================================================================

func (h *Handler) accountHoldings(w http.ResponseWriter, r *http.Request) ([]analytics.Holding, bool) {
	accountID := strings.TrimSpace(r.URL.Query().Get("account_id"))
	if accountID == "" {
		response.BadRequest(w, r, "account_id is required")
		return nil, false
	}
	if h.holdings == nil {
		response.Unavailable(w, r, "account holdings are not available with this data source")
		return nil, false
	}

	holdings, err := h.holdings.GetHoldings(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, analytics.ErrHoldingsNotFound) {
			response.NotFound(w, r, fmt.Sprintf("no holdings for account %s", accountID))
			return nil, false
		}
		response.InternalError(w, r, err)
		return nil, false
	}
	return holdings, true
}

func (h *Handler) bodyHoldings(w http.ResponseWriter, r *http.Request) ([]analytics.Holding, bool) {
	var req HoldingsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		response.BadRequest(w, r, "Invalid request body")
		return nil, false
	}

	var fields []response.FieldError
	for i, holding := range req.Holdings {
		if err := holding.Validate(); err != nil {
			fields = append(fields, response.FieldError{
				Field:   fmt.Sprintf("holdings[%d]", i),
				Message: err.Error(),
			})
		}
	}
	if len(fields) > 0 {
		response.ValidationError(w, r, fields)
		return nil, false
	}
	return req.Holdings, true
}

// =============================================================================
// Compute + cache
// =============================================================================

func serve[T any](
	h *Handler,
	w http.ResponseWriter,
	r *http.Request,
	op string,
	holdings []analytics.Holding,
	compute func(context.Context, []analytics.Holding) (*T, error),
) {
	ctx := r.Context()

	key := h.cacheKey(ctx, op, holdings)
	if key != "" {
		var cached T
		found, err := h.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("operation", op).Msg("Cache read failed")
		}
		if found {
			h.recordCache(op, true)
			response.Cached(w, r, &cached)
			return
		}
		h.recordCache(op, false)
	}

	var timer *metrics.OperationTimer
	if h.metrics != nil {
		timer = h.metrics.StartOperation(op)
	}
	result, err := compute(ctx, holdings)
	if timer != nil {
		timer.Stop(err)
	}

	if err != nil {
		writeComputeError(w, r, op, err)
		return
	}

	if key != "" {
		if err := h.cache.Set(ctx, key, result); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("operation", op).Msg("Cache write failed")
		}
	}
	response.Success(w, r, result)
}

// cacheKey returns "" when caching is off or the version is unknown.
func (h *Handler) cacheKey(ctx context.Context, op string, holdings []analytics.Holding) string {
	if h.cache == nil || h.versioner == nil {
		return ""
	}
	version, err := h.versioner.SeriesVersion(ctx)
	if err != nil || version == "" {
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("Series version unavailable, skipping cache")
		}
		return ""
	}
	return cache.Key(op, holdings, h.service.Params(), version)
}

func (h *Handler) recordCache(op string, hit bool) {
	if h.metrics == nil {
		return
	}
	if hit {
		h.metrics.RecordCacheHit(op)
	} else {
		h.metrics.RecordCacheMiss(op)
	}
}

func writeComputeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case analytics.IsShapeError(err):
		response.Unprocessable(w, r, fmt.Sprintf("%s: return series cannot be analyzed", op), err)
	case errors.Is(err, analytics.ErrSeriesNotFound):
		response.NotFound(w, r, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.Unavailable(w, r, "request cancelled")
	default:
		response.InternalError(w, r, err)
	}
}
