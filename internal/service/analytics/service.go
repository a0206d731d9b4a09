package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/logger"
)

const component = "analytics"

// Operation names shared with logs and metrics.
const (
	OpPerformance = "performance"
	OpCorrelation = "correlation"
	OpRisk        = "risk"
)

// FallbackObserver is notified whenever a documented fallback value is used.
type FallbackObserver interface {
	ObserveFallback(operation, reason string)
}

// =============================================================================
// Analytics Service
// =============================================================================

// Service 포트폴리오 분석 파사드. Stateless apart from its collaborators, so a
// single instance is shared by concurrent callers.
type Service struct {
	provider analytics.ReturnSeriesProvider
	params   analytics.Params
	observer FallbackObserver
}

// NewService 새 서비스 생성
func NewService(provider analytics.ReturnSeriesProvider, params analytics.Params) *Service {
	defaults := analytics.DefaultParams()
	if params.PeriodsPerYear <= 0 {
		params.PeriodsPerYear = defaults.PeriodsPerYear
	}
	if params.LookbackDays <= 0 {
		params.LookbackDays = defaults.LookbackDays
	}
	return &Service{provider: provider, params: params}
}

// SetObserver 폴백 관찰자 설정
func (s *Service) SetObserver(observer FallbackObserver) {
	s.observer = observer
}

// Params returns the calculation parameters in effect.
func (s *Service) Params() analytics.Params {
	return s.params
}

// =============================================================================
// Performance
// =============================================================================

// ComputePerformanceMetrics 성과 지표 계산
func (s *Service) ComputePerformanceMetrics(ctx context.Context, holdings []analytics.Holding) (*analytics.PerformanceMetrics, error) {
	holdings = analytics.MergeHoldings(holdings)
	if len(holdings) == 0 {
		s.fallback(OpPerformance, analytics.ReasonNoHoldings, 0)
		neutral := analytics.NeutralPerformanceMetrics()
		return &neutral, nil
	}

	portfolio, err := s.loadPortfolio(ctx, holdings)
	if err != nil {
		return nil, err
	}
	market, err := s.provider.GetBenchmarkReturns(ctx, s.params.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get benchmark returns: %w", err)
	}

	metrics, err := ComputePerformance(portfolio, market, s.params)
	if err != nil {
		return nil, fmt.Errorf("performance metrics: %w", err)
	}

	for _, reason := range performanceFallbacks(portfolio, market, s.params) {
		s.fallback(OpPerformance, reason, len(holdings))
	}

	l := logger.Component(component)
	l.Debug().
		Int("holdings", len(holdings)).
		Int("observations", len(portfolio)).
		Float64("sharpe", metrics.SharpeRatio).
		Float64("beta", metrics.Beta).
		Msg("Performance metrics computed")

	return &metrics, nil
}

// =============================================================================
// Correlation
// =============================================================================

// ComputeCorrelationMatrix 보유 종목 간 상관계수 행렬
func (s *Service) ComputeCorrelationMatrix(ctx context.Context, holdings []analytics.Holding) (*analytics.CorrelationMatrix, error) {
	holdings = analytics.MergeHoldings(holdings)
	if len(holdings) < 2 {
		reason := analytics.ReasonNoHoldings
		if len(holdings) == 1 {
			reason = analytics.ReasonSingleHolding
		}
		s.fallback(OpCorrelation, reason, len(holdings))
		neutral := analytics.NeutralCorrelationMatrix(analytics.Symbols(holdings))
		return &neutral, nil
	}

	series, err := s.fetchSeries(ctx, holdings)
	if err != nil {
		return nil, err
	}

	matrix, err := BuildCorrelationMatrix(series)
	if err != nil {
		return nil, fmt.Errorf("correlation matrix: %w", err)
	}

	l := logger.Component(component)
	l.Debug().
		Int("holdings", len(holdings)).
		Str("interpretation", matrix.Interpretation).
		Msg("Correlation matrix computed")

	return &matrix, nil
}

// =============================================================================
// Risk
// =============================================================================

// ComputeRiskMetrics 리스크 지표 계산
func (s *Service) ComputeRiskMetrics(ctx context.Context, holdings []analytics.Holding) (*analytics.RiskMetrics, error) {
	holdings = analytics.MergeHoldings(holdings)
	if len(holdings) == 0 {
		s.fallback(OpRisk, analytics.ReasonNoHoldings, 0)
		neutral := analytics.NeutralRiskMetrics()
		return &neutral, nil
	}

	portfolio, err := s.loadPortfolio(ctx, holdings)
	if err != nil {
		return nil, err
	}
	market, err := s.provider.GetBenchmarkReturns(ctx, s.params.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get benchmark returns: %w", err)
	}

	metrics, err := ComputeRisk(portfolio, market, len(holdings), s.params)
	if err != nil {
		return nil, fmt.Errorf("risk metrics: %w", err)
	}

	for _, reason := range riskFallbacks(portfolio, market) {
		s.fallback(OpRisk, reason, len(holdings))
	}

	l := logger.Component(component)
	l.Debug().
		Int("holdings", len(holdings)).
		Float64("var_95", metrics.ValueAtRisk95).
		Float64("cvar", metrics.ConditionalVaR).
		Msg("Risk metrics computed")

	return &metrics, nil
}

// =============================================================================
// Helpers
// =============================================================================

// fetchSeries loads every holding's series concurrently, keeping holding order.
func (s *Service) fetchSeries(ctx context.Context, holdings []analytics.Holding) ([]analytics.SymbolSeries, error) {
	series := make([]analytics.SymbolSeries, len(holdings))

	g, gctx := errgroup.WithContext(ctx)
	for i, h := range holdings {
		g.Go(func() error {
			returns, err := s.provider.GetReturns(gctx, h.Symbol, s.params.LookbackDays)
			if err != nil {
				return fmt.Errorf("failed to get returns for %s: %w", h.Symbol, err)
			}
			series[i] = analytics.SymbolSeries{Symbol: h.Symbol, Returns: returns}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return series, nil
}

// loadPortfolio fetches holding series and combines them into the weighted
// portfolio return series.
func (s *Service) loadPortfolio(ctx context.Context, holdings []analytics.Holding) (analytics.ReturnSeries, error) {
	series, err := s.fetchSeries(ctx, holdings)
	if err != nil {
		return nil, err
	}
	return PortfolioReturns(holdings, series)
}

// PortfolioReturns 가중 포트폴리오 수익률: sum of weight_i * r_i,t per period.
// All series must share one length; series[i] belongs to holdings[i].
func PortfolioReturns(holdings []analytics.Holding, series []analytics.SymbolSeries) (analytics.ReturnSeries, error) {
	if len(holdings) != len(series) {
		return nil, &analytics.LengthMismatchError{Op: "portfolio holdings", Left: len(holdings), Right: len(series)}
	}
	if len(series) == 0 {
		return nil, &analytics.EmptyInputError{Op: "portfolio returns"}
	}

	n := len(series[0].Returns)
	portfolio := make(analytics.ReturnSeries, n)
	for i, s := range series {
		if len(s.Returns) != n {
			return nil, &analytics.LengthMismatchError{
				Op:    "portfolio returns " + s.Symbol,
				Left:  n,
				Right: len(s.Returns),
			}
		}
		w := holdings[i].Weight
		for t, r := range s.Returns {
			portfolio[t] += w * r
		}
	}
	return portfolio, nil
}

func (s *Service) fallback(operation, reason string, holdings int) {
	l := logger.Component(component)
	l.Debug().
		Str("operation", operation).
		Str("reason", reason).
		Int("holdings", holdings).
		Msg("Using documented fallback")

	if s.observer != nil {
		s.observer.ObserveFallback(operation, reason)
	}
}
