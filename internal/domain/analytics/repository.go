package analytics

import "context"

// =============================================================================
// Collaborator Interfaces
// =============================================================================

// ReturnSeriesProvider 수익률 시계열 공급자
type ReturnSeriesProvider interface {
	// GetReturns returns the most recent lookback returns for symbol, oldest first.
	GetReturns(ctx context.Context, symbol string, lookback int) (ReturnSeries, error)
	// GetBenchmarkReturns returns the benchmark series over the same window.
	GetBenchmarkReturns(ctx context.Context, lookback int) (ReturnSeries, error)
}

// SeriesVersioner is implemented by providers that can tell when their data changed.
type SeriesVersioner interface {
	SeriesVersion(ctx context.Context) (string, error)
}

// HoldingsRepository 보유 종목 조회
type HoldingsRepository interface {
	GetHoldings(ctx context.Context, accountID string) ([]Holding, error)
}

// Params 계산 파라미터
type Params struct {
	RiskFreeRate   float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	PeriodsPerYear int     `json:"periods_per_year" yaml:"periods_per_year"`
	SortinoTarget  float64 `json:"sortino_target" yaml:"sortino_target"`
	LookbackDays   int     `json:"lookback_days" yaml:"lookback_days"`
}

// DefaultParams returns the trading-day conventions used across the engine.
func DefaultParams() Params {
	return Params{
		RiskFreeRate:   0.05,
		PeriodsPerYear: 252,
		SortinoTarget:  0,
		LookbackDays:   252,
	}
}
