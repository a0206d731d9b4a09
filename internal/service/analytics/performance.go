package analytics

import (
	"fmt"
	"math"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

// =============================================================================
// Return / Volatility
// =============================================================================

// AnnualizedReturn 연환산 수익률 (mean × periods per year)
func AnnualizedReturn(returns []float64, periodsPerYear int) (float64, error) {
	mean, err := Mean(returns)
	if err != nil {
		return 0, err
	}
	return mean * float64(periodsPerYear), nil
}

// AnnualizedVolatility 연환산 변동성 (stddev × √periods per year)
func AnnualizedVolatility(returns []float64, periodsPerYear int) float64 {
	return StdDev(returns) * math.Sqrt(float64(periodsPerYear))
}

// =============================================================================
// Risk-Adjusted Ratios
// =============================================================================

// CalculateSharpe 샤프 비율. Zero volatility yields FallbackSharpe.
func CalculateSharpe(returns []float64, riskFreeRate float64, periodsPerYear int) (float64, error) {
	annualReturn, err := AnnualizedReturn(returns, periodsPerYear)
	if err != nil {
		return 0, err
	}
	volatility := AnnualizedVolatility(returns, periodsPerYear)
	if volatility == 0 {
		return analytics.FallbackSharpe, nil
	}
	return (annualReturn - riskFreeRate) / volatility, nil
}

// CalculateSortino 소르티노 비율: Sharpe with the deviation of sub-target returns only.
func CalculateSortino(returns []float64, riskFreeRate, target float64, periodsPerYear int) (float64, error) {
	annualReturn, err := AnnualizedReturn(returns, periodsPerYear)
	if err != nil {
		return 0, err
	}

	downside := downsideReturns(returns, target)
	if len(downside) == 0 {
		return analytics.SortinoCap, nil
	}

	downsideVol := AnnualizedVolatility(downside, periodsPerYear)
	if downsideVol == 0 {
		return analytics.FallbackSortino, nil
	}
	return (annualReturn - riskFreeRate) / downsideVol, nil
}

func downsideReturns(returns []float64, target float64) []float64 {
	downside := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < target {
			downside = append(downside, r)
		}
	}
	return downside
}

// CalculateCalmar 칼마 비율. Zero drawdown yields FallbackCalmar.
func CalculateCalmar(annualReturn, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return analytics.FallbackCalmar
	}
	return annualReturn / maxDrawdown
}

// CalculateTreynor 트레이너 비율. Zero beta yields FallbackTreynor.
func CalculateTreynor(annualReturn, riskFreeRate, beta float64) float64 {
	if beta == 0 {
		return analytics.FallbackTreynor
	}
	return (annualReturn - riskFreeRate) / beta
}

// =============================================================================
// Benchmark-Relative
// =============================================================================

// CalculateBeta 베타. Falls back to FallbackBeta when the series cannot be
// paired (different or too short lengths) or the market does not move.
func CalculateBeta(portfolioReturns, marketReturns []float64) float64 {
	if betaUndefined(portfolioReturns, marketReturns) {
		return analytics.FallbackBeta
	}

	covariance, err := Covariance(portfolioReturns, marketReturns)
	if err != nil {
		return analytics.FallbackBeta
	}
	return covariance / SampleVariance(marketReturns)
}

func betaUndefined(portfolioReturns, marketReturns []float64) bool {
	return len(portfolioReturns) != len(marketReturns) ||
		len(portfolioReturns) < 2 ||
		SampleVariance(marketReturns) == 0
}

// CalculateAlpha Jensen's alpha in percent:
// annRet_p - (rf + beta * (annRet_m - rf)).
func CalculateAlpha(portfolioAnnualReturn, marketAnnualReturn, riskFreeRate, beta float64) float64 {
	expected := riskFreeRate + beta*(marketAnnualReturn-riskFreeRate)
	return (portfolioAnnualReturn - expected) * 100
}

// =============================================================================
// Drawdown
// =============================================================================

// CalculateMaxDrawdown 최대 낙폭 (MDD) as a positive fraction of the running peak.
func CalculateMaxDrawdown(returns []float64) float64 {
	value := 1.0
	peak := 1.0
	maxDD := 0.0

	for _, r := range returns {
		value *= 1.0 + r
		if value > peak {
			peak = value
		}
		if dd := (peak - value) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// =============================================================================
// Aggregate
// =============================================================================

// ComputePerformance builds the full PerformanceMetrics record for a portfolio
// series against a market series.
func ComputePerformance(portfolio, market analytics.ReturnSeries, p analytics.Params) (analytics.PerformanceMetrics, error) {
	annualReturn, err := AnnualizedReturn(portfolio, p.PeriodsPerYear)
	if err != nil {
		return analytics.PerformanceMetrics{}, fmt.Errorf("portfolio return: %w", err)
	}
	marketReturn, err := AnnualizedReturn(market, p.PeriodsPerYear)
	if err != nil {
		return analytics.PerformanceMetrics{}, fmt.Errorf("market return: %w", err)
	}

	sharpe, err := CalculateSharpe(portfolio, p.RiskFreeRate, p.PeriodsPerYear)
	if err != nil {
		return analytics.PerformanceMetrics{}, err
	}
	sortino, err := CalculateSortino(portfolio, p.RiskFreeRate, p.SortinoTarget, p.PeriodsPerYear)
	if err != nil {
		return analytics.PerformanceMetrics{}, err
	}

	beta := CalculateBeta(portfolio, market)
	maxDrawdown := CalculateMaxDrawdown(portfolio)

	return analytics.PerformanceMetrics{
		SharpeRatio:  sharpe,
		Beta:         beta,
		Alpha:        CalculateAlpha(annualReturn, marketReturn, p.RiskFreeRate, beta),
		Volatility:   AnnualizedVolatility(portfolio, p.PeriodsPerYear) * 100,
		MaxDrawdown:  maxDrawdown * 100,
		CalmarRatio:  CalculateCalmar(annualReturn, maxDrawdown),
		SortinoRatio: sortino,
		TreynorRatio: CalculateTreynor(annualReturn, p.RiskFreeRate, beta),
	}, nil
}

// performanceFallbacks lists the fallback reasons ComputePerformance resolves
// to for the same inputs.
func performanceFallbacks(portfolio, market analytics.ReturnSeries, p analytics.Params) []string {
	var reasons []string
	if AnnualizedVolatility(portfolio, p.PeriodsPerYear) == 0 {
		reasons = append(reasons, analytics.ReasonZeroVolatility)
	}

	undefinedBeta := betaUndefined(portfolio, market)
	if undefinedBeta {
		reasons = append(reasons, analytics.ReasonBetaDefault)
	}
	if CalculateMaxDrawdown(portfolio) == 0 {
		reasons = append(reasons, analytics.ReasonZeroDrawdown)
	}

	downside := downsideReturns(portfolio, p.SortinoTarget)
	switch {
	case len(downside) == 0:
		reasons = append(reasons, analytics.ReasonNoDownside)
	case AnnualizedVolatility(downside, p.PeriodsPerYear) == 0:
		reasons = append(reasons, analytics.ReasonZeroDownsideDev)
	}

	if !undefinedBeta && CalculateBeta(portfolio, market) == 0 {
		reasons = append(reasons, analytics.ReasonZeroBeta)
	}
	return reasons
}
