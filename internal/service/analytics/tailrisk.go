package analytics

import (
	"math"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

const (
	Confidence95 = 0.95
	Confidence99 = 0.99
)

// =============================================================================
// Value at Risk
// =============================================================================

// CalculateVaR VaR (Historical method). Returned as a positive loss fraction;
// a quantile that is itself a gain means no loss at that confidence (0).
func CalculateVaR(returns []float64, confidence float64) (float64, error) {
	q, err := Quantile(returns, confidence)
	if err != nil {
		return 0, err
	}
	return lossMagnitude(q), nil
}

// CalculateCVaR Conditional VaR (expected shortfall): mean of the returns
// strictly below the VaR cutoff, as a positive loss. An empty tail falls back
// to VaR itself.
func CalculateCVaR(returns []float64, confidence float64) (float64, error) {
	if len(returns) == 0 {
		return 0, &analytics.EmptyInputError{Op: "cvar"}
	}

	tail, cutoff := lossTail(returns, confidence)
	if len(tail) == 0 {
		return lossMagnitude(cutoff), nil
	}

	mean, err := Mean(tail)
	if err != nil {
		return 0, err
	}
	return lossMagnitude(mean), nil
}

// lossTail returns the sorted returns strictly below the VaR cutoff, and the cutoff.
func lossTail(returns []float64, confidence float64) ([]float64, float64) {
	sorted := sortedCopy(returns)
	cutoff := sorted[quantileIndex(len(sorted), confidence)]

	n := 0
	for n < len(sorted) && sorted[n] < cutoff {
		n++
	}
	return sorted[:n], cutoff
}

// lossMagnitude reports losses only: a gain at the cutoff is VaR 0, not |r|.
// The plain absolute value would let VaR99 drop below VaR95 on all-gain series.
func lossMagnitude(r float64) float64 {
	if r < 0 {
		return -r
	}
	return 0
}

// =============================================================================
// Diversification
// =============================================================================

// DiversificationRatio is a coarse holding-count signal: 1 + 0.1 per extra
// holding, capped at 2. It is not the weighted-volatility ratio from portfolio
// theory and must not be read as a risk decomposition.
func DiversificationRatio(holdingCount int) float64 {
	if holdingCount <= 1 {
		return analytics.BaseDiversificationRatio
	}
	ratio := analytics.BaseDiversificationRatio + float64(holdingCount-1)*analytics.DiversificationStep
	return math.Min(ratio, analytics.MaxDiversificationRatio)
}

// =============================================================================
// Aggregate
// =============================================================================

// ComputeRisk builds the RiskMetrics record for a portfolio series.
func ComputeRisk(portfolio, market analytics.ReturnSeries, holdingCount int, p analytics.Params) (analytics.RiskMetrics, error) {
	if holdingCount == 0 {
		return analytics.NeutralRiskMetrics(), nil
	}

	var95, err := CalculateVaR(portfolio, Confidence95)
	if err != nil {
		return analytics.RiskMetrics{}, err
	}
	var99, err := CalculateVaR(portfolio, Confidence99)
	if err != nil {
		return analytics.RiskMetrics{}, err
	}
	cvar, err := CalculateCVaR(portfolio, Confidence95)
	if err != nil {
		return analytics.RiskMetrics{}, err
	}

	return analytics.RiskMetrics{
		PortfolioBeta:        CalculateBeta(portfolio, market),
		PortfolioVolatility:  AnnualizedVolatility(portfolio, p.PeriodsPerYear) * 100,
		ValueAtRisk95:        var95 * 100,
		ValueAtRisk99:        var99 * 100,
		ConditionalVaR:       cvar * 100,
		DiversificationRatio: DiversificationRatio(holdingCount),
	}, nil
}

// riskFallbacks lists the fallback reasons ComputeRisk resolves to for the
// same non-empty inputs.
func riskFallbacks(portfolio, market analytics.ReturnSeries) []string {
	var reasons []string
	if betaUndefined(portfolio, market) {
		reasons = append(reasons, analytics.ReasonBetaDefault)
	}
	if len(portfolio) > 0 {
		if tail, _ := lossTail(portfolio, Confidence95); len(tail) == 0 {
			reasons = append(reasons, analytics.ReasonEmptyCVaRTail)
		}
	}
	return reasons
}
