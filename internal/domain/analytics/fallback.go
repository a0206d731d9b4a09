package analytics

// =============================================================================
// Degenerate-input fallbacks
// =============================================================================
//
// Structurally valid but numerically degenerate inputs resolve to these values
// instead of errors.

// 성과 비율 폴백
const (
	FallbackSharpe  = 0.0 // annualized volatility is zero
	FallbackCalmar  = 0.0 // no drawdown
	FallbackTreynor = 0.0 // beta is zero

	// FallbackBeta is used when market variance is zero or the two series
	// cannot be paired (different lengths, fewer than two observations).
	FallbackBeta = 1.0

	// Sortino: capped when nothing falls below target, 0 when the sub-target
	// returns have no spread.
	SortinoCap      = 10.0
	FallbackSortino = 0.0
)

const (
	FallbackCorrelation = 0.0 // either series has zero variance
	FallbackVariance    = 0.0 // n < 2
)

// 분산 비율 (holding-count approximation)
const (
	BaseDiversificationRatio = 1.0
	DiversificationStep      = 0.1
	MaxDiversificationRatio  = 2.0
)

// Fallback reasons, used as the "reason" label on logs and metrics.
const (
	ReasonNoHoldings      = "no_holdings"
	ReasonZeroVolatility  = "zero_volatility"
	ReasonNoDownside      = "no_downside"
	ReasonZeroDownsideDev = "zero_downside_deviation"
	ReasonZeroDrawdown    = "zero_drawdown"
	ReasonZeroBeta        = "zero_beta"
	ReasonBetaDefault     = "beta_default"
	ReasonSingleHolding   = "single_holding"
	ReasonEmptyCVaRTail   = "empty_cvar_tail"
)

// NeutralPerformanceMetrics is returned for a portfolio without holdings.
func NeutralPerformanceMetrics() PerformanceMetrics {
	return PerformanceMetrics{Beta: FallbackBeta}
}

// NeutralRiskMetrics is returned for a portfolio without holdings.
func NeutralRiskMetrics() RiskMetrics {
	return RiskMetrics{
		PortfolioBeta:        FallbackBeta,
		PortfolioVolatility:  0,
		ValueAtRisk95:        0,
		ValueAtRisk99:        0,
		ConditionalVaR:       0,
		DiversificationRatio: BaseDiversificationRatio,
	}
}

// NeutralCorrelationMatrix is returned for fewer than two symbols.
func NeutralCorrelationMatrix(symbols []string) CorrelationMatrix {
	m := CorrelationMatrix{
		Symbols:        append([]string{}, symbols...),
		Matrix:         [][]float64{},
		Interpretation: InterpretationNeedMoreHoldings,
	}
	if len(symbols) == 1 {
		m.Matrix = [][]float64{{1}}
	}
	return m
}

// Correlation interpretations.
const (
	InterpretationNeedMoreHoldings = "Add at least two holdings to analyze how they move together."
	InterpretationHigh             = "High correlation: most holdings move together, so the portfolio lacks diversification."
	InterpretationLow              = "Well diversified: most holdings move largely independently of each other."
	InterpretationModerate         = "Moderately diversified: holdings show a mix of strong and weak co-movement."
)
