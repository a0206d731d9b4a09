package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Errors
// =============================================================================

var (
	ErrEmptyInput       = errors.New("empty input")
	ErrLengthMismatch   = errors.New("series length mismatch")
	ErrHoldingsNotFound = errors.New("holdings not found")
	ErrSeriesNotFound   = errors.New("return series not found")
	ErrInvalidHoldings  = errors.New("invalid holdings")
)

// EmptyInputError is returned when an operation needs at least one element.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: empty input", e.Op)
}

// Is makes errors.Is(err, ErrEmptyInput) hold.
func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// LengthMismatchError is returned when paired series differ in length.
type LengthMismatchError struct {
	Op    string
	Left  int
	Right int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s: series length mismatch (%d != %d)", e.Op, e.Left, e.Right)
}

// Is makes errors.Is(err, ErrLengthMismatch) hold.
func (e *LengthMismatchError) Is(target error) bool {
	return target == ErrLengthMismatch
}

// IsShapeError reports whether err is a structural input violation by the caller.
func IsShapeError(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrLengthMismatch)
}

// =============================================================================
// Inputs
// =============================================================================

// ReturnSeries 기간별 수익률 (chronological, fractional: 0.0123 = +1.23%)
type ReturnSeries []float64

// Holding one position's share of total portfolio value.
type Holding struct {
	Symbol string  `json:"symbol" yaml:"symbol"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Validate checks a single holding as received at the API boundary.
func (h Holding) Validate() error {
	if strings.TrimSpace(h.Symbol) == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidHoldings)
	}
	if h.Weight < 0 || h.Weight > 1 {
		return fmt.Errorf("%w: weight %v for %s outside [0,1]", ErrInvalidHoldings, h.Weight, h.Symbol)
	}
	return nil
}

// MergeHoldings collapses duplicate symbols, summing weights and keeping the
// position of the first occurrence.
func MergeHoldings(holdings []Holding) []Holding {
	if len(holdings) == 0 {
		return nil
	}

	index := make(map[string]int, len(holdings))
	merged := make([]Holding, 0, len(holdings))
	for _, h := range holdings {
		if i, ok := index[h.Symbol]; ok {
			merged[i].Weight += h.Weight
			continue
		}
		index[h.Symbol] = len(merged)
		merged = append(merged, h)
	}
	return merged
}

// Symbols returns holding symbols in order.
func Symbols(holdings []Holding) []string {
	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}
	return symbols
}

// SymbolSeries pairs a symbol with its return series.
type SymbolSeries struct {
	Symbol  string
	Returns ReturnSeries
}

// =============================================================================
// Results
// =============================================================================

// PerformanceMetrics 성과 지표. Ratios are dimensionless; Alpha, Volatility and
// MaxDrawdown are annualized percentages (MaxDrawdown is a positive percent of peak).
type PerformanceMetrics struct {
	SharpeRatio  float64 `json:"sharpe_ratio"`
	Beta         float64 `json:"beta"`
	Alpha        float64 `json:"alpha"`
	Volatility   float64 `json:"volatility"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	CalmarRatio  float64 `json:"calmar_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`
	TreynorRatio float64 `json:"treynor_ratio"`
}

// CorrelationMatrix Pearson correlations; Symbols index both rows and columns.
type CorrelationMatrix struct {
	Symbols        []string    `json:"symbols"`
	Matrix         [][]float64 `json:"matrix"`
	Interpretation string      `json:"interpretation"`
}

// RiskMetrics 리스크 지표. Volatility, VaR and CVaR figures are percentages.
type RiskMetrics struct {
	PortfolioBeta        float64 `json:"portfolio_beta"`
	PortfolioVolatility  float64 `json:"portfolio_volatility"`
	ValueAtRisk95        float64 `json:"value_at_risk_95"`
	ValueAtRisk99        float64 `json:"value_at_risk_99"`
	ConditionalVaR       float64 `json:"conditional_var"`
	DiversificationRatio float64 `json:"diversification_ratio"`
}
