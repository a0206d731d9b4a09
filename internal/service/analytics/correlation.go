package analytics

import (
	"math"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

const (
	highCorrelationThreshold = 0.7
	lowCorrelationThreshold  = 0.3

	// share of pairs (in percent) needed to call a portfolio concentrated / diversified
	highPairPercentLimit = 50.0
	lowPairPercentLimit  = 70.0
)

// PearsonCorrelation 피어슨 상관계수. Zero variance on either side yields
// FallbackCorrelation.
func PearsonCorrelation(xs, ys []float64) (float64, error) {
	cov, err := Covariance(xs, ys)
	if err != nil {
		return 0, err
	}
	// Variances go through the same routine as the covariance so that identical
	// inputs reduce to c / sqrt(c*c) = 1.
	varX, _ := Covariance(xs, xs)
	varY, _ := Covariance(ys, ys)
	if varX < zeroVarianceTolerance || varY < zeroVarianceTolerance {
		return analytics.FallbackCorrelation, nil
	}

	rho := cov / math.Sqrt(varX*varY)
	return math.Max(-1, math.Min(1, rho)), nil
}

// BuildCorrelationMatrix 상관계수 행렬. Row/column order follows series order.
// Each unordered pair is computed once and written to both cells.
func BuildCorrelationMatrix(series []analytics.SymbolSeries) (analytics.CorrelationMatrix, error) {
	symbols := make([]string, len(series))
	for i, s := range series {
		symbols[i] = s.Symbol
	}
	if len(series) < 2 {
		return analytics.NeutralCorrelationMatrix(symbols), nil
	}

	n := len(series)
	for i := 1; i < n; i++ {
		if len(series[i].Returns) != len(series[0].Returns) {
			return analytics.CorrelationMatrix{}, &analytics.LengthMismatchError{
				Op:    "correlation matrix " + series[0].Symbol + "/" + series[i].Symbol,
				Left:  len(series[0].Returns),
				Right: len(series[i].Returns),
			}
		}
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}

	var highPairs, lowPairs int
	for _, pair := range upperPairs(n) {
		rho, err := PearsonCorrelation(series[pair.i].Returns, series[pair.j].Returns)
		if err != nil {
			return analytics.CorrelationMatrix{}, err
		}
		matrix[pair.i][pair.j] = rho
		matrix[pair.j][pair.i] = rho

		switch abs := math.Abs(rho); {
		case abs > highCorrelationThreshold:
			highPairs++
		case abs < lowCorrelationThreshold:
			lowPairs++
		}
	}

	return analytics.CorrelationMatrix{
		Symbols:        symbols,
		Matrix:         matrix,
		Interpretation: InterpretCorrelation(highPairs, lowPairs, n*(n-1)/2),
	}, nil
}

// InterpretCorrelation maps high/low pair counts to a diversification label.
func InterpretCorrelation(highPairs, lowPairs, totalPairs int) string {
	if totalPairs <= 0 {
		return analytics.InterpretationNeedMoreHoldings
	}

	highPct := float64(highPairs) / float64(totalPairs) * 100
	lowPct := float64(lowPairs) / float64(totalPairs) * 100

	switch {
	case highPct > highPairPercentLimit:
		return analytics.InterpretationHigh
	case lowPct > lowPairPercentLimit:
		return analytics.InterpretationLow
	default:
		return analytics.InterpretationModerate
	}
}

type indexPair struct {
	i, j int
}

// upperPairs lists (i, j) with i < j.
func upperPairs(n int) []indexPair {
	pairs := make([]indexPair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, indexPair{i: i, j: j})
		}
	}
	return pairs
}
