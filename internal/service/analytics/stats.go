package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

// zeroVarianceTolerance absorbs the rounding residue left by computing the
// variance of a constant series; real per-period return variances sit many
// orders of magnitude above it.
const zeroVarianceTolerance = 1e-20

// =============================================================================
// Statistical Primitives
// =============================================================================

// Mean 산술 평균
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, &analytics.EmptyInputError{Op: "mean"}
	}
	return stat.Mean(xs, nil), nil
}

// SampleVariance 표본 분산 (n-1). Fewer than two observations have zero variance.
func SampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return analytics.FallbackVariance
	}
	v := stat.Variance(xs, nil)
	if v < zeroVarianceTolerance {
		return 0
	}
	return v
}

// StdDev 표본 표준편차
func StdDev(xs []float64) float64 {
	return math.Sqrt(SampleVariance(xs))
}

// Covariance 표본 공분산
func Covariance(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, &analytics.LengthMismatchError{Op: "covariance", Left: len(xs), Right: len(ys)}
	}
	if len(xs) < 2 {
		return 0, nil
	}
	return stat.Covariance(xs, ys, nil), nil
}

// Quantile returns the p-confidence point counted from the low (loss) tail:
// the element at floor(n*(1-p)) of an ascending copy, clamped to [0, n-1].
func Quantile(xs []float64, p float64) (float64, error) {
	if len(xs) == 0 {
		return 0, &analytics.EmptyInputError{Op: "quantile"}
	}
	sorted := sortedCopy(xs)
	return sorted[quantileIndex(len(sorted), p)], nil
}

func quantileIndex(n int, p float64) int {
	idx := int(math.Floor(float64(n) * (1 - p)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

func sortedCopy(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted
}
