package analytics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

func TestMean(t *testing.T) {
	t.Run("empty input fails", func(t *testing.T) {
		_, err := Mean(nil)
		var emptyErr *analytics.EmptyInputError
		require.True(t, errors.As(err, &emptyErr))
		assert.True(t, errors.Is(err, analytics.ErrEmptyInput))
	})

	t.Run("arithmetic mean", func(t *testing.T) {
		m, err := Mean([]float64{0.01, 0.02, 0.03, -0.02})
		require.NoError(t, err)
		assert.InDelta(t, 0.01, m, 1e-12)
	})
}

func TestSampleVariance(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single observation", []float64{0.05}, 0},
		{"bessel corrected", []float64{1, 2, 3, 4}, 1.6666666666666667},
		{"constant series", []float64{0.1, 0.1, 0.1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SampleVariance(tt.xs), 1e-12)
		})
	}

	assert.InDelta(t, math.Sqrt(1.6666666666666667), StdDev([]float64{1, 2, 3, 4}), 1e-12)
}

func TestCovariance(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := Covariance([]float64{1, 2}, []float64{1})
		var lenErr *analytics.LengthMismatchError
		require.True(t, errors.As(err, &lenErr))
		assert.Equal(t, 2, lenErr.Left)
		assert.Equal(t, 1, lenErr.Right)
		assert.True(t, analytics.IsShapeError(err))
	})

	t.Run("short series is zero", func(t *testing.T) {
		c, err := Covariance([]float64{1}, []float64{2})
		require.NoError(t, err)
		assert.Equal(t, 0.0, c)
	})

	t.Run("sample covariance", func(t *testing.T) {
		c, err := Covariance([]float64{1, 2, 3}, []float64{2, 4, 6})
		require.NoError(t, err)
		assert.InDelta(t, 2.0, c, 1e-12)
	})
}

func TestQuantile(t *testing.T) {
	xs := []float64{0.03, -0.04, 0.01, -0.01, 0.02, 0.00, -0.02, 0.04, -0.03, 0.05}

	t.Run("does not reorder input", func(t *testing.T) {
		before := append([]float64{}, xs...)
		_, err := Quantile(xs, 0.9)
		require.NoError(t, err)
		assert.Equal(t, before, xs)
	})

	t.Run("index from loss tail", func(t *testing.T) {
		// n=10, p=0.75 -> floor(10*0.25) = 2 -> third smallest
		q, err := Quantile(xs, 0.75)
		require.NoError(t, err)
		assert.Equal(t, -0.02, q)
	})

	t.Run("clamped at both ends", func(t *testing.T) {
		low, err := Quantile(xs, 1.5)
		require.NoError(t, err)
		assert.Equal(t, -0.04, low)

		high, err := Quantile(xs, -1)
		require.NoError(t, err)
		assert.Equal(t, 0.05, high)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Quantile(nil, 0.95)
		assert.ErrorIs(t, err, analytics.ErrEmptyInput)
	})
}
