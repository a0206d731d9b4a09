package analytics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolding_Validate(t *testing.T) {
	tests := []struct {
		name    string
		holding Holding
		wantErr bool
	}{
		{"valid", Holding{Symbol: "AAPL", Weight: 0.4}, false},
		{"zero weight allowed", Holding{Symbol: "AAPL", Weight: 0}, false},
		{"full weight allowed", Holding{Symbol: "AAPL", Weight: 1}, false},
		{"blank symbol", Holding{Symbol: "  ", Weight: 0.4}, true},
		{"negative weight", Holding{Symbol: "AAPL", Weight: -0.1}, true},
		{"weight above one", Holding{Symbol: "AAPL", Weight: 1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.holding.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHoldings)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeHoldings(t *testing.T) {
	merged := MergeHoldings([]Holding{
		{Symbol: "MSFT", Weight: 0.2},
		{Symbol: "AAPL", Weight: 0.3},
		{Symbol: "MSFT", Weight: 0.1},
		{Symbol: "BND", Weight: 0.4},
	})

	assert.Equal(t, []string{"MSFT", "AAPL", "BND"}, Symbols(merged))
	assert.InDelta(t, 0.3, merged[0].Weight, 1e-12)

	assert.Nil(t, MergeHoldings(nil))
}

func TestShapeErrors(t *testing.T) {
	empty := fmt.Errorf("wrapped: %w", &EmptyInputError{Op: "mean"})
	mismatch := fmt.Errorf("wrapped: %w", &LengthMismatchError{Op: "beta", Left: 3, Right: 2})

	assert.True(t, errors.Is(empty, ErrEmptyInput))
	assert.True(t, errors.Is(mismatch, ErrLengthMismatch))
	assert.False(t, errors.Is(empty, ErrLengthMismatch))
	assert.True(t, IsShapeError(empty))
	assert.True(t, IsShapeError(mismatch))
	assert.False(t, IsShapeError(ErrSeriesNotFound))
	assert.Contains(t, mismatch.Error(), "3 != 2")
}

func TestNeutralCorrelationMatrix(t *testing.T) {
	assert.Equal(t, [][]float64{}, NeutralCorrelationMatrix(nil).Matrix)
	single := NeutralCorrelationMatrix([]string{"AAPL"})
	assert.Equal(t, [][]float64{{1}}, single.Matrix)
	assert.Equal(t, []string{"AAPL"}, single.Symbols)
	assert.Equal(t, InterpretationNeedMoreHoldings, single.Interpretation)
}
