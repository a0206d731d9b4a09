package synthetic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

func TestProvider_Deterministic(t *testing.T) {
	ctx := context.Background()
	a := NewProvider(42)
	b := NewProvider(42)

	first, err := a.GetReturns(ctx, "AAPL", 60)
	require.NoError(t, err)
	second, err := b.GetReturns(ctx, "aapl", 60)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := a.GetReturns(ctx, "MSFT", 60)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	reseeded, err := NewProvider(7).GetReturns(ctx, "AAPL", 60)
	require.NoError(t, err)
	assert.NotEqual(t, first, reseeded)
}

func TestProvider_SharedMarketFactor(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(42)

	market, err := p.GetBenchmarkReturns(ctx, 252)
	require.NoError(t, err)
	require.Len(t, market, 252)

	// a longer window extends the same path
	longer, err := p.GetBenchmarkReturns(ctx, 300)
	require.NoError(t, err)
	assert.Equal(t, market, longer[:252])

	stock, err := p.GetReturns(ctx, "SPYX", 252)
	require.NoError(t, err)
	assert.Len(t, stock, 252)
}

func TestProvider_InvalidInput(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(1)

	_, err := p.GetReturns(ctx, " ", 10)
	assert.ErrorIs(t, err, analytics.ErrSeriesNotFound)

	_, err = p.GetReturns(ctx, "AAPL", 0)
	assert.ErrorIs(t, err, analytics.ErrEmptyInput)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.GetBenchmarkReturns(cancelled, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvider_SeriesVersion(t *testing.T) {
	v, err := NewProvider(42).SeriesVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "synthetic-42", v)
}
