package returns

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

const benchmarkKey = "\x00benchmark"

// SharedProvider coalesces concurrent identical fetches into one upstream
// call. It keeps nothing once the call returns.
type SharedProvider struct {
	inner analytics.ReturnSeriesProvider
	sf    singleflight.Group
}

// NewSharedProvider wraps inner.
func NewSharedProvider(inner analytics.ReturnSeriesProvider) *SharedProvider {
	return &SharedProvider{inner: inner}
}

// GetReturns implements analytics.ReturnSeriesProvider.
func (p *SharedProvider) GetReturns(ctx context.Context, symbol string, lookback int) (analytics.ReturnSeries, error) {
	return p.do(ctx, fmt.Sprintf("%s:%d", symbol, lookback), func(fctx context.Context) (analytics.ReturnSeries, error) {
		return p.inner.GetReturns(fctx, symbol, lookback)
	})
}

// GetBenchmarkReturns implements analytics.ReturnSeriesProvider.
func (p *SharedProvider) GetBenchmarkReturns(ctx context.Context, lookback int) (analytics.ReturnSeries, error) {
	return p.do(ctx, fmt.Sprintf("%s:%d", benchmarkKey, lookback), func(fctx context.Context) (analytics.ReturnSeries, error) {
		return p.inner.GetBenchmarkReturns(fctx, lookback)
	})
}

// SeriesVersion delegates when the wrapped provider is versioned.
func (p *SharedProvider) SeriesVersion(ctx context.Context) (string, error) {
	if v, ok := p.inner.(analytics.SeriesVersioner); ok {
		return v.SeriesVersion(ctx)
	}
	return "", nil
}

// do returns each caller its own copy of the shared result.
// The shared fetch is detached from the first caller's cancellation; each
// caller stops waiting when its own ctx is done.
func (p *SharedProvider) do(
	ctx context.Context,
	key string,
	fetch func(context.Context) (analytics.ReturnSeries, error),
) (analytics.ReturnSeries, error) {
	fctx := context.WithoutCancel(ctx)
	ch := p.sf.DoChan(key, func() (interface{}, error) {
		return fetch(fctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		series := res.Val.(analytics.ReturnSeries)
		return append(analytics.ReturnSeries(nil), series...), nil
	}
}
