package returns

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

type slowProvider struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (p *slowProvider) GetReturns(ctx context.Context, symbol string, lookback int) (analytics.ReturnSeries, error) {
	p.calls.Add(1)
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return analytics.ReturnSeries{0.01, -0.01, float64(lookback)}, nil
}

func (p *slowProvider) GetBenchmarkReturns(ctx context.Context, lookback int) (analytics.ReturnSeries, error) {
	return p.GetReturns(ctx, "", lookback)
}

func (p *slowProvider) SeriesVersion(context.Context) (string, error) {
	return "2026-10-16", nil
}

func TestSharedProvider_CoalescesConcurrentFetches(t *testing.T) {
	inner := &slowProvider{release: make(chan struct{})}
	shared := NewSharedProvider(inner)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]analytics.ReturnSeries, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = shared.GetReturns(context.Background(), "AAPL", 3)
		}()
	}

	// let every caller join the in-flight fetch
	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
	for _, r := range results {
		assert.Equal(t, analytics.ReturnSeries{0.01, -0.01, 3}, r)
	}

	// callers get independent copies
	results[0][0] = 99
	assert.Equal(t, 0.01, results[1][0])
}

func TestSharedProvider_CancelledCallerDoesNotFailOthers(t *testing.T) {
	inner := &slowProvider{release: make(chan struct{})}
	shared := NewSharedProvider(inner)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := shared.GetReturns(firstCtx, "AAPL", 3)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		series analytics.ReturnSeries
		err    error
	}
	second := make(chan result, 1)
	go func() {
		s, err := shared.GetReturns(context.Background(), "AAPL", 3)
		second <- result{s, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(inner.release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, analytics.ReturnSeries{0.01, -0.01, 3}, got.series)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestSharedProvider_DoesNotCache(t *testing.T) {
	inner := &slowProvider{release: make(chan struct{})}
	close(inner.release)
	shared := NewSharedProvider(inner)

	_, err := shared.GetBenchmarkReturns(context.Background(), 5)
	require.NoError(t, err)
	_, err = shared.GetBenchmarkReturns(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestSharedProvider_PropagatesErrors(t *testing.T) {
	inner := &slowProvider{release: make(chan struct{}), err: errors.New("db down")}
	close(inner.release)

	_, err := NewSharedProvider(inner).GetReturns(context.Background(), "AAPL", 5)
	assert.EqualError(t, err, "db down")
}

func TestSharedProvider_SeriesVersion(t *testing.T) {
	inner := &slowProvider{release: make(chan struct{})}
	v, err := NewSharedProvider(inner).SeriesVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", v)
}
