package synthetic

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

// Market model parameters (daily).
const (
	marketDrift      = 0.0004
	marketVolatility = 0.011
	minBeta          = 0.4
	betaRange        = 1.2
	minIdioVol       = 0.004
	idioVolRange     = 0.016
	maxAlpha         = 0.0003
)

// Provider generates reproducible daily returns from a one-factor market
// model: r = alpha + beta*m + e. The market path depends only on the seed and
// each symbol's loadings depend on the seed and the symbol, so repeated calls
// return identical series.
type Provider struct {
	seed int64
}

// NewProvider 합성 수익률 제공자
func NewProvider(seed int64) *Provider {
	return &Provider{seed: seed}
}

// GetReturns returns lookback periods of returns for symbol.
func (p *Provider) GetReturns(ctx context.Context, symbol string, lookback int) (analytics.ReturnSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", analytics.ErrSeriesNotFound)
	}
	if lookback <= 0 {
		return nil, &analytics.EmptyInputError{Op: "synthetic returns " + symbol}
	}

	market := p.market(lookback)

	rng := rand.New(rand.NewSource(p.seed ^ symbolSeed(symbol)))
	beta := minBeta + rng.Float64()*betaRange
	idio := minIdioVol + rng.Float64()*idioVolRange
	alpha := (rng.Float64()*2 - 1) * maxAlpha

	series := make(analytics.ReturnSeries, lookback)
	for t, m := range market {
		series[t] = alpha + beta*m + idio*rng.NormFloat64()
	}
	return series, nil
}

// GetBenchmarkReturns returns the market factor itself.
func (p *Provider) GetBenchmarkReturns(ctx context.Context, lookback int) (analytics.ReturnSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if lookback <= 0 {
		return nil, &analytics.EmptyInputError{Op: "synthetic benchmark"}
	}
	return p.market(lookback), nil
}

// SeriesVersion changes only with the seed.
func (p *Provider) SeriesVersion(context.Context) (string, error) {
	return "synthetic-" + strconv.FormatInt(p.seed, 10), nil
}

func (p *Provider) market(lookback int) analytics.ReturnSeries {
	rng := rand.New(rand.NewSource(p.seed))
	series := make(analytics.ReturnSeries, lookback)
	for t := range series {
		series[t] = marketDrift + marketVolatility*rng.NormFloat64()
	}
	return series
}

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}
