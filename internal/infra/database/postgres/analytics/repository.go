package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository 보유 종목 및 일간 수익률 리포지토리
type Repository struct {
	db        Querier
	benchmark string
}

// NewRepository 새 리포지토리 생성
func NewRepository(db Querier, benchmark string) *Repository {
	return &Repository{db: db, benchmark: strings.ToUpper(benchmark)}
}

// =============================================================================
// Holdings
// =============================================================================

// Position one row of trade.holdings valued at the current price.
type Position struct {
	Symbol       string
	Qty          decimal.Decimal
	CurrentPrice decimal.Decimal
}

// MarketValue qty * current price
func (p Position) MarketValue() decimal.Decimal {
	return p.Qty.Mul(p.CurrentPrice)
}

// GetHoldings 계좌 보유 종목을 시가 비중으로 변환
func (r *Repository) GetHoldings(ctx context.Context, accountID string) ([]analytics.Holding, error) {
	query := `
		SELECT symbol, qty, COALESCE(current_price, 0)
		FROM trade.holdings
		WHERE account_id = $1 AND qty > 0
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.Symbol, &p.Qty, &p.CurrentPrice); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(positions) == 0 {
		return nil, fmt.Errorf("account %s: %w", accountID, analytics.ErrHoldingsNotFound)
	}
	return WeightsFromPositions(positions), nil
}

// WeightsFromPositions converts positions into market-value weights. Sums are
// taken in decimal so the weights add up to one before the float conversion.
// When every position is worthless the weights are equal.
func WeightsFromPositions(positions []Position) []analytics.Holding {
	if len(positions) == 0 {
		return nil
	}

	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.MarketValue())
	}

	holdings := make([]analytics.Holding, len(positions))
	equal := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(positions))))
	for i, p := range positions {
		w := equal
		if total.IsPositive() {
			w = p.MarketValue().Div(total)
		}
		holdings[i] = analytics.Holding{Symbol: p.Symbol, Weight: w.InexactFloat64()}
	}
	return holdings
}

// =============================================================================
// Return series
// =============================================================================

// GetReturns 최근 lookback 일간 수익률 (chronological)
func (r *Repository) GetReturns(ctx context.Context, symbol string, lookback int) (analytics.ReturnSeries, error) {
	query := `
		SELECT daily_return
		FROM (
			SELECT trade_date, daily_return
			FROM market.daily_returns
			WHERE symbol = $1
			ORDER BY trade_date DESC
			LIMIT $2
		) recent
		ORDER BY trade_date ASC
	`

	rows, err := r.db.Query(ctx, query, strings.ToUpper(symbol), lookback)
	if err != nil {
		return nil, fmt.Errorf("query returns %s: %w", symbol, err)
	}
	defer rows.Close()

	var series analytics.ReturnSeries
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan return %s: %w", symbol, err)
		}
		series = append(series, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, analytics.ErrSeriesNotFound)
	}
	return series, nil
}

// GetBenchmarkReturns 벤치마크 수익률
func (r *Repository) GetBenchmarkReturns(ctx context.Context, lookback int) (analytics.ReturnSeries, error) {
	return r.GetReturns(ctx, r.benchmark, lookback)
}

// SeriesVersion returns the latest stored trade date. Cached results keyed on
// it go stale as soon as a new day of returns is loaded.
func (r *Repository) SeriesVersion(ctx context.Context) (string, error) {
	var version *string
	err := r.db.QueryRow(ctx, `SELECT MAX(trade_date)::text FROM market.daily_returns`).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query series version: %w", err)
	}
	if version == nil {
		return "", nil
	}
	return *version, nil
}
