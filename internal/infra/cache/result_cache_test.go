package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
)

func TestKey(t *testing.T) {
	params := analytics.DefaultParams()
	holdings := []analytics.Holding{{Symbol: "MSFT", Weight: 0.4}, {Symbol: "AAPL", Weight: 0.6}}

	key := Key("risk", holdings, params, "2026-10-16")
	assert.True(t, strings.HasPrefix(key, "athena:analytics:risk:"))
	assert.True(t, strings.HasSuffix(key, ":2026-10-16"))

	t.Run("order and duplicates do not matter", func(t *testing.T) {
		same := Key("risk", []analytics.Holding{
			{Symbol: "AAPL", Weight: 0.3},
			{Symbol: "MSFT", Weight: 0.4},
			{Symbol: "AAPL", Weight: 0.3},
		}, params, "2026-10-16")
		assert.Equal(t, key, same)
	})

	t.Run("inputs that change the result change the key", func(t *testing.T) {
		assert.NotEqual(t, key, Key("performance", holdings, params, "2026-10-16"))
		assert.NotEqual(t, key, Key("risk", holdings, params, "2026-10-17"))
		shifted := params
		shifted.LookbackDays = 60
		assert.NotEqual(t, key, Key("risk", holdings, shifted, "2026-10-16"))
		assert.NotEqual(t, key, Key("risk", holdings[:1], params, "2026-10-16"))
	})
}

func TestResultCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewResultCache(db, 5*time.Minute)
	ctx := context.Background()

	record := analytics.RiskMetrics{PortfolioBeta: 1.1, ValueAtRisk95: 2.5, DiversificationRatio: 1.2}
	encoded, err := json.Marshal(record)
	require.NoError(t, err)

	t.Run("set", func(t *testing.T) {
		mock.ExpectSet("k1", string(encoded), 5*time.Minute).SetVal("OK")
		require.NoError(t, c.Set(ctx, "k1", record))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet("k1").SetVal(string(encoded))
		var got analytics.RiskMetrics
		found, err := c.Get(ctx, "k1", &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, record, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet("k2").RedisNil()
		var got analytics.RiskMetrics
		found, err := c.Get(ctx, "k2", &got)
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGet("k3").SetErr(errors.New("connection refused"))
		var got analytics.RiskMetrics
		_, err := c.Get(ctx, "k3", &got)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt entry", func(t *testing.T) {
		mock.ExpectGet("k4").SetVal("{not json")
		var got analytics.RiskMetrics
		found, err := c.Get(ctx, "k4", &got)
		assert.Error(t, err)
		assert.False(t, found)
	})
}
