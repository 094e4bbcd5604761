package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/tradsys-clob/internal/config"
	"github.com/abdoElHodaky/tradsys-clob/internal/engine"
	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

func ptr(v uint64) *uint64 { return &v }

func testManager() *engine.Manager {
	cfg := config.DefaultConfig()
	cfg.Markets = []config.MarketConfig{
		{Symbol: "A-USDC", BaseLotSize: 1, QuoteLotSize: 1, BaseDenomination: 1},
		{Symbol: "B-USDC", BaseLotSize: 1, QuoteLotSize: 1, BaseDenomination: 1},
	}
	return engine.NewManager(cfg)
}

func TestReplayPreservesOrderInResults(t *testing.T) {
	logger := obs.NewStructuredLogger("test", obs.DefaultConfig())
	r, err := New(testManager(), 4, logger)
	require.NoError(t, err)
	defer r.Release()

	entries := []Entry{
		{Symbol: "A-USDC", AccountID: "u1", Order: clob.NewOrder{SequenceNumber: 1, Side: clob.Sell, OrderType: clob.Limit, MaxQtyLots: 1, LimitPriceLots: ptr(10)}},
		{Symbol: "B-USDC", AccountID: "u2", Order: clob.NewOrder{SequenceNumber: 1, Side: clob.Sell, OrderType: clob.Limit, MaxQtyLots: 1, LimitPriceLots: ptr(20)}},
		{Symbol: "unknown", AccountID: "u3", Order: clob.NewOrder{SequenceNumber: 1, Side: clob.Sell, OrderType: clob.Limit, MaxQtyLots: 1, LimitPriceLots: ptr(30)}},
	}

	results := r.Replay(entries)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, clob.Posted, results[0].Output.Outcome)
	assert.NoError(t, results[1].Err)
	assert.Error(t, results[2].Err)
}

func TestReplayRecoversFatalSelfTrade(t *testing.T) {
	logger := obs.NewStructuredLogger("test", obs.DefaultConfig())
	r, err := New(testManager(), 2, logger)
	require.NoError(t, err)
	defer r.Release()

	entries := []Entry{
		{Symbol: "A-USDC", AccountID: "same", Order: clob.NewOrder{SequenceNumber: 1, Side: clob.Sell, OrderType: clob.Limit, MaxQtyLots: 1, LimitPriceLots: ptr(10)}},
	}
	r.Replay(entries)

	entries = []Entry{
		{Symbol: "A-USDC", AccountID: "same", Order: clob.NewOrder{SequenceNumber: 2, Side: clob.Buy, OrderType: clob.Limit, MaxQtyLots: 1, LimitPriceLots: ptr(10), AvailableQuoteLots: ptr(10)}},
	}
	results := r.Replay(entries)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
