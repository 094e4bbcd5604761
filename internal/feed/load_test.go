package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

func writeFeedFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadEntriesParsesOrders(t *testing.T) {
	path := writeFeedFile(t, `
orders:
  - symbol: A-USDC
    account_id: maker
    sequence_number: 1
    side: sell
    order_type: limit
    max_qty_lots: 5
    limit_price_lots: 10
  - symbol: A-USDC
    account_id: taker
    sequence_number: 2
    side: buy
    order_type: limit
    max_qty_lots: 5
    limit_price_lots: 10
    available_quote_lots: 50
`)

	entries, err := LoadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "A-USDC", entries[0].Symbol)
	assert.Equal(t, clob.AccountID("maker"), entries[0].AccountID)
	assert.Equal(t, clob.Sell, entries[0].Order.Side)
	assert.Equal(t, clob.Limit, entries[0].Order.OrderType)
	require.NotNil(t, entries[0].Order.LimitPriceLots)
	assert.Equal(t, uint64(10), *entries[0].Order.LimitPriceLots)

	require.NotNil(t, entries[1].Order.AvailableQuoteLots)
	assert.Equal(t, uint64(50), *entries[1].Order.AvailableQuoteLots)
}

func TestLoadEntriesRejectsInvalidSide(t *testing.T) {
	path := writeFeedFile(t, `
orders:
  - symbol: A-USDC
    account_id: taker
    side: sideways
    order_type: limit
    max_qty_lots: 1
`)

	_, err := LoadEntries(path)
	assert.Error(t, err)
}

func TestLoadEntriesMissingFile(t *testing.T) {
	_, err := LoadEntries(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
