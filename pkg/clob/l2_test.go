package clob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(seq SequenceNumber, price LotBalance, qty LotBalance, side Side) OpenLimitOrder {
	return OpenLimitOrder{
		SequenceNumber: seq,
		OwnerID:        AccountID("owner"),
		OpenQtyLots:    qty,
		LimitPriceLots: price,
		Side:           side,
	}
}

func TestL2SortInvariantAsks(t *testing.T) {
	l := NewL2(Sell, false)
	l.SaveOrder(order(4, 4, 10, Sell))
	l.SaveOrder(order(1, 1, 10, Sell))
	l.SaveOrder(order(2, 1, 10, Sell))
	l.SaveOrder(order(3, 2, 10, Sell))

	got := l.Iter()
	require.Len(t, got, 4)
	wantPrices := []LotBalance{1, 1, 2, 4}
	wantSeqs := []SequenceNumber{1, 2, 3, 4}
	for i, o := range got {
		assert.Equal(t, wantPrices[i], o.LimitPriceLots)
		assert.Equal(t, wantSeqs[i], o.SequenceNumber)
	}
}

func TestL2SortInvariantBids(t *testing.T) {
	l := NewL2(Buy, true)
	l.SaveOrder(order(1, 1, 10, Buy))
	l.SaveOrder(order(2, 1, 10, Buy))
	l.SaveOrder(order(3, 2, 10, Buy))
	l.SaveOrder(order(4, 4, 10, Buy))

	got := l.Iter()
	require.Len(t, got, 4)
	// Bids iterate best (highest price) first.
	wantPrices := []LotBalance{4, 2, 1, 1}
	wantSeqs := []SequenceNumber{4, 3, 1, 2}
	for i, o := range got {
		assert.Equal(t, wantPrices[i], o.LimitPriceLots)
		assert.Equal(t, wantSeqs[i], o.SequenceNumber)
	}
}

func TestGetPriceRankAsks(t *testing.T) {
	l := NewL2(Sell, false)
	l.SaveOrder(order(1, 1, 10, Sell))
	l.SaveOrder(order(2, 1, 10, Sell))
	l.SaveOrder(order(3, 2, 10, Sell))
	l.SaveOrder(order(4, 4, 10, Sell))

	assert.Equal(t, uint32(0), l.GetPriceRank(1))
	assert.Equal(t, uint32(1), l.GetPriceRank(2))
	assert.Equal(t, uint32(2), l.GetPriceRank(3)) // absent, between 2 and 4
	assert.Equal(t, uint32(2), l.GetPriceRank(4))
	assert.Equal(t, uint32(3), l.GetPriceRank(5)) // absent, worse than all
}

func TestGetPriceRankBids(t *testing.T) {
	l := NewL2(Buy, true)
	l.SaveOrder(order(1, 1, 10, Buy))
	l.SaveOrder(order(2, 1, 10, Buy))
	l.SaveOrder(order(3, 2, 10, Buy))
	l.SaveOrder(order(4, 4, 10, Buy))

	assert.Equal(t, uint32(0), l.GetPriceRank(4))
	assert.Equal(t, uint32(1), l.GetPriceRank(2))
	assert.Equal(t, uint32(2), l.GetPriceRank(1))
	assert.Equal(t, uint32(0), l.GetPriceRank(5)) // absent, better than all
	assert.Equal(t, uint32(3), l.GetPriceRank(0)) // absent, worse than all
}

func TestPriceRankMonotonicityAsks(t *testing.T) {
	l := NewL2(Sell, false)
	prices := []LotBalance{10, 20, 20, 30, 50}
	for i, p := range prices {
		l.SaveOrder(order(SequenceNumber(i+1), p, 1, Sell))
	}
	for p1 := LotBalance(0); p1 < 60; p1 += 5 {
		for p2 := p1; p2 < 60; p2 += 5 {
			assert.LessOrEqual(t, l.GetPriceRank(p1), l.GetPriceRank(p2))
		}
	}
}

func TestPriceRankMonotonicityBids(t *testing.T) {
	l := NewL2(Buy, true)
	prices := []LotBalance{10, 20, 20, 30, 50}
	for i, p := range prices {
		l.SaveOrder(order(SequenceNumber(i+1), p, 1, Buy))
	}
	for p1 := LotBalance(0); p1 < 60; p1 += 5 {
		for p2 := p1; p2 < 60; p2 += 5 {
			// Bids: rank decreases (non-increasing) as price increases.
			assert.GreaterOrEqual(t, l.GetPriceRank(p1), l.GetPriceRank(p2))
		}
	}
}

func TestSaveOrderReplacesInPlace(t *testing.T) {
	l := NewL2(Sell, false)
	l.SaveOrder(order(1, 10, 5, Sell))
	l.SaveOrder(order(1, 10, 3, Sell))

	got, ok := l.GetOrder(10, 1)
	require.True(t, ok)
	assert.Equal(t, LotBalance(3), got.OpenQtyLots)
	assert.Equal(t, uint32(1), l.UniquePricesCount())
}

func TestDeleteOrderMaintainsOrder(t *testing.T) {
	l := NewL2(Sell, false)
	l.SaveOrder(order(1, 10, 5, Sell))
	l.SaveOrder(order(2, 20, 5, Sell))
	l.SaveOrder(order(3, 30, 5, Sell))

	deleted, ok := l.DeleteOrder(20, 2)
	require.True(t, ok)
	assert.Equal(t, LotBalance(20), deleted.LimitPriceLots)

	got := l.Iter()
	require.Len(t, got, 2)
	assert.Equal(t, LotBalance(10), got[0].LimitPriceLots)
	assert.Equal(t, LotBalance(30), got[1].LimitPriceLots)

	_, ok = l.DeleteOrder(20, 2)
	assert.False(t, ok)
}

func TestMinMaxOrderIgnoreReversePrices(t *testing.T) {
	l := NewL2(Buy, true)
	l.SaveOrder(order(1, 10, 5, Buy))
	l.SaveOrder(order(2, 30, 5, Buy))
	l.SaveOrder(order(3, 20, 5, Buy))

	min, ok := l.MinOrder()
	require.True(t, ok)
	assert.Equal(t, LotBalance(10), min.LimitPriceLots)

	max, ok := l.MaxOrder()
	require.True(t, ok)
	assert.Equal(t, LotBalance(30), max.LimitPriceLots)
}
