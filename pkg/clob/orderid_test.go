package clob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderIDRoundTrip(t *testing.T) {
	cases := []struct {
		side  Side
		price LotBalance
		seq   SequenceNumber
	}{
		{Buy, 0, 1},
		{Sell, 0, 1},
		{Buy, 100, 42},
		{Sell, 1<<64 - 1, 1},
		{Buy, 1, 1<<63 - 1},
		{Sell, 12345, 9999999},
	}

	for _, c := range cases {
		id := NewOrderID(c.side, c.price, c.seq)
		side, price, seq := id.Parts()
		assert.Equal(t, c.side, side)
		assert.Equal(t, c.price, price)
		assert.Equal(t, c.seq, seq)
	}
}

func TestOrderIDSideBitIsolated(t *testing.T) {
	buy := NewOrderID(Buy, 7, 3)
	sell := NewOrderID(Sell, 7, 3)
	assert.NotEqual(t, buy.Hi, sell.Hi)
	assert.Equal(t, buy.Lo, sell.Lo)
}
