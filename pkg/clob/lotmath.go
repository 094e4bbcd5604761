package clob

// BidQuoteValue returns the native quote amount a buyer pays for qtyLots at
// priceLots: qty * base_lot_size * price * quote_lot_size / base_denomination,
// computed in 256-bit space and truncated only at the end.
//
// This is the canonical "quote you pay for this much base at this price".
func BidQuoteValue(qtyLots, priceLots LotBalance, lp LotParams) *U256 {
	acc := u256FromU64(qtyLots)
	acc = u256MulU64(acc, lp.BaseLotSize)
	acc = u256MulU64(acc, priceLots)
	acc = u256MulU64(acc, lp.QuoteLotSize)
	acc = u256DivU64(acc, lp.BaseDenomination)
	return toU128(acc)
}

// BasePurchasable returns the base lots a given native quote amount can buy
// at priceLots: quote * base_denomination / price / quote_lot_size /
// base_lot_size — the exact inverse of BidQuoteValue's scaling.
// Multiplication happens before any division.
//
// This is the inverse bound used for a market buy's quote budget. It is not
// an exact inverse of BidQuoteValue under lot truncation — the engine
// relies on the specific order these two are applied in (see engine.go) to
// avoid funding an under-collateralized fill.
func BasePurchasable(quoteNative *U256, priceLots LotBalance, lp LotParams) LotBalance {
	acc := u256MulU64(quoteNative, lp.BaseDenomination)
	acc = u256DivU64(acc, priceLots)
	acc = u256DivU64(acc, lp.QuoteLotSize)
	acc = u256DivU64(acc, lp.BaseLotSize)
	return toU64(acc)
}
