package clob

// PlaceOrder drives a new order through its order-type-specific state
// machine, walks the opposite side, produces matches, mutates the book
// (unless rejected), and returns the settlement report.
//
// PlaceOrder is atomic from the caller's perspective: it either mutates the
// book and returns a full report, or leaves the book unchanged (Rejected,
// or a fatal panic before any mutation happens). There are no suspension
// points — Orderbook is not safe for concurrent use, and callers are
// expected to serialize invocation per book themselves.
func (ob *Orderbook) PlaceOrder(userID AccountID, order NewOrder) PlaceOrderResult {
	order.assertValid()

	var limitPrice LotBalance
	if order.LimitPriceLots != nil {
		limitPrice = *order.LimitPriceLots
	}
	orderID := NewOrderID(order.Side, limitPrice, order.SequenceNumber)

	unfilled, unusedQuoteLots, matches := ob.tryMatch(userID, order)

	rejected := false
	switch order.OrderType {
	case PostOnly:
		rejected = unfilled < order.MaxQtyLots
	case FillOrKill:
		rejected = unfilled > 0
	}

	if rejected {
		bestBid, bestAsk := ob.snapshotBBO()
		return PlaceOrderResult{
			ID:      orderID,
			Outcome: Rejected,
			BestBid: bestBid,
			BestAsk: bestAsk,
		}
	}

	var fillQtyLots LotBalance
	for i := range matches {
		m := &matches[i]
		maker, ok := ob.GetOrder(m.MakerOrderID)
		if !ok {
			panicFatal("maker order referenced by a match no longer exists")
		}
		maker.OpenQtyLots -= m.FillQtyLots
		removed := maker.OpenQtyLots == 0
		m.MakerOrderRemoved = &removed
		if removed {
			ob.RemoveOrder(m.MakerOrderID)
		} else {
			ob.sideFor(maker.Side).SaveOrder(maker)
		}
		fillQtyLots += m.FillQtyLots
	}

	canPost := order.OrderType != FillOrKill &&
		order.OrderType != ImmediateOrCancel &&
		order.OrderType != Market

	var outcome Outcome
	switch {
	case unfilled == 0:
		outcome = Filled
	case order.OrderType == Market:
		// Market orders never post and never surface leftover quantity.
		outcome = Filled
	case unfilled == order.MaxQtyLots && canPost:
		outcome = Posted
	default:
		outcome = PartialFill
	}

	if unfilled > 0 && canPost {
		if order.LimitPriceLots == nil {
			panicFatal(reasonMissingLimitPrice)
		}
		ob.insertOrder(OpenLimitOrder{
			SequenceNumber: order.SequenceNumber,
			OwnerID:        userID,
			LimitPriceLots: *order.LimitPriceLots,
			OpenQtyLots:    unfilled,
			ClientID:       order.ClientID,
			Side:           order.Side,
		})
	}

	openQtyLots := LotBalance(0)
	if canPost {
		openQtyLots = unfilled
	}

	var priceRank *uint32
	if openQtyLots > 0 {
		r := ob.priceRank(order.Side, *order.LimitPriceLots)
		priceRank = &r
	}

	bestBid, bestAsk := ob.snapshotBBO()

	return PlaceOrderResult{
		ID:              orderID,
		FillQtyLots:     fillQtyLots,
		OpenQtyLots:     openQtyLots,
		QuoteAmountLots: quoteAmountSpent(order.AvailableQuoteLots, unusedQuoteLots),
		Outcome:         outcome,
		Matches:         matches,
		PriceRank:       priceRank,
		BestBid:         bestBid,
		BestAsk:         bestAsk,
	}
}

// tryMatch is the pure match walk (spec Step A): it never mutates the
// book. It returns the taker's remaining unfilled quantity, remaining
// unused quote (in lots, Buy only), and the list of candidate matches in
// the order they were walked — best-price-first, oldest-first within a
// price.
func (ob *Orderbook) tryMatch(userID AccountID, order NewOrder) (unfilledQtyLots, unusedQuoteLots LotBalance, matches []Match) {
	lp := order.LotParams
	unfilled := order.MaxQtyLots

	var unusedQuoteNative *U256
	if order.AvailableQuoteLots != nil {
		unusedQuoteNative = u256MulU64(u256FromU64(*order.AvailableQuoteLots), lp.QuoteLotSize)
	}

	restingSide := ob.Asks
	if order.Side == Sell {
		restingSide = ob.Bids
	}

	crosses := func(restingPrice, limitPrice LotBalance) bool {
		if order.Side == Buy {
			return restingPrice <= limitPrice
		}
		return restingPrice >= limitPrice
	}

	for _, resting := range restingSide.Iter() {
		tradePriceLots := resting.LimitPriceLots

		crossed := order.LimitPriceLots == nil || crosses(tradePriceLots, *order.LimitPriceLots)
		if !crossed {
			break
		}
		if unfilled == 0 {
			break
		}
		if resting.OwnerID == userID {
			panicFatal(reasonSelfTrade)
		}

		var tradeQtyLots LotBalance
		if unusedQuoteNative != nil {
			// Buying: also clamp by what the remaining quote budget can
			// afford at this price. This is the invariant that prevents
			// over-spending the quote budget.
			maxByBudget := BasePurchasable(unusedQuoteNative, tradePriceLots, lp)
			tradeQtyLots = min64(resting.OpenQtyLots, unfilled)
			tradeQtyLots = min64(tradeQtyLots, maxByBudget)
		} else {
			tradeQtyLots = min64(resting.OpenQtyLots, unfilled)
		}

		if tradeQtyLots == 0 {
			break
		}

		nativeQuotePaid := BidQuoteValue(tradeQtyLots, tradePriceLots, lp)
		unfilled -= tradeQtyLots
		if unusedQuoteNative != nil {
			unusedQuoteNative = u256Sub(unusedQuoteNative, nativeQuotePaid)
		}

		matches = append(matches, Match{
			MakerOrderID:        resting.ID(),
			MakerUserID:         resting.OwnerID,
			FillQtyLots:         tradeQtyLots,
			FillPriceLots:       tradePriceLots,
			NativeQuotePaid:     nativeQuotePaid,
			MakerOrderPriceRank: resting.PriceRank,
		})
	}

	unfilledQtyLots = unfilled
	if unusedQuoteNative != nil {
		unusedQuoteLots = toU64(u256DivU64(unusedQuoteNative, lp.QuoteLotSize))
	}
	return
}

func (ob *Orderbook) snapshotBBO() (bestBid, bestAsk *LotBalance) {
	if o, ok := ob.FindBBO(Buy); ok {
		p := o.LimitPriceLots
		bestBid = &p
	}
	if o, ok := ob.FindBBO(Sell); ok {
		p := o.LimitPriceLots
		bestAsk = &p
	}
	return
}

// quoteAmountSpent is the saturating subtraction from spec Step F: the
// amount of the buyer's quote budget actually spent. Sell orders have no
// available quote lots and always yield 0.
func quoteAmountSpent(availableQuoteLots *LotBalance, unusedQuoteLots LotBalance) LotBalance {
	if availableQuoteLots == nil {
		return 0
	}
	if unusedQuoteLots > *availableQuoteLots {
		return 0
	}
	return *availableQuoteLots - unusedQuoteLots
}

func min64(a, b LotBalance) LotBalance {
	if a < b {
		return a
	}
	return b
}
