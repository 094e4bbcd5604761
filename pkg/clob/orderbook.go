package clob

// Orderbook is a pair of L2 sides plus the cross-cutting queries that span
// both. The bids and asks containers are exclusively owned by the
// Orderbook; it is the caller's (the matching engine's) job to keep them
// uncrossed on return from PlaceOrder.
type Orderbook struct {
	Bids *L2
	Asks *L2
}

// NewOrderbook constructs an empty book.
func NewOrderbook() *Orderbook {
	return &Orderbook{
		Bids: NewL2(Buy, true),
		Asks: NewL2(Sell, false),
	}
}

// FindBBO returns the best resting order on the given side, or false if
// that side is empty.
func (ob *Orderbook) FindBBO(side Side) (OpenLimitOrder, bool) {
	if side == Buy {
		return ob.Bids.MaxOrder()
	}
	return ob.Asks.MinOrder()
}

func (ob *Orderbook) sideFor(side Side) *L2 {
	if side == Buy {
		return ob.Bids
	}
	return ob.Asks
}

func (ob *Orderbook) insertOrder(o OpenLimitOrder) {
	ob.sideFor(o.Side).SaveOrder(o)
}

func (ob *Orderbook) priceRank(side Side, priceLots LotBalance) uint32 {
	return ob.sideFor(side).GetPriceRank(priceLots)
}

// GetOrder fetches a resting order by its OrderID, decomposing the id to
// route to the correct side.
func (ob *Orderbook) GetOrder(id OrderID) (OpenLimitOrder, bool) {
	side, price, seq := id.Parts()
	return ob.sideFor(side).GetOrder(price, seq)
}

// RemoveOrder removes and returns the resting order identified by id.
// Idempotent: removing an unknown id returns false without error.
func (ob *Orderbook) RemoveOrder(id OrderID) (OpenLimitOrder, bool) {
	side, price, seq := id.Parts()
	return ob.sideFor(side).DeleteOrder(price, seq)
}

// CancelOrder is an alias for RemoveOrder, named for the caller-facing
// cancellation operation.
func (ob *Orderbook) CancelOrder(id OrderID) (OpenLimitOrder, bool) {
	return ob.RemoveOrder(id)
}

// CancelOrders processes a batch of ids independently, silently dropping
// ids that no longer exist — they may have filled since the caller issued
// the cancel request, which is not an error. The engine does not
// short-circuit on the first miss.
func (ob *Orderbook) CancelOrders(ids []OrderID) []OpenLimitOrder {
	deleted := make([]OpenLimitOrder, 0, len(ids))
	for _, id := range ids {
		if o, ok := ob.RemoveOrder(id); ok {
			deleted = append(deleted, o)
		}
	}
	return deleted
}

// ValueLocked sums per-order locked value across both sides. It exists to
// assert conservation in tests; it is never used to charge accounts.
func (ob *Orderbook) ValueLocked(lp LotParams) Tvl {
	return ob.Bids.ValueLocked(lp).Add(ob.Asks.ValueLocked(lp))
}
