package clob

import "sort"

// storedOrder is what actually lives in an L2 container: everything about a
// resting order except the fields the container itself derives (price,
// side, price rank). Those are populated at read time by L2's accessors —
// see OpenLimitOrder's doc comment — and must never be trusted as stored
// state.
type storedOrder struct {
	sequenceNumber SequenceNumber
	ownerID        AccountID
	openQtyLots    LotBalance
	clientID       *ClientID
}

type l2Entry struct {
	price LotBalance
	order storedOrder
}

// L2 is one side of the book: an ordered sequence of resting orders sorted
// primarily by effective price and secondarily by sequence number
// ascending. It is implemented as a flat sorted slice rather than a
// two-level (price -> queue) structure: empirically most price levels hold
// a single order, and a flat slice keeps iteration cache-friendly at the
// cost of an O(n) insert.
type L2 struct {
	entries       []l2Entry
	reversePrices bool
	side          Side
}

// NewL2 constructs an empty side container. reversePrices is true for bids
// (descending price order); side is the Side value every order yielded by
// this container is stamped with.
func NewL2(side Side, reversePrices bool) *L2 {
	return &L2{reversePrices: reversePrices, side: side}
}

// effective maps a stored price to the sort key's primary component:
// identity for asks, bitwise complement for bids, so that a single
// ascending sort over "effective price" produces best-first order on
// either side.
func (l *L2) effective(price LotBalance) LotBalance {
	if l.reversePrices {
		return ^price
	}
	return price
}

func (l *L2) less(i int, price LotBalance, seq SequenceNumber) bool {
	e := l.entries[i]
	ep, eq := l.effective(e.price), l.effective(price)
	if ep != eq {
		return ep < eq
	}
	return e.order.sequenceNumber < seq
}

// findLoc returns the index of (price, seq) and true if present, or the
// index at which it would be inserted and false otherwise.
func (l *L2) findLoc(price LotBalance, seq SequenceNumber) (int, bool) {
	ep := l.effective(price)
	idx := sort.Search(len(l.entries), func(i int) bool {
		e := l.entries[i]
		iep := l.effective(e.price)
		if iep != ep {
			return iep >= ep
		}
		return e.order.sequenceNumber >= seq
	})
	if idx < len(l.entries) {
		e := l.entries[idx]
		if e.price == price && e.order.sequenceNumber == seq {
			return idx, true
		}
	}
	return idx, false
}

func (l *L2) project(idx int) OpenLimitOrder {
	e := l.entries[idx]
	return OpenLimitOrder{
		SequenceNumber: e.order.sequenceNumber,
		OwnerID:        e.order.ownerID,
		OpenQtyLots:    e.order.openQtyLots,
		ClientID:       e.order.clientID,
		LimitPriceLots: e.price,
		Side:           l.side,
		PriceRank:      l.GetPriceRank(e.price),
	}
}

// SaveOrder inserts a new order at its sort position, or replaces an
// existing order at the same (price, sequence_number) in place.
func (l *L2) SaveOrder(o OpenLimitOrder) {
	stored := storedOrder{
		sequenceNumber: o.SequenceNumber,
		ownerID:        o.OwnerID,
		openQtyLots:    o.OpenQtyLots,
		clientID:       o.ClientID,
	}
	idx, found := l.findLoc(o.LimitPriceLots, o.SequenceNumber)
	if found {
		l.entries[idx] = l2Entry{price: o.LimitPriceLots, order: stored}
		return
	}
	l.entries = append(l.entries, l2Entry{})
	copy(l.entries[idx+1:], l.entries[idx:])
	l.entries[idx] = l2Entry{price: o.LimitPriceLots, order: stored}
}

// GetOrder returns the order at (price, seq), with derived fields
// populated, or false if absent.
func (l *L2) GetOrder(price LotBalance, seq SequenceNumber) (OpenLimitOrder, bool) {
	idx, found := l.findLoc(price, seq)
	if !found {
		return OpenLimitOrder{}, false
	}
	return l.project(idx), true
}

// DeleteOrder removes and returns the order at (price, seq), with derived
// fields populated, or false if absent.
func (l *L2) DeleteOrder(price LotBalance, seq SequenceNumber) (OpenLimitOrder, bool) {
	idx, found := l.findLoc(price, seq)
	if !found {
		return OpenLimitOrder{}, false
	}
	out := l.project(idx)
	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	return out, true
}

// MinOrder returns the order with the smallest (price, sequence_number)
// under the natural order — prices compare normally regardless of
// reversePrices.
func (l *L2) MinOrder() (OpenLimitOrder, bool) {
	if len(l.entries) == 0 {
		return OpenLimitOrder{}, false
	}
	best := 0
	for i := 1; i < len(l.entries); i++ {
		if l.naturalLess(i, best) {
			best = i
		}
	}
	return l.project(best), true
}

// MaxOrder returns the order with the largest (price, sequence_number)
// under the natural order.
func (l *L2) MaxOrder() (OpenLimitOrder, bool) {
	if len(l.entries) == 0 {
		return OpenLimitOrder{}, false
	}
	best := 0
	for i := 1; i < len(l.entries); i++ {
		if l.naturalLess(best, i) {
			best = i
		}
	}
	return l.project(best), true
}

func (l *L2) naturalLess(i, j int) bool {
	a, b := l.entries[i], l.entries[j]
	if a.price != b.price {
		return a.price < b.price
	}
	return a.order.sequenceNumber < b.order.sequenceNumber
}

// Iter yields every resting order in container order (best-priced first),
// with derived fields populated.
func (l *L2) Iter() []OpenLimitOrder {
	out := make([]OpenLimitOrder, len(l.entries))
	for i := range l.entries {
		out[i] = l.project(i)
	}
	return out
}

// GetPriceRank returns the dense rank of price among the side's unique
// price levels in best-first order, or the index at which it would insert
// if the price is absent. Rank 0 is best.
func (l *L2) GetPriceRank(price LotBalance) uint32 {
	ep := l.effective(price)
	rank := uint32(0)
	prevSeen := false
	var prevPrice LotBalance
	for _, e := range l.entries {
		eep := l.effective(e.price)
		if eep >= ep {
			if eep == ep {
				return rank
			}
			break
		}
		if !prevSeen || e.price != prevPrice {
			rank++
			prevSeen = true
			prevPrice = e.price
		}
	}
	return rank
}

// IsEmpty reports whether the container holds no orders.
func (l *L2) IsEmpty() bool {
	return len(l.entries) == 0
}

// UniquePricesCount returns the number of distinct price levels.
func (l *L2) UniquePricesCount() uint32 {
	if len(l.entries) == 0 {
		return 0
	}
	count := uint32(1)
	prev := l.entries[0].price
	for _, e := range l.entries[1:] {
		if e.price != prev {
			count++
			prev = e.price
		}
	}
	return count
}

// ValueLocked sums per-order locked value across the whole side, used only
// for conservation assertions in tests.
func (l *L2) ValueLocked(lp LotParams) Tvl {
	total := zeroTvl()
	for _, o := range l.Iter() {
		total = total.Add(o.ValueLocked(lp))
	}
	return total
}
