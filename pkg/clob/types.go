package clob

import "errors"

// AccountID is an opaque caller identity. Only equality is required of it;
// the engine never interprets its contents.
type AccountID string

// ClientID is an unsigned tag the caller attaches to an order and gets back
// unchanged in every report that mentions it.
type ClientID uint32

// MarketID is a 32-byte hash identifying a market. It is never interpreted
// by the engine — it exists only so callers can round-trip it through
// PlaceOrderResult and friends without the core needing to know how it was
// derived.
type MarketID [32]byte

// SequenceNumber is assigned by the caller and must be unique and
// monotonically increasing per book, in [1, 2^63).
type SequenceNumber = uint64

// LotBalance is a quantity or price expressed in lots.
type LotBalance = uint64

// Side is one side of the book.
type Side uint8

const (
	Sell Side = iota
	Buy
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// OrderType selects the state machine PlaceOrder drives a new order through.
type OrderType uint8

const (
	// Limit fills at the specified price or better; any unfilled remainder
	// posts to the book.
	Limit OrderType = iota
	// ImmediateOrCancel fills as much as possible immediately and cancels
	// the remainder instead of posting it.
	ImmediateOrCancel
	// PostOnly rejects the order outright if any part of it would
	// immediately match.
	PostOnly
	// FillOrKill fills the entire order immediately or rejects it
	// completely; it never partially fills.
	FillOrKill
	// Market fills as much as possible at the best available price and
	// never posts a remainder.
	Market
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "limit"
	case ImmediateOrCancel:
		return "ioc"
	case PostOnly:
		return "post_only"
	case FillOrKill:
		return "fok"
	case Market:
		return "market"
	default:
		return "unknown"
	}
}

// Outcome is the business-level result of a PlaceOrder call. Outcomes are
// never errors — rejection and cancellation are ordinary, expected results.
type Outcome uint8

const (
	Filled Outcome = iota
	PartialFill
	Posted
	Rejected
	// Cancelled is only ever produced by the cancel path, never by
	// PlaceOrder. FillOrKill rejections surface as Rejected, not
	// Cancelled — the original implementation flags this as possibly the
	// wrong label; callers should treat both as "no fills, no posting, no
	// mutation".
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Filled:
		return "filled"
	case PartialFill:
		return "partial_fill"
	case Posted:
		return "posted"
	case Rejected:
		return "rejected"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// LotParams are the per-market constants carried in every NewOrder. The
// caller is responsible for keeping them consistent across calls for a
// given book.
type LotParams struct {
	BaseLotSize      uint64
	QuoteLotSize     uint64
	BaseDenomination uint64
}

// NewOrder is the input to PlaceOrder.
type NewOrder struct {
	SequenceNumber     SequenceNumber
	Side               Side
	OrderType          OrderType
	MaxQtyLots         LotBalance
	LimitPriceLots     *LotBalance // required unless OrderType == Market
	AvailableQuoteLots *LotBalance // required for Buy, forbidden for Sell
	ClientID           *ClientID

	LotParams
}

// ValueLocked is the TVL this order would add to the book if fully posted
// (used only for conservation assertions, never for accounting).
func (o NewOrder) ValueLocked() Tvl {
	if o.Side == Buy {
		quote := uint64(0)
		if o.AvailableQuoteLots != nil {
			quote = *o.AvailableQuoteLots
		}
		return Tvl{QuoteLocked: u256MulU64(u256FromU64(quote), o.QuoteLotSize)}
	}
	return Tvl{BaseLocked: u256MulU64(u256FromU64(o.MaxQtyLots), o.BaseLotSize)}
}

// assertValid checks the structural validity rules from the data model:
// a limit price is required for everything but Market orders, and the
// quantity must be positive. Violations are fatal, matching the original
// assert_valid.
func (o NewOrder) assertValid() {
	if o.OrderType != Market {
		if o.LimitPriceLots == nil {
			panicFatal(reasonMissingLimitPrice)
		}
		if *o.LimitPriceLots == 0 {
			panicFatal("limit price is zero")
		}
	}
	if o.MaxQtyLots == 0 {
		panicFatal("order quantity is zero")
	}
}

// Validate checks the caller-facing validity rules that are business
// errors rather than fatal invariant violations: a Buy must carry its
// quote budget and a Sell must not, and the market's lot sizes must not
// already have discarded precision relative to the base denomination.
// Callers at the API boundary are expected to run this before handing the
// order to PlaceOrder; PlaceOrder itself only guards the fatal subset via
// assertValid.
func (o NewOrder) Validate() error {
	switch o.Side {
	case Buy:
		if o.AvailableQuoteLots == nil {
			return errors.New("buy orders require available_quote_lots")
		}
	case Sell:
		if o.AvailableQuoteLots != nil {
			return errors.New("sell orders must not set available_quote_lots")
		}
	}
	if o.BaseLotSize == 0 || o.QuoteLotSize == 0 || o.BaseDenomination == 0 {
		return errors.New("lot params must be non-zero")
	}
	lhs := u256MulU64(u256FromU64(o.BaseLotSize), o.QuoteLotSize)
	if lhs.Lt(u256FromU64(o.BaseDenomination)) {
		return errors.New("base_lot_size * quote_lot_size must be >= base_denomination")
	}
	return nil
}

// OpenLimitOrder is a resting order handed out by the book. Price, side and
// price rank are derived projections populated at read time by the L2
// container that holds it — they are never the source of truth and never
// flow back into storage.
type OpenLimitOrder struct {
	SequenceNumber SequenceNumber
	OwnerID        AccountID
	OpenQtyLots    LotBalance
	ClientID       *ClientID

	LimitPriceLots LotBalance
	Side           Side
	PriceRank      uint32
}

// ID reconstructs the resting order's OrderID from its derived fields.
func (o OpenLimitOrder) ID() OrderID {
	return NewOrderID(o.Side, o.LimitPriceLots, o.SequenceNumber)
}

// ValueLocked returns what this resting order locks: quote for a bid,
// base for an ask.
func (o OpenLimitOrder) ValueLocked(lp LotParams) Tvl {
	if o.Side == Buy {
		return Tvl{QuoteLocked: BidQuoteValue(o.OpenQtyLots, o.LimitPriceLots, lp)}
	}
	return Tvl{BaseLocked: u256MulU64(u256FromU64(o.OpenQtyLots), lp.BaseLotSize)}
}

// Match is one fill produced while walking the opposite side of the book.
type Match struct {
	MakerOrderID        OrderID
	MakerUserID         AccountID
	FillQtyLots         LotBalance
	FillPriceLots       LotBalance
	NativeQuotePaid     *U256
	MakerOrderPriceRank uint32
	// MakerOrderRemoved is nil until Step C of PlaceOrder applies the
	// match; true if the maker order was fully consumed and deleted,
	// false if it was partially filled and saved back.
	MakerOrderRemoved *bool
}

// PlaceOrderResult is the settlement report produced by PlaceOrder.
type PlaceOrderResult struct {
	ID               OrderID
	Outcome          Outcome
	FillQtyLots      LotBalance
	OpenQtyLots      LotBalance
	QuoteAmountLots  LotBalance
	Matches          []Match
	PriceRank        *uint32
	BestBid          *LotBalance
	BestAsk          *LotBalance
}

// IsPosted reports whether any part of the new order is now resting on the
// book.
func (r PlaceOrderResult) IsPosted() bool {
	return r.OpenQtyLots > 0
}

// ValueLocked returns the value that changed hands in this result's
// matches: the native quote paid to makers and the base that was filled.
// Used only for conservation assertions, never for accounting.
func (r PlaceOrderResult) ValueLocked(lp LotParams) Tvl {
	quote := u256FromU64(0)
	base := u256FromU64(0)
	for _, m := range r.Matches {
		quote = u256Add(quote, m.NativeQuotePaid)
		base = u256Add(base, u256MulU64(u256FromU64(m.FillQtyLots), lp.BaseLotSize))
	}
	return Tvl{BaseLocked: base, QuoteLocked: quote}
}

// Tvl is a (base, quote) value-locked pair, used exclusively for invariant
// checking in tests — never for accounting.
type Tvl struct {
	BaseLocked  *U256
	QuoteLocked *U256
}

func zeroTvl() Tvl {
	return Tvl{BaseLocked: u256FromU64(0), QuoteLocked: u256FromU64(0)}
}

// Add returns the pointwise sum of two Tvl values.
func (t Tvl) Add(other Tvl) Tvl {
	base, quote := t.BaseLocked, t.QuoteLocked
	if base == nil {
		base = u256FromU64(0)
	}
	if quote == nil {
		quote = u256FromU64(0)
	}
	otherBase, otherQuote := other.BaseLocked, other.QuoteLocked
	if otherBase == nil {
		otherBase = u256FromU64(0)
	}
	if otherQuote == nil {
		otherQuote = u256FromU64(0)
	}
	return Tvl{
		BaseLocked:  u256Add(base, otherBase),
		QuoteLocked: u256Add(quote, otherQuote),
	}
}
