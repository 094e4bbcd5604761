// Package engine wraps pkg/clob's Orderbook with the concurrency, lookup,
// and observation hooks a long-running service needs: pkg/clob itself is
// deliberately single-threaded and side-effect free so it can stay pure and
// panic-based for fatal invariants.
package engine

import (
	"fmt"
	"sync"

	"github.com/abdoElHodaky/tradsys-clob/internal/config"
	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

// Observer receives a callback after every accepted PlaceOrder call, before
// the market's lock is released. Implementations must not call back into
// the Manager that invoked them.
type Observer interface {
	OnPlaceOrder(symbol string, result clob.PlaceOrderResult)
}

// Market pairs a single clob.Orderbook with the lot parameters it was
// created with and a lock serializing access to it. The matching engine
// itself holds no lock; callers single-thread access through here.
type Market struct {
	Symbol    string
	LotParams clob.LotParams

	mu sync.Mutex
	ob *clob.Orderbook
}

func newMarket(cfg config.MarketConfig) *Market {
	return &Market{
		Symbol: cfg.Symbol,
		LotParams: clob.LotParams{
			BaseLotSize:      cfg.BaseLotSize,
			QuoteLotSize:     cfg.QuoteLotSize,
			BaseDenomination: cfg.BaseDenomination,
		},
		ob: clob.NewOrderbook(),
	}
}

// PlaceOrder validates and submits order under the market's lock, notifying
// every registered observer before returning. order.LotParams is
// overwritten with the market's own, since a caller should never be able to
// mismatch a submitted order against the book it lands in.
func (m *Market) PlaceOrder(userID clob.AccountID, order clob.NewOrder, observers ...Observer) (clob.PlaceOrderResult, error) {
	order.LotParams = m.LotParams
	if err := order.Validate(); err != nil {
		return clob.PlaceOrderResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	res := m.ob.PlaceOrder(userID, order)

	for _, obs := range observers {
		obs.OnPlaceOrder(m.Symbol, res)
	}
	return res, nil
}

// CancelOrder removes id from the book, returning the cancelled order and
// whether it was present.
func (m *Market) CancelOrder(id clob.OrderID) (clob.OpenLimitOrder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ob.CancelOrder(id)
}

// CancelOrders batch-cancels, silently ignoring ids not present.
func (m *Market) CancelOrders(ids []clob.OrderID) []clob.OpenLimitOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ob.CancelOrders(ids)
}

// GetOrder looks up an order by id.
func (m *Market) GetOrder(id clob.OrderID) (clob.OpenLimitOrder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ob.GetOrder(id)
}

// BBO returns the best bid and ask, each possibly absent.
func (m *Market) BBO() (bid, ask *clob.OpenLimitOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.ob.FindBBO(clob.Buy); ok {
		bid = &b
	}
	if a, ok := m.ob.FindBBO(clob.Sell); ok {
		ask = &a
	}
	return bid, ask
}

// Snapshot returns every resting order on both sides, best price first.
func (m *Market) Snapshot() (bids, asks []clob.OpenLimitOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.ob.Bids.Iter() {
		bids = append(bids, o)
	}
	for _, o := range m.ob.Asks.Iter() {
		asks = append(asks, o)
	}
	return bids, asks
}

// ValueLocked returns the market's total locked base and quote.
func (m *Market) ValueLocked() clob.Tvl {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ob.ValueLocked(m.LotParams)
}

// Manager owns every configured market, keyed by symbol.
type Manager struct {
	markets map[string]*Market
}

// NewManager builds a Manager with one Market per entry in cfg.
func NewManager(cfg config.Config) *Manager {
	m := &Manager{markets: make(map[string]*Market, len(cfg.Markets))}
	for _, mc := range cfg.Markets {
		m.markets[mc.Symbol] = newMarket(mc)
	}
	return m
}

// Market looks up a market by symbol.
func (m *Manager) Market(symbol string) (*Market, error) {
	mkt, ok := m.markets[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown market %q", symbol)
	}
	return mkt, nil
}

// Symbols returns every configured market symbol.
func (m *Manager) Symbols() []string {
	out := make([]string, 0, len(m.markets))
	for s := range m.markets {
		out = append(out, s)
	}
	return out
}
