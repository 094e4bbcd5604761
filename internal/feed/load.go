package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

// document is the on-disk YAML shape for a feed file: a flat list of
// orders, each tagged with the symbol and account it replays against.
// pkg/clob.NewOrder carries no yaml tags of its own — it is the core's
// wire-free input type — so entries are decoded into this shape first and
// converted explicitly.
type document struct {
	Orders []yamlEntry `yaml:"orders"`
}

type yamlEntry struct {
	Symbol             string  `yaml:"symbol"`
	AccountID          string  `yaml:"account_id"`
	SequenceNumber     uint64  `yaml:"sequence_number"`
	Side               string  `yaml:"side"`
	OrderType          string  `yaml:"order_type"`
	MaxQtyLots         uint64  `yaml:"max_qty_lots"`
	LimitPriceLots     *uint64 `yaml:"limit_price_lots"`
	AvailableQuoteLots *uint64 `yaml:"available_quote_lots"`
	ClientID           *uint32 `yaml:"client_id"`
}

// LoadEntries reads a YAML order feed from path and converts it to Entry
// values ready for Replay. Lot parameters are not part of the feed file —
// Replayer resolves them per order from the market the entry targets.
func LoadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feed: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	entries := make([]Entry, len(doc.Orders))
	for i, raw := range doc.Orders {
		entry, err := raw.toEntry()
		if err != nil {
			return nil, fmt.Errorf("feed entry %d: %w", i, err)
		}
		entries[i] = entry
	}
	return entries, nil
}

func (y yamlEntry) toEntry() (Entry, error) {
	side, err := parseSide(y.Side)
	if err != nil {
		return Entry{}, err
	}
	orderType, err := parseOrderType(y.OrderType)
	if err != nil {
		return Entry{}, err
	}

	var clientID *clob.ClientID
	if y.ClientID != nil {
		c := clob.ClientID(*y.ClientID)
		clientID = &c
	}

	return Entry{
		Symbol:    y.Symbol,
		AccountID: clob.AccountID(y.AccountID),
		Order: clob.NewOrder{
			SequenceNumber:     y.SequenceNumber,
			Side:               side,
			OrderType:          orderType,
			MaxQtyLots:         y.MaxQtyLots,
			LimitPriceLots:     y.LimitPriceLots,
			AvailableQuoteLots: y.AvailableQuoteLots,
			ClientID:           clientID,
		},
	}, nil
}

func parseSide(s string) (clob.Side, error) {
	switch s {
	case "buy":
		return clob.Buy, nil
	case "sell":
		return clob.Sell, nil
	default:
		return 0, fmt.Errorf("invalid side %q", s)
	}
}

func parseOrderType(s string) (clob.OrderType, error) {
	switch s {
	case "limit":
		return clob.Limit, nil
	case "post_only":
		return clob.PostOnly, nil
	case "ioc":
		return clob.ImmediateOrCancel, nil
	case "fok":
		return clob.FillOrKill, nil
	case "market":
		return clob.Market, nil
	default:
		return 0, fmt.Errorf("invalid order_type %q", s)
	}
}
