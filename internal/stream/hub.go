// Package stream broadcasts match and BBO events over websocket
// connections, one hub per running simulator.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Event is one message pushed to every connected subscriber of a symbol.
type Event struct {
	Symbol      string  `json:"symbol"`
	Outcome     string  `json:"outcome"`
	FillQtyLots uint64  `json:"fill_qty_lots"`
	BestBid     *uint64 `json:"best_bid,omitempty"`
	BestAsk     *uint64 `json:"best_ask,omitempty"`
}

type subscriber struct {
	symbol string
	send   chan Event
}

// Hub fans out Events to subscribers filtered by symbol. It implements
// engine.Observer.
type Hub struct {
	logger obs.Logger

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

// NewHub constructs an empty Hub.
func NewHub(logger obs.Logger) *Hub {
	return &Hub{logger: logger, subs: make(map[*subscriber]struct{})}
}

// OnPlaceOrder implements engine.Observer, translating a settlement report
// into a broadcast Event.
func (h *Hub) OnPlaceOrder(symbol string, result clob.PlaceOrderResult) {
	h.broadcast(Event{
		Symbol:      symbol,
		Outcome:     result.Outcome.String(),
		FillQtyLots: result.FillQtyLots,
		BestBid:     result.BestBid,
		BestAsk:     result.BestAsk,
	})
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if s.symbol != "" && s.symbol != ev.Symbol {
			continue
		}
		select {
		case s.send <- ev:
		default:
			// Slow consumer: drop rather than block the matching path.
		}
	}
}

// HandleWebSocket upgrades the request and streams events for the
// requested symbol (empty symbol subscribes to every market) until the
// client disconnects.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	sub := &subscriber{symbol: c.Query("symbol"), send: make(chan Event, 64)}
	h.addSubscriber(sub)
	defer h.removeSubscriber(sub)

	closed := make(chan struct{})
	go h.drainIncoming(conn, closed)

	for {
		select {
		case <-closed:
			return
		case ev := <-sub.send:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}

// drainIncoming discards anything the client sends — this is a read-only
// feed — but must keep reading so the connection notices a client close,
// closing closed once the read loop ends.
func (h *Hub) drainIncoming(conn *websocket.Conn, closed chan struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) addSubscriber(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s] = struct{}{}
}

func (h *Hub) removeSubscriber(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
	close(s.send)
}
