package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdoElHodaky/tradsys-clob/internal/engine"
	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

type bookHandler struct {
	manager *engine.Manager
}

func (h *bookHandler) RegisterRoutes(router *gin.RouterGroup) {
	book := router.Group("/book/:symbol")
	{
		book.GET("", h.Snapshot)
		book.GET("/bbo", h.BBO)
	}
}

// LevelResponse is one resting order in a book snapshot.
type LevelResponse struct {
	OrderID     string `json:"order_id"`
	OwnerID     string `json:"owner_id"`
	PriceLots   uint64 `json:"price_lots"`
	OpenQtyLots uint64 `json:"open_qty_lots"`
	PriceRank   uint32 `json:"price_rank"`
}

// BookResponse is a full snapshot of both sides, best price first.
type BookResponse struct {
	Symbol string          `json:"symbol"`
	Bids   []LevelResponse `json:"bids"`
	Asks   []LevelResponse `json:"asks"`
}

// BBOResponse is the best bid/offer for a market.
type BBOResponse struct {
	Symbol string  `json:"symbol"`
	Bid    *uint64 `json:"bid,omitempty"`
	Ask    *uint64 `json:"ask,omitempty"`
}

func (h *bookHandler) Snapshot(c *gin.Context) {
	market, err := h.manager.Market(c.Param("symbol"))
	if err != nil {
		respondError(c, obs.Newf(obs.ErrMarketNotFound, "unknown market %q", c.Param("symbol")))
		return
	}

	bids, asks := market.Snapshot()
	c.JSON(http.StatusOK, BookResponse{
		Symbol: market.Symbol,
		Bids:   toLevelResponses(bids),
		Asks:   toLevelResponses(asks),
	})
}

func (h *bookHandler) BBO(c *gin.Context) {
	market, err := h.manager.Market(c.Param("symbol"))
	if err != nil {
		respondError(c, obs.Newf(obs.ErrMarketNotFound, "unknown market %q", c.Param("symbol")))
		return
	}

	bid, ask := market.BBO()
	resp := BBOResponse{Symbol: market.Symbol}
	if bid != nil {
		p := bid.LimitPriceLots
		resp.Bid = &p
	}
	if ask != nil {
		p := ask.LimitPriceLots
		resp.Ask = &p
	}
	c.JSON(http.StatusOK, resp)
}

func toLevelResponses(orders []clob.OpenLimitOrder) []LevelResponse {
	out := make([]LevelResponse, len(orders))
	for i, o := range orders {
		out[i] = LevelResponse{
			OrderID:     formatOrderID(o.ID()),
			OwnerID:     string(o.OwnerID),
			PriceLots:   o.LimitPriceLots,
			OpenQtyLots: o.OpenQtyLots,
			PriceRank:   o.PriceRank,
		}
	}
	return out
}
