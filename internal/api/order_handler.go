package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"

	"github.com/abdoElHodaky/tradsys-clob/internal/engine"
	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/internal/ratelimit"
	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

type orderHandler struct {
	manager   *engine.Manager
	limiter   *ratelimit.Limiter
	observers []engine.Observer
	logger    obs.Logger
}

func (h *orderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.PlaceOrder)
		orders.DELETE("/:symbol/:side/:price/:seq", h.CancelOrder)
	}
}

// PlaceOrderRequest mirrors clob.NewOrder at the JSON boundary, expressed
// with gin binding tags instead of a validator call — lot params are taken
// from the market's configuration, never from the request.
type PlaceOrderRequest struct {
	Symbol             string  `json:"symbol" binding:"required"`
	AccountID          string  `json:"account_id" binding:"required"`
	SequenceNumber     uint64  `json:"sequence_number" binding:"required"`
	Side               string  `json:"side" binding:"required,oneof=buy sell"`
	OrderType          string  `json:"order_type" binding:"required,oneof=limit post_only ioc fok market"`
	MaxQtyLots         uint64  `json:"max_qty_lots" binding:"required,gt=0"`
	LimitPriceLots     *uint64 `json:"limit_price_lots"`
	AvailableQuoteLots *uint64 `json:"available_quote_lots"`
	ClientID           *uint32 `json:"client_id"`
}

// MatchResponse is one fill reported back to the caller.
type MatchResponse struct {
	MakerOrderID    string `json:"maker_order_id"`
	MakerUserID     string `json:"maker_user_id"`
	FillQtyLots     uint64 `json:"fill_qty_lots"`
	FillPriceLots   uint64 `json:"fill_price_lots"`
	NativeQuotePaid string `json:"native_quote_paid"`
}

// PlaceOrderResponse is the settlement report returned by PlaceOrder.
// ReportID is a time-sortable identifier for this specific settlement
// report, distinct from OrderID: an order can be referenced many times
// (book snapshot, cancel) but each PlaceOrder call produces exactly one
// report, which callers can log and correlate on independent of the order
// itself.
type PlaceOrderResponse struct {
	ReportID        string          `json:"report_id"`
	OrderID         string          `json:"order_id"`
	Outcome         string          `json:"outcome"`
	FillQtyLots     uint64          `json:"fill_qty_lots"`
	OpenQtyLots     uint64          `json:"open_qty_lots"`
	QuoteAmountLots uint64          `json:"quote_amount_lots"`
	Matches         []MatchResponse `json:"matches"`
	BestBid         *uint64         `json:"best_bid,omitempty"`
	BestAsk         *uint64         `json:"best_ask,omitempty"`
}

func (h *orderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, obs.Wrap(err, obs.ErrInvalidOrder, "invalid order request"))
		return
	}

	if h.limiter != nil && !h.limiter.Allow(req.AccountID) {
		respondError(c, obs.New(obs.ErrRateLimited, "rate limited"))
		return
	}

	market, err := h.manager.Market(req.Symbol)
	if err != nil {
		respondError(c, obs.Newf(obs.ErrMarketNotFound, "unknown market %q", req.Symbol))
		return
	}

	side, err := parseSide(req.Side)
	if err != nil {
		respondError(c, obs.Wrap(err, obs.ErrInvalidOrder, "invalid order request"))
		return
	}
	orderType, err := parseOrderType(req.OrderType)
	if err != nil {
		respondError(c, obs.Wrap(err, obs.ErrInvalidOrder, "invalid order request"))
		return
	}

	var clientID *clob.ClientID
	if req.ClientID != nil {
		cid := clob.ClientID(*req.ClientID)
		clientID = &cid
	}

	order := clob.NewOrder{
		SequenceNumber:     req.SequenceNumber,
		Side:               side,
		OrderType:          orderType,
		MaxQtyLots:         req.MaxQtyLots,
		LimitPriceLots:     req.LimitPriceLots,
		AvailableQuoteLots: req.AvailableQuoteLots,
		ClientID:           clientID,
	}

	res, err := market.PlaceOrder(clob.AccountID(req.AccountID), order, h.observers...)
	if err != nil {
		cerr := obs.Wrap(err, obs.ErrInvalidOrder, "order rejected at validation")
		h.logger.WithContext(c.Request.Context()).Warn("order rejected at validation", "error", err.Error())
		respondError(c, cerr)
		return
	}

	c.JSON(http.StatusOK, toPlaceOrderResponse(res))
}

func (h *orderHandler) CancelOrder(c *gin.Context) {
	market, err := h.manager.Market(c.Param("symbol"))
	if err != nil {
		respondError(c, obs.Newf(obs.ErrMarketNotFound, "unknown market %q", c.Param("symbol")))
		return
	}

	id, err := parseOrderID(c.Param("side"), c.Param("price"), c.Param("seq"))
	if err != nil {
		respondError(c, obs.Wrap(err, obs.ErrInvalidOrder, "invalid order id"))
		return
	}

	_, ok := market.CancelOrder(id)
	if !ok {
		respondError(c, obs.New(obs.ErrOrderNotFound, "order not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

func toPlaceOrderResponse(res clob.PlaceOrderResult) PlaceOrderResponse {
	matches := make([]MatchResponse, len(res.Matches))
	for i, m := range res.Matches {
		matches[i] = MatchResponse{
			MakerOrderID:    formatOrderID(m.MakerOrderID),
			MakerUserID:     string(m.MakerUserID),
			FillQtyLots:     m.FillQtyLots,
			FillPriceLots:   m.FillPriceLots,
			NativeQuotePaid: m.NativeQuotePaid.String(),
		}
	}
	return PlaceOrderResponse{
		ReportID:        ksuid.New().String(),
		OrderID:         formatOrderID(res.ID),
		Outcome:         res.Outcome.String(),
		FillQtyLots:     res.FillQtyLots,
		OpenQtyLots:     res.OpenQtyLots,
		QuoteAmountLots: res.QuoteAmountLots,
		Matches:         matches,
		BestBid:         res.BestBid,
		BestAsk:         res.BestAsk,
	}
}
