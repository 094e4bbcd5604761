package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

// respondError writes a ClobError as the handler's JSON response, picking
// the HTTP status from its code rather than trusting callers to keep the
// two in sync.
func respondError(c *gin.Context, cerr *obs.ClobError) {
	c.JSON(statusForCode(cerr.Code), gin.H{"error": cerr.Message, "code": string(cerr.Code)})
}

func statusForCode(code obs.ErrorCode) int {
	switch code {
	case obs.ErrInvalidOrder:
		return http.StatusBadRequest
	case obs.ErrOrderNotFound, obs.ErrMarketNotFound:
		return http.StatusNotFound
	case obs.ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
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

// formatOrderID renders an OrderID as "<side>-<price>-<sequence>" for use
// in JSON responses, since it has no native string form. The cancel route
// takes the same three parts as separate path segments (see parseOrderID).
func formatOrderID(id clob.OrderID) string {
	side, price, seq := id.Parts()
	return fmt.Sprintf("%s-%d-%d", side, price, seq)
}

func parseOrderID(side, price, seq string) (clob.OrderID, error) {
	s, err := parseSide(side)
	if err != nil {
		return clob.OrderID{}, err
	}
	p, err := strconv.ParseUint(price, 10, 64)
	if err != nil {
		return clob.OrderID{}, fmt.Errorf("invalid price: %w", err)
	}
	sq, err := strconv.ParseUint(seq, 10, 64)
	if err != nil {
		return clob.OrderID{}, fmt.Errorf("invalid sequence: %w", err)
	}
	return clob.NewOrderID(s, p, sq), nil
}
