package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/tradsys-clob/internal/config"
	"github.com/abdoElHodaky/tradsys-clob/internal/engine"
	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/internal/ratelimit"
)

func testServer() *Server {
	cfg := config.DefaultConfig()
	cfg.Markets = []config.MarketConfig{
		{Symbol: "A-USDC", BaseLotSize: 1, QuoteLotSize: 1, BaseDenomination: 1},
	}
	manager := engine.NewManager(cfg)
	limiter := ratelimit.New(cfg.RateLimit)
	logger := obs.NewStructuredLogger("test", obs.DefaultConfig())
	return NewServer(cfg.Server, manager, limiter, nil, nil, nil, logger)
}

func decodeErrorBody(t *testing.T, body *bytes.Buffer) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(body.Bytes(), &out))
	return out
}

func TestPlaceOrderUnknownMarketReturnsClobError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := testServer()

	body := `{"symbol":"NOPE","account_id":"u1","sequence_number":1,"side":"buy","order_type":"limit","max_qty_lots":1,"limit_price_lots":10,"available_quote_lots":10}`
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	out := decodeErrorBody(t, rec.Body)
	assert.Equal(t, string(obs.ErrMarketNotFound), out["code"])
}

func TestPlaceOrderInvalidSideReturnsClobError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := testServer()

	body := `{"symbol":"A-USDC","account_id":"u1","sequence_number":1,"side":"sideways","order_type":"limit","max_qty_lots":1,"limit_price_lots":10}`
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	out := decodeErrorBody(t, rec.Body)
	assert.Equal(t, string(obs.ErrInvalidOrder), out["code"])
}

func TestPlaceOrderValidationFailureReturnsClobError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := testServer()

	// Buy side omitting available_quote_lots fails clob.NewOrder.Validate.
	body := `{"symbol":"A-USDC","account_id":"u1","sequence_number":1,"side":"buy","order_type":"limit","max_qty_lots":1,"limit_price_lots":10}`
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	out := decodeErrorBody(t, rec.Body)
	assert.Equal(t, string(obs.ErrInvalidOrder), out["code"])
}

func TestCancelOrderNotFoundReturnsClobError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := testServer()

	req := httptest.NewRequest(http.MethodDelete, "/v1/orders/A-USDC/buy/10/1", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	out := decodeErrorBody(t, rec.Body)
	assert.Equal(t, string(obs.ErrOrderNotFound), out["code"])
}

func TestPlaceOrderSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := testServer()

	body := `{"symbol":"A-USDC","account_id":"u1","sequence_number":1,"side":"sell","order_type":"limit","max_qty_lots":5,"limit_price_lots":10}`
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var out PlaceOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "posted", out.Outcome)
}
