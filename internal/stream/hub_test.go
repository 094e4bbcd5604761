package stream

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

func ptr(v uint64) *uint64 { return &v }

func TestHubBroadcastsToSubscribedSymbol(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(obs.NewStructuredLogger("test", obs.DefaultConfig()))

	router := gin.New()
	router.GET("/stream", hub.HandleWebSocket)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + srv.URL[len("http"):] + "/stream?symbol=AURO-USDC"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server goroutine time to register the subscriber.
	time.Sleep(20 * time.Millisecond)

	hub.OnPlaceOrder("OTHER-SYMBOL", clob.PlaceOrderResult{Outcome: clob.Posted})
	hub.OnPlaceOrder("AURO-USDC", clob.PlaceOrderResult{Outcome: clob.Filled, FillQtyLots: 5, BestBid: ptr(100)})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "AURO-USDC")
	assert.Contains(t, string(data), "filled")
}

func TestHandleWebSocketRejectsPlainHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(obs.NewStructuredLogger("test", obs.DefaultConfig()))

	router := gin.New()
	router.GET("/stream", hub.HandleWebSocket)

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusSwitchingProtocols, rec.Code)
}
