// Package api exposes the matching engine over HTTP: order submission,
// cancellation, and read-only book inspection.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abdoElHodaky/tradsys-clob/internal/config"
	"github.com/abdoElHodaky/tradsys-clob/internal/engine"
	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/internal/ratelimit"
	"github.com/abdoElHodaky/tradsys-clob/internal/stream"
)

// Server is the HTTP surface over an engine.Manager.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger obs.Logger
}

// NewServer wires routes and middleware. limiter may be nil, in which case
// no rate limiting is applied. hub may be nil, in which case no /v1/stream
// route is registered, but it is still appended to observers if non-nil so
// every accepted order is broadcast. metricsHandler may be nil, in which
// case no /metrics route is registered.
func NewServer(cfg config.ServerConfig, manager *engine.Manager, limiter *ratelimit.Limiter, hub *stream.Hub, observers []engine.Observer, metricsHandler gin.HandlerFunc, logger obs.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestTagger())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if hub != nil {
		observers = append(observers, hub)
	}
	h := &orderHandler{manager: manager, limiter: limiter, observers: observers, logger: logger}
	b := &bookHandler{manager: manager}

	v1 := router.Group("/v1")
	h.RegisterRoutes(v1)
	b.RegisterRoutes(v1)
	if hub != nil {
		v1.GET("/stream", func(c *gin.Context) { hub.HandleWebSocket(c) })
	}
	if metricsHandler != nil {
		router.GET("/metrics", metricsHandler)
	}

	return &Server{
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:    cfg.Host + ":" + strconv.Itoa(cfg.Port),
			Handler: router,
		},
	}
}

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting api server", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying gin engine, used by tests to drive requests
// without a listener.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func requestTagger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		ctx := obs.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(logger obs.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		logger.WithContext(c.Request.Context()).Info("api request",
			"path", path,
			"method", c.Request.Method,
			"status", c.Writer.Status(),
			"latency_us", time.Since(start).Microseconds(),
		)
	}
}
