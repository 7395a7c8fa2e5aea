package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"sales-observer/src/interfaces"
	"sales-observer/src/logger"
	"sales-observer/src/metrics"
	"sales-observer/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config  *models.MConfig
	Service interfaces.IAnalyticsService
	Metrics *metrics.Metrics
	Logger  *logger.Logger
	engine  *gin.Engine
	http    *http.Server

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MReport // Buffered queue of fresh reports
	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	done       chan struct{}
	stopOnce   sync.Once

	stateMutex  sync.RWMutex
	connections int
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, svc interfaces.IAnalyticsService, m *metrics.Metrics, log *logger.Logger) *APIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:     cfg,
		Service:    svc,
		Metrics:    m,
		Logger:     log,
		engine:     gin.New(),
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan *models.MReport, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		done:       make(chan struct{}),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/config", s.getConfig)
	api.GET("/status", s.getStatus)
	api.GET("/metrics", s.getMetrics)
	api.GET("/report", s.getReport)
	api.GET("/insights", s.getInsights)
	api.POST("/reload", s.postReload)

	views := api.Group("/views")
	views.GET("/sample", s.getSample)
	views.GET("/monthly", s.getMonthly)
	views.GET("/categories", s.getCategories)
	views.GET("/products", s.getProducts)
	views.GET("/price-quantity", s.getPriceQuantity)
	views.GET("/forecast", s.getForecast)

	api.GET("/export.csv", s.getExportCSV)
	api.GET("/export.xlsx", s.getExportXLSX)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)

	if s.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}
}

// Handler exposes the router, mainly for httptest.
func (s *APIServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start runs the hub and serves HTTP until Shutdown. It returns nil after a
// clean shutdown.
func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.http = &http.Server{Addr: addr, Handler: s.engine}
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RunHub starts only the websocket hub, for servers mounted elsewhere.
func (s *APIServer) RunHub() {
	go s.handleWebsockets()
}

// -----------------------------------------------------------------------------

// Shutdown stops accepting requests and disconnects websocket clients.
func (s *APIServer) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.stopOnce.Do(func() { close(s.done) })
	return err
}

// -----------------------------------------------------------------------------

func (s *APIServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.Logger.Debug("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}
