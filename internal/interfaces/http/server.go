// Package http is a thin adapter translating HTTP requests into trip store
// and assistant calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viajafacil/viajafacil/internal/assistant"
	"github.com/viajafacil/viajafacil/internal/backup"
	"github.com/viajafacil/viajafacil/internal/report"
	"github.com/viajafacil/viajafacil/internal/store"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	store      *store.Store
	backup     *backup.Service
	assistant  *assistant.Client
	reports    *report.Writer
	logger     *zap.Logger
}

// NewServer creates a new HTTP server over the trip store. The assistant
// client may be nil when no API key is configured; its endpoints then report
// the feature as unavailable.
func NewServer(
	config ServerConfig,
	tripStore *store.Store,
	backupSvc *backup.Service,
	assistantClient *assistant.Client,
	reportWriter *report.Writer,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:    config,
		router:    gin.New(),
		store:     tripStore,
		backup:    backupSvc,
		assistant: assistantClient,
		reports:   reportWriter,
		logger:    logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.store, s.backup, s.assistant, s.reports, s.logger)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		api.GET("/trips", h.ListTrips)
		api.POST("/trips", h.CreateTrip)
		api.GET("/trips/active", h.ActiveTrip)
		api.POST("/trips/selection/clear", h.ClearSelection)
		api.GET("/trips/:id", h.GetTrip)
		api.PATCH("/trips/:id", h.UpdateTrip)
		api.DELETE("/trips/:id", h.DeleteTrip)
		api.POST("/trips/:id/select", h.SelectTrip)

		api.GET("/trips/:id/days", h.TripDays)
		api.GET("/trips/:id/expenses/summary", h.ExpenseSummary)
		api.GET("/trips/:id/report", h.ExpenseReport)
		api.POST("/trips/:id/suggestions", h.SuggestItinerary)

		api.POST("/trips/:id/destinations", h.AddDestination)
		api.DELETE("/trips/:id/destinations/:itemID", h.RemoveDestination)

		api.POST("/trips/:id/flights", h.AddFlight)
		api.PUT("/trips/:id/flights/:itemID", h.UpdateFlight)
		api.DELETE("/trips/:id/flights/:itemID", h.RemoveFlight)
		api.POST("/trips/:id/flights/:itemID/attachments", h.AttachToFlight)
		api.DELETE("/trips/:id/flights/:itemID/attachments/:attID", h.DetachFromFlight)

		api.POST("/trips/:id/accommodations", h.AddAccommodation)
		api.PUT("/trips/:id/accommodations/:itemID", h.UpdateAccommodation)
		api.DELETE("/trips/:id/accommodations/:itemID", h.RemoveAccommodation)
		api.POST("/trips/:id/accommodations/:itemID/attachments", h.AttachToAccommodation)
		api.DELETE("/trips/:id/accommodations/:itemID/attachments/:attID", h.DetachFromAccommodation)

		api.POST("/trips/:id/transfers", h.AddTransfer)
		api.PUT("/trips/:id/transfers/:itemID", h.UpdateTransfer)
		api.DELETE("/trips/:id/transfers/:itemID", h.RemoveTransfer)

		api.POST("/trips/:id/activities", h.AddActivity)
		api.PUT("/trips/:id/activities/:itemID", h.UpdateActivity)
		api.DELETE("/trips/:id/activities/:itemID", h.RemoveActivity)

		api.POST("/trips/:id/expenses", h.AddExpense)
		api.PUT("/trips/:id/expenses/:itemID", h.UpdateExpense)
		api.DELETE("/trips/:id/expenses/:itemID", h.RemoveExpense)

		api.GET("/backup/export", h.ExportBackup)
		api.POST("/backup/import", h.ImportBackup)

		api.POST("/expenses/analyze", h.AnalyzeReceipt)
	}
}

// Start starts the HTTP server and blocks until ctx is done or the server
// fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
