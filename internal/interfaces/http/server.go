// Package http is the HTTP adapter: it translates requests into calls
// on the stores and services and maps domain errors to status codes.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hexa-center/book-a-room/internal/config"
)

// Server is the HTTP server adapter
type Server struct {
	config     config.ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     *zap.Logger
}

// NewServer creates a new HTTP server around the given handlers.
func NewServer(cfg config.ServerConfig, handlers *Handlers, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	server := &Server{
		config:   cfg,
		router:   router,
		handlers: handlers,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
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
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	{
		api.GET("/rooms", s.handlers.ListRooms)
		api.POST("/rooms", s.handlers.CreateRoom)
		api.GET("/rooms/:id", s.handlers.GetRoom)
		api.PUT("/rooms/:id", s.handlers.UpdateRoom)
		api.DELETE("/rooms/:id", s.handlers.DeleteRoom)

		api.GET("/customers", s.handlers.ListCustomers)
		api.POST("/customers", s.handlers.CreateCustomer)
		api.GET("/customers/:id", s.handlers.GetCustomer)
		api.PUT("/customers/:id", s.handlers.UpdateCustomer)
		api.DELETE("/customers/:id", s.handlers.DeleteCustomer)

		api.GET("/bookings", s.handlers.ListBookings)
		api.POST("/bookings", s.handlers.CreateBooking)
		api.GET("/bookings/:id", s.handlers.GetBooking)
		api.PUT("/bookings/:id", s.handlers.UpdateBooking)
		api.DELETE("/bookings/:id", s.handlers.DeleteBooking)
		api.GET("/bookings/:id/invoices", s.handlers.ListBookingInvoices)
		api.POST("/bookings/:id/invoices", s.handlers.CreateInvoice)

		api.GET("/settings", s.handlers.GetSettings)
		api.PUT("/settings", s.handlers.UpdateSettings)

		api.GET("/invoices", s.handlers.ListInvoices)
		api.GET("/invoices/export", s.handlers.ExportInvoices)
		api.GET("/invoices/:id", s.handlers.GetInvoice)
		api.DELETE("/invoices/:id", s.handlers.DeleteInvoice)
		api.POST("/invoices/:id/credit", s.handlers.CreateCreditNote)
		api.POST("/invoices/:id/mail", s.handlers.MailInvoice)

		tw := api.Group("/twinfield")
		{
			tw.GET("/session", s.handlers.TwinfieldSessionStatus)
			tw.POST("/session", s.handlers.TwinfieldConnect)
			tw.DELETE("/session", s.handlers.TwinfieldDisconnect)
			tw.GET("/customers", s.handlers.TwinfieldListCustomers)
			tw.POST("/customers/:id", s.handlers.TwinfieldCreateCustomer)
			tw.PUT("/customers/:id", s.handlers.TwinfieldUpdateCustomer)
			tw.DELETE("/customers/:id", s.handlers.TwinfieldDeleteCustomer)
			tw.POST("/transactions", s.handlers.TwinfieldCreateTransaction)
		}
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled.
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

	s.logger.Info("Stopping HTTP server")

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
