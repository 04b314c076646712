// Package api serves the read-only query surface over the indexed state.
// @title Hub Indexer API
// @version 1.0
// @description REST API for querying commerce protocol state derived from chain events
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /api/v1
// @schemes http https
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/onchain-commerce/hubindexer/internal/config"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/store"
	"github.com/onchain-commerce/hubindexer/internal/watch"
	"github.com/onchain-commerce/hubindexer/pkg/api/docs"
)

// Ensure docs are initialized
var _ = docs.SwaggerInfo

const shutdownCtxTimeout = 10 * time.Second

// Server represents the query API HTTP server.
type Server struct {
	config  *config.APIConfig
	handler *Handler
	server  *http.Server
	log     *logger.Logger
}

// NewServer creates a new API server.
func NewServer(cfg *config.APIConfig, st *store.Store, registry *watch.Registry, position Position, log *logger.Logger) *Server {
	handler := NewHandler(st, registry, position, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /api/v1/protocol", handler.GetProtocol)
	mux.HandleFunc("GET /api/v1/shops", handler.ListShops)
	mux.HandleFunc("GET /api/v1/shops/{address}", handler.GetShop)
	mux.HandleFunc("GET /api/v1/customers/{address}", handler.GetCustomer)
	mux.HandleFunc("GET /api/v1/products/search", handler.SearchProducts)
	mux.HandleFunc("GET /api/v1/agents/{id}", handler.GetAgent)
	mux.HandleFunc("GET /api/v1/agents/{id}/reputation", handler.GetAgentReputation)
	mux.HandleFunc("GET /api/v1/validations/{hash}", handler.GetValidation)

	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
	))

	var h http.Handler = mux
	h = RecoveryMiddleware(log)(h)
	h = LoggingMiddleware(log)(h)
	h = RequestIDMiddleware()(h)

	if cfg.CORS.Enabled {
		h = CORSMiddleware(cfg.CORS.AllowedOrigins)(h)
	}

	httpServer := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		IdleTimeout:  cfg.IdleTimeout.Duration,
	}

	return &Server{
		config:  cfg,
		handler: handler,
		server:  httpServer,
		log:     log,
	}
}

// Start serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("API server is disabled")
		return nil
	}

	s.log.Infof("Starting API server on %s", s.config.ListenAddress)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("API server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownCtxTimeout)
	defer cancel()

	s.log.Info("Shutting down API server...")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown error: %w", err)
	}

	s.log.Info("API server stopped")
	return nil
}
