package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"budgetboard/internal/config"
	"budgetboard/internal/logger"
	"budgetboard/internal/page"
	"budgetboard/internal/reports"
	"budgetboard/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config   *config.Config
	Page     *page.Page
	Builder  *reports.HTMLBuilder
	Exporter *reports.StorageOrchestrator
	Storage  storage.StorageClient
	Version  string

	log *logger.Logger
	// ctx outlives individual requests; fetches started by /refresh run under it
	ctx        context.Context
	httpServer *http.Server
}

// NewServer creates a new server instance. Exporter and client may be nil, which disables exports.
func NewServer(ctx context.Context, cfg *config.Config, pg *page.Page, client storage.StorageClient, version string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	builder := reports.NewHTMLBuilder()

	s := &Server{
		Config:  cfg,
		Page:    pg,
		Builder: builder,
		Storage: client,
		Version: version,
		log:     log.WithComponent("server"),
		ctx:     ctx,
	}
	if client != nil {
		s.Exporter = reports.NewStorageOrchestrator(client, builder, version, log)
	}
	return s
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *gin.Engine {
	if s.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(configureCORS(s.Config.CORSAllowedOrigins))
	router.Use(CorrelationIDMiddleware())
	router.Use(RequestLoggingMiddleware(s.log))

	router.GET("/", s.HandleRoot)
	router.GET("/health", s.HandleHealth)
	router.GET("/charts/pie", s.HandlePieChart)
	router.GET("/charts/bar.svg", s.HandleBarChart)
	router.POST("/refresh", s.HandleRefresh)
	router.POST("/export", s.HandleExport)
	router.GET("/exports/*filepath", s.HandleFileProxy)

	return router
}

// Start listens on the configured port until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", map[string]interface{}{"port": s.Config.Port, "version": s.Version})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
