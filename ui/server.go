package ui

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"inflationdash/app"
	"inflationdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Server binds the dashboard service to HTTP
type Server struct {
	router    *gin.Engine
	svc       *app.DashboardService
	events    *EventHub
	templates *template.Template
	help      []byte
}

// NewServer creates the gin engine and registers every route.
// mode is a gin mode ("debug", "release", "test"); empty keeps the current one.
func NewServer(svc *app.DashboardService, mode string) (*Server, error) {
	if mode != "" {
		gin.SetMode(mode)
	}

	s := &Server{
		router: gin.New(),
		svc:    svc,
		events: NewEventHub(),
	}

	var err error
	if s.templates, err = parseTemplates(); err != nil {
		return nil, err
	}
	if s.help, err = renderHelp(svc.Descriptors()); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	if gin.Mode() != gin.TestMode {
		s.router.Use(gin.Logger())
	}
	s.router.Use(gin.Recovery())
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.NoRoute(middleware.NoRoute)

	api := s.router.Group("/api")
	api.GET("/entities", s.handleEntities)
	api.GET("/charts", s.handleDescriptors)
	api.GET("/help", s.handleHelp)
	api.POST("/sessions", s.handleCreateSession)

	sessions := api.Group("/sessions/:id", middleware.RequireSession(s.svc.SessionExists))
	sessions.GET("", s.handleSession)
	sessions.DELETE("", s.handleCloseSession)
	sessions.PUT("/selection", s.handleSelect)
	sessions.GET("/note", s.handleNote)
	sessions.GET("/charts", s.handleCharts)
	sessions.GET("/charts/:chart", s.handleChart)
	sessions.GET("/tables/:chart", s.handleTable)
	sessions.GET("/stats", s.handleStats)
	sessions.GET("/export.xlsx", s.handleExport)
	sessions.GET("/events", s.events.HandleEvents)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Events returns the selection event hub
func (s *Server) Events() *EventHub {
	return s.events
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🌐 Dashboard listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("[Server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
