// Package server exposes the AirGrid HTTP API: JSON CRUD over the
// resource registries, events and blocks, a timeline projection
// endpoint, and an SSE stream of store changes.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mfalcone/airgrid/internal/config"
	"github.com/mfalcone/airgrid/internal/realtime"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB       *gorm.DB
	Registry *realtime.Registry
	Config   *config.Config
	Port     int
	Out      io.Writer
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Config == nil {
		return fmt.Errorf("server: config is required")
	}
	if opts.Port <= 0 {
		opts.Port = opts.Config.Server.Port
	}

	router, err := NewRouter(opts.DB, opts.Registry, opts.Config)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "AirGrid API listening on http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// handlers carries the shared dependencies for all route handlers.
type handlers struct {
	db  *gorm.DB
	reg *realtime.Registry
	cfg *config.Config
	loc *time.Location
}

// NewRouter builds the gin router with all API routes registered.
func NewRouter(db *gorm.DB, reg *realtime.Registry, cfg *config.Config) (*gin.Engine, error) {
	loc, err := cfg.PrimaryLocation()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	h := &handlers{db: db, reg: reg, cfg: cfg, loc: loc}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, h)
	return router, nil
}

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, h *handlers) {
	router.GET("/resources/:type", h.listResources)
	router.POST("/resources/:type", h.createResource)
	router.GET("/resources/:type/:id", h.getResource)
	router.PUT("/resources/:type/:id", h.updateResource)
	router.DELETE("/resources/:type/:id", h.deleteResource)

	router.GET("/events", h.listEvents)
	router.POST("/events", h.createEvent)
	router.GET("/events/:id", h.getEvent)
	router.PUT("/events/:id", h.updateEvent)
	router.DELETE("/events/:id", h.deleteEvent)

	router.GET("/blocks", h.listBlocks)
	router.POST("/blocks", h.createBlock)
	router.GET("/blocks/:id", h.getBlock)
	router.PUT("/blocks/:id", h.updateBlock)
	router.DELETE("/blocks/:id", h.deleteBlock)

	router.GET("/timeline", h.getTimeline)
	router.GET("/api/stream", h.streamChanges)
}

// publish notifies subscribers of a committed write; a nil registry is a
// no-op so one-shot CLI commands can reuse the handlers.
func (h *handlers) publish(table string, action realtime.Action, id string) {
	if h.reg != nil {
		h.reg.Publish(realtime.Change{Table: table, Action: action, ID: id})
	}
}

// storeError maps a gorm error onto the right status code and JSON body.
func storeError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
