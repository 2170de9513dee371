// Package server serves registration workflows over HTTP with gin.
//
// Every request builds a fresh workflow from freshly read store records, so
// memoized step results never outlive the request. The [Server.workflow]
// middleware enforces the routing policy from the router package before any
// step handler runs.
//
// Routes, all under /events/:event_slug/orders/:order_code:
//
//	GET  /workflow  ajax-only JSON plan of every step
//	GET  /:step     serve a step, or redirect to the step the user may visit
//	POST /:step     submit a step and redirect to the step that follows
//
// How a submission changes an order is pluggable through [Server.SetSubmitFunc].
// The brambling binary installs [BindJSONSubmission]; without a submit func a
// POST only re-evaluates the workflow.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"brambling/internal/checkout"
	"brambling/internal/manifest"
	"brambling/internal/store"
)

// Gin context keys set by the workflow middleware.
const (
	keyWorkflow = "workflow"
	keyStep     = "step"
	keyOrder    = "order"
)

// SubmitFunc applies a step submission to the order. It may modify order in
// place; the server saves it when SubmitFunc returns nil.
type SubmitFunc func(c *gin.Context, step *checkout.Step, order *store.Order) error

// Server is the HTTP front end for registration workflows.
//
// Create with [New]; optional collaborators are configured with the Set
// methods before calling [Server.Handler] or [Server.Run].
type Server struct {
	reader   *store.Reader
	writer   *store.Writer
	manifest *manifest.Manifest
	submit   SubmitFunc
	now      func() time.Time
	log      zerolog.Logger
}

// New creates a [Server] reading records with reader and persisting
// submissions with writer.
func New(reader *store.Reader, writer *store.Writer, log zerolog.Logger) *Server {
	return &Server{
		reader: reader,
		writer: writer,
		now:    time.Now,
		log:    log,
	}
}

// SetManifest configures the step manifest used to build workflows.
func (s *Server) SetManifest(m *manifest.Manifest) {
	s.manifest = m
}

// SetSubmitFunc configures how submissions change orders. Without one, a
// submission only re-evaluates the workflow.
func (s *Server) SetSubmitFunc(fn SubmitFunc) {
	s.submit = fn
}

// SetClock overrides the time source used for cart expiry.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

// Handler returns the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	orders := engine.Group("/events/:event_slug/orders/:order_code")
	orders.GET("/workflow", AjaxRequired(), s.showPlan)
	orders.GET("/:step", s.workflow(), s.showStep)
	orders.POST("/:step", s.workflow(), s.submitStep)

	return engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Starting brambling server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info().Msg("Shutting down brambling server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// AjaxRequired rejects requests that were not made with XMLHttpRequest by
// answering 404, hiding the endpoint from plain browser navigation.
func AjaxRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Requested-With") != "XMLHttpRequest" {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}
