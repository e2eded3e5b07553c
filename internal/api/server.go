// Package api implements the sankeyflow HTTP rendering service.
//
// The service exposes the same pipeline as the CLI over HTTP:
//
//	GET  /healthz                 liveness and build version
//	POST /v1/render?format=svg    render a table, respond with the artifact
//	POST /v1/layout               compute a layout, respond with layout JSON
//
// Request bodies carry the table in its JSON form plus pipeline options:
//
//	{
//	  "titles": ["2023", "2024"],
//	  "rows": [["apple", 3, "pear", 3], ["kiwi", 1, null, null]],
//	  "options": {"sort": "top", "colormap": "plasma"}
//	}
//
// Every response carries an X-Render-ID header. Errors are JSON objects
// {"code", "message"}: layout data errors map to 422, other input errors to
// 400 and everything else to 500.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// Defaults for [Server] limits.
const (
	DefaultMaxBodyBytes = 8 << 20
	DefaultTimeout      = 30 * time.Second
)

// HeaderRenderID is the response header carrying the per-request ID.
const HeaderRenderID = "X-Render-ID"

// Server serves the rendering API on top of a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	timeout time.Duration
	router  chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithMaxBodyBytes limits the size of request bodies.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithTimeout bounds the time spent on a single request.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New creates a server that runs requests through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		maxBody: DefaultMaxBodyBytes,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(renderID)
	r.Use(observe)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/layout", s.handleLayout)
	})
	return r
}
