// Package server is the HTTP transport for the validator: scoring, tickets,
// knowledge-base search, health and metrics.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ppiankov/sandbox-validator/internal/kb"
	"github.com/ppiankov/sandbox-validator/internal/llm"
	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/observability"
	"github.com/ppiankov/sandbox-validator/internal/pipeline"
	"github.com/ppiankov/sandbox-validator/internal/ticket"
	"github.com/ppiankov/sandbox-validator/internal/validate"
	"github.com/ppiankov/sandbox-validator/internal/worker"
)

// ServiceName is reported by the health and root endpoints.
const ServiceName = "Agente Validador do Sandbox CAIXA"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate.RegisterFieldNames(v)
	}
}

// Options wires the server to its collaborators.
type Options struct {
	Config     model.ServerConfig
	KBTopK     int // Default top_k for knowledge-base searches
	Engine     *pipeline.Engine
	Tickets    *ticket.Service
	KB         *kb.Index
	Summarizer *llm.Summarizer // Optional; template drafts when nil
	Logger     *slog.Logger
	Version    string
}

// Server holds the router and its collaborators.
type Server struct {
	cfg     model.ServerConfig
	kbTopK  int
	engine  *pipeline.Engine
	tickets *ticket.Service
	kb      *kb.Index
	drafts  *llm.Summarizer
	logger  *slog.Logger
	version string
	router  *gin.Engine
}

// New builds the server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Engine == nil || opts.Tickets == nil || opts.KB == nil {
		return nil, fmt.Errorf("server requires an engine, a ticket service and a knowledge base")
	}

	s := &Server{
		cfg:     opts.Config,
		kbTopK:  opts.KBTopK,
		engine:  opts.Engine,
		tickets: opts.Tickets,
		kb:      opts.KB,
		drafts:  opts.Summarizer,
		logger:  opts.Logger,
		version: opts.Version,
	}
	if s.kbTopK <= 0 {
		s.kbTopK = model.KBDefaultTopK
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.drafts == nil {
		s.drafts, _ = llm.NewSummarizer(llm.Config{})
	}

	router := gin.New()
	if err := router.SetTrustedProxies(opts.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(RequestID(), AccessLog(s.logger), Recovery(s.logger))

	s.router = router
	s.registerRoutes()
	return s, nil
}

// registerRoutes keeps the original service paths so existing clients work
// unchanged.
//
//	POST /score-api/score         - evaluate {"experimento": {...}}
//	POST /score-api/draft         - evaluate and draft an executive summary
//	POST /ticket-api/tickets      - mint a ticket
//	GET  /ticket-api/tickets/:id  - look up a minted ticket
//	GET  /kb/kb/search            - knowledge-base search (?q=&top_k=)
//	GET  /health, GET /, GET /metrics
func (s *Server) registerRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(observability.Handler()))

	api := s.router.Group("/")
	if s.cfg.RateLimitRPS > 0 {
		limiter := worker.NewLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)
		for _, ip := range s.cfg.RateLimitAllow {
			limiter.Exempt(ip)
		}
		api.Use(RateLimit(limiter))
	}
	api.Use(BodyLimit(s.cfg.MaxBodyBytes))
	{
		api.POST("/score-api/score", s.handleScore)
		api.POST("/score-api/draft", s.handleDraft)

		api.POST("/ticket-api/tickets", s.handleCreateTicket)
		api.GET("/ticket-api/tickets/:id", s.handleGetTicket)

		api.GET("/kb/kb/search", s.handleKBSearch)
	}
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns an http.Server for addr with the configured timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	if addr == "" {
		addr = s.cfg.Addr
	}
	return &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
}
