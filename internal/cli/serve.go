package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/sandbox-validator/internal/kb"
	"github.com/ppiankov/sandbox-validator/internal/llm"
	"github.com/ppiankov/sandbox-validator/internal/pipeline"
	"github.com/ppiankov/sandbox-validator/internal/server"
	"github.com/ppiankov/sandbox-validator/internal/ticket"
)

var (
	serveAddr       string
	shutdownTimeout time.Duration
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the scoring, ticket and knowledge-base endpoints over HTTP.

Endpoints:
  POST /score-api/score         evaluate {"experimento": {...}}
  POST /score-api/draft         evaluate and draft an executive summary
  POST /ticket-api/tickets      mint a ticket
  GET  /ticket-api/tickets/:id  look up a minted ticket
  GET  /kb/kb/search?q=&top_k=  knowledge-base search
  GET  /health, /metrics

Example:
  sandbox-validator serve --addr :8080
  SANDBOX_SERVER_RATE_LIMIT_RPS=5 sandbox-validator serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "grace period for in-flight requests")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if !cfg.Output.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	index, err := kb.NewIndexFromConfig(cfg.KB)
	if err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}
	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("configure LLM: %w", err)
	}

	tickets := ticket.NewService(cfg.Ticket, ticket.WithLogger(logger))
	srv, err := server.New(server.Options{
		Config:     cfg.Server,
		KBTopK:     cfg.KB.DefaultTopK,
		Engine:     pipeline.NewEngineFromConfig(cfg, logger),
		Tickets:    tickets,
		KB:         index,
		Summarizer: summarizer,
		Logger:     logger,
		Version:    Version,
	})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	httpServer := srv.HTTPServer(addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			"addr", addr,
			"version", Version,
			"drafts", draftSource(summarizer),
			"kb_snippets", index.Len(),
			"tickets", tickets.BaseURL())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", shutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// draftSource names who writes executive summaries: the LLM provider or the template.
func draftSource(s *llm.Summarizer) string {
	if !s.IsEnabled() {
		return llm.SourceTemplate
	}
	return s.ProviderName()
}
