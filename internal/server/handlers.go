package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/sandbox-validator/internal/llm"
	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/pipeline"
	"github.com/ppiankov/sandbox-validator/internal/ticket"
	"github.com/ppiankov/sandbox-validator/internal/validate"
)

// DraftResponse pairs an evaluation with its drafted executive summary.
type DraftResponse struct {
	Result model.EvaluationResult `json:"resultado"`
	Draft  *llm.Draft             `json:"rascunho"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     ServiceName,
		"description": "API para validação de experimentos - 90 dias → 1 dia (p95)",
		"version":     s.version,
		"health":      "/health",
		"metrics":     "/metrics",
		"endpoints": gin.H{
			"scoring":        "/score-api/score",
			"drafts":         "/score-api/draft",
			"tickets":        "/ticket-api/tickets",
			"knowledge_base": "/kb/kb/search",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   ServiceName,
		"version":   s.version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleScore(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	result, err := s.engine.EvaluateRequest(c.Request.Context(), body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDraft(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	record, err := s.engine.DecodeRequest(body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	result, err := s.engine.Evaluate(ctx, record)
	if err != nil {
		s.respondError(c, err)
		return
	}
	draft, err := s.drafts.Draft(ctx, record.Subject(), result)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DraftResponse{Result: result, Draft: draft})
}

func (s *Server) handleCreateTicket(c *gin.Context) {
	var req model.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			s.respondTooLarge(c)
			return
		}
		s.respondError(c, validate.FromError(err))
		return
	}

	t, err := s.tickets.Create(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleGetTicket(c *gin.Context) {
	rec, err := s.tickets.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleKBSearch(c *gin.Context) {
	topK := s.kbTopK
	if raw, ok := c.GetQuery("top_k"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(c, validate.Errors{{Field: "top_k", Rule: validate.RuleType, Message: "must be an integer"}})
			return
		}
		topK = n
	}

	query, err := validate.KBQuery(c.Query("q"), topK)
	if err != nil {
		s.respondError(c, err)
		return
	}

	hits, _ := s.kb.Search(query.Query, query.TopK)
	if hits == nil {
		hits = []model.KBHit{}
	}
	c.JSON(http.StatusOK, model.KBSearchResponse{Hits: hits})
}

// readBody reads the request body, answering 413 when it exceeds the limit.
func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if isBodyTooLarge(err) {
			s.respondTooLarge(c)
			return nil, false
		}
		s.respondError(c, validate.Errors{{Field: "body", Rule: validate.RuleJSON, Message: "unreadable body"}})
		return nil, false
	}
	return body, true
}

// respondError maps an error to its status code. Internal details stay in the log.
func (s *Server) respondError(c *gin.Context, err error) {
	var errs validate.Errors
	switch {
	case errors.As(err, &errs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": errs,
		})
	case errors.Is(err, ticket.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":      "request canceled",
			"request_id": GetRequestID(c),
		})
	default:
		s.logger.ErrorContext(c.Request.Context(), "request failed",
			"error", err,
			"internal", pipeline.IsInternal(err),
			"path", c.Request.URL.Path,
			"request_id", GetRequestID(c))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      pipeline.SafeMessage,
			"request_id": GetRequestID(c),
		})
	}
}

func (s *Server) respondTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": "request body too large",
		"limit": s.cfg.MaxBodyBytes,
	})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
