// Package ticket mints tracking tickets for evaluated experiments. It stands
// in for the external ticketing system: tickets live in an in-memory registry
// for a bounded time and are not persisted.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/observability"
	"github.com/ppiankov/sandbox-validator/internal/validate"
)

// IDPrefix starts every ticket id.
const IDPrefix = "SBX"

// maxAttempts bounds id regeneration after a registry collision.
const maxAttempts = 8

var (
	ErrNotFound    = errors.New("ticket not found")
	ErrIDExhausted = errors.New("could not allocate a unique ticket id")
)

// Service mints and looks up tickets.
type Service struct {
	baseURL  string
	registry *gocache.Cache
	now      func() time.Time
	nonce    func() string
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for ticket ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithNonce sets the per-call nonce mixed into ticket ids.
func WithNonce(nonce func() string) Option {
	return func(s *Service) {
		s.nonce = nonce
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a ticket service. An empty base URL falls back to
// model.DefaultTicketBaseURL; a non-positive TTL keeps tickets for a day.
func NewService(cfg model.TicketConfig, opts ...Option) *Service {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = model.DefaultTicketBaseURL
	}
	ttl := cfg.RegistryTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	s := &Service{
		baseURL:  baseURL,
		registry: gocache.New(ttl, ttl/2),
		now:      time.Now,
		nonce:    uuid.NewString,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the base of status links.
func (s *Service) BaseURL() string {
	return s.baseURL
}

// Create validates the request and mints a ticket for it.
func (s *Service) Create(ctx context.Context, req model.TicketRequest) (model.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return model.Ticket{}, err
	}
	if err := validate.TicketRequest(req); err != nil {
		return model.Ticket{}, err
	}

	now := s.now()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := MintID(now, *req.ExecutiveSummary, *req.Score, s.nonce())
		rec := model.TicketRecord{
			Ticket: model.Ticket{
				ID:        id,
				StatusURL: s.StatusURL(id),
			},
			Classification:   req.Classification,
			ExecutiveSummary: *req.ExecutiveSummary,
			Score:            *req.Score,
			Phase:            req.Phase,
			MaturityLevel:    req.MaturityLevel,
			CreatedAt:        now,
		}
		if err := s.registry.Add(id, rec, gocache.DefaultExpiration); err != nil {
			s.logger.Debug("ticket id collision", "id", id, "attempt", attempt+1)
			continue
		}

		observability.RecordTicket(string(req.Classification))
		s.logger.Info("ticket created",
			"id", id,
			"classification", req.Classification,
			"score", rec.Score,
			"phase", rec.Phase)
		return rec.Ticket, nil
	}
	return model.Ticket{}, fmt.Errorf("%w after %d attempts", ErrIDExhausted, maxAttempts)
}

// Get returns a ticket minted within the registry TTL.
func (s *Service) Get(id string) (model.TicketRecord, error) {
	v, ok := s.registry.Get(id)
	if !ok {
		return model.TicketRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v.(model.TicketRecord), nil
}

// StatusURL returns the status link for a ticket id.
func (s *Service) StatusURL(id string) string {
	return s.baseURL + "/ticket/" + id
}

// MintID builds SBX-<yyyyMMddHHmm>-<NNNN>, where NNNN is an FNV-1a hash of the
// summary, score and nonce reduced modulo 10000.
func MintID(t time.Time, summary string, score int, nonce string) string {
	h := fnv.New32a()
	h.Write([]byte(summary))
	h.Write([]byte(strconv.Itoa(score)))
	h.Write([]byte(nonce))
	return fmt.Sprintf("%s-%s-%04d", IDPrefix, t.Format("200601021504"), h.Sum32()%10000)
}
