package ticket

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/validate"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRequest() model.TicketRequest {
	score := 82
	summary := "Lembretes personalizados elevam a adesão"
	return model.TicketRequest{
		Classification:   model.ClassificationExperiment,
		ExecutiveSummary: &summary,
		Score:            &score,
		Phase:            3,
		MaturityLevel:    6,
		GoalTags:         []model.GoalTag{{ID: 9, Title: "Indústria, inovação e infraestrutura"}},
		Opinion:          "Experimento maduro",
		NextSteps:        []string{"Preparar plano de implantação em produção."},
		Experiment:       map[string]any{"problema": "Baixa adesão"},
	}
}

func newTestService(opts ...Option) *Service {
	base := []Option{WithClock(func() time.Time { return fixedTime }), WithLogger(quietLogger())}
	return NewService(model.TicketConfig{BaseURL: "https://tickets.example.test/"}, append(base, opts...)...)
}

func TestService_Create(t *testing.T) {
	svc := newTestService()

	ticket, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	pattern := regexp.MustCompile(`^SBX-202503140926-\d{4}$`)
	if !pattern.MatchString(ticket.ID) {
		t.Errorf("Unexpected ticket id %q", ticket.ID)
	}
	if ticket.StatusURL != "https://tickets.example.test/ticket/"+ticket.ID {
		t.Errorf("Unexpected status URL %q", ticket.StatusURL)
	}

	rec, err := svc.Get(ticket.ID)
	if err != nil {
		t.Fatalf("Expected ticket in registry, got %v", err)
	}
	if rec.Score != 82 || rec.Classification != model.ClassificationExperiment || !rec.CreatedAt.Equal(fixedTime) {
		t.Errorf("Unexpected record: %+v", rec)
	}
}

func TestService_Create_Unique(t *testing.T) {
	svc := newTestService()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ticket, err := svc.Create(context.Background(), validRequest())
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		if seen[ticket.ID] {
			t.Fatalf("Duplicate ticket id %s", ticket.ID)
		}
		seen[ticket.ID] = true
	}
}

func TestService_Create_CollisionRetry(t *testing.T) {
	nonces := []string{"a", "a", "b"}
	calls := 0
	svc := newTestService(WithNonce(func() string {
		n := nonces[calls%len(nonces)]
		calls++
		return n
	}))

	first, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("Expected distinct ids after collision, got %s twice", first.ID)
	}
	if calls != 3 {
		t.Errorf("Expected 3 nonce draws, got %d", calls)
	}
}

func TestService_Create_Exhausted(t *testing.T) {
	svc := newTestService(WithNonce(func() string { return "fixed" }))

	if _, err := svc.Create(context.Background(), validRequest()); err != nil {
		t.Fatalf("Expected first ticket, got %v", err)
	}
	_, err := svc.Create(context.Background(), validRequest())
	if !errors.Is(err, ErrIDExhausted) {
		t.Errorf("Expected ErrIDExhausted, got %v", err)
	}
}

func TestService_Create_Invalid(t *testing.T) {
	svc := newTestService()

	req := validRequest()
	req.Classification = "Elogio"
	_, err := svc.Create(context.Background(), req)
	if !validate.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestService_Create_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestService().Create(ctx, validRequest()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	_, err := newTestService().Get("SBX-000000000000-0000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(model.TicketConfig{BaseURL: "  "})
	if svc.BaseURL() != model.DefaultTicketBaseURL {
		t.Errorf("Expected default base URL, got %s", svc.BaseURL())
	}
}

func TestMintID(t *testing.T) {
	a := MintID(fixedTime, "resumo", 80, "n1")
	b := MintID(fixedTime, "resumo", 80, "n1")
	if a != b {
		t.Errorf("Expected identical inputs to mint the same id, got %s and %s", a, b)
	}
	if len(a) != len("SBX-202503140926-0000") {
		t.Errorf("Unexpected id length: %s", a)
	}
}
