package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ppiankov/sandbox-validator/internal/llm"
	"github.com/ppiankov/sandbox-validator/internal/model"
)

func TestWriteTicket_JSON(t *testing.T) {
	receipt := model.Ticket{ID: "SBX-202503140926-0042", StatusURL: "https://tickets.example.test/ticket/SBX-202503140926-0042"}

	var buf bytes.Buffer
	if err := writeTicket(&buf, formatJSON, receipt, &llm.Draft{Summary: "ignorado"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var got model.Ticket
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Expected JSON receipt, got %q: %v", buf.String(), err)
	}
	if got != receipt {
		t.Errorf("Expected %+v, got %+v", receipt, got)
	}
}

func TestWriteTicket_Markdown(t *testing.T) {
	receipt := model.Ticket{ID: "SBX-202503140926-0042", StatusURL: "https://tickets.example.test/ticket/SBX-202503140926-0042"}
	draft := &llm.Draft{
		Summary:   "Lembretes personalizados: score 82/100.",
		NextSteps: []string{"Preparar plano de implantação em produção."},
		Source:    llm.SourceTemplate,
	}

	var buf bytes.Buffer
	if err := writeTicket(&buf, formatMD, receipt, draft); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Resumo executivo",
		"Lembretes personalizados: score 82/100.",
		"1. Preparar plano de implantação em produção.",
		"Ticket: [SBX-202503140926-0042](https://tickets.example.test/ticket/SBX-202503140926-0042)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Texto gerado por LLM") {
		t.Error("Expected no LLM disclaimer for a template draft")
	}
}

func TestDraftSource(t *testing.T) {
	disabled, err := llm.NewSummarizer(llm.Config{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := draftSource(disabled); got != llm.SourceTemplate {
		t.Errorf("Expected %q without a provider, got %q", llm.SourceTemplate, got)
	}

	enabled, err := llm.NewSummarizer(llm.Config{Provider: "ollama", BaseURL: "http://127.0.0.1:1/v1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := draftSource(enabled); got != "ollama" {
		t.Errorf("Expected provider name ollama, got %q", got)
	}
}
