package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

// Draft sources.
const (
	SourceTemplate = "template"
)

// Draft is an executive summary and next steps prepared for a ticket.
// Scores in a draft are always copied from the evaluation, never generated.
type Draft struct {
	Summary   string   `json:"resumo_executivo"`
	NextSteps []string `json:"proximos_passos"`
	Source    string   `json:"fonte"` // "template" or the provider name
	Model     string   `json:"modelo,omitempty"`
	Warnings  []string `json:"avisos,omitempty"`
}

// Summarizer drafts executive summaries, optionally with an LLM
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer. An empty provider disables LLM drafting
// and every draft comes from the template.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled returns true if an LLM provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Draft prepares the summary and next steps for an evaluation. LLM failures
// degrade to the template draft with a warning; only context cancellation is
// returned as an error.
func (s *Summarizer) Draft(ctx context.Context, subject string, result model.EvaluationResult) (*Draft, error) {
	draft := TemplateDraft(subject, result)
	if s.provider == nil {
		return draft, nil
	}

	if !s.provider.IsAvailable(ctx) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		draft.Warnings = append(draft.Warnings, fmt.Sprintf("LLM provider %s not available, using template", s.provider.Name()))
		return draft, nil
	}

	resp, err := s.provider.Complete(ctx, CompletionRequest{
		System:    systemPrompt,
		Prompt:    BuildPrompt(subject, result),
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		draft.Warnings = append(draft.Warnings, fmt.Sprintf("LLM drafting failed, using template: %v", err))
		return draft, nil
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		draft.Warnings = append(draft.Warnings, "LLM returned an empty summary, using template")
		return draft, nil
	}
	if leaked := ScoreLeaks(text, result.Score); len(leaked) > 0 {
		draft.Warnings = append(draft.Warnings,
			fmt.Sprintf("SCORE LEAK: LLM cited %s instead of %d/100, using template", strings.Join(leaked, ", "), result.Score))
		return draft, nil
	}

	draft.Summary = text
	draft.Source = s.provider.Name()
	draft.Model = resp.Model
	if resp.TokensUsed > 0 {
		draft.Warnings = append(draft.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	}
	return draft, nil
}

var scorePattern = regexp.MustCompile(`\b(\d{1,3})\s*/\s*100\b`)

// ScoreLeaks returns every "N/100" in text whose N differs from score.
func ScoreLeaks(text string, score int) []string {
	var leaked []string
	for _, m := range scorePattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n != score {
			leaked = append(leaked, m[0])
		}
	}
	return leaked
}

// RenderMarkdown renders a draft as a standalone markdown document.
func RenderMarkdown(d *Draft) string {
	if d == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Resumo executivo\n\n")
	if d.Source != SourceTemplate {
		fmt.Fprintf(&b, "> Texto gerado por LLM (%s", d.Source)
		if d.Model != "" {
			fmt.Fprintf(&b, ", %s", d.Model)
		}
		b.WriteString("). Score, fase, TRL e ODS foram calculados independentemente.\n\n")
	}

	if d.Summary == "" {
		b.WriteString("_Nenhum resumo gerado._\n")
	} else {
		b.WriteString(d.Summary)
		b.WriteString("\n")
	}

	if len(d.NextSteps) > 0 {
		b.WriteString("\n## Próximos passos\n\n")
		for i, step := range d.NextSteps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}

	if len(d.Warnings) > 0 {
		b.WriteString("\n## Notas\n\n")
		for _, w := range d.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
