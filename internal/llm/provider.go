package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete drafts text for the given prompt
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one drafting call
type CompletionRequest struct {
	System    string
	Prompt    string
	Model     string // provider default when empty
	MaxTokens int
}

// CompletionResponse contains the drafted text
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama's OpenAI-compatible API)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(m model.LLMConfig) Config {
	return Config{
		Provider:   m.Provider,
		Model:      m.Model,
		APIKey:     m.APIKey,
		BaseURL:    m.BaseURL,
		Timeout:    m.Timeout,
		MaxTokens:  m.MaxTokens,
		HTTPProxy:  m.HTTPProxy,
		HTTPSProxy: m.HTTPSProxy,
		NoProxy:    m.NoProxy,
	}
}

const systemPrompt = "Você redige resumos executivos de avaliações de experimentos para um comitê de inovação. " +
	"Use apenas os dados fornecidos. Nunca altere score, fase, TRL ou ODS."

// BuildPrompt constructs the drafting prompt for an evaluation. The model may
// only restate the numbers it is given.
func BuildPrompt(subject string, result model.EvaluationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Redija um resumo executivo de 5 a 8 linhas, em português, para o experimento abaixo.

REGRAS:
1. Cite o score exatamente como %d/100. Não cite nenhum outro número seguido de "/100".
2. Não invente dados, métricas ou referências.
3. Termine com a recomendação de fase.

Experimento: %s
Score: %d/100
Fase recomendada: %d (%s)
TRL: %d
Parecer: %s

Critérios:
`, result.Score, subject, result.Score, int(result.Phase), result.Phase, result.MaturityLevel, result.Verdict)

	for _, c := range result.Breakdown {
		fmt.Fprintf(&b, "- %s (peso %d): %.1f - %s\n", c.Name, c.Weight, c.RawScore, c.Comment)
	}

	b.WriteString("\nODS sugeridos:\n")
	for _, tag := range result.GoalTags {
		fmt.Fprintf(&b, "- ODS %d: %s\n", tag.ID, tag.Title)
	}

	return b.String()
}
