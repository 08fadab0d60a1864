// Package kb is the knowledge-base search collaborator. It serves citable
// snippets from a small in-memory index with keyword matching.
package kb

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/observability"
)

// DefaultSnippets are the built-in knowledge-base entries.
var DefaultSnippets = []model.KBHit{
	{
		Title:   "FAQ — Objetivos do Sandbox",
		Excerpt: "O Sandbox CAIXA é um ambiente controlado para experimentação com governança, visando reduzir o tempo de decisão de 90 dias para 1 dia (p95).",
		Source:  "FAQ — Objetivos",
		URL:     "https://kb.sandbox.caixa.gov.br/faq#objetivos",
	},
	{
		Title:   "Critérios de Avaliação — Pesos",
		Excerpt: "Rubrica de scoring: Valor/Viabilidade×5; Mensuração/KPIs×4; Aderência & LGPD×3; Maturidade/Plano×3; Recursos/UG×2; Benchmark×1.",
		Source:  "Critérios — Pesos",
		URL:     "https://kb.sandbox.caixa.gov.br/criterios#pesos",
	},
	{
		Title:   "LGPD — Requisitos Obrigatórios",
		Excerpt: "Todo experimento deve especificar: consentimento, escopo de dados, mecanismo de opt-out, período de retenção e estratégias de minimização/anonimização.",
		Source:  "LGPD — Compliance",
		URL:     "https://kb.sandbox.caixa.gov.br/lgpd#requisitos",
	},
	{
		Title:   "Metodologia A/B — Boas Práticas",
		Excerpt: "Testes A/B devem definir: hipótese clara, amostra representativa (≥1000), duração adequada, métricas primárias/secundárias e critérios de parada.",
		Source:  "Metodologia — A/B Testing",
		URL:     "https://kb.sandbox.caixa.gov.br/metodologia#ab-testing",
	},
	{
		Title:   "ODS Prioritários — Diretrizes",
		Excerpt: "Priorizar ODS 8 (Trabalho decente), ODS 9 (Inovação) e ODS 4 (Educação). Outros ODSs requerem justificativa específica de 1 linha.",
		Source:  "ODS — Diretrizes",
		URL:     "https://kb.sandbox.caixa.gov.br/ods#diretrizes",
	},
}

// queryTTL bounds how long search results are reused.
const queryTTL = 5 * time.Minute

type entry struct {
	hit   model.KBHit
	title string
	body  string
}

// Index is a read-only set of snippets. Safe for concurrent use.
type Index struct {
	entries []entry
	queries *gocache.Cache
}

type searchResult struct {
	hits     []model.KBHit
	fallback bool
}

// NewIndex builds an index over snippets, in the given order.
func NewIndex(snippets []model.KBHit) *Index {
	entries := make([]entry, 0, len(snippets))
	for _, s := range snippets {
		entries = append(entries, entry{
			hit:   s,
			title: strings.ToLower(s.Title),
			body:  strings.ToLower(s.Excerpt),
		})
	}
	return &Index{
		entries: entries,
		queries: gocache.New(queryTTL, 2*queryTTL),
	}
}

// NewIndexFromConfig builds the default index, extended with the snippets in
// cfg.SnippetsFile when set.
func NewIndexFromConfig(cfg model.KBConfig) (*Index, error) {
	snippets := append([]model.KBHit(nil), DefaultSnippets...)
	if cfg.SnippetsFile != "" {
		extra, err := LoadSnippets(cfg.SnippetsFile)
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, extra...)
	}
	return NewIndex(snippets), nil
}

// LoadSnippets reads a YAML list of snippets with titulo, trecho, fonte and url keys.
func LoadSnippets(path string) ([]model.KBHit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snippets: %w", err)
	}

	var snippets []model.KBHit
	if err := yaml.Unmarshal(data, &snippets); err != nil {
		return nil, fmt.Errorf("failed to parse snippets %s: %w", path, err)
	}
	for i, s := range snippets {
		if strings.TrimSpace(s.Title) == "" || strings.TrimSpace(s.Excerpt) == "" {
			return nil, fmt.Errorf("snippet %d in %s: titulo and trecho are required", i+1, path)
		}
	}
	return snippets, nil
}

// Len returns the number of snippets.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Search returns up to topK snippets whose title or excerpt contains any
// whitespace-separated query token, case-insensitively, in index order. When
// nothing matches it returns the first topK snippets and reports fallback.
func (ix *Index) Search(query string, topK int) ([]model.KBHit, bool) {
	if topK <= 0 {
		return nil, false
	}

	tokens := strings.Fields(strings.ToLower(query))
	key := strconv.Itoa(topK) + "\x00" + strings.Join(tokens, " ")
	// Oversized queries are answered but never cached
	cacheable := len(query) <= model.KBMaxQueryLen
	if v, ok := ix.queries.Get(key); ok && cacheable {
		res := v.(searchResult)
		observability.RecordKBSearch(res.fallback)
		return append([]model.KBHit(nil), res.hits...), res.fallback
	}

	var hits []model.KBHit
	for _, e := range ix.entries {
		if len(hits) == topK {
			break
		}
		if e.matches(tokens) {
			hits = append(hits, e.hit)
		}
	}

	fallback := len(hits) == 0
	if fallback {
		for _, e := range ix.entries {
			if len(hits) == topK {
				break
			}
			hits = append(hits, e.hit)
		}
	}

	if cacheable {
		ix.queries.Set(key, searchResult{hits: hits, fallback: fallback}, gocache.DefaultExpiration)
	}
	observability.RecordKBSearch(fallback)
	return append([]model.KBHit(nil), hits...), fallback
}

func (e entry) matches(tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(e.title, tok) || strings.Contains(e.body, tok) {
			return true
		}
	}
	return false
}
