package kb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

func titles(hits []model.KBHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Title
	}
	return out
}

func TestIndex_Search(t *testing.T) {
	ix := NewIndex(DefaultSnippets)

	tests := []struct {
		name     string
		query    string
		topK     int
		want     []string
		fallback bool
	}{
		{
			name:  "single token",
			query: "LGPD",
			topK:  3,
			want:  []string{"Critérios de Avaliação — Pesos", "LGPD — Requisitos Obrigatórios"},
		},
		{
			name:  "any token matches",
			query: "opt-out ODS",
			topK:  3,
			want:  []string{"LGPD — Requisitos Obrigatórios", "ODS Prioritários — Diretrizes"},
		},
		{
			name:  "substring inside a word",
			query: "anonim",
			topK:  3,
			want:  []string{"LGPD — Requisitos Obrigatórios"},
		},
		{
			name:  "truncated to top_k",
			query: "a",
			topK:  2,
			want:  []string{"FAQ — Objetivos do Sandbox", "Critérios de Avaliação — Pesos"},
		},
		{
			name:     "fallback",
			query:    "blockchain quântico",
			topK:     3,
			want:     []string{"FAQ — Objetivos do Sandbox", "Critérios de Avaliação — Pesos", "LGPD — Requisitos Obrigatórios"},
			fallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, fallback := ix.Search(tt.query, tt.topK)
			got := titles(hits)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Position %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
			if fallback != tt.fallback {
				t.Errorf("Expected fallback %v, got %v", tt.fallback, fallback)
			}
		})
	}
}

func TestIndex_Search_CachedResultIsCopied(t *testing.T) {
	ix := NewIndex(DefaultSnippets)

	first, _ := ix.Search("lgpd", 3)
	first[0].Title = "mutated"

	second, _ := ix.Search("LGPD", 3)
	if second[0].Title == "mutated" {
		t.Error("Expected cached results to be isolated from callers")
	}
}

func TestIndex_Search_LongQueryNotCached(t *testing.T) {
	ix := NewIndex(DefaultSnippets)

	long := strings.Repeat("lgpd ", model.KBMaxQueryLen)
	hits, _ := ix.Search(long, 3)
	if len(hits) == 0 {
		t.Fatal("Expected hits for an oversized query")
	}
	if n := ix.queries.ItemCount(); n != 0 {
		t.Errorf("Expected no cached queries, got %d", n)
	}

	ix.Search("lgpd", 3)
	if n := ix.queries.ItemCount(); n != 1 {
		t.Errorf("Expected short query cached, got %d entries", n)
	}
}

func TestIndex_Search_NonPositiveTopK(t *testing.T) {
	hits, fallback := NewIndex(DefaultSnippets).Search("lgpd", 0)
	if hits != nil || fallback {
		t.Errorf("Expected no hits, got %v (fallback %v)", hits, fallback)
	}
}

func TestLoadSnippets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snippets.yaml")
	content := `- titulo: Open Finance
  trecho: Experimentos com dados compartilhados exigem consentimento do cliente.
  fonte: Regulação
  url: https://kb.example.test/open-finance
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ix, err := NewIndexFromConfig(model.KBConfig{SnippetsFile: path})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ix.Len() != len(DefaultSnippets)+1 {
		t.Errorf("Expected %d snippets, got %d", len(DefaultSnippets)+1, ix.Len())
	}

	hits, fallback := ix.Search("finance", 3)
	if fallback || len(hits) != 1 || hits[0].URL != "https://kb.example.test/open-finance" {
		t.Errorf("Expected the loaded snippet, got %+v", hits)
	}
}

func TestLoadSnippets_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSnippets(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("- titulo: sem trecho\n"), 0o644)
	if _, err := LoadSnippets(bad); err == nil {
		t.Error("Expected error for snippet without excerpt")
	}
}
