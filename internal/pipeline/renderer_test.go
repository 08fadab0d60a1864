package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderer_Markdown(t *testing.T) {
	result, err := NewEngine(nil, 0, quietLogger()).EvaluateJSON(context.Background(), []byte(validRecord))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewRenderer(true).Markdown(&buf, "Adesão ao app", result); err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Avaliação: Adesão ao app",
		"| 90/100 | 3 (produção) | 6 |",
		"| Valor/Viabilidade | 5 | 9.0 |",
		"| Benchmark | 1 | 8.0 |",
		"## ODS sugeridos",
		result.Verdict,
		"Avaliação heurística",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, out)
		}
	}

	buf.Reset()
	_ = NewRenderer(false).Markdown(&buf, "x", result)
	if strings.Contains(buf.String(), "Avaliação heurística") {
		t.Error("Expected no footer")
	}
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).JSON(&buf, map[string]string{"a": "<b>"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"a": "<b>"`) {
		t.Errorf("Expected indented, unescaped JSON, got %s", buf.String())
	}
}

func TestRenderer_WriteFile(t *testing.T) {
	result, _ := NewEngine(nil, 0, quietLogger()).EvaluateJSON(context.Background(), []byte(validRecord))
	dir := filepath.Join(t.TempDir(), "nested")

	md := filepath.Join(dir, "r.md")
	if err := NewRenderer(false).WriteFile(md, "x", result); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, _ := os.ReadFile(md)
	if !strings.HasPrefix(string(data), "# Avaliação") {
		t.Errorf("Expected markdown file, got %q", data)
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"batch.jsonl#3":    "batch.jsonl-3",
		"../../etc/passwd": "etc-passwd",
		"###":              "result",
		"ação.yaml#1":      "a-o.yaml-1",
	}
	for in, want := range tests {
		if got := FileName(in); got != want {
			t.Errorf("FileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderer_Summary(t *testing.T) {
	result, _ := NewEngine(nil, 0, quietLogger()).EvaluateJSON(context.Background(), []byte(validRecord))
	var buf bytes.Buffer
	NewRenderer(false).Summary(&buf, "r#1", result)
	if !strings.Contains(buf.String(), "score= 90 fase=3 trl=6") {
		t.Errorf("Unexpected summary: %q", buf.String())
	}
}
