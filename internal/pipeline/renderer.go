package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

// Renderer writes evaluation results as JSON or Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. The footer notes that the assessment is heuristic.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// JSON writes v as indented JSON
func (r *Renderer) JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Markdown writes a report for one evaluation
func (r *Renderer) Markdown(w io.Writer, subject string, result model.EvaluationResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Avaliação: %s\n\n", subject)
	fmt.Fprintf(&b, "| Score | Fase | TRL |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| %d/100 | %d (%s) | %d |\n\n", result.Score, int(result.Phase), result.Phase, result.MaturityLevel)

	fmt.Fprintf(&b, "## Parecer\n\n%s\n\n", result.Verdict)

	b.WriteString("## Critérios\n\n")
	b.WriteString("| Critério | Peso | Nota | Comentário |\n|---|---|---|---|\n")
	for _, c := range result.Breakdown {
		fmt.Fprintf(&b, "| %s | %d | %.1f | %s |\n", c.Name, c.Weight, c.RawScore, escapeCell(c.Comment))
	}
	b.WriteString("\n")

	b.WriteString("## ODS sugeridos\n\n")
	for _, tag := range result.GoalTags {
		fmt.Fprintf(&b, "- **ODS %d - %s**: %s\n", tag.ID, tag.Title, tag.Justification)
	}

	if r.includeFooter {
		b.WriteString("\n---\n\n_Avaliação heurística por palavras-chave. Não substitui a análise do comitê._\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Summary writes a one-line summary, used for batch progress
func (r *Renderer) Summary(w io.Writer, label string, result model.EvaluationResult) {
	fmt.Fprintf(w, "%-32s score=%3d fase=%d trl=%d\n", label, result.Score, int(result.Phase), result.MaturityLevel)
}

// WriteFile renders result into path, choosing the format by extension (.md or JSON)
func (r *Renderer) WriteFile(path, subject string, result model.EvaluationResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".md") {
		err = r.Markdown(f, subject, result)
	} else {
		err = r.JSON(f, result)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileName turns a batch label ("batch.jsonl#3") into a safe file stem
func FileName(label string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(label, "-"), "-.")
	if name == "" {
		return "result"
	}
	return name
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
