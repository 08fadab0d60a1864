package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/score"
)

var phaseSteps = map[model.Phase]string{
	model.PhaseProduction: "Preparar plano de implantação em produção.",
	model.PhasePilot:      "Executar piloto controlado.",
	model.PhaseInitial:    "Revisar proposta com a UG antes de nova submissão.",
}

// TemplateDraft builds a deterministic draft from the evaluation alone.
func TemplateDraft(subject string, result model.EvaluationResult) *Draft {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "Experimento"
	}

	var strong, weak []string
	var steps []string
	for _, c := range result.Breakdown {
		if score.NeedsWork(c) {
			weak = append(weak, string(c.Name))
			steps = append(steps, c.Comment)
		} else {
			strong = append(strong, string(c.Name))
		}
	}
	if step, ok := phaseSteps[result.Phase]; ok {
		steps = append(steps, step)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: score %d/100, fase %d (%s), TRL %d.\n", subject, result.Score, int(result.Phase), result.Phase, result.MaturityLevel)
	fmt.Fprintf(&b, "Parecer: %s\n", result.Verdict)
	if len(strong) > 0 {
		fmt.Fprintf(&b, "Pontos fortes: %s.\n", strings.Join(strong, ", "))
	}
	if len(weak) > 0 {
		fmt.Fprintf(&b, "A melhorar: %s.\n", strings.Join(weak, ", "))
	}
	if len(result.GoalTags) > 0 {
		goals := make([]string, 0, len(result.GoalTags))
		for _, tag := range result.GoalTags {
			goals = append(goals, fmt.Sprintf("%d (%s)", tag.ID, tag.Title))
		}
		fmt.Fprintf(&b, "ODS sugeridos: %s.\n", strings.Join(goals, ", "))
	}

	return &Draft{
		Summary:   strings.TrimRight(b.String(), "\n"),
		NextSteps: steps,
		Source:    SourceTemplate,
	}
}
