package classify

import (
	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/signal"
)

// MaxGoalTags caps the number of suggested goal tags.
const MaxGoalTags = 3

// GoalRule contributes one goal tag when any of its keywords is present.
type GoalRule struct {
	Tag      model.GoalTag
	Keywords []string
}

// GoalRules are evaluated independently, in priority order. ODS 8, 9 and 4 are
// the priority goals; the others need a specific justification.
var GoalRules = []GoalRule{
	{
		Tag: model.GoalTag{
			ID:            8,
			Title:         "Trabalho decente e crescimento econômico",
			Justification: "Impacta retenção, produtividade e qualidade do trabalho.",
		},
		Keywords: []string{"emprego", "retenc", "trabalho", "renda", "perman", "colaborador", "funcionario"},
	},
	{
		Tag: model.GoalTag{
			ID:            9,
			Title:         "Indústria, inovação e infraestrutura",
			Justification: "Inovação de processo/tecnologia na operação bancária.",
		},
		Keywords: []string{"inovação", "process", "autom", "efici", "digital", "open finance", "modelo", "tecnolog", "ia", "api"},
	},
	{
		Tag: model.GoalTag{
			ID:            4,
			Title:         "Educação de qualidade",
			Justification: "Ações de capacitação e desenvolvimento envolvidas.",
		},
		Keywords: []string{"trein", "capacita", "educa", "aprend", "conhecimento", "skill"},
	},
	{
		Tag: model.GoalTag{
			ID:            13,
			Title:         "Ação contra a mudança global do clima",
			Justification: "Contribui para sustentabilidade e responsabilidade ambiental.",
		},
		Keywords: []string{"sustent", "ambient", "verde", "carbon", "clima"},
	},
	{
		Tag: model.GoalTag{
			ID:            10,
			Title:         "Redução das desigualdades",
			Justification: "Promove inclusão e redução de desigualdades sociais.",
		},
		Keywords: []string{"inclusão", "acessib", "diversid", "equidad", "social"},
	},
}

// FallbackGoalTag is suggested when no rule matches.
var FallbackGoalTag = model.GoalTag{
	ID:            9,
	Title:         "Indústria, inovação e infraestrutura",
	Justification: "Transformação de processo por experimentação controlada.",
}

// GoalTags suggests between one and MaxGoalTags goal tags for the record,
// in rule priority order.
func GoalTags(r model.ExperimentRecord) []model.GoalTag {
	return matchGoals(r.GoalCorpus(), GoalRules)
}

func matchGoals(corpus string, rules []GoalRule) []model.GoalTag {
	tags := make([]model.GoalTag, 0, MaxGoalTags)
	seen := make(map[int]bool)
	for _, rule := range rules {
		if len(tags) == MaxGoalTags {
			break
		}
		if seen[rule.Tag.ID] || !signal.Present(corpus, rule.Keywords...) {
			continue
		}
		seen[rule.Tag.ID] = true
		tags = append(tags, rule.Tag)
	}
	if len(tags) == 0 {
		return []model.GoalTag{FallbackGoalTag}
	}
	return tags
}
