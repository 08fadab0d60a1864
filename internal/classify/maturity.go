// Package classify maps proposal text to categorical outputs through ordered
// keyword rule tables: the maturity level (TRL) and the suggested goal tags (ODS).
package classify

import (
	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/signal"
)

// DefaultMaturityLevel is returned when no maturity rule matches.
const DefaultMaturityLevel = 4

// MaturityRule maps deployment-proximity language to a readiness level.
type MaturityRule struct {
	Level    int
	Keywords []string
}

// MaturityRules is evaluated top to bottom, first match wins. Production
// language comes first so a plan mentioning both a pilot and production is
// not under-reported.
var MaturityRules = []MaturityRule{
	{Level: 8, Keywords: []string{"produção", "producao", "integrado", "integração"}},
	{Level: 6, Keywords: []string{"piloto", "a/b", "coorte"}},
	{Level: 5, Keywords: []string{"poc", "prova de conceito", "homolog"}},
}

// MaturityLevel suggests a TRL from the test plan and references.
// The result is always one of 4, 5, 6 or 8.
func MaturityLevel(r model.ExperimentRecord) int {
	return matchMaturity(r.MaturityCorpus(), MaturityRules)
}

func matchMaturity(corpus string, rules []MaturityRule) int {
	for _, rule := range rules {
		if signal.Present(corpus, rule.Keywords...) {
			return rule.Level
		}
	}
	return DefaultMaturityLevel
}
