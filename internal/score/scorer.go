package score

import (
	"github.com/ppiankov/sandbox-validator/internal/classify"
	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/signal"
)

// Criterion weights, in breakdown order. They sum to TotalWeight.
const (
	WeightValue      = 5
	WeightKPI        = 4
	WeightCompliance = 3
	WeightPlan       = 3
	WeightResources  = 2
	WeightBenchmark  = 1

	TotalWeight = WeightValue + WeightKPI + WeightCompliance + WeightPlan + WeightResources + WeightBenchmark

	// MaxRawScore is the ceiling of every criterion score.
	MaxRawScore = 10.0
)

// Minimum trimmed lengths a field must exceed to count as well formed.
const (
	minProblemLen      = 20
	minKPILen          = 5
	minBaselineLen     = 2
	minTargetLen       = 2
	minUnitLen         = 3
	minSponsorLen      = 3
	minReferencesLen   = 10
	minDependenciesLen = 5
)

// Score bands for phase and verdict.
const (
	PhaseProductionMin = 75
	PhasePilotMin      = 50
	VerdictGoodMin     = 65
)

// Verdicts, from most to least mature.
const (
	VerdictMature    = "Experimento maduro, pronto para fase avançada. LGPD conforme, metodologia robusta."
	VerdictGood      = "Bom potencial, requer ajustes menores em LGPD ou metodologia antes do piloto."
	VerdictPotential = "Potencial identificado, necessário amadurecer métricas e plano de execução."
	VerdictInitial   = "Experimento inicial, requer desenvolvimento significativo antes de prosseguir."
)

// PassMarks are the raw scores at which each criterion's comment turns from a
// request for changes into an approval.
var PassMarks = map[model.Criterion]float64{
	model.CriterionValue:      7.0,
	model.CriterionKPI:        8.0,
	model.CriterionCompliance: 8.0,
	model.CriterionPlan:       8.0,
	model.CriterionResources:  7.0,
	model.CriterionBenchmark:  7.0,
}

// NeedsWork reports whether a breakdown entry is below its pass mark.
func NeedsWork(c model.CriterionResult) bool {
	mark, ok := PassMarks[c.Name]
	return ok && c.RawScore < mark
}

// Keyword sets read by the compliance and plan criteria.
var (
	consentTerms      = []string{"consent", "consentimento", "autoriza"}
	optOutTerms       = []string{"opt-out", "opt out", "cancelar"}
	retentionTerms    = []string{"reten", "prazo", "tempo", "período"}
	minimizationTerms = []string{"minim", "anonimiz", "pseudonim", "mascarar"}

	abTestTerms   = []string{"a/b", "ab ", "ab-", "teste a/b"}
	cohortTerms   = []string{"coorte", "cohort", "grupo controle"}
	sampleTerms   = []string{"amostra", "sample", "participantes", "usuários"}
	durationTerms = []string{"semana", "mês", "dia", "prazo", "duração"}

	hypothesisTerms = []string{"se", "então"}
)

// Scorer evaluates experiment records against the weighted rubric
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Evaluate scores the record and derives phase, maturity level, goal tags and verdict.
// It holds no state and is safe for concurrent use.
func (s *Scorer) Evaluate(r model.ExperimentRecord) model.EvaluationResult {
	breakdown := []model.CriterionResult{
		s.scoreValue(r),
		s.scoreKPI(r),
		s.scoreCompliance(r),
		s.scorePlan(r),
		s.scoreResources(r),
		s.scoreBenchmark(r),
	}

	total := Aggregate(breakdown)

	return model.EvaluationResult{
		Score:         total,
		Phase:         PhaseFor(total),
		MaturityLevel: classify.MaturityLevel(r),
		GoalTags:      classify.GoalTags(r),
		Breakdown:     breakdown,
		Verdict:       VerdictFor(total),
	}
}

// scoreValue rates problem clarity and hypothesis structure.
func (s *Scorer) scoreValue(r model.ExperimentRecord) model.CriterionResult {
	return valueTier(
		signal.WellFormed(r.Problem, minProblemLen),
		signal.All(r.Hypothesis, hypothesisTerms...),
	)
}

func valueTier(clearProblem, structuredHypothesis bool) model.CriterionResult {
	raw := 4.0
	switch {
	case clearProblem && structuredHypothesis:
		raw = 9.0
	case clearProblem:
		raw = 7.0
	}
	comment := "Detalhar problema e estruturar hipótese."
	if raw >= PassMarks[model.CriterionValue] {
		comment = "Problema claro e hipótese bem estruturada."
	}
	return criterion(model.CriterionValue, WeightValue, raw, comment)
}

// scoreKPI rates the kpi, baseline and target triad.
func (s *Scorer) scoreKPI(r model.ExperimentRecord) model.CriterionResult {
	return kpiTier(
		signal.WellFormed(r.KPI, minKPILen),
		signal.WellFormed(r.Baseline, minBaselineLen),
		signal.WellFormed(r.Target, minTargetLen),
	)
}

func kpiTier(kpi, baseline, target bool) model.CriterionResult {
	raw := 3.0
	switch {
	case kpi && baseline && target:
		raw = 9.5
	case kpi:
		raw = 6.0
	}
	comment := "Completar KPI/baseline/alvo."
	if raw >= PassMarks[model.CriterionKPI] {
		comment = "KPI, baseline e alvo bem definidos."
	}
	return criterion(model.CriterionKPI, WeightKPI, raw, comment)
}

// scoreCompliance rates the privacy narrative. Consent, opt-out and retention
// together make it complete; minimization lifts a complete analysis further.
func (s *Scorer) scoreCompliance(r model.ExperimentRecord) model.CriterionResult {
	return complianceTier(
		signal.Present(r.PrivacyRisks, consentTerms...),
		signal.Present(r.PrivacyRisks, optOutTerms...),
		signal.Present(r.PrivacyRisks, retentionTerms...),
		signal.Present(r.PrivacyRisks, minimizationTerms...),
	)
}

func complianceTier(consent, optOut, retention, minimization bool) model.CriterionResult {
	complete := consent && optOut && retention
	raw := 4.0
	switch {
	case complete && minimization:
		raw = 9.0
	case complete:
		raw = 7.0
	}
	comment := "Completar análise LGPD (consentimento/opt-out/retenção)."
	if raw >= PassMarks[model.CriterionCompliance] {
		comment = "LGPD completo: consentimento, opt-out, retenção e minimização."
	}
	return criterion(model.CriterionCompliance, WeightCompliance, raw, comment)
}

// scorePlan rates the methodology. A comparison design with a sample and a
// timeframe is robust.
func (s *Scorer) scorePlan(r model.ExperimentRecord) model.CriterionResult {
	return planTier(
		signal.Present(r.TestPlan, abTestTerms...),
		signal.Present(r.TestPlan, cohortTerms...),
		signal.Present(r.TestPlan, sampleTerms...),
		signal.Present(r.TestPlan, durationTerms...),
	)
}

func planTier(ab, cohort, sample, duration bool) model.CriterionResult {
	design := ab || cohort
	raw := 5.0
	switch {
	case design && sample && duration:
		raw = 9.0
	case design:
		raw = 7.0
	}
	comment := "Detalhar metodologia (A/B/coorte, amostra, tempo)."
	if raw >= PassMarks[model.CriterionPlan] {
		comment = "Metodologia robusta com A/B, amostra e cronograma."
	}
	return criterion(model.CriterionPlan, WeightPlan, raw, comment)
}

// scoreResources rates governance: managing unit and sponsor.
func (s *Scorer) scoreResources(r model.ExperimentRecord) model.CriterionResult {
	return resourcesTier(
		signal.WellFormed(r.ManagingUnit, minUnitLen),
		signal.WellFormed(r.Sponsor, minSponsorLen),
	)
}

func resourcesTier(unit, sponsor bool) model.CriterionResult {
	raw := 3.0
	switch {
	case unit && sponsor:
		raw = 8.5
	case unit:
		raw = 6.0
	}
	comment := "Definir UG responsável e patrocinador."
	if raw >= PassMarks[model.CriterionResources] {
		comment = "UG e patrocinador claramente definidos."
	}
	return criterion(model.CriterionResources, WeightResources, raw, comment)
}

// scoreBenchmark rates references, falling back to dependencies.
func (s *Scorer) scoreBenchmark(r model.ExperimentRecord) model.CriterionResult {
	return benchmarkTier(
		signal.WellFormed(r.References, minReferencesLen),
		signal.WellFormed(r.Dependencies, minDependenciesLen),
	)
}

func benchmarkTier(references, dependencies bool) model.CriterionResult {
	raw := 5.0
	switch {
	case references:
		raw = 8.0
	case dependencies:
		raw = 6.0
	}
	comment := "Incluir referências ou benchmarks."
	if raw >= PassMarks[model.CriterionBenchmark] {
		comment = "Referências e evidências de apoio identificadas."
	}
	return criterion(model.CriterionBenchmark, WeightBenchmark, raw, comment)
}

func criterion(name model.Criterion, weight int, raw float64, comment string) model.CriterionResult {
	return model.CriterionResult{
		Name:     name,
		Weight:   weight,
		RawScore: raw,
		Comment:  comment,
	}
}
