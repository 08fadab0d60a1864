package model

// Criterion names the six rubric criteria, in breakdown order.
type Criterion string

const (
	CriterionValue      Criterion = "Valor/Viabilidade"
	CriterionKPI        Criterion = "Mensuração/KPIs"
	CriterionCompliance Criterion = "Aderência & LGPD"
	CriterionPlan       Criterion = "Maturidade/Plano"
	CriterionResources  Criterion = "Recursos/UG"
	CriterionBenchmark  Criterion = "Benchmark"
)

// CriterionResult is one entry of the per-criterion breakdown.
type CriterionResult struct {
	Name     Criterion `json:"criterio" yaml:"criterio"`
	Weight   int       `json:"peso" yaml:"peso"`             // 1-5
	RawScore float64   `json:"nota" yaml:"nota"`             // 0.0-10.0
	Comment  string    `json:"comentario" yaml:"comentario"` // Mirrors the tier that matched
}

// GoalTag is a suggested sustainable development goal (ODS).
type GoalTag struct {
	ID            int    `json:"id" yaml:"id"` // 1-17
	Title         string `json:"titulo" yaml:"titulo"`
	Justification string `json:"justificativa" yaml:"justificativa"`
}

// Phase is the recommended experimentation phase.
type Phase int

const (
	PhaseInitial    Phase = 1
	PhasePilot      Phase = 2
	PhaseProduction Phase = 3
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "inicial"
	case PhasePilot:
		return "piloto"
	case PhaseProduction:
		return "produção"
	default:
		return "desconhecida"
	}
}

// EvaluationResult is the immutable outcome of one evaluation.
type EvaluationResult struct {
	Score         int               `json:"score" yaml:"score"` // 0-100
	Phase         Phase             `json:"fase" yaml:"fase"`
	MaturityLevel int               `json:"trl" yaml:"trl"` // 1-9
	GoalTags      []GoalTag         `json:"ods_sugeridos" yaml:"ods_sugeridos"`
	Breakdown     []CriterionResult `json:"breakdown" yaml:"breakdown"`
	Verdict       string            `json:"parecer_resumido" yaml:"parecer_resumido"`
}
