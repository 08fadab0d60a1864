package model

import "strings"

// ExperimentRecord is a free-text experiment proposal submitted for review.
// Wire names follow the Sandbox API so existing clients keep working.
type ExperimentRecord struct {
	Problem      string `json:"problema" yaml:"problema"`                                   // Problem statement
	Hypothesis   string `json:"hipotese" yaml:"hipotese"`                                   // "Se... então... medido por..."
	KPI          string `json:"kpi" yaml:"kpi"`                                             // Key indicator to be measured
	Baseline     string `json:"baseline" yaml:"baseline"`                                   // Current KPI value
	Target       string `json:"alvo" yaml:"alvo"`                                           // KPI goal
	TestPlan     string `json:"plano_teste" yaml:"plano_teste"`                             // Who/how/where/when, sample, A/B
	PrivacyRisks string `json:"riscos_lgpd" yaml:"riscos_lgpd"`                             // Consent, opt-out, retention, minimization
	Dependencies string `json:"dependencias,omitempty" yaml:"dependencias,omitempty"`       // Technical or business dependencies
	ManagingUnit string `json:"unidade_gestora" yaml:"unidade_gestora"`                     // Responsible unit
	Sponsor      string `json:"patrocinador" yaml:"patrocinador"`                           // Sponsor
	References   string `json:"referencias,omitempty" yaml:"referencias,omitempty"`         // Benchmarks or supporting evidence
}

// MaturityCorpus is the text the maturity classifier reads: plan and references.
func (r ExperimentRecord) MaturityCorpus() string {
	return strings.ToLower(r.TestPlan + " " + r.References)
}

// GoalCorpus is the text the goal-tag suggester reads: problem, hypothesis and plan.
func (r ExperimentRecord) GoalCorpus() string {
	return strings.ToLower(r.Problem + " " + r.Hypothesis + " " + r.TestPlan)
}

// Subject returns a short label for reports and file names.
func (r ExperimentRecord) Subject() string {
	s := strings.TrimSpace(r.Problem)
	if s == "" {
		return "experimento"
	}
	if runes := []rune(s); len(runes) > 60 {
		return string(runes[:60])
	}
	return s
}

// ScoreRequest is the envelope accepted by the scoring endpoint and by record files.
type ScoreRequest struct {
	Experiment ExperimentRecord `json:"experimento" yaml:"experimento"`
}
