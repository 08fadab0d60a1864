package score

import (
	"testing"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

func uniform(raw float64) []model.CriterionResult {
	weights := []int{WeightValue, WeightKPI, WeightCompliance, WeightPlan, WeightResources, WeightBenchmark}
	out := make([]model.CriterionResult, len(weights))
	for i, w := range weights {
		out[i] = model.CriterionResult{Weight: w, RawScore: raw}
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		breakdown []model.CriterionResult
		want      int
	}{
		{"all ten", uniform(10), 100},
		{"all zero", uniform(0), 0},
		{"all eight and a half", uniform(8.5), 85},
		{"empty", nil, 0},
		{"half rounds up", []model.CriterionResult{{Weight: 1, RawScore: 0.5}, {Weight: 1, RawScore: 0}}, 3},
		{"half rounds up on even", []model.CriterionResult{{Weight: 1, RawScore: 2.5}, {Weight: 1, RawScore: 0}}, 13},
		{"below half rounds down", []model.CriterionResult{{Weight: 3, RawScore: 1}}, 10},
		{"clamped", []model.CriterionResult{{Weight: 1, RawScore: 12}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.breakdown); got != tt.want {
				t.Errorf("Aggregate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAggregate_ScenarioC(t *testing.T) {
	score := Aggregate(uniform(8.5))
	if score < 85 {
		t.Fatalf("Expected score >= 85, got %d", score)
	}
	if PhaseFor(score) != model.PhaseProduction {
		t.Errorf("Expected phase 3, got %d", PhaseFor(score))
	}
	if VerdictFor(score) != VerdictMature {
		t.Errorf("Expected mature verdict, got %q", VerdictFor(score))
	}
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		score int
		want  model.Phase
	}{
		{0, model.PhaseInitial},
		{49, model.PhaseInitial},
		{50, model.PhasePilot},
		{74, model.PhasePilot},
		{75, model.PhaseProduction},
		{100, model.PhaseProduction},
	}

	for _, tt := range tests {
		if got := PhaseFor(tt.score); got != tt.want {
			t.Errorf("PhaseFor(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestVerdictFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, VerdictMature},
		{75, VerdictMature},
		{74, VerdictGood},
		{65, VerdictGood},
		{64, VerdictPotential},
		{50, VerdictPotential},
		{49, VerdictInitial},
		{0, VerdictInitial},
	}

	for _, tt := range tests {
		if got := VerdictFor(tt.score); got != tt.want {
			t.Errorf("VerdictFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
