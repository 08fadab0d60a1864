package score

import (
	"math"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

// Aggregate converts the breakdown into a 0-100 score:
//
//	round(100 * sum(raw_i * w_i) / sum(10 * w_i))
//
// Ties round half up. Raw scores are counted in half points so the sum is exact
// integer arithmetic; a raw score off the half-point grid is rounded to it first.
func Aggregate(breakdown []model.CriterionResult) int {
	var halfPoints, weights int
	for _, c := range breakdown {
		raw := math.Max(0, math.Min(c.RawScore, MaxRawScore))
		halfPoints += int(math.Round(raw*2)) * c.Weight
		weights += c.Weight
	}
	if weights == 0 {
		return 0
	}

	// score = 100*halfPoints / (2*10*weights), rounded half up.
	num := 100 * halfPoints
	den := 2 * int(MaxRawScore) * weights
	return (2*num + den) / (2 * den)
}

// PhaseFor maps a score to the recommended phase.
func PhaseFor(score int) model.Phase {
	switch {
	case score >= PhaseProductionMin:
		return model.PhaseProduction
	case score >= PhasePilotMin:
		return model.PhasePilot
	default:
		return model.PhaseInitial
	}
}

// VerdictFor maps a score to the summary verdict, first band that matches.
func VerdictFor(score int) string {
	switch {
	case score >= PhaseProductionMin:
		return VerdictMature
	case score >= VerdictGoodMin:
		return VerdictGood
	case score >= PhasePilotMin:
		return VerdictPotential
	default:
		return VerdictInitial
	}
}
