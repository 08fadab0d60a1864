// Demo program that runs canned proposals through the rubric and prints the
// breakdown, phase, TRL and suggested goals for each.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/pipeline"
)

type scenario struct {
	name   string
	expect string
	record model.ExperimentRecord
}

var scenarios = []scenario{
	{
		name:   "A - empty problem",
		expect: "valor 4.0",
		record: model.ExperimentRecord{
			KPI:          "NPS",
			TestPlan:     "a definir",
			PrivacyRisks: "a definir",
			ManagingUnit: "GEINO",
			Sponsor:      "Diretoria de Varejo",
		},
	},
	{
		name:   "B - A/B plan with complete LGPD analysis",
		expect: "plano 9.0, conformidade 9.0",
		record: model.ExperimentRecord{
			TestPlan:     "Plano de A/B com amostra de 2000 usuários por 4 semanas",
			PrivacyRisks: "Consentimento explícito, opt-out disponível, retenção de 90 dias, dados anonimizados",
		},
	},
	{
		name:   "C - mature proposal",
		expect: "score >= 85, fase 3",
		record: model.ExperimentRecord{
			Problem:      "Baixa adesão de jovens ao app de poupança digital",
			Hypothesis:   "Se enviarmos lembretes personalizados, então a adesão sobe, medido por conversão",
			KPI:          "taxa de conversão",
			Baseline:     "12%",
			Target:       "18%",
			TestPlan:     "Plano de A/B com amostra de 2000 usuários por 4 semanas",
			PrivacyRisks: "Consentimento explícito, opt-out disponível, retenção de 90 dias, dados anonimizados",
			ManagingUnit: "GEINO",
			Sponsor:      "Diretoria de Varejo",
			References:   "Estudo interno 2023 sobre lembretes push",
		},
	},
	{
		name:   "D - pilot with control cohort",
		expect: "TRL 6",
		record: model.ExperimentRecord{
			TestPlan:   "piloto com coorte de controle",
			References: "piloto com coorte de controle",
		},
	},
	{
		name:   "E - credit process automation",
		expect: "ODS 9 only",
		record: model.ExperimentRecord{
			Problem: "automação de processos de crédito",
		},
	},
}

func main() {
	fmt.Println("=== Rubric Demo ===")
	fmt.Println()

	engine := pipeline.NewEngine(nil, 0, nil)
	ctx := context.Background()

	for _, sc := range scenarios {
		fmt.Printf("Scenario %s\n", sc.name)
		fmt.Println(strings.Repeat("-", 60))

		result, err := engine.Evaluate(ctx, sc.record)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  evaluation failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("  Expected: %s\n", sc.expect)
		fmt.Printf("  Score:    %d/100\n", result.Score)
		fmt.Printf("  Fase:     %d (%s)\n", int(result.Phase), result.Phase)
		fmt.Printf("  TRL:      %d\n", result.MaturityLevel)
		fmt.Printf("  Parecer:  %s\n", result.Verdict)
		for _, c := range result.Breakdown {
			fmt.Printf("    %-28s %4.1f x%d  %s\n", c.Name, c.RawScore, c.Weight, c.Comment)
		}
		ids := make([]string, len(result.GoalTags))
		for i, tag := range result.GoalTags {
			ids[i] = fmt.Sprintf("%d (%s)", tag.ID, tag.Title)
		}
		fmt.Printf("  ODS:      %s\n", strings.Join(ids, ", "))
		fmt.Println()
	}
}
