package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sandbox-validator/internal/llm"
	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/pipeline"
	"github.com/ppiankov/sandbox-validator/internal/ticket"
)

var (
	ticketResult         string
	ticketSummary        string
	ticketClassification string
	ticketRecord         string
	ticketSubject        string
	ticketFormat         string

	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// ticketCmd represents the ticket command
var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Mint a ticket for an evaluated proposal",
	Long: `Ticket turns a saved evaluation result into a ticket request and mints it:
- The executive summary is drafted from the result (template or LLM)
- Next steps come from the criteria below their pass mark
- Score, phase, TRL and ODS are copied from the result unchanged

Example:
  sandbox-validator score proposta.json -o resultado.json
  sandbox-validator ticket --result resultado.json --record proposta.json
  sandbox-validator ticket --result resultado.json --format md > resumo.md
  sandbox-validator ticket --result resultado.json --llm --llm-provider ollama --llm-model llama3.2`,
	Args: cobra.NoArgs,
	RunE: runTicket,
}

func init() {
	rootCmd.AddCommand(ticketCmd)

	ticketCmd.Flags().StringVar(&ticketResult, "result", "", "evaluation result file (JSON or YAML)")
	ticketCmd.Flags().StringVar(&ticketSummary, "summary", "", "executive summary (default: drafted from the result)")
	ticketCmd.Flags().StringVar(&ticketClassification, "classification", string(model.ClassificationExperiment), "ticket classification (Reclamacao, Sugestao, Experimento)")
	ticketCmd.Flags().StringVar(&ticketRecord, "record", "", "experiment record file attached to the ticket")
	ticketCmd.Flags().StringVar(&ticketSubject, "subject", "", "subject used in the drafted summary (default: from --record)")
	ticketCmd.Flags().StringVarP(&ticketFormat, "format", "f", formatJSON, "output format (json: ticket receipt, md: drafted summary with the ticket id)")
	_ = ticketCmd.MarkFlagRequired("result")

	// LLM flags
	ticketCmd.Flags().BoolVar(&llmEnabled, "llm", false, "draft the executive summary with an LLM")
	ticketCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	ticketCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runTicket(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	format := strings.ToLower(ticketFormat)
	if format != formatJSON && format != formatMD {
		return fmt.Errorf("unsupported format %q (use json or md)", ticketFormat)
	}

	result, err := pipeline.LoadResult(ticketResult)
	if err != nil {
		return err
	}

	experiment := map[string]any{}
	subject := ticketSubject
	if ticketRecord != "" {
		record, err := pipeline.LoadRecord(ticketRecord)
		if err != nil {
			printValidation(err)
			return err
		}
		if experiment, err = recordMap(record); err != nil {
			return err
		}
		if subject == "" {
			subject = record.Subject()
		}
	}

	// LLM drafting is opt-in on the command line
	llmConfig := llm.ConfigFromModel(cfg.LLM)
	llmConfig.Provider = ""
	if llmEnabled {
		llmConfig.Provider = llmProvider
		if llmModel != "" {
			llmConfig.Model = llmModel
		}
	}
	summarizer, err := llm.NewSummarizer(llmConfig)
	if err != nil {
		return fmt.Errorf("configure LLM: %w", err)
	}

	draft, err := summarizer.Draft(ctx, subject, result)
	if err != nil {
		return err
	}
	for _, w := range draft.Warnings {
		fmt.Fprintf(os.Stderr, "  ⚠ %s\n", w)
	}

	summary := strings.TrimSpace(ticketSummary)
	if summary == "" {
		summary = draft.Summary
	} else {
		// A summary given on the command line is not LLM text
		draft.Summary, draft.Source, draft.Model = summary, llm.SourceTemplate, ""
	}
	score := result.Score
	req := model.TicketRequest{
		Classification:   model.Classification(ticketClassification),
		ExecutiveSummary: &summary,
		Score:            &score,
		Phase:            int(result.Phase),
		MaturityLevel:    result.MaturityLevel,
		GoalTags:         result.GoalTags,
		Opinion:          result.Verdict,
		NextSteps:        draft.NextSteps,
		Experiment:       experiment,
	}
	if req.GoalTags == nil {
		req.GoalTags = []model.GoalTag{}
	}
	if req.NextSteps == nil {
		req.NextSteps = []string{}
	}

	svc := ticket.NewService(cfg.Ticket, ticket.WithLogger(logger))
	t, err := svc.Create(ctx, req)
	if err != nil {
		printValidation(err)
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Ticket minted: %s\n", t.ID)
	return writeTicket(os.Stdout, format, t, draft)
}

// writeTicket prints the receipt as JSON, or the drafted summary as Markdown
// followed by the ticket reference.
func writeTicket(w io.Writer, format string, t model.Ticket, draft *llm.Draft) error {
	if format != formatMD {
		return pipeline.NewRenderer(false).JSON(w, t)
	}
	_, err := fmt.Fprintf(w, "%s\n---\n\nTicket: [%s](%s)\n", llm.RenderMarkdown(draft), t.ID, t.StatusURL)
	return err
}

// recordMap converts a record to the wire-named map carried by a ticket.
func recordMap(record model.ExperimentRecord) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return m, nil
}
