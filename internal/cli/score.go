package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sandbox-validator/internal/pipeline"
	"github.com/ppiankov/sandbox-validator/internal/validate"
)

const (
	formatJSON = "json"
	formatMD   = "md"
	formatBoth = "both"
)

var (
	outputFormat string
	outputPath   string
	noFooter     bool
	noCache      bool
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Score one experiment proposal",
	Long: `Score evaluates a single experiment record (JSON or YAML, bare or wrapped
in {"experimento": {...}}) and prints the result:
- Six weighted rubric criteria and the 0-100 score
- Recommended phase and committee opinion
- Technology readiness level (TRL)
- Suggested sustainable development goals (ODS)

Example:
  sandbox-validator score proposta.json
  sandbox-validator score proposta.yaml --format md --output parecer.md`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&outputFormat, "format", "f", formatJSON, "output format (json, md)")
	scoreCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to a file instead of stdout")
	scoreCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	scoreCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	format := strings.ToLower(outputFormat)
	if format != formatJSON && format != formatMD {
		return fmt.Errorf("unsupported format %q (use json or md)", outputFormat)
	}

	record, err := pipeline.LoadRecord(args[0])
	if err != nil {
		printValidation(err)
		return err
	}

	engine := pipeline.NewEngineFromConfig(cfg, logger)
	result, err := engine.Evaluate(context.Background(), record)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", args[0], err)
	}

	renderer := pipeline.NewRenderer(!noFooter)
	if outputPath != "" {
		if err := renderer.WriteFile(outputPath, record.Subject(), result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Report written: %s\n", outputPath)
		return nil
	}

	if format == formatMD {
		return renderer.Markdown(os.Stdout, record.Subject(), result)
	}
	return renderer.JSON(os.Stdout, result)
}

// printValidation lists each invalid field on stderr.
func printValidation(err error) {
	var errs validate.Errors
	if !errors.As(err, &errs) {
		return
	}
	fmt.Fprintf(os.Stderr, "✗ Invalid experiment record:\n")
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "    %-24s %s (%s)\n", e.Field, e.Message, e.Rule)
	}
}
