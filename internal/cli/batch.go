package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/pipeline"
	"github.com/ppiankov/sandbox-validator/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchFormat  string
	batchRPS     float64
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Score many experiment proposals in parallel",
	Long: `Batch evaluates every record in a file concurrently:
- JSON array, JSON lines (.jsonl) or multi-document YAML
- Records are evaluated by a bounded worker pool
- One report per record is written to the output directory

Example:
  sandbox-validator batch propostas.jsonl
  sandbox-validator batch propostas.yaml --workers 8 --format both
  sandbox-validator batch propostas.json --rps 5 --timeout 2m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "workers", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./sandbox-reports", "output directory for reports")
	batchCmd.Flags().StringVar(&batchFormat, "format", formatJSON, "report format (json, md, both)")
	batchCmd.Flags().Float64Var(&batchRPS, "rps", 0, "evaluations per second across all workers (0 = unlimited)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	exts, err := reportExtensions(batchFormat)
	if err != nil {
		return err
	}

	items, err := pipeline.LoadItems(file)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Sandbox Validator Batch Evaluation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Records:      %d\n", len(items))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	engine := pipeline.NewEngineFromConfig(cfg, logger)
	start := time.Now()
	results := worker.NewBatchProcessor(engine, workers, batchRPS, workers).Process(ctx, items)
	elapsed := time.Since(start)

	renderer := pipeline.NewRenderer(!noFooter)
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "  ✗ %s\n      %v\n", r.Label, r.Error)
			continue
		}

		stem := filepath.Join(outputDir, pipeline.FileName(r.Label))
		for _, ext := range exts {
			if err := renderer.WriteFile(stem+ext, r.Label, *r.Result); err != nil {
				r.Error = err
				break
			}
		}
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "  ✗ %s\n      %v\n", r.Label, r.Error)
			continue
		}
		fmt.Fprintf(os.Stderr, "  ✓ ")
		renderer.Summary(os.Stderr, r.Label, *r.Result)
	}

	summary := worker.Summarize(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Summary\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:        %d\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Succeeded:    %d\n", summary.Succeeded)
	fmt.Fprintf(os.Stderr, "  Failed:       %d (%d invalid)\n", summary.Failed, summary.Invalid)
	for _, phase := range []model.Phase{model.PhaseInitial, model.PhasePilot, model.PhaseProduction} {
		fmt.Fprintf(os.Stderr, "  Fase %d:       %d (%s)\n", int(phase), summary.Phases[phase], phase)
	}
	fmt.Fprintf(os.Stderr, "  Duration:     %v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d records failed", summary.Failed, summary.Total)
	}
	return nil
}

func reportExtensions(format string) ([]string, error) {
	switch strings.ToLower(format) {
	case formatJSON:
		return []string{".json"}, nil
	case formatMD:
		return []string{".md"}, nil
	case formatBoth:
		return []string{".json", ".md"}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (use json, md or both)", format)
	}
}
