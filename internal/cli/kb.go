package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sandbox-validator/internal/kb"
	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/pipeline"
	"github.com/ppiankov/sandbox-validator/internal/validate"
)

var kbTopK int

// kbCmd represents the kb command
var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Query the sandbox knowledge base",
}

var kbSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search knowledge-base snippets",
	Long: `Search returns citable knowledge-base snippets whose title or text contains
any query term. When nothing matches, the first snippets are returned.

Example:
  sandbox-validator kb search lgpd
  sandbox-validator kb search "teste a/b" --top-k 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKBSearch,
}

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbSearchCmd)

	kbSearchCmd.Flags().IntVarP(&kbTopK, "top-k", "k", 0, "maximum number of snippets (default from config)")
}

func runKBSearch(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	topK := kbTopK
	if topK == 0 {
		topK = cfg.KB.DefaultTopK
	}
	query, err := validate.KBQuery(strings.Join(args, " "), topK)
	if err != nil {
		printValidation(err)
		return err
	}

	index, err := kb.NewIndexFromConfig(cfg.KB)
	if err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}

	hits, fallback := index.Search(query.Query, query.TopK)
	if fallback {
		fmt.Fprintf(os.Stderr, "No snippet matched %q, showing the first %d\n", query.Query, len(hits))
	}
	if hits == nil {
		hits = []model.KBHit{}
	}
	return pipeline.NewRenderer(false).JSON(os.Stdout, model.KBSearchResponse{Hits: hits})
}
