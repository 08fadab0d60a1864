package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

var initForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the settings file",
	Long: `Settings are merged from four places. A flag beats a SANDBOX_* variable,
which beats the YAML file, which beats the built-in value. TICKET_BASE_URL,
OPENAI_API_KEY and OLLAMA_BASE_URL are also honoured.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged settings as YAML",
	Long: `Show writes the merged settings to stdout as YAML, ready to be saved as a
settings file. Where each value came from is reported on stderr. The LLM key
is left out of the YAML.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		writeSources(os.Stderr, viper.ConfigFileUsed(), envOverrides(), cfg)

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a settings file with the built-in values",
	Long: `Init writes every setting with its built-in value, so the file documents
what can be tuned. The path defaults to ~/.sandbox-validator/config.yaml.

Example:
  sandbox-validator config init
  sandbox-validator config init ./sandbox.yaml --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home directory: %w", err)
			}
			path = filepath.Join(home, ".sandbox-validator", "config.yaml")
		}

		if err := writeDefaultConfig(path, initForce); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Settings written: %s\n", path)
		fmt.Fprintf(os.Stderr, "  Pass it with --config %s, or edit it in place\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
}

// envOverrides lists the SANDBOX_* variables currently set for a setting.
func envOverrides() []string {
	var names []string
	for _, key := range configKeys(reflect.TypeOf(model.Config{}), "") {
		name := "SANDBOX_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := os.LookupEnv(name); ok {
			names = append(names, name)
		}
	}
	return names
}

func writeSources(w io.Writer, file string, env []string, cfg *model.Config) {
	if file == "" {
		file = "none, built-in values"
	}
	fmt.Fprintf(w, "# file: %s\n", file)
	if len(env) == 0 {
		fmt.Fprintf(w, "# env:  none\n")
	} else {
		fmt.Fprintf(w, "# env:  %s\n", strings.Join(env, ", "))
	}
	key := "missing"
	if cfg.LLM.APIKey != "" {
		key = "present"
	}
	fmt.Fprintf(w, "# llm key: %s\n", key)
}

// writeDefaultConfig saves the built-in settings to path, creating parent
// directories. An existing file is kept unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	body, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	header := "# sandbox-validator settings. Any key can be overridden by SANDBOX_<SECTION>_<KEY>.\n" +
		"# Keep OPENAI_API_KEY in the environment; it is never read from this file.\n\n"

	if err := os.WriteFile(path, append([]byte(header), body...), 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
