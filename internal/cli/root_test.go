package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

func TestConfigKeys(t *testing.T) {
	keys := configKeys(reflect.TypeOf(model.Config{}), "")

	for _, want := range []string{
		"server.addr",
		"server.rate_limit_rps",
		"ticket.base_url",
		"kb.default_top_k",
		"cache.disk_dir",
		"llm.api_key",
		"output.verbose",
	} {
		if !slices.Contains(keys, want) {
			t.Errorf("Expected key %q in %v", want, keys)
		}
	}
	if slices.Contains(keys, "server") {
		t.Error("Expected only leaf keys, got section key \"server\"")
	}
}

func TestLoadConfig_Layers(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  addr: \":9090\"\n  read_timeout: 5s\nkb:\n  default_top_k: 2\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })

	t.Setenv("SANDBOX_KB_DEFAULT_TOP_K", "5")
	t.Setenv("SANDBOX_TICKET_BASE_URL", "")
	t.Setenv("TICKET_BASE_URL", "https://tickets.example.test")
	t.Setenv("SANDBOX_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	initConfig()
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected addr from file, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Expected read timeout 5s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.KB.DefaultTopK != 5 {
		t.Errorf("Expected env to override file top_k, got %d", cfg.KB.DefaultTopK)
	}
	if cfg.Ticket.BaseURL != "https://tickets.example.test" {
		t.Errorf("Expected legacy ticket base URL, got %q", cfg.Ticket.BaseURL)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("Expected API key from OPENAI_API_KEY, got %q", cfg.LLM.APIKey)
	}
	// Untouched keys keep their defaults
	if cfg.Concurrency.Workers != model.DefaultConfig().Concurrency.Workers {
		t.Errorf("Expected default workers, got %d", cfg.Concurrency.Workers)
	}
}

func TestLoadConfig_PrefixedTicketURLWins(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	prev := cfgFile
	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { cfgFile = prev })

	t.Setenv("SANDBOX_TICKET_BASE_URL", "https://new.example.test")
	t.Setenv("TICKET_BASE_URL", "https://legacy.example.test")

	initConfig()
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Ticket.BaseURL != "https://new.example.test" {
		t.Errorf("Expected prefixed ticket URL, got %q", cfg.Ticket.BaseURL)
	}
}

func TestReportExtensions(t *testing.T) {
	tests := []struct {
		format  string
		want    []string
		wantErr bool
	}{
		{"json", []string{".json"}, false},
		{"MD", []string{".md"}, false},
		{"both", []string{".json", ".md"}, false},
		{"pdf", nil, true},
	}

	for _, tt := range tests {
		got, err := reportExtensions(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: error = %v, wantErr %v", tt.format, err, tt.wantErr)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.format, tt.want, got)
		}
	}
}

func TestRecordMap(t *testing.T) {
	m, err := recordMap(model.ExperimentRecord{
		Problem: "Fila longa nas agências",
		KPI:     "tempo de espera",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if m["problema"] != "Fila longa nas agências" {
		t.Errorf("Expected wire name problema, got %v", m)
	}
	if m["kpi"] != "tempo de espera" {
		t.Errorf("Expected kpi, got %v", m["kpi"])
	}
	if _, ok := m["dependencias"]; ok {
		t.Error("Expected empty optional fields to be omitted")
	}
}
