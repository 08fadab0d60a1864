package model

import "time"

// DefaultTicketBaseURL is used when no ticket base URL is configured.
const DefaultTicketBaseURL = "https://tickets.sandbox.caixa.gov.br"

// Config is the complete runtime configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Ticket      TicketConfig      `yaml:"ticket" mapstructure:"ticket"`
	KB          KBConfig          `yaml:"kb" mapstructure:"kb"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"` // 0 disables
	RateLimitBurst int           `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	RateLimitAllow []string      `yaml:"rate_limit_allow" mapstructure:"rate_limit_allow"` // Client IPs never rate limited
	TrustedProxies []string      `yaml:"trusted_proxies" mapstructure:"trusted_proxies"`
	LogFormat      string        `yaml:"log_format" mapstructure:"log_format"` // text or json
}

// TicketConfig configures the ticket collaborator.
type TicketConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	RegistryTTL time.Duration `yaml:"registry_ttl" mapstructure:"registry_ttl"`
}

// KBConfig configures the knowledge-base collaborator.
type KBConfig struct {
	DefaultTopK  int    `yaml:"default_top_k" mapstructure:"default_top_k"`
	SnippetsFile string `yaml:"snippets_file" mapstructure:"snippets_file"` // Optional extra snippets (YAML)
}

// CacheConfig configures evaluation result caching.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"` // Empty disables the disk layer
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch evaluation.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig configures optional executive-summary drafting.
// It never affects scoring.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, or empty
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// OutputConfig configures CLI output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxBodyBytes:   1 << 20,
			RateLimitRPS:   20,
			RateLimitBurst: 40,
			LogFormat:      "text",
		},
		Ticket: TicketConfig{
			BaseURL:     DefaultTicketBaseURL,
			RegistryTTL: 24 * time.Hour,
		},
		KB: KBConfig{
			DefaultTopK: KBDefaultTopK,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 400,
		},
	}
}
