package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultSource is the reference page scraped when no sources are configured.
const DefaultSource = "https://en.wikipedia.org/wiki/Lionel_Messi"

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Ollama    OllamaConfig    `yaml:"ollama" mapstructure:"ollama"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LLMConfig selects the model that answers questions.
type LLMConfig struct {
	Provider    string   `yaml:"provider" mapstructure:"provider"`
	Model       string   `yaml:"model" mapstructure:"model"`
	MaxTokens   int      `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature *float64 `yaml:"temperature,omitempty" mapstructure:"temperature"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// GeminiConfig holds Gemini API credentials.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API credentials.
type AnthropicConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// OllamaConfig points at a local Ollama server.
type OllamaConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
}

// ScrapeConfig configures context retrieval.
type ScrapeConfig struct {
	Sources       []string `yaml:"sources" mapstructure:"sources"`
	TimeoutSecs   int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSecond float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// PricingConfig holds per-model pricing overrides.
type PricingConfig struct {
	Models []ModelPricing `yaml:"models" mapstructure:"models"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Name   string  `yaml:"name" mapstructure:"name"`
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MESSI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini.key", "MESSI_GEMINI_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind gemini key")
	}
	// No default: unset leaves each provider's own temperature.
	if err := v.BindEnv("llm.temperature"); err != nil {
		return nil, eris.Wrap(err, "config: bind llm temperature")
	}

	// Defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-pro")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout_secs", 0)
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("ollama.host", "")
	v.SetDefault("scrape.sources", []string{DefaultSource})
	v.SetDefault("scrape.timeout_secs", 0)
	v.SetDefault("scrape.rate_per_second", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs before it starts. Mode is
// "serve", "ask" or "context".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		errs = append(errs, c.validateLLM()...)
	case "ask":
		errs = append(errs, c.validateLLM()...)
	case "context":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Scrape.TimeoutSecs < 0 {
		errs = append(errs, "scrape.timeout_secs must be >= 0")
	}
	if c.Scrape.RatePerSecond < 0 {
		errs = append(errs, "scrape.rate_per_second must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateLLM() []string {
	var errs []string

	switch c.LLM.Provider {
	case "gemini":
		if c.Gemini.Key == "" {
			errs = append(errs, "gemini.key is required (set GEMINI_API_KEY)")
		}
	case "anthropic":
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
		if c.LLM.MaxTokens <= 0 {
			errs = append(errs, "llm.max_tokens must be > 0 for anthropic")
		}
	case "ollama":
	default:
		errs = append(errs, "llm.provider must be one of gemini, anthropic, ollama")
	}

	if c.LLM.Model == "" {
		errs = append(errs, "llm.model is required")
	}
	if c.LLM.MaxTokens < 0 {
		errs = append(errs, "llm.max_tokens must be >= 0")
	}
	if c.LLM.TimeoutSecs < 0 {
		errs = append(errs, "llm.timeout_secs must be >= 0")
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		errs = append(errs, "llm.temperature must be between 0 and 2")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
