package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	Provider  ProviderConfig  `yaml:"provider" mapstructure:"provider"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Precedent PrecedentConfig `yaml:"precedent" mapstructure:"precedent"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	UploadDir   string   `yaml:"upload_dir" mapstructure:"upload_dir"`
	MaxUploadMB int64    `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// SessionConfig configures the session store backend.
type SessionConfig struct {
	Backend     string `yaml:"backend" mapstructure:"backend"` // "memory" or "postgres"
	TTLMinutes  int    `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ProviderConfig selects and bounds the LLM provider.
type ProviderConfig struct {
	Name          string  `yaml:"name" mapstructure:"name"` // "openai", "anthropic", "fixture"
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// OpenAIConfig holds OpenAI API settings. The embedding capability is always
// served from here regardless of which provider handles completions.
type OpenAIConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	ChatModel      string `yaml:"chat_model" mapstructure:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model" mapstructure:"embedding_model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// MatchConfig configures the matching score blend.
type MatchConfig struct {
	WeightAHyde        float64 `yaml:"weight_a_hyde" mapstructure:"weight_a_hyde"`
	WeightBHyde        float64 `yaml:"weight_b_hyde" mapstructure:"weight_b_hyde"`
	WeightDirect       float64 `yaml:"weight_direct" mapstructure:"weight_direct"`
	FallbackScore      int     `yaml:"fallback_score" mapstructure:"fallback_score"`
	FallbackSeed       int64   `yaml:"fallback_seed" mapstructure:"fallback_seed"`
	EmbeddingDims      int     `yaml:"embedding_dims" mapstructure:"embedding_dims"`
	MaxConcurrentCalls int     `yaml:"max_concurrent_calls" mapstructure:"max_concurrent_calls"`
}

// PrecedentConfig configures the precedent-case corpus.
type PrecedentConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path"`
	TopK   int    `yaml:"top_k" mapstructure:"top_k"`
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
	v.SetEnvPrefix("MATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_upload_mb", 16)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("provider.name", "openai")
	v.SetDefault("provider.timeout_secs", 60)
	v.SetDefault("provider.rate_per_second", 2)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.chat_model", "gpt-4o")
	v.SetDefault("openai.embedding_model", "text-embedding-ada-002")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("match.weight_a_hyde", 0.3)
	v.SetDefault("match.weight_b_hyde", 0.3)
	v.SetDefault("match.weight_direct", 0.4)
	v.SetDefault("match.fallback_score", 85)
	v.SetDefault("match.fallback_seed", 1)
	v.SetDefault("match.embedding_dims", 1536)
	v.SetDefault("match.max_concurrent_calls", 3)
	v.SetDefault("precedent.db_path", "precedents.db")
	v.SetDefault("precedent.top_k", 2)
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
