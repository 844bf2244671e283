package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/stridelabs/stride/internal/log"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., EMBEDDING_ENDPOINT_BASE_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.stride
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/stride.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// EmbeddingEndpoint configures the embedding AI service.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`

	// ChatEndpoint configures the chat completion AI service.
	ChatEndpoint EndpointEnv `envconfig:"CHAT_ENDPOINT"`

	// RetrievalLimit is the number of similar summaries retrieved per coach question.
	// Env: RETRIEVAL_LIMIT (default: 5)
	RetrievalLimit int `envconfig:"RETRIEVAL_LIMIT" default:"5"`

	// AchievementsFile is the achievement definitions seed file.
	// Env: ACHIEVEMENTS_FILE (default: achievements.yaml)
	AchievementsFile string `envconfig:"ACHIEVEMENTS_FILE" default:"achievements.yaml"`
}

// EndpointEnv holds environment configuration for an AI endpoint.
type EndpointEnv struct {
	BaseURL        string `envconfig:"BASE_URL"`
	Model          string `envconfig:"MODEL"`
	APIKey         string `envconfig:"API_KEY"`
	TimeoutSeconds int    `envconfig:"TIMEOUT" default:"60"`
	MaxTokens      int    `envconfig:"MAX_TOKENS" default:"1024"`
}

// LoadFromEnv reads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Normalize fills in derived defaults that envconfig cannot express.
func (e EnvConfig) Normalize() EnvConfig {
	if e.DataDir == "" {
		e.DataDir = DefaultDataDir()
	}
	return e
}

// ToAppConfig converts environment config to an AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	opts := []AppConfigOption{
		WithHost(e.Host),
		WithPort(e.Port),
		WithDataDir(e.DataDir),
		WithDBURL(e.DBURL),
		WithLogLevel(e.LogLevel),
		WithLogFormat(parseLogFormat(e.LogFormat)),
		WithRetrievalLimit(e.RetrievalLimit),
		WithAchievementsFile(e.AchievementsFile),
	}

	if keys := splitKeys(e.APIKeys); len(keys) > 0 {
		opts = append(opts, WithAPIKeys(keys...))
	}

	if e.EmbeddingEndpoint.APIKey != "" {
		opts = append(opts, WithEmbeddingEndpoint(e.EmbeddingEndpoint.toEndpoint(DefaultEmbeddingModel)))
	}
	if e.ChatEndpoint.APIKey != "" {
		opts = append(opts, WithChatEndpoint(e.ChatEndpoint.toEndpoint(DefaultChatModel)))
	}

	return NewAppConfig().Apply(opts...)
}

func (e EndpointEnv) toEndpoint(defaultModel string) Endpoint {
	model := e.Model
	if model == "" {
		model = defaultModel
	}

	opts := []EndpointOption{
		WithBaseURL(e.BaseURL),
		WithModel(model),
		WithAPIKey(e.APIKey),
	}
	if e.TimeoutSeconds > 0 {
		opts = append(opts, WithTimeout(time.Duration(e.TimeoutSeconds)*time.Second))
	}
	if e.MaxTokens > 0 {
		opts = append(opts, WithMaxTokens(e.MaxTokens))
	}
	return NewEndpointWithOptions(opts...)
}

func parseLogFormat(s string) log.Format {
	if strings.EqualFold(s, string(log.FormatJSON)) {
		return log.FormatJSON
	}
	return log.FormatPretty
}

func splitKeys(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
