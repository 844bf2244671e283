package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stridelabs/stride"
	"github.com/stridelabs/stride/infrastructure/api"
	apimiddleware "github.com/stridelabs/stride/infrastructure/api/middleware"
	"github.com/stridelabs/stride/infrastructure/provider"
	"github.com/stridelabs/stride/internal/config"
	"github.com/stridelabs/stride/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile     string
		host        string
		port        int
		corsOrigins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8080)
  DATA_DIR                     Data directory (default: .stride)
  DB_URL                       Database URL (default: sqlite:///{data_dir}/stride.db)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  API_KEYS                     Comma-separated list of valid API keys
  RETRIEVAL_LIMIT              Workout summaries retrieved per coach question (default: 5)
  ACHIEVEMENTS_FILE            Achievement definitions YAML (default: achievements.yaml)

  CHAT_ENDPOINT_*              Chat AI service configuration
    BASE_URL                   Base URL (e.g., https://api.openai.com/v1)
    MODEL                      Model identifier (e.g., gpt-4o-mini)
    API_KEY                    API key for authentication
    TIMEOUT                    Request timeout in seconds (default: 60)

  EMBEDDING_ENDPOINT_*         Embedding AI service configuration
    (same fields as CHAT_ENDPOINT; default model text-embedding-3-small)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port, corsOrigins)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", nil, "Browser origins allowed to call the API (repeatable)")

	return cmd
}

func runServe(envFile, host string, port int, corsOrigins []string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.NewLogger(cfg.LogFormat(), cfg.LogLevel())
	slogger := logger.Slog()

	opts, err := clientOptions(cfg, slogger)
	if err != nil {
		return err
	}

	slogger.Info("starting stride",
		slog.String("version", version),
		slog.String("addr", cfg.Addr()),
		slog.String("data_dir", cfg.DataDir()))

	client, err := stride.New(opts...)
	if err != nil {
		return fmt.Errorf("create stride client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close stride client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client, corsOrigins)
	router := apiServer.Router()

	// Custom middleware must be added before MountRoutes.
	router.Use(apimiddleware.Logging(slogger))
	apiServer.MountRoutes()
	apiServer.RegisterHealth(router)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"name":"stride","version":"%s"}`, version)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	server := api.NewServer(cfg.Addr(), slogger)
	server.Router().Mount("/", router)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		cancel()
		if err := server.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// clientOptions translates the app config into stride client options.
func clientOptions(cfg config.AppConfig, slogger *slog.Logger) ([]stride.Option, error) {
	opts := []stride.Option{
		stride.WithDataDir(cfg.DataDir()),
		stride.WithLogger(slogger),
	}

	dbURL := cfg.DBURL()
	switch {
	case dbURL == "" || isSQLite(dbURL):
		dbPath := cfg.DataDir() + "/stride.db"
		if isSQLite(dbURL) {
			dbPath = strings.TrimPrefix(dbURL, "sqlite:///")
		}
		opts = append(opts, stride.WithSQLite(dbPath))
	default:
		opts = append(opts, stride.WithPostgres(dbURL))
	}

	chatEndpoint := cfg.ChatEndpoint()
	if chatEndpoint == nil || !chatEndpoint.IsConfigured() {
		return nil, fmt.Errorf("chat endpoint not configured: set CHAT_ENDPOINT_BASE_URL and CHAT_ENDPOINT_API_KEY")
	}
	opts = append(opts, stride.WithTextProvider(provider.NewOpenAIProvider(
		chatEndpoint.APIKey(),
		provider.WithBaseURL(chatEndpoint.BaseURL()),
		provider.WithChatModel(chatEndpoint.Model()),
		provider.WithTimeout(chatEndpoint.Timeout()),
	)))

	embEndpoint := cfg.EmbeddingEndpoint()
	if embEndpoint == nil || !embEndpoint.IsConfigured() {
		return nil, fmt.Errorf("embedding endpoint not configured: set EMBEDDING_ENDPOINT_BASE_URL and EMBEDDING_ENDPOINT_API_KEY")
	}
	opts = append(opts, stride.WithEmbeddingProvider(provider.NewOpenAIProvider(
		embEndpoint.APIKey(),
		provider.WithBaseURL(embEndpoint.BaseURL()),
		provider.WithEmbeddingModel(embEndpoint.Model()),
		provider.WithTimeout(embEndpoint.Timeout()),
	)))

	if keys := cfg.APIKeys(); len(keys) > 0 {
		opts = append(opts, stride.WithAPIKeys(keys...))
	}
	if cfg.RetrievalLimit() > 0 {
		opts = append(opts, stride.WithRetrievalLimit(cfg.RetrievalLimit()))
	}
	if path := cfg.AchievementsFile(); path != "" {
		if _, err := os.Stat(path); err == nil {
			opts = append(opts, stride.WithAchievementSeedFile(path))
		} else {
			slogger.Warn("achievements file not found, skipping seed", slog.String("path", path))
		}
	}

	return opts, nil
}

// isSQLite checks if the database URL is for SQLite.
func isSQLite(url string) bool {
	return strings.HasPrefix(url, "sqlite:")
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
