// Package stride provides a library for AI-assisted fitness tracking.
//
// Stride records workouts, generates LLM summaries of them, answers
// coaching questions with retrieval over the user's own workout history,
// and tracks tiered achievements with XP rewards.
//
// Basic usage:
//
//	client, err := stride.New(
//	    stride.WithSQLite(".stride/stride.db"),
//	    stride.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Record a workout; summary generation and achievement checks run
//	// off the event bus.
//	w, err := client.Workouts.Record(ctx, workout.NewWorkout(ownerID, "Leg day", "", nil, time.Now()))
//
//	// Ask the coach a question grounded in past workouts.
//	answer, err := client.Coach.Ask(ctx, ownerID, "How is my squat progressing?")
package stride

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/stridelabs/stride/application/service"
	"github.com/stridelabs/stride/domain/event"
	"github.com/stridelabs/stride/infrastructure/persistence"
	"github.com/stridelabs/stride/internal/database"
)

// ErrNoDatabase is returned by New when no database option was given.
var ErrNoDatabase = errors.New("no database configured: use WithSQLite or WithPostgres")

// ErrNoProvider is returned by New when no AI provider was configured.
var ErrNoProvider = errors.New("no AI provider configured: use WithOpenAI or WithTextProvider/WithEmbeddingProvider")

// Client is the main entry point for the stride library.
//
// Access resources via struct fields:
//
//	client.Workouts.Record(ctx, w)
//	client.Coach.Ask(ctx, ownerID, question)
//	client.Achievements.ProgressFor(ctx, ownerID)
type Client struct {
	Coach         *service.Coach
	Workouts      *service.Workouts
	Summaries     *service.Summaries
	Achievements  *service.Achievements
	Users         *service.Users
	Profiles      *service.Profiles
	Notifications *service.Notifications

	db           database.Database
	bus          *event.Bus
	unsubscribes []event.UnsubscribeFunc

	logger  *slog.Logger
	dataDir string
	apiKeys []string
	closed  atomic.Bool
}

// New creates a Client with the given options. Event handlers (summary
// generation, achievement advancement, notifications) are registered on
// the internal bus before New returns.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.database == databaseUnset {
		return nil, ErrNoDatabase
	}
	if cfg.chat == nil || cfg.embedder == nil {
		return nil, ErrNoProvider
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.poolMaxOpen > 0 {
		if err := db.ConfigurePool(cfg.poolMaxOpen, cfg.poolMaxIdle, cfg.poolMaxLifetime); err != nil {
			return nil, fmt.Errorf("configure pool: %w", err)
		}
	}
	if err := persistence.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	workoutStore := persistence.NewWorkoutStore(db)
	summaryStore := persistence.NewSummaryStore(db)
	embeddingStore := persistence.NewEmbeddingStore(db)
	profileStore := persistence.NewProfileStore(db)
	achievementStore := persistence.NewAchievementStore(db)
	progressStore := persistence.NewProgressStore(db)
	userStore := persistence.NewUserStore(db)

	if cfg.seedFile != "" {
		defs, err := persistence.LoadSeedFile(cfg.seedFile)
		if err != nil {
			return nil, fmt.Errorf("load achievement seeds: %w", err)
		}
		if err := achievementStore.Seed(ctx, defs); err != nil {
			return nil, fmt.Errorf("seed achievements: %w", err)
		}
	}

	var busOpts []event.BusOption
	if cfg.synchronousBus {
		busOpts = append(busOpts, event.WithSynchronousDispatch())
	}
	bus := event.NewBus(busOpts...)

	users := service.NewUsers(userStore, bus, logger)
	workouts := service.NewWorkouts(workoutStore, summaryStore, userStore, bus, logger)
	summaries := service.NewSummaries(workoutStore, summaryStore, profileStore, embeddingStore, cfg.embedder, cfg.chat, bus, logger)
	achievements := service.NewAchievements(achievementStore, progressStore, users, cfg.chat, bus, logger)
	coachSvc := service.NewCoach(cfg.embedder, cfg.chat, embeddingStore, summaryStore, profileStore, cfg.retrievalLimit, logger)
	profiles := service.NewProfiles(profileStore, progressStore, userStore, logger)
	notifications := service.NewNotifications(logger)

	client := &Client{
		Coach:         coachSvc,
		Workouts:      workouts,
		Summaries:     summaries,
		Achievements:  achievements,
		Users:         users,
		Profiles:      profiles,
		Notifications: notifications,
		db:            db,
		bus:           bus,
		logger:        logger,
		dataDir:       cfg.dataDir,
		apiKeys:       cfg.apiKeys,
	}

	client.unsubscribes = append(client.unsubscribes, summaries.Register(bus))
	client.unsubscribes = append(client.unsubscribes, achievements.Register(bus))
	client.unsubscribes = append(client.unsubscribes, notifications.Register(bus)...)

	return client, nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Bus returns the event bus for custom subscriptions.
func (c *Client) Bus() *event.Bus {
	return c.bus
}

// APIKeys returns the configured write-protection keys.
func (c *Client) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// DataDir returns the configured data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

// Close waits for in-flight event deliveries and closes the database.
// It is safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, unsub := range c.unsubscribes {
		unsub()
	}
	c.bus.Wait()
	return c.db.Close()
}
