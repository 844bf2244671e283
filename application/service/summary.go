package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stridelabs/stride/domain/event"
	"github.com/stridelabs/stride/domain/profile"
	"github.com/stridelabs/stride/domain/vector"
	"github.com/stridelabs/stride/domain/workout"
	"github.com/stridelabs/stride/infrastructure/provider"
	"github.com/stridelabs/stride/internal/database"
)

// Summaries generates AI workout summaries. It reacts to WorkoutCreated
// events: create a pending summary, generate content, index the result
// for retrieval and publish SummaryCompleted. Failures after the
// completed transition are logged, not fatal; cross-store consistency is
// best effort.
type Summaries struct {
	workouts  workout.Store
	summaries workout.SummaryStore
	profiles  profile.Store
	vectors   vector.Store
	embedder  provider.Embedder
	chat      provider.TextGenerator
	bus       event.Publisher
	logger    *slog.Logger
}

// NewSummaries creates a Summaries service.
func NewSummaries(
	workouts workout.Store,
	summaries workout.SummaryStore,
	profiles profile.Store,
	vectors vector.Store,
	embedder provider.Embedder,
	chat provider.TextGenerator,
	bus event.Publisher,
	logger *slog.Logger,
) *Summaries {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summaries{
		workouts:  workouts,
		summaries: summaries,
		profiles:  profiles,
		vectors:   vectors,
		embedder:  embedder,
		chat:      chat,
		bus:       bus,
		logger:    logger,
	}
}

// Register subscribes the service to WorkoutCreated events.
func (s *Summaries) Register(bus *event.Bus) event.UnsubscribeFunc {
	return bus.Subscribe(event.TypeWorkoutCreated, func(ctx context.Context, e event.Event) {
		created, ok := e.(event.WorkoutCreated)
		if !ok {
			return
		}
		if err := s.HandleWorkoutCreated(ctx, created); err != nil {
			s.logger.Error("workout summary pipeline failed",
				"workout_id", created.WorkoutID, "error", err)
		}
	})
}

// HandleWorkoutCreated runs the summary pipeline for one workout.
func (s *Summaries) HandleWorkoutCreated(ctx context.Context, e event.WorkoutCreated) error {
	w, err := s.workouts.FindByID(ctx, e.WorkoutID)
	if err != nil {
		return fmt.Errorf("load workout: %w", err)
	}

	pending, err := s.summaries.Create(ctx, w.ID(), w.OwnerID())
	if err != nil {
		return fmt.Errorf("create pending summary: %w", err)
	}

	text, facts, err := s.generate(ctx, w)
	if err != nil {
		// Generation failure is terminal for this summary: no downstream
		// events fire for failed summaries.
		s.logger.Warn("summary generation failed", "workout_id", w.ID(), "error", err)
		if _, markErr := s.summaries.MarkFailed(ctx, pending.ID()); markErr != nil {
			s.logger.Error("mark summary failed", "summary_id", pending.ID(), "error", markErr)
		}
		return nil
	}

	completed, err := s.summaries.MarkCompleted(ctx, pending.ID(), text, facts)
	if err != nil {
		return fmt.Errorf("mark summary completed: %w", err)
	}

	s.updateProfile(ctx, completed)
	s.indexSummary(ctx, completed)

	s.bus.Publish(ctx, event.SummaryCompleted{
		OwnerID:    completed.OwnerID(),
		WorkoutID:  completed.WorkoutID(),
		SummaryID:  completed.ID(),
		OccurredAt: time.Now(),
	})
	return nil
}

// generatedSummary is the JSON shape the summary prompt asks for.
type generatedSummary struct {
	SummaryText string        `json:"summaryText"`
	Facts       workout.Facts `json:"facts"`
}

// generate calls the model and parses its structured response. Unknown
// fact keys land in Facts.Extra rather than being trusted as typed data.
func (s *Summaries) generate(ctx context.Context, w workout.Workout) (string, workout.Facts, error) {
	details, err := json.Marshal(w.Exercises())
	if err != nil {
		return "", workout.Facts{}, fmt.Errorf("encode exercises: %w", err)
	}

	messages := provider.SummaryMessages(w.Title(), w.Description(), string(details))
	resp, err := s.chat.ChatCompletion(ctx, provider.NewChatCompletionRequest(messages, provider.WithJSONMode()))
	if err != nil {
		return "", workout.Facts{}, err
	}

	var parsed generatedSummary
	if err := json.Unmarshal([]byte(resp.Content()), &parsed); err != nil {
		return "", workout.Facts{}, fmt.Errorf("parse summary response: %w", err)
	}
	if parsed.SummaryText == "" {
		return "", workout.Facts{}, errors.New("summary response missing summaryText")
	}

	// Collect keys the typed struct does not know about.
	var rawFacts map[string]json.RawMessage
	var outer map[string]json.RawMessage
	if err := json.Unmarshal([]byte(resp.Content()), &outer); err == nil {
		if raw, ok := outer["facts"]; ok {
			_ = json.Unmarshal(raw, &rawFacts)
		}
	}
	known := map[string]struct{}{
		"volume": {}, "intensity": {}, "focusPoints": {}, "calories": {}, "durationMinutes": {},
	}
	for key, raw := range rawFacts {
		if _, ok := known[key]; ok {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			if parsed.Facts.Extra == nil {
				parsed.Facts.Extra = make(map[string]any)
			}
			parsed.Facts.Extra[key] = v
		}
	}

	return parsed.SummaryText, parsed.Facts, nil
}

// updateProfile upserts the owner's profile with the latest workout
// facts, bumping the profile version.
func (s *Summaries) updateProfile(ctx context.Context, completed workout.Summary) {
	existing, err := s.profiles.Get(ctx, completed.OwnerID())
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		s.logger.Warn("load profile for update", "owner_id", completed.OwnerID(), "error", err)
		return
	}

	summaryJSON := existing.SummaryJSON()
	if summaryJSON == nil {
		summaryJSON = make(map[string]any)
	}
	summaryJSON["lastWorkoutSummary"] = completed.Text()
	if !completed.Facts().IsZero() {
		summaryJSON["lastWorkoutFacts"] = completed.Facts()
	}

	updated := profile.NewProfile(
		completed.OwnerID(),
		existing.SummaryText(),
		summaryJSON,
		existing.Biometrics(),
	)
	if _, err := s.profiles.Upsert(ctx, updated); err != nil {
		s.logger.Warn("profile upsert failed", "owner_id", completed.OwnerID(), "error", err)
	}
}

// indexSummary embeds the summary text and stores the vector, replacing
// any previous vector for the same summary.
func (s *Summaries) indexSummary(ctx context.Context, completed workout.Summary) {
	vec, err := s.embedder.EmbedOne(ctx, completed.Text())
	if err != nil {
		s.logger.Warn("embed summary failed", "summary_id", completed.ID(), "error", err)
		return
	}

	_, err = s.vectors.Replace(ctx, vector.ReferenceWorkoutSummary, completed.ID(), vec, completed.Text())
	if errors.Is(err, database.ErrNotFound) {
		_, err = s.vectors.Put(ctx, vector.NewRecord(
			completed.OwnerID(), vector.ReferenceWorkoutSummary, completed.ID(), vec, completed.Text(),
		))
	}
	if err != nil {
		s.logger.Warn("index summary failed", "summary_id", completed.ID(), "error", err)
	}
}
