// Package service provides application layer services that orchestrate
// domain operations.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/stridelabs/stride/domain/coach"
	"github.com/stridelabs/stride/domain/profile"
	"github.com/stridelabs/stride/domain/vector"
	"github.com/stridelabs/stride/domain/workout"
	"github.com/stridelabs/stride/infrastructure/provider"
	"github.com/stridelabs/stride/internal/config"
)

// maxSuggestedNextSteps caps the suggestions kept from a model answer.
const maxSuggestedNextSteps = 3

// Coach answers user questions with retrieval over the user's own workout
// summaries.
type Coach struct {
	embedder       provider.Embedder
	chat           provider.TextGenerator
	vectors        vector.Store
	summaries      workout.SummaryStore
	profiles       profile.Store
	retrievalLimit int
	logger         *slog.Logger
}

// NewCoach creates a Coach service.
func NewCoach(
	embedder provider.Embedder,
	chat provider.TextGenerator,
	vectors vector.Store,
	summaries workout.SummaryStore,
	profiles profile.Store,
	retrievalLimit int,
	logger *slog.Logger,
) *Coach {
	if retrievalLimit <= 0 {
		retrievalLimit = config.DefaultRetrievalLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coach{
		embedder:       embedder,
		chat:           chat,
		vectors:        vectors,
		summaries:      summaries,
		profiles:       profiles,
		retrievalLimit: retrievalLimit,
		logger:         logger,
	}
}

// retrieved is one workout summary pulled in as answer context.
type retrieved struct {
	summary workout.Summary
}

// Ask returns a buffered answer to the user's question.
func (c *Coach) Ask(ctx context.Context, ownerID, question string) (coach.Answer, error) {
	summaries, profileContext, err := c.buildContext(ctx, ownerID, question)
	if err != nil {
		return coach.Answer{}, err
	}

	messages := provider.CoachMessages(profileContext, workoutContext(summaries), question)
	resp, err := c.chat.ChatCompletion(ctx, provider.NewChatCompletionRequest(messages, provider.WithJSONMode()))
	if err != nil {
		return coach.Answer{}, fmt.Errorf("coach answer: %w", err)
	}

	return c.shapeAnswer(resp.Content(), summaries), nil
}

// AskStream returns a streaming answer. Prose fragments arrive as message
// events; the metadata trailer, when the model produced a parseable one,
// arrives as a final metadata event. The channel closes at end of stream.
func (c *Coach) AskStream(ctx context.Context, ownerID, question string) (<-chan coach.StreamEvent, error) {
	summaries, profileContext, err := c.buildContext(ctx, ownerID, question)
	if err != nil {
		return nil, err
	}

	messages := provider.CoachStreamMessages(coach.MetadataDelimiter, profileContext, workoutContext(summaries), question)
	fragments, err := c.chat.ChatCompletionStream(ctx, provider.NewChatCompletionRequest(messages))
	if err != nil {
		return nil, fmt.Errorf("coach stream: %w", err)
	}

	out := make(chan coach.StreamEvent)
	go func() {
		defer close(out)
		demux := coach.NewDemultiplexer()
		for frag := range fragments {
			if frag.Err != nil {
				c.logger.Warn("coach stream interrupted", "error", frag.Err)
				return
			}
			if prose := demux.Write(frag.Content); prose != "" {
				if !emit(ctx, out, coach.StreamEvent{Type: coach.StreamEventMessage, Message: prose}) {
					return
				}
			}
		}

		rest, meta := demux.Flush()
		if rest != "" {
			if !emit(ctx, out, coach.StreamEvent{Type: coach.StreamEventMessage, Message: rest}) {
				return
			}
		}
		if meta != nil {
			meta.References = validReferences(meta.References, len(summaries))
			meta.SuggestedNextSteps = capSteps(meta.SuggestedNextSteps)
			emit(ctx, out, coach.StreamEvent{Type: coach.StreamEventMetadata, Metadata: meta})
		}
	}()
	return out, nil
}

func emit(ctx context.Context, out chan<- coach.StreamEvent, e coach.StreamEvent) bool {
	select {
	case out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// buildContext embeds the question, retrieves the nearest workout
// summaries and renders the profile context.
func (c *Coach) buildContext(ctx context.Context, ownerID, question string) ([]retrieved, string, error) {
	queryVec, err := c.embedder.EmbedOne(ctx, question)
	if err != nil {
		return nil, "", fmt.Errorf("embed question: %w", err)
	}

	matches, err := c.vectors.FindSimilar(ctx, queryVec, ownerID, c.retrievalLimit)
	if err != nil {
		return nil, "", fmt.Errorf("similarity search: %w", err)
	}

	summaries := c.resolveSummaries(ctx, matches)

	profileContext := profile.FallbackContext
	p, err := c.profiles.Get(ctx, ownerID)
	if err == nil {
		profileContext = profile.ContextText(p)
	}

	return summaries, profileContext, nil
}

// resolveSummaries loads the full summary for each workout_summary match
// concurrently. A failed resolution drops that match; rank order is kept.
func (c *Coach) resolveSummaries(ctx context.Context, matches []vector.Match) []retrieved {
	kept := make([]vector.Match, 0, len(matches))
	for _, m := range matches {
		if m.Record().ReferenceKind() == vector.ReferenceWorkoutSummary {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	resolved := make([]*workout.Summary, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range kept {
		i, m := i, m
		g.Go(func() error {
			s, err := c.summaries.FindByID(gctx, m.Record().ReferenceID())
			if err != nil {
				c.logger.Warn("dropping unresolvable summary reference",
					"summary_id", m.Record().ReferenceID(), "error", err)
				return nil
			}
			resolved[i] = &s
			return nil
		})
	}
	_ = g.Wait()

	result := make([]retrieved, 0, len(resolved))
	for _, s := range resolved {
		if s != nil {
			result = append(result, retrieved{summary: *s})
		}
	}
	return result
}

// workoutContext renders retrieved summaries as a numbered list, 1-based
// so the model can cite them.
func workoutContext(summaries []retrieved) string {
	if len(summaries) == 0 {
		return "No prior workouts recorded."
	}
	var b strings.Builder
	for i, r := range summaries {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1,
			r.summary.CreatedAt().Format("2006-01-02"), r.summary.Text())
	}
	return strings.TrimRight(b.String(), "\n")
}

// modelAnswer is the JSON shape the buffered coach prompt asks for.
type modelAnswer struct {
	Answer             string   `json:"answer"`
	SuggestedNextSteps []string `json:"suggestedNextSteps"`
	References         []int    `json:"references"`
}

// shapeAnswer parses the model's JSON answer and resolves its 1-based
// references. A non-JSON response degrades to plain text.
func (c *Coach) shapeAnswer(content string, summaries []retrieved) coach.Answer {
	var parsed modelAnswer
	if err := json.Unmarshal([]byte(content), &parsed); err != nil || parsed.Answer == "" {
		c.logger.Warn("coach answer was not valid JSON, returning raw text")
		return coach.Answer{Text: content}
	}

	refIdx := validReferences(parsed.References, len(summaries))
	references := make([]coach.Reference, 0, len(refIdx))
	for _, n := range refIdx {
		s := summaries[n-1].summary
		references = append(references, coach.Reference{
			ID:   s.ID(),
			Text: s.Text(),
			Date: s.CreatedAt(),
		})
	}

	answer := coach.Answer{
		Text:       parsed.Answer,
		References: references,
	}
	steps := capSteps(parsed.SuggestedNextSteps)
	if len(steps) > 0 || len(refIdx) > 0 {
		answer.Metadata = &coach.Metadata{
			SuggestedNextSteps: steps,
			References:         refIdx,
		}
	}
	return answer
}

// validReferences keeps 1-based indexes within [1, n], dropping the rest.
func validReferences(refs []int, n int) []int {
	result := make([]int, 0, len(refs))
	for _, r := range refs {
		if r >= 1 && r <= n {
			result = append(result, r)
		}
	}
	return result
}

func capSteps(steps []string) []string {
	if len(steps) > maxSuggestedNextSteps {
		return steps[:maxSuggestedNextSteps]
	}
	return steps
}

// IsProviderUnavailable reports whether the error chain came from the
// model provider being down or rate limited.
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, provider.ErrUnavailable) || errors.Is(err, provider.ErrRateLimited)
}
