package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride/domain/event"
	"github.com/stridelabs/stride/infrastructure/persistence"
	"github.com/stridelabs/stride/infrastructure/provider"
	"github.com/stridelabs/stride/internal/database"
)

// testEnv wires sqlite-backed stores, fake providers and a synchronous
// event bus.
type testEnv struct {
	db       database.Database
	bus      *event.Bus
	embedder *fakeEmbedder
	chat     *fakeChat

	workouts     *persistence.WorkoutStore
	summaries    *persistence.SummaryStore
	profiles     *persistence.ProfileStore
	vectors      *persistence.EmbeddingStore
	achievements *persistence.AchievementStore
	progress     *persistence.ProgressStore
	users        *persistence.UserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDatabase(context.Background(), "sqlite:///"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	return &testEnv{
		db:           db,
		bus:          event.NewBus(event.WithSynchronousDispatch()),
		embedder:     &fakeEmbedder{vectors: map[string][]float64{}},
		chat:         &fakeChat{},
		workouts:     persistence.NewWorkoutStore(db),
		summaries:    persistence.NewSummaryStore(db),
		profiles:     persistence.NewProfileStore(db),
		vectors:      persistence.NewEmbeddingStore(db),
		achievements: persistence.NewAchievementStore(db),
		progress:     persistence.NewProgressStore(db),
		users:        persistence.NewUserStore(db),
	}
}

// recordEvents captures every event published on the bus.
func recordEvents(bus *event.Bus) *eventRecorder {
	r := &eventRecorder{}
	bus.SubscribeAll(func(_ context.Context, e event.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	})
	return r
}

type eventRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *eventRecorder) ofType(t event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// fakeEmbedder returns canned vectors by text, defaulting to a unit
// vector.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	err     error
}

func (f *fakeEmbedder) set(text string, vec []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vectors[text] = vec
}

func (f *fakeEmbedder) EmbedOne(_ context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float64{1, 0, 0}, nil
}

func (f *fakeEmbedder) Embed(ctx context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	texts := req.Texts()
	embeddings := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := f.EmbedOne(ctx, text)
		if err != nil {
			return provider.EmbeddingResponse{}, err
		}
		embeddings[i] = vec
	}
	return provider.NewEmbeddingResponse(embeddings, provider.NewUsage(0, 0, 0)), nil
}

var _ provider.Embedder = (*fakeEmbedder)(nil)

// fakeChat pops queued responses in order. An empty queue returns the
// fallback response.
type fakeChat struct {
	mu        sync.Mutex
	responses []string
	fallback  string
	err       error
	stream    []string
	requests  []provider.ChatCompletionRequest
}

func (f *fakeChat) queue(responses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, responses...)
}

func (f *fakeChat) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return provider.ChatCompletionResponse{}, f.err
	}
	content := f.fallback
	if len(f.responses) > 0 {
		content = f.responses[0]
		f.responses = f.responses[1:]
	}
	return provider.NewChatCompletionResponse(content, "stop", provider.NewUsage(0, 0, 0)), nil
}

func (f *fakeChat) ChatCompletionStream(_ context.Context, req provider.ChatCompletionRequest) (<-chan provider.StreamFragment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	out := make(chan provider.StreamFragment, len(f.stream))
	for _, frag := range f.stream {
		out <- provider.StreamFragment{Content: frag}
	}
	close(out)
	return out, nil
}

var _ provider.TextGenerator = (*fakeChat)(nil)
