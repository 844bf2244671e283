package stride_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride"
	"github.com/stridelabs/stride/domain/workout"
	"github.com/stridelabs/stride/infrastructure/provider"
)

type scriptedChat struct {
	content string
}

func (c scriptedChat) ChatCompletion(_ context.Context, _ provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	return provider.NewChatCompletionResponse(c.content, "stop", provider.Usage{}), nil
}

func (c scriptedChat) ChatCompletionStream(_ context.Context, _ provider.ChatCompletionRequest) (<-chan provider.StreamFragment, error) {
	out := make(chan provider.StreamFragment, 1)
	out <- provider.StreamFragment{Content: c.content}
	close(out)
	return out, nil
}

type unitEmbedder struct{}

func (unitEmbedder) Embed(_ context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	vecs := make([][]float64, len(req.Texts()))
	for i := range vecs {
		vecs[i] = []float64{1, 0}
	}
	return provider.NewEmbeddingResponse(vecs, provider.Usage{}), nil
}

func (e unitEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.Embed(ctx, provider.NewEmbeddingRequest([]string{text}))
	if err != nil {
		return nil, err
	}
	return resp.Embeddings()[0], nil
}

func TestNew_RequiresDatabase(t *testing.T) {
	_, err := stride.New(
		stride.WithTextProvider(scriptedChat{}),
		stride.WithEmbeddingProvider(unitEmbedder{}),
	)
	require.ErrorIs(t, err, stride.ErrNoDatabase)
}

func TestNew_RequiresProvider(t *testing.T) {
	_, err := stride.New(stride.WithSQLite(filepath.Join(t.TempDir(), "test.db")))
	require.ErrorIs(t, err, stride.ErrNoProvider)
}

func TestClient_RecordWorkoutEndToEnd(t *testing.T) {
	client, err := stride.New(
		stride.WithSQLite(filepath.Join(t.TempDir(), "test.db")),
		stride.WithTextProvider(scriptedChat{content: `{"summaryText":"A good run."}`}),
		stride.WithEmbeddingProvider(unitEmbedder{}),
		stride.WithSynchronousEvents(),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, client.Close()) }()

	ctx := context.Background()
	recorded, err := client.Workouts.Record(ctx,
		workout.NewWorkout("u1", "Morning run", "5k easy", nil, time.Now()))
	require.NoError(t, err)

	s, err := client.Workouts.SummaryByWorkout(ctx, recorded.ID())
	require.NoError(t, err)
	require.Equal(t, workout.StatusCompleted, s.Status())
	require.Equal(t, "A good run.", s.Text())
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	client, err := stride.New(
		stride.WithSQLite(filepath.Join(t.TempDir(), "test.db")),
		stride.WithTextProvider(scriptedChat{}),
		stride.WithEmbeddingProvider(unitEmbedder{}),
	)
	require.NoError(t, err)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}
