package v1_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride"
	"github.com/stridelabs/stride/infrastructure/api/middleware"
	v1 "github.com/stridelabs/stride/infrastructure/api/v1"
	"github.com/stridelabs/stride/infrastructure/api/v1/dto"
	"github.com/stridelabs/stride/infrastructure/provider"
)

// fakeChat returns queued responses in order, holding the last one as
// fallback. Stream calls replay the configured fragments.
type fakeChat struct {
	responses []string
	fragments []string
}

func (f *fakeChat) ChatCompletion(_ context.Context, _ provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	content := "ok"
	if len(f.responses) > 0 {
		content = f.responses[0]
		if len(f.responses) > 1 {
			f.responses = f.responses[1:]
		}
	}
	return provider.NewChatCompletionResponse(content, "stop", provider.Usage{}), nil
}

func (f *fakeChat) ChatCompletionStream(_ context.Context, _ provider.ChatCompletionRequest) (<-chan provider.StreamFragment, error) {
	out := make(chan provider.StreamFragment, len(f.fragments))
	for _, frag := range f.fragments {
		out <- provider.StreamFragment{Content: frag}
	}
	close(out)
	return out, nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	vecs := make([][]float64, len(req.Texts()))
	for i := range vecs {
		vecs[i] = []float64{1, 0, 0}
	}
	return provider.NewEmbeddingResponse(vecs, provider.Usage{}), nil
}

func (f fakeEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	resp, err := f.Embed(ctx, provider.NewEmbeddingRequest([]string{text}))
	if err != nil {
		return nil, err
	}
	return resp.Embeddings()[0], nil
}

func newTestClient(t *testing.T, chat *fakeChat, extra ...stride.Option) *stride.Client {
	t.Helper()
	tmpDir := t.TempDir()
	opts := append([]stride.Option{
		stride.WithSQLite(filepath.Join(tmpDir, "test.db")),
		stride.WithDataDir(tmpDir),
		stride.WithTextProvider(chat),
		stride.WithEmbeddingProvider(fakeEmbedder{}),
		stride.WithSynchronousEvents(),
	}, extra...)
	client, err := stride.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// serve mounts the routes behind the owner middleware, the way the API
// server does.
func serve(routes chi.Router, req *http.Request, ownerID string) *httptest.ResponseRecorder {
	req.Header.Set("X-Owner-ID", ownerID)
	root := chi.NewRouter()
	root.Mount("/", middleware.RequireOwner(routes))
	w := httptest.NewRecorder()
	root.ServeHTTP(w, req)
	return w
}

func TestWorkoutsRouter_RecordAndSummary(t *testing.T) {
	chat := &fakeChat{responses: []string{
		`{"summaryText":"Solid leg session.","facts":{"volume":"high"}}`,
	}}
	client := newTestClient(t, chat)
	routes := v1.NewWorkoutsRouter(client).Routes()

	body := strings.NewReader(`{"title":"Leg day","description":"Squats and lunges"}`)
	w := serve(routes, httptest.NewRequest(http.MethodPost, "/", body), "u1")
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.WorkoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Leg day", created.Title)

	// Synchronous dispatch means the summary already exists.
	w = serve(routes, httptest.NewRequest(http.MethodGet, "/"+created.ID+"/summary", nil), "u1")
	require.Equal(t, http.StatusOK, w.Code)

	var summary dto.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Equal(t, "completed", summary.Status)
	require.Equal(t, "Solid leg session.", summary.Text)
	require.Equal(t, "high", summary.Facts.Volume)
}

func TestWorkoutsRouter_Record_MissingTitle(t *testing.T) {
	client := newTestClient(t, &fakeChat{})
	routes := v1.NewWorkoutsRouter(client).Routes()

	w := serve(routes, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)), "u1")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkoutsRouter_Record_MissingOwner(t *testing.T) {
	client := newTestClient(t, &fakeChat{})
	routes := v1.NewWorkoutsRouter(client).Routes()

	root := chi.NewRouter()
	root.Mount("/", middleware.RequireOwner(routes))
	w := httptest.NewRecorder()
	root.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x"}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkoutsRouter_Summary_NotFound(t *testing.T) {
	client := newTestClient(t, &fakeChat{})
	routes := v1.NewWorkoutsRouter(client).Routes()

	w := serve(routes, httptest.NewRequest(http.MethodGet, "/missing/summary", nil), "u1")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoachRouter_Ask(t *testing.T) {
	chat := &fakeChat{responses: []string{
		`{"answer":"Keep your volume steady.","suggestedNextSteps":["Add a deload week"],"references":[]}`,
	}}
	client := newTestClient(t, chat)
	routes := v1.NewCoachRouter(client).Routes()

	body := strings.NewReader(`{"question":"How is my training going?"}`)
	w := serve(routes, httptest.NewRequest(http.MethodPost, "/ask", body), "u1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Keep your volume steady.", resp.Answer)
	require.Equal(t, []string{"Add a deload week"}, resp.SuggestedNextSteps)
}

func TestCoachRouter_Ask_MissingQuestion(t *testing.T) {
	client := newTestClient(t, &fakeChat{})
	routes := v1.NewCoachRouter(client).Routes()

	w := serve(routes, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{}`)), "u1")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCoachRouter_AskStream(t *testing.T) {
	chat := &fakeChat{fragments: []string{
		"Keep up the go", "od work!", "|||METADATA|||", `{"suggested_next_steps":["Stretch more"]}`,
	}}
	client := newTestClient(t, chat)
	routes := v1.NewCoachRouter(client).Routes()

	body := strings.NewReader(`{"question":"Any advice?"}`)
	w := serve(routes, httptest.NewRequest(http.MethodPost, "/ask/stream", body), "u1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	var prose strings.Builder
	var sawMetadata, sawDone bool
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			sawDone = true
			continue
		}
		var msg dto.StreamMessage
		require.NoError(t, json.Unmarshal([]byte(payload), &msg))
		switch msg.Type {
		case "message":
			s, ok := msg.Data.(string)
			require.True(t, ok)
			prose.WriteString(s)
		case "metadata":
			sawMetadata = true
		}
	}
	require.Equal(t, "Keep up the good work!", prose.String())
	require.True(t, sawMetadata)
	require.True(t, sawDone)
}

func TestProfileRouter_UpdateAndGet(t *testing.T) {
	client := newTestClient(t, &fakeChat{})
	routes := v1.NewProfileRouter(client).Routes()

	body := strings.NewReader(`{"summary_text":"Intermediate lifter","biometrics":{"weightKg":80}}`)
	w := serve(routes, httptest.NewRequest(http.MethodPut, "/", body), "u1")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(routes, httptest.NewRequest(http.MethodGet, "/", nil), "u1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "u1", resp.OwnerID)
	require.Equal(t, "Intermediate lifter", resp.SummaryText)
	require.Equal(t, int64(1), resp.Version)
	require.Equal(t, int64(1), resp.Level)
}

func TestProfileRouter_Get_NotFound(t *testing.T) {
	client := newTestClient(t, &fakeChat{})
	routes := v1.NewProfileRouter(client).Routes()

	w := serve(routes, httptest.NewRequest(http.MethodGet, "/", nil), "nobody")
	require.Equal(t, http.StatusNotFound, w.Code)
}

const testSeedYAML = `achievements:
  - name: First Steps
    description: Complete your first workouts
    category: consistency
    type: cumulative
    icon: footprints
    xpReward: 100
    tiers:
      - level: bronze
        threshold: 1
      - level: silver
        threshold: 10
`

func TestAchievementsRouter_ListAndProgress(t *testing.T) {
	seedPath := filepath.Join(t.TempDir(), "achievements.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(testSeedYAML), 0o644))

	chat := &fakeChat{responses: []string{
		`{"summaryText":"First one done."}`,
		"Congrats!",
	}}
	client := newTestClient(t, chat, stride.WithAchievementSeedFile(seedPath))

	routes := v1.NewAchievementsRouter(client).Routes()

	w := serve(routes, httptest.NewRequest(http.MethodGet, "/", nil), "u1")
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.AchievementListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	require.Equal(t, "First Steps", list.Data[0].Name)
	require.Len(t, list.Data[0].Tiers, 2)

	// Record a workout to generate progress.
	workoutRoutes := v1.NewWorkoutsRouter(client).Routes()
	body := strings.NewReader(`{"title":"First ever"}`)
	w = serve(workoutRoutes, httptest.NewRequest(http.MethodPost, "/", body), "u1")
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(routes, httptest.NewRequest(http.MethodGet, "/progress", nil), "u1")
	require.Equal(t, http.StatusOK, w.Code)

	var progress dto.ProgressListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &progress))
	require.Len(t, progress.Data, 1)
	require.Equal(t, "bronze", progress.Data[0].CurrentTier)
	require.Equal(t, int64(1), progress.Data[0].Value)
	require.Len(t, progress.Data[0].History, 1)
}

func TestNotificationsRouter_Stream_ClosesOnDisconnect(t *testing.T) {
	client := newTestClient(t, &fakeChat{})
	routes := v1.NewNotificationsRouter(client).Routes()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- serve(routes, req, "u1")
	}()
	cancel()

	select {
	case w := <-done:
		require.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	case <-time.After(5 * time.Second):
		t.Fatal("stream handler did not return after disconnect")
	}
}
