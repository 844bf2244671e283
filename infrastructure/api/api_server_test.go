package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride"
	"github.com/stridelabs/stride/infrastructure/api"
	"github.com/stridelabs/stride/infrastructure/provider"
)

type staticChat struct{}

func (staticChat) ChatCompletion(_ context.Context, _ provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	return provider.NewChatCompletionResponse(`{"summaryText":"done"}`, "stop", provider.Usage{}), nil
}

func (staticChat) ChatCompletionStream(_ context.Context, _ provider.ChatCompletionRequest) (<-chan provider.StreamFragment, error) {
	out := make(chan provider.StreamFragment)
	close(out)
	return out, nil
}

type staticEmbedder struct{}

func (staticEmbedder) Embed(_ context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	vecs := make([][]float64, len(req.Texts()))
	for i := range vecs {
		vecs[i] = []float64{1}
	}
	return provider.NewEmbeddingResponse(vecs, provider.Usage{}), nil
}

func (e staticEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.Embed(ctx, provider.NewEmbeddingRequest([]string{text}))
	if err != nil {
		return nil, err
	}
	return resp.Embeddings()[0], nil
}

func newServerClient(t *testing.T, extra ...stride.Option) *stride.Client {
	t.Helper()
	tmpDir := t.TempDir()
	opts := append([]stride.Option{
		stride.WithSQLite(filepath.Join(tmpDir, "test.db")),
		stride.WithDataDir(tmpDir),
		stride.WithTextProvider(staticChat{}),
		stride.WithEmbeddingProvider(staticEmbedder{}),
		stride.WithSynchronousEvents(),
	}, extra...)
	client, err := stride.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newMountedServer(t *testing.T, client *stride.Client) http.Handler {
	t.Helper()
	srv := api.NewAPIServer(client, nil)
	router := srv.Router()
	srv.MountRoutes()
	srv.RegisterHealth(router)
	return router
}

func TestAPIServer_Health(t *testing.T) {
	router := newMountedServer(t, newServerClient(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestAPIServer_RequiresOwnerHeader(t *testing.T) {
	router := newMountedServer(t, newServerClient(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/achievements/", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIServer_WriteProtection(t *testing.T) {
	client := newServerClient(t, stride.WithAPIKeys("secret"))
	router := newMountedServer(t, client)

	body := `{"title":"Leg day"}`

	// Mutating request without a key is rejected.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts/", strings.NewReader(body))
	req.Header.Set("X-Owner-ID", "u1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// The same request with the key passes.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/workouts/", strings.NewReader(body))
	req.Header.Set("X-Owner-ID", "u1")
	req.Header.Set("X-API-KEY", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// Reads stay open.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/achievements/", nil)
	req.Header.Set("X-Owner-ID", "u1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAPIServer_ProfileRoundTrip(t *testing.T) {
	router := newMountedServer(t, newServerClient(t))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/", strings.NewReader(`{"summary_text":"Runner"}`))
	req.Header.Set("X-Owner-ID", "u1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/profile/", nil)
	req.Header.Set("X-Owner-ID", "u1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Runner", body["summary_text"])
}
