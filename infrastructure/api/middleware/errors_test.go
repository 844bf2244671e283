package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride/infrastructure/provider"
	"github.com/stridelabs/stride/internal/database"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(http.StatusNotFound, "resource not found", nil)
	require.Equal(t, http.StatusNotFound, err.Code())
	require.Equal(t, "resource not found", err.Message())
	require.Equal(t, "api error 404: resource not found", err.Error())

	cause := errors.New("row missing")
	wrapped := NewAPIError(http.StatusNotFound, "resource not found", cause)
	require.ErrorIs(t, wrapped, cause)
}

func TestAuthenticationError(t *testing.T) {
	err := NewAuthenticationError("missing key")
	require.Equal(t, "authentication failed: missing key", err.Error())
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestServerError(t *testing.T) {
	err := NewServerError(http.StatusBadGateway, "upstream down")
	require.Equal(t, http.StatusBadGateway, err.StatusCode())
	require.ErrorIs(t, err, ErrServer)
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"api error", NewAPIError(http.StatusBadRequest, "bad input", nil), http.StatusBadRequest},
		{"authentication", NewAuthenticationError("nope"), http.StatusUnauthorized},
		{"not found", fmt.Errorf("load workout: %w", database.ErrNotFound), http.StatusNotFound},
		{"rate limited", fmt.Errorf("ask coach: %w", provider.ErrRateLimited), http.StatusTooManyRequests},
		{"unavailable", fmt.Errorf("ask coach: %w", provider.ErrUnavailable), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			WriteError(rec, req, tt.err, nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotEmpty(t, body["error"])
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	WriteError(rec, req, errors.New("pq: connection refused"), nil)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusText(http.StatusInternalServerError), body["error"])
	require.NotContains(t, body["error"], "pq:")
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "w1"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "w1", body["id"])
}
