// Package v1 provides the v1 API routes.
package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stridelabs/stride/domain/achievement"
	"github.com/stridelabs/stride/domain/workout"
	"github.com/stridelabs/stride/infrastructure/api/middleware"
	"github.com/stridelabs/stride/infrastructure/api/v1/dto"
)

// decodeBody parses a JSON request body into v, returning a 400 APIError
// on malformed input.
func decodeBody(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err)
	}
	return nil
}

// sseFlusher prepares w for server-sent events. It returns a 500
// ServerError when the underlying writer cannot stream.
func sseFlusher(w http.ResponseWriter) (http.Flusher, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, middleware.NewServerError(http.StatusInternalServerError, "streaming not supported")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return flusher, nil
}

// writeSSE writes one server-sent event with a JSON payload.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// writeSSEDone writes the stream terminator.
func writeSSEDone(w http.ResponseWriter, flusher http.Flusher) {
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func summaryToDTO(s workout.Summary) dto.SummaryResponse {
	return dto.SummaryResponse{
		ID:        s.ID(),
		WorkoutID: s.WorkoutID(),
		Status:    string(s.Status()),
		Text:      s.Text(),
		Facts:     s.Facts(),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func progressToDTO(items []achievement.Progress) []dto.ProgressResponse {
	result := make([]dto.ProgressResponse, 0, len(items))
	for _, p := range items {
		history := make([]dto.UnlockResponse, 0, len(p.History()))
		for _, u := range p.History() {
			history = append(history, dto.UnlockResponse{
				Tier:       string(u.Tier()),
				UnlockedAt: u.UnlockedAt(),
				Message:    u.Message(),
			})
		}
		result = append(result, dto.ProgressResponse{
			AchievementID: p.AchievementID(),
			CurrentTier:   string(p.CurrentTier()),
			Value:         p.Value(),
			UnlockedAt:    p.UnlockedAt(),
			History:       history,
		})
	}
	return result
}
