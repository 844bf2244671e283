package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stridelabs/stride"
	"github.com/stridelabs/stride/domain/coach"
	"github.com/stridelabs/stride/infrastructure/api/middleware"
	"github.com/stridelabs/stride/infrastructure/api/v1/dto"
)

// CoachRouter handles AI coach endpoints.
type CoachRouter struct {
	client *stride.Client
	logger *slog.Logger
}

// NewCoachRouter creates a new CoachRouter.
func NewCoachRouter(client *stride.Client) *CoachRouter {
	return &CoachRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for coach endpoints.
func (r *CoachRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/ask", r.Ask)
	router.Post("/ask/stream", r.AskStream)

	return router
}

// Ask handles POST /api/v1/coach/ask. The whole answer is buffered and
// returned as one JSON document.
func (r *CoachRouter) Ask(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.AskRequest
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if body.Question == "" {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "question is required", nil), r.logger)
		return
	}

	answer, err := r.client.Coach.Ask(ctx, middleware.OwnerID(ctx), body.Question)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, answerToDTO(answer))
}

// AskStream handles POST /api/v1/coach/ask/stream. Prose arrives as
// "message" events, the trailer as a single "metadata" event, and the
// stream ends with a [DONE] marker.
func (r *CoachRouter) AskStream(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.AskRequest
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if body.Question == "" {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "question is required", nil), r.logger)
		return
	}

	events, err := r.client.Coach.AskStream(ctx, middleware.OwnerID(ctx), body.Question)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	flusher, err := sseFlusher(w)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	for e := range events {
		var msg dto.StreamMessage
		switch e.Type {
		case coach.StreamEventMessage:
			msg = dto.StreamMessage{Type: "message", Data: e.Message}
		case coach.StreamEventMetadata:
			msg = dto.StreamMessage{Type: "metadata", Data: e.Metadata}
		default:
			continue
		}
		if err := writeSSE(w, flusher, msg); err != nil {
			r.logger.Warn("coach stream write failed", "error", err)
			return
		}
	}

	writeSSEDone(w, flusher)
}

func answerToDTO(answer coach.Answer) dto.AskResponse {
	references := make([]dto.ReferenceResponse, 0, len(answer.References))
	for _, ref := range answer.References {
		references = append(references, dto.ReferenceResponse{
			ID:   ref.ID,
			Text: ref.Text,
			Date: ref.Date,
		})
	}

	response := dto.AskResponse{
		Answer:     answer.Text,
		References: references,
	}
	if answer.Metadata != nil {
		response.SuggestedNextSteps = answer.Metadata.SuggestedNextSteps
	}
	return response
}
