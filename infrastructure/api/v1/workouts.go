package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stridelabs/stride"
	"github.com/stridelabs/stride/domain/workout"
	"github.com/stridelabs/stride/infrastructure/api/middleware"
	"github.com/stridelabs/stride/infrastructure/api/v1/dto"
)

// WorkoutsRouter handles workout API endpoints.
type WorkoutsRouter struct {
	client *stride.Client
	logger *slog.Logger
}

// NewWorkoutsRouter creates a new WorkoutsRouter.
func NewWorkoutsRouter(client *stride.Client) *WorkoutsRouter {
	return &WorkoutsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for workout endpoints.
func (r *WorkoutsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Record)
	router.Get("/{workoutID}/summary", r.GetSummary)

	return router
}

// Record handles POST /api/v1/workouts. Summary generation runs
// asynchronously off the event bus; the workout is returned immediately.
func (r *WorkoutsRouter) Record(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.RecordWorkoutRequest
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if body.Title == "" {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "title is required", nil), r.logger)
		return
	}

	performedAt := time.Now()
	if body.PerformedAt != nil {
		performedAt = *body.PerformedAt
	}

	recorded, err := r.client.Workouts.Record(ctx, workout.NewWorkout(
		middleware.OwnerID(ctx), body.Title, body.Description, body.Exercises, performedAt))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.WorkoutResponse{
		ID:          recorded.ID(),
		Title:       recorded.Title(),
		Description: recorded.Description(),
		Exercises:   recorded.Exercises(),
		PerformedAt: recorded.PerformedAt(),
		CreatedAt:   recorded.CreatedAt(),
	})
}

// GetSummary handles GET /api/v1/workouts/{workoutID}/summary. Returns
// 404 until the summary row exists; its status field tells the caller
// whether generation finished.
func (r *WorkoutsRouter) GetSummary(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	s, err := r.client.Workouts.SummaryByWorkout(ctx, chi.URLParam(req, "workoutID"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, summaryToDTO(s))
}
