package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stridelabs/stride"
	"github.com/stridelabs/stride/domain/profile"
	"github.com/stridelabs/stride/infrastructure/api/middleware"
	"github.com/stridelabs/stride/infrastructure/api/v1/dto"
)

// ProfileRouter handles user profile endpoints.
type ProfileRouter struct {
	client *stride.Client
	logger *slog.Logger
}

// NewProfileRouter creates a new ProfileRouter.
func NewProfileRouter(client *stride.Client) *ProfileRouter {
	return &ProfileRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for profile endpoints.
func (r *ProfileRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.Get)
	router.Put("/", r.Update)

	return router
}

// Get handles GET /api/v1/profile. Returns 404 until the user has a
// stored profile.
func (r *ProfileRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	aggregated, err := r.client.Profiles.Get(ctx, middleware.OwnerID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ProfileResponse{
		OwnerID:      aggregated.Profile.OwnerID(),
		SummaryText:  aggregated.Profile.SummaryText(),
		Biometrics:   aggregated.Profile.Biometrics(),
		Version:      aggregated.Profile.Version(),
		UpdatedAt:    aggregated.Profile.UpdatedAt(),
		TotalXP:      aggregated.TotalXP,
		Level:        aggregated.Level,
		Achievements: progressToDTO(aggregated.Progress),
	})
}

// Update handles PUT /api/v1/profile.
func (r *ProfileRouter) Update(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.UpdateProfileRequest
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	updated, err := r.client.Profiles.Update(ctx,
		profile.NewProfile(middleware.OwnerID(ctx), body.SummaryText, nil, body.Biometrics))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ProfileResponse{
		OwnerID:     updated.OwnerID(),
		SummaryText: updated.SummaryText(),
		Biometrics:  updated.Biometrics(),
		Version:     updated.Version(),
		UpdatedAt:   updated.UpdatedAt(),
	})
}
