package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stridelabs/stride"
	"github.com/stridelabs/stride/infrastructure/api/middleware"
	"github.com/stridelabs/stride/infrastructure/api/v1/dto"
)

// AchievementsRouter handles achievement API endpoints.
type AchievementsRouter struct {
	client *stride.Client
	logger *slog.Logger
}

// NewAchievementsRouter creates a new AchievementsRouter.
func NewAchievementsRouter(client *stride.Client) *AchievementsRouter {
	return &AchievementsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for achievement endpoints.
func (r *AchievementsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Get("/progress", r.Progress)

	return router
}

// List handles GET /api/v1/achievements.
func (r *AchievementsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	definitions, err := r.client.Achievements.ListDefinitions(ctx)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.AchievementResponse, 0, len(definitions))
	for _, def := range definitions {
		tiers := make([]dto.TierResponse, 0, len(def.Tiers()))
		for _, tier := range def.Tiers() {
			tiers = append(tiers, dto.TierResponse{
				Level:     string(tier.Level()),
				Threshold: tier.Threshold(),
			})
		}
		data = append(data, dto.AchievementResponse{
			ID:          def.ID(),
			Name:        def.Name(),
			Description: def.Description(),
			Category:    def.Category(),
			Type:        string(def.AchievementType()),
			Tiers:       tiers,
			Icon:        def.Icon(),
			XPReward:    def.XPReward(),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, dto.AchievementListResponse{Data: data})
}

// Progress handles GET /api/v1/achievements/progress.
func (r *AchievementsRouter) Progress(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	items, err := r.client.Achievements.ProgressFor(ctx, middleware.OwnerID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ProgressListResponse{Data: progressToDTO(items)})
}
