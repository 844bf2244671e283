package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stridelabs/stride"
	"github.com/stridelabs/stride/infrastructure/api/middleware"
)

// NotificationsRouter streams achievement and XP notifications.
type NotificationsRouter struct {
	client *stride.Client
	logger *slog.Logger
}

// NewNotificationsRouter creates a new NotificationsRouter.
func NewNotificationsRouter(client *stride.Client) *NotificationsRouter {
	return &NotificationsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for notification endpoints.
func (r *NotificationsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/stream", r.Stream)

	return router
}

// Stream handles GET /api/v1/notifications/stream. The connection stays
// open until the client disconnects; each notification is one SSE event.
func (r *NotificationsRouter) Stream(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	flusher, err := sseFlusher(w)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	notifications, cancel := r.client.Notifications.Subscribe(middleware.OwnerID(ctx))
	defer cancel()

	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifications:
			if !ok {
				writeSSEDone(w, flusher)
				return
			}
			if err := writeSSE(w, flusher, n); err != nil {
				r.logger.Warn("notification stream write failed", "error", err)
				return
			}
		}
	}
}
