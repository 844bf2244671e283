package middleware

import (
	"context"
	"net/http"
)

// ownerHeader carries the authenticated user id, set by the upstream
// auth proxy. Authentication itself happens before this service.
const ownerHeader = "X-Owner-ID"

type ownerKeyType struct{}

var ownerKey ownerKeyType

// RequireOwner rejects requests without an owner id and stores the id on
// the request context.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := r.Header.Get(ownerHeader)
		if ownerID == "" {
			WriteError(w, r, NewAPIError(http.StatusBadRequest, "missing X-Owner-ID header", nil), nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, ownerID)))
	})
}

// OwnerID returns the owner id stored by RequireOwner, or "".
func OwnerID(ctx context.Context) string {
	id, _ := ctx.Value(ownerKey).(string)
	return id
}
