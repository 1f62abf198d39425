package api

import (
	"context"
	"net/http"
)

type ownerKeyType struct{}

var ownerKey ownerKeyType

// OwnerHeader carries the tenant identity. There is no user auth layer
// here; the header is trusted the way an upstream gateway would set it.
const OwnerHeader = "X-Owner-ID"

// RequireOwner rejects requests without an owner header and stores the
// owner in the request context for handlers.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(OwnerHeader)
		if owner == "" {
			respondError(w, http.StatusBadRequest, "missing "+OwnerHeader+" header")
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerFrom returns the owner stored by RequireOwner.
func ownerFrom(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey).(string)
	return owner
}
