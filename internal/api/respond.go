package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"carshare/internal/apperrors"
	"carshare/internal/auth"
	"carshare/internal/booking"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps a core error to its HTTP status and logs server faults.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		zap.S().Errorw("internal error", "error", err)
		writeJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// requestActor pulls the authenticated actor out of the request context. The
// auth middleware guarantees it is present on protected routes.
func requestActor(w http.ResponseWriter, r *http.Request) (booking.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return booking.Actor{}, false
	}
	return actor, true
}
