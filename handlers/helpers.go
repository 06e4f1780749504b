package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/CrowderSoup/kanban-app/database"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, map[string]any{
		"status": "success",
		"data":   data,
	})
}

// writeError maps a core error to its HTTP status. Validation problems are
// the caller's to fix (400), missing references are 404, store contention is
// 409 so the client refetches and retries, and everything else is a 500
// whose detail stays in the server log.
func writeError(w http.ResponseWriter, err error) {
	var ve *database.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Reason, http.StatusBadRequest)
	case errors.Is(err, database.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, database.ErrConflict):
		http.Error(w, "conflicting concurrent update, refetch and retry", http.StatusConflict)
	default:
		log.Printf("Internal error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
