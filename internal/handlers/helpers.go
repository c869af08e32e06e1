// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/quotechat/go-quotechat/internal/services/conversation"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps a typed service error onto an HTTP status. Storage
// failures and anything unrecognized become a generic 500 with no detail.
func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *conversation.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Type {
		case conversation.ErrTypeValidation:
			writeError(w, svcErr.Message, http.StatusBadRequest)
			return
		case conversation.ErrTypeNotFound:
			writeError(w, svcErr.Message, http.StatusNotFound)
			return
		case conversation.ErrTypeForbidden:
			writeError(w, svcErr.Message, http.StatusForbidden)
			return
		}
	}

	log.Printf("[Handler] Internal error: %v", err)
	writeError(w, "Internal server error", http.StatusInternalServerError)
}
