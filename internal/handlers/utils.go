package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type contextKey string

const (
	contextSubjectKey contextKey = "sub"
	contextClaimsKey  contextKey = "claims"
)

var errMissingSubject = errors.New("missing subject")

func userIDFromContext(ctx context.Context) (int, error) {
	subject, ok := ctx.Value(contextSubjectKey).(int)
	if !ok || subject < 1 {
		return 0, errMissingSubject
	}
	return subject, nil
}

// StatusResponse is the minimal success payload every endpoint shares.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"mensaje,omitempty"`
}

// ErrorResponse carries an error status and a human-readable message.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"mensaje"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Status: "error", Message: message})
}
