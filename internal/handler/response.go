package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Pooch41/Cinephile-Online/internal/apperror"
)

// StatusResponse is the envelope returned by the JSON mutation endpoints.
//
// COMPATIBILITY NOTE:
// The API reports most failures as HTTP 200 with {"status":"error"} — a
// soft error the frontend turns into a flash message. Only missing or
// malformed input gets a real 400. This shape predates this codebase and
// existing clients depend on it, so it stays.
type StatusResponse struct {
	Status  string `json:"status"`            // "success" or "error"
	Message string `json:"message,omitempty"` // Optional user-facing detail
}

// genericErrorMessage is what users see for any non-validation failure.
// Details (store errors, provider outages) stay in the server logs.
const genericErrorMessage = "Something went wrong, please try again."

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader; WriteHeader before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeSuccess sends the soft success envelope.
func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "success", Message: message})
}

// writeOperationError maps a service error onto the wire contract:
// validation problems are a plain-text 400, everything else (not found,
// provider unavailable, store failure) collapses into the soft
// 200/{"status":"error"} envelope with a deliberately generic message.
func writeOperationError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && errors.Is(err, apperror.ErrValidation) {
		http.Error(w, appErr.Message, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "error",
		Message: genericErrorMessage,
	})
}
