package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// UserHandler serves the JSON user endpoints.
type UserHandler struct {
	coordinator Coordinator
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(coordinator Coordinator, logger *slog.Logger) *UserHandler {
	return &UserHandler{coordinator: coordinator, logger: logger}
}

// createUserRequest is the body of POST /users.
type createUserRequest struct {
	Name string `json:"name"`
}

// HandleCreate registers a new user.
//
// HTTP: POST /users
// BODY: {"name": "Alice"}
//
// Missing name → 400. A store failure is the soft {"status":"error"}
// envelope, logged server-side with the attempted name.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create-user JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Field 'name' is required", http.StatusBadRequest)
		return
	}

	user, err := h.coordinator.CreateUser(r.Context(), req.Name)
	if err != nil {
		writeOperationError(w, err)
		return
	}

	h.logger.Info("user registered via API", slog.Int64("id", user.ID))
	writeSuccess(w, "")
}
