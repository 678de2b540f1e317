package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// MovieHandler serves the favourite-movie mutation endpoints.
type MovieHandler struct {
	coordinator Coordinator
	logger      *slog.Logger
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(coordinator Coordinator, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{coordinator: coordinator, logger: logger}
}

// pathID extracts a positive integer URL parameter, e.g. {userId}.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// addMovieRequest is the body of POST /users/{userId}/movies.
type addMovieRequest struct {
	Title string `json:"title"`
}

// HandleAdd puts a movie on a user's favourites list, fetching metadata
// from OMDb when the title isn't in the store yet.
//
// HTTP: POST /users/{userId}/movies
// BODY: {"title": "Inception"}
//
// Adding a movie that's already on the list is a success with a distinct
// message, so the frontend can tell the user rather than silently no-op.
func (h *MovieHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var req addMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid add-movie JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Field 'title' is required", http.StatusBadRequest)
		return
	}

	movie, added, err := h.coordinator.AddFavorite(r.Context(), userID, req.Title)
	if err != nil {
		writeOperationError(w, err)
		return
	}

	if !added {
		writeSuccess(w, fmt.Sprintf("%q is already in your favourites.", movie.Title))
		return
	}
	writeSuccess(w, fmt.Sprintf("Added %q to your favourites.", movie.Title))
}

// renameMovieRequest is the body of the update endpoint.
type renameMovieRequest struct {
	NewTitle string `json:"new_title"`
}

// HandleUpdate renames a movie. The new title is visible to every user
// who favourited it, since they all share the same row.
//
// HTTP: POST /users/{userId}/movies/{movieId}/update
// BODY: {"new_title": "Inception (2010)"}
func (h *MovieHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if _, err := pathID(r, "userId"); err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	movieID, err := pathID(r, "movieId")
	if err != nil {
		http.Error(w, "Invalid movie id", http.StatusBadRequest)
		return
	}

	var req renameMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid rename JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.NewTitle == "" {
		http.Error(w, "Field 'new_title' is required", http.StatusBadRequest)
		return
	}

	if err := h.coordinator.RenameMovie(r.Context(), movieID, req.NewTitle); err != nil {
		writeOperationError(w, err)
		return
	}

	writeSuccess(w, "")
}

// HandleDelete removes a movie from a user's favourites and redirects
// back to the movies page with a flash message. Success and failure use
// the same response shape (303 + flash) — the browser form flow has no
// JSON consumer.
//
// HTTP: POST /users/{userId}/movies/{movieId}/delete
func (h *MovieHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	moviesPath := fmt.Sprintf("/users/%d/movies", userID)

	movieID, err := pathID(r, "movieId")
	if err != nil {
		setFlash(w, moviesPath, genericErrorMessage)
		http.Redirect(w, r, moviesPath, http.StatusSeeOther)
		return
	}

	if err := h.coordinator.RemoveFavorite(r.Context(), userID, movieID); err != nil {
		setFlash(w, moviesPath, genericErrorMessage)
		http.Redirect(w, r, moviesPath, http.StatusSeeOther)
		return
	}

	setFlash(w, moviesPath, "Movie removed from your favourites.")
	http.Redirect(w, r, moviesPath, http.StatusSeeOther)
}
