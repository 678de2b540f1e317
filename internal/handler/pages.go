package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/Pooch41/Cinephile-Online/internal/apperror"
	"github.com/Pooch41/Cinephile-Online/internal/model"
)

// unknownUserName is rendered when the movies page is requested for a
// user id that doesn't exist. The page still renders (with an empty
// list) instead of 404ing — the surface contract keeps page loads soft.
const unknownUserName = "Unknown user"

// PageHandler renders the HTML pages.
//
// Templates are parsed once at construction (expensive) and reused per
// request (cheap). Each page parses base.html plus its own content file;
// base.html defines the page chrome with a {{template "content" .}}
// placeholder the page file fills via {{define "content"}}.
type PageHandler struct {
	usersTmpl   *template.Template
	moviesTmpl  *template.Template
	coordinator Coordinator
	logger      *slog.Logger
}

// NewPageHandler parses the templates and wires the page handlers.
func NewPageHandler(templateDir string, coordinator Coordinator, logger *slog.Logger) (*PageHandler, error) {
	usersTmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "users.html"),
	)
	if err != nil {
		return nil, err
	}

	moviesTmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "movies.html"),
	)
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		usersTmpl:   usersTmpl,
		moviesTmpl:  moviesTmpl,
		coordinator: coordinator,
		logger:      logger,
	}, nil
}

// HandleUsers serves the landing page listing all registered users.
//
// HTTP: GET /
func (h *PageHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.coordinator.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to load users page", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, h.usersTmpl, map[string]any{
		"Title": "Cinephile Online",
		"Users": users,
	})
}

// HandleUserMovies serves a user's favourite movies page.
//
// HTTP: GET /users/{userId}/movies
//
// An unknown user id renders the page with a placeholder name and an
// empty list. A pending flash message (set by the delete redirect) is
// rendered once and cleared.
func (h *PageHandler) HandleUserMovies(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	userName := unknownUserName
	user, err := h.coordinator.GetUserByID(r.Context(), userID)
	switch {
	case err == nil:
		userName = user.Name
	case errors.Is(err, apperror.ErrNotFound):
		h.logger.Warn("movies page requested for unknown user",
			slog.Int64("userId", userID))
	default:
		h.logger.Error("failed to load user for movies page",
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	movies, err := h.coordinator.ListUserMovies(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load movies for page",
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		movies = []model.Movie{}
	}

	h.render(w, h.moviesTmpl, map[string]any{
		"Title":    userName + "'s favourites",
		"UserID":   userID,
		"UserName": userName,
		"Movies":   movies,
		"Flash":    popFlash(w, r),
	})
}

// render executes the base template with the given data.
func (h *PageHandler) render(w http.ResponseWriter, tmpl *template.Template, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
