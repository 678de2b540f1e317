// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier shape:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, orchestrates, enforces rules
//	Repository (data layer)  → reads/writes the database
//
// FavoriteService is the coordinator between the entity store and the
// external metadata provider: it decides when a title needs an outbound
// OMDb lookup, keeps movie rows deduplicated by title, and maintains the
// user⇄movie favourites relation.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Pooch41/Cinephile-Online/internal/apperror"
	"github.com/Pooch41/Cinephile-Online/internal/model"
	"github.com/Pooch41/Cinephile-Online/internal/repository"
)

// MaxUserNameLength bounds display names; anything longer is rejected at
// validation rather than truncated.
const MaxUserNameLength = 100

// MaxTitleLength bounds movie titles for both add and rename.
const MaxTitleLength = 300

// MetadataFetcher looks up movie metadata by title from an external
// provider. Implementations return an unsaved movie (ID 0) on success,
// apperror.ErrNotFound when the provider has no match, and
// apperror.ErrUnavailable when the provider cannot be reached.
//
// Declaring the interface here (the consumer side) keeps the service
// decoupled from the omdb package — tests inject a stub fetcher.
type MetadataFetcher interface {
	Fetch(ctx context.Context, title string) (*model.Movie, error)
}

// FavoriteService orchestrates users, movies, and favourite links.
type FavoriteService struct {
	users   repository.UserRepository
	movies  repository.MovieRepository
	fetcher MetadataFetcher
	logger  *slog.Logger
}

// NewFavoriteService wires the coordinator to its store and fetcher.
func NewFavoriteService(
	users repository.UserRepository,
	movies repository.MovieRepository,
	fetcher MetadataFetcher,
	logger *slog.Logger,
) *FavoriteService {
	return &FavoriteService{
		users:   users,
		movies:  movies,
		fetcher: fetcher,
		logger:  logger,
	}
}

// CreateUser registers a new user. The name is trimmed and must be
// non-empty; there is no retry on store failure.
func (s *FavoriteService) CreateUser(ctx context.Context, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "user name is required")
	}
	if len(name) > MaxUserNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("user name must be %d characters or less", MaxUserNameLength))
	}

	user := &model.User{Name: name}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int64("id", user.ID),
		slog.String("name", user.Name),
	)

	return user, nil
}

// ListUsers returns all users in registration order.
func (s *FavoriteService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// GetUserByID fetches a single user.
// Returns apperror.ErrNotFound if the user doesn't exist.
func (s *FavoriteService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("userId", "user id must be positive")
	}
	return s.users.GetByID(ctx, id)
}

// ListUserMovies returns a user's favourite movies ordered by title.
func (s *FavoriteService) ListUserMovies(ctx context.Context, userID int64) ([]model.Movie, error) {
	if userID <= 0 {
		return nil, apperror.ValidationFailed("userId", "user id must be positive")
	}

	movies, err := s.movies.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user movies",
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing movies for user %d: %w", userID, err)
	}
	return movies, nil
}

// AddFavorite puts the movie with the given title on the user's list.
//
// The movie row is reused when one already exists with exactly that title;
// only an unknown title triggers an outbound metadata lookup. A fetch
// failure (no match, provider unreachable) aborts the operation with no
// rows written. The returned bool reports whether a new link was created:
// false means the movie was already on the user's list, which is an
// idempotent success rather than an error — callers can message the two
// outcomes differently.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID int64, title string) (*model.Movie, bool, error) {
	if userID <= 0 {
		return nil, false, apperror.ValidationFailed("userId", "user id must be positive")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, false, apperror.ValidationFailed("title", "movie title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, false, apperror.ValidationFailed("title",
			fmt.Sprintf("movie title must be %d characters or less", MaxTitleLength))
	}

	movie, err := s.movies.FindByTitle(ctx, title)
	switch {
	case err == nil:
		s.logger.Info("movie already known, linking existing row",
			slog.Int64("userId", userID),
			slog.Int64("movieId", movie.ID),
			slog.String("title", title),
		)
	case errors.Is(err, apperror.ErrNotFound):
		movie, err = s.fetcher.Fetch(ctx, title)
		if err != nil {
			// Both "no such title" and "provider unreachable" end the
			// operation here — nothing has been written yet.
			s.logger.Warn("could not resolve movie metadata",
				slog.Int64("userId", userID),
				slog.String("title", title),
				slog.String("error", err.Error()),
			)
			return nil, false, fmt.Errorf("resolving movie %q: %w", title, err)
		}
	default:
		s.logger.Error("failed to look up movie by title",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, false, fmt.Errorf("looking up movie %q: %w", title, err)
	}

	added, err := s.movies.AddFavorite(ctx, userID, movie)
	if err != nil {
		s.logger.Error("failed to add favourite",
			slog.Int64("userId", userID),
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, false, fmt.Errorf("adding favourite for user %d: %w", userID, err)
	}

	if !added {
		s.logger.Warn("movie is already a favourite for user",
			slog.Int64("userId", userID),
			slog.Int64("movieId", movie.ID),
			slog.String("title", movie.Title),
		)
		return movie, false, nil
	}

	s.logger.Info("favourite added",
		slog.Int64("userId", userID),
		slog.Int64("movieId", movie.ID),
		slog.String("title", movie.Title),
	)

	return movie, true, nil
}

// RemoveFavorite takes the movie off the user's list. When that was the
// last link referencing the movie, the movie row is deleted with it —
// all within the store's single transaction.
// Returns apperror.ErrNotFound when the link does not exist.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, movieID int64) error {
	if userID <= 0 {
		return apperror.ValidationFailed("userId", "user id must be positive")
	}
	if movieID <= 0 {
		return apperror.ValidationFailed("movieId", "movie id must be positive")
	}

	if err := s.movies.RemoveFavorite(ctx, userID, movieID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("favourite link not found",
				slog.Int64("userId", userID),
				slog.Int64("movieId", movieID),
			)
		} else {
			s.logger.Error("failed to remove favourite",
				slog.Int64("userId", userID),
				slog.Int64("movieId", movieID),
				slog.String("error", err.Error()),
			)
		}
		return err
	}

	s.logger.Info("favourite removed",
		slog.Int64("userId", userID),
		slog.Int64("movieId", movieID),
	)
	return nil
}

// RenameMovie replaces a movie's title unconditionally. The change is
// visible to every user who favourited the movie — they share one row.
// Returns apperror.ErrNotFound when no movie has that id.
func (s *FavoriteService) RenameMovie(ctx context.Context, movieID int64, newTitle string) error {
	if movieID <= 0 {
		return apperror.ValidationFailed("movieId", "movie id must be positive")
	}
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return apperror.ValidationFailed("new_title", "new title is required")
	}
	if len(newTitle) > MaxTitleLength {
		return apperror.ValidationFailed("new_title",
			fmt.Sprintf("movie title must be %d characters or less", MaxTitleLength))
	}

	if err := s.movies.Rename(ctx, movieID, newTitle); err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to rename movie",
				slog.Int64("movieId", movieID),
				slog.String("newTitle", newTitle),
				slog.String("error", err.Error()),
			)
		}
		return err
	}

	s.logger.Info("movie renamed",
		slog.Int64("movieId", movieID),
		slog.String("newTitle", newTitle),
	)
	return nil
}
