// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage provides the real implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/Pooch41/Cinephile-Online/internal/model"
)

// UserRepository provides persistence for user accounts.
type UserRepository interface {
	// Create inserts a new user and fills in the generated ID.
	Create(ctx context.Context, user *model.User) error
	// List returns all users ordered by id ascending.
	List(ctx context.Context) ([]model.User, error)
	// GetByID returns apperror.ErrNotFound when no such user exists.
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// MovieRepository provides persistence for movies and the user⇄movie
// favourite links.
//
// AddFavorite and RemoveFavorite are deliberately coarse: each one runs
// every write it needs inside a single transaction, so a coordinator
// operation is atomic end to end. Exposing the raw primitives (insert
// link, count links, delete movie) would force transaction management up
// into the service layer, which must not know about database/sql.
type MovieRepository interface {
	// FindByTitle does an exact, case-sensitive title lookup.
	// Returns apperror.ErrNotFound when no movie has that title.
	FindByTitle(ctx context.Context, title string) (*model.Movie, error)

	// AddFavorite links a movie to a user. When movie.ID is 0 the movie
	// row is inserted first (filling in the generated ID) within the same
	// transaction as the link. Returns added=false without writing
	// anything when the link already exists.
	AddFavorite(ctx context.Context, userID int64, movie *model.Movie) (added bool, err error)

	// RemoveFavorite deletes the (userID, movieID) link and, when that
	// was the last link referencing the movie, deletes the movie row too.
	// Both steps run in one transaction — a failure in the cleanup rolls
	// back the unlink as well. Returns apperror.ErrNotFound when the link
	// does not exist.
	RemoveFavorite(ctx context.Context, userID, movieID int64) error

	// Rename replaces a movie's title unconditionally.
	// Returns apperror.ErrNotFound when no movie has that id.
	Rename(ctx context.Context, movieID int64, newTitle string) error

	// ListByUser returns the user's favourite movies ordered by title
	// ascending. An unknown user yields an empty list, not an error.
	ListByUser(ctx context.Context, userID int64) ([]model.Movie, error)
}
