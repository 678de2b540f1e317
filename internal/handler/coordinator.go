// Package handler contains the HTTP request handlers. Handlers parse
// requests, call the service layer, and write responses — no business
// logic lives here.
package handler

import (
	"context"

	"github.com/Pooch41/Cinephile-Online/internal/model"
)

// Coordinator is the slice of the service layer the HTTP handlers need.
// Declaring it here (on the consumer side) lets tests inject a mock
// without standing up a database or an OMDb client.
// *service.FavoriteService satisfies it.
type Coordinator interface {
	CreateUser(ctx context.Context, name string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ListUserMovies(ctx context.Context, userID int64) ([]model.Movie, error)
	AddFavorite(ctx context.Context, userID int64, title string) (*model.Movie, bool, error)
	RemoveFavorite(ctx context.Context, userID, movieID int64) error
	RenameMovie(ctx context.Context, movieID int64, newTitle string) error
}
