package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Pooch41/Cinephile-Online/internal/apperror"
	"github.com/Pooch41/Cinephile-Online/internal/model"
	"github.com/Pooch41/Cinephile-Online/internal/repository"
)

// compile-time check that *DB implements repository.MovieRepository
var _ repository.MovieRepository = (*DB)(nil)

// FindByTitle does an exact, case-sensitive lookup on the stored title.
// This is the dedup check: at most one movie row should exist per title,
// enforced by looking before inserting rather than by a constraint.
func (db *DB) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	var m model.Movie

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, director, year_of_release, poster_url
		 FROM movies
		 WHERE title = ?`,
		title,
	).Scan(&m.ID, &m.Title, &m.Director, &m.ReleaseYear, &m.PosterURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("movie", title)
		}
		return nil, fmt.Errorf("sqlite: finding movie %q: %w", title, err)
	}

	return &m, nil
}

// AddFavorite links a movie to a user, inserting the movie row first when
// it has no ID yet. Everything runs in one transaction so a failed link
// insert never leaves behind an orphan movie row.
//
// TRANSACTION PATTERN:
// BeginTx + `defer tx.Rollback()` + explicit Commit. The deferred
// Rollback is a no-op once Commit has succeeded, and cleans up every
// early-return error path without repeating ourselves.
//
// Returns added=false when the (user, movie) link already exists — the
// caller treats that as an idempotent success, and nothing is written.
func (db *DB) AddFavorite(ctx context.Context, userID int64, movie *model.Movie) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: beginning add-favourite tx: %w",
			apperror.StoreFailed("add favourite", err))
	}
	defer tx.Rollback()

	if movie.ID == 0 {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO movies (title, director, year_of_release, poster_url)
			 VALUES (?, ?, ?, ?)`,
			movie.Title, movie.Director, movie.ReleaseYear, movie.PosterURL,
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: inserting movie %q: %w",
				movie.Title, apperror.StoreFailed("insert movie", err))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("sqlite: reading new movie id: %w", err)
		}
		movie.ID = id
	}

	// The composite primary key would reject a duplicate anyway, but
	// checking first lets us report "already a favourite" as a distinct
	// outcome instead of a constraint error.
	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_favourite_movies
		 WHERE user_id = ? AND movie_id = ?`,
		userID, movie.ID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking favourite (user=%d, movie=%d): %w",
			userID, movie.ID, apperror.StoreFailed("check favourite", err))
	}

	if exists > 0 {
		// A link can only pre-exist for a movie that already had an ID,
		// so nothing was written in this transaction. Commit the empty
		// transaction and report the idempotent outcome.
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("sqlite: committing add-favourite tx: %w",
				apperror.StoreFailed("add favourite", err))
		}
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_favourite_movies (user_id, movie_id) VALUES (?, ?)`,
		userID, movie.ID,
	); err != nil {
		return false, fmt.Errorf("sqlite: linking favourite (user=%d, movie=%d): %w",
			userID, movie.ID, apperror.StoreFailed("insert favourite", err))
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("sqlite: committing add-favourite tx: %w",
			apperror.StoreFailed("add favourite", err))
	}

	return true, nil
}

// RemoveFavorite deletes the (userID, movieID) link and garbage-collects
// the movie row once nothing references it. A movie with zero favourite
// links must not linger, so the reference count is checked at the moment
// the link is removed.
//
// Both steps share one transaction: if the cleanup fails the unlink rolls
// back too, and the caller sees a single failed operation.
func (db *DB) RemoveFavorite(ctx context.Context, userID, movieID int64) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning remove-favourite tx: %w",
			apperror.StoreFailed("remove favourite", err))
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM user_favourite_movies WHERE user_id = ? AND movie_id = ?`,
		userID, movieID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: unlinking favourite (user=%d, movie=%d): %w",
			userID, movieID, apperror.StoreFailed("delete favourite", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("favourite",
			fmt.Sprintf("user=%d movie=%d", userID, movieID))
	}

	var remaining int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_favourite_movies WHERE movie_id = ?`,
		movieID,
	).Scan(&remaining)
	if err != nil {
		return fmt.Errorf("sqlite: counting links for movie %d: %w",
			movieID, apperror.StoreFailed("count favourites", err))
	}

	if remaining == 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM movies WHERE id = ?`, movieID,
		); err != nil {
			return fmt.Errorf("sqlite: collecting movie %d: %w",
				movieID, apperror.StoreFailed("delete movie", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing remove-favourite tx: %w",
			apperror.StoreFailed("remove favourite", err))
	}

	return nil
}

// Rename replaces a movie's title unconditionally. There is no collision
// check against other movies sharing the new title.
//
// RowsAffected() tells us whether the WHERE clause matched — zero rows
// means the movie doesn't exist, not a silent no-op.
func (db *DB) Rename(ctx context.Context, movieID int64, newTitle string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE movies SET title = ? WHERE id = ?`,
		newTitle, movieID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: renaming movie %d: %w",
			movieID, apperror.StoreFailed("rename movie", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("movie", movieID)
	}

	return nil
}

// ListByUser returns a user's favourite movies, inner-joined through the
// link table, ordered by title ascending. An unknown user simply has no
// links, so the result is an empty slice rather than an error.
func (db *DB) ListByUser(ctx context.Context, userID int64) ([]model.Movie, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT m.id, m.title, m.director, m.year_of_release, m.poster_url
		 FROM movies m
		 INNER JOIN user_favourite_movies f ON f.movie_id = m.id
		 WHERE f.user_id = ?
		 ORDER BY m.title ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing movies for user %d: %w", userID, err)
	}
	defer rows.Close()

	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Director, &m.ReleaseYear, &m.PosterURL,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning movie row: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating movies: %w", err)
	}

	return movies, nil
}
