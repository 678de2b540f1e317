package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Pooch41/Cinephile-Online/internal/apperror"
	"github.com/Pooch41/Cinephile-Online/internal/model"
	"github.com/Pooch41/Cinephile-Online/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user and fills in the generated ID.
//
// POINTER RECEIVER (*model.User):
// We take a pointer so the caller's struct ends up with the ID SQLite
// generated — LastInsertId() returns the AUTOINCREMENT value of the row
// we just inserted.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (user_name) VALUES (?)`,
		user.Name,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user %q: %w",
			user.Name, apperror.StoreFailed("create user", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// List returns all users ordered by id ascending — registration order.
func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_name FROM users ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// GetByID retrieves a user by their id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_name FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Name)
	if err != nil {
		// sql.ErrNoRows is a sentinel — database/sql doesn't wrap it,
		// so == is the right check.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}
