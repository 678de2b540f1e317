// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// User represents a registered account in the movie list application.
//
// WHY int64 FOR THE ID?
// Users are keyed by a surrogate integer primary key generated by SQLite
// (INTEGER PRIMARY KEY AUTOINCREMENT). database/sql returns the generated
// value from LastInsertId() as an int64, so we use int64 end to end rather
// than converting back and forth.
//
// Users are created once at registration and never mutated afterwards —
// there is no profile edit flow, so the struct carries no timestamps.
type User struct {
	ID   int64  `json:"id"   db:"id"`
	Name string `json:"name" db:"user_name"` // Display name (never empty)
}
