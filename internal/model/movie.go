package model

// Movie represents a film whose metadata was sourced from the OMDb API.
//
// A movie row is created lazily the first time any user favourites its
// title, deduplicated by exact title, and garbage-collected once the last
// favourite link pointing at it is removed. ID 0 means "not persisted yet"
// — the omdb client returns movies with ID 0 and the repository fills the
// ID in on insert.
//
// WHY ReleaseYear string (not int)?
// OMDb returns the year as free-form text — series come back as ranges
// like "2019–2023". We store whatever the provider sent instead of
// guessing at a numeric parse.
//
// Optional fields (Director, ReleaseYear, PosterURL) use the empty string
// as "absent" rather than nullable pointers — simpler to work with and
// safe to render.
type Movie struct {
	ID          int64  `json:"id"          db:"id"`
	Title       string `json:"title"       db:"title"`
	Director    string `json:"director"    db:"director"`
	ReleaseYear string `json:"releaseYear" db:"year_of_release"`
	PosterURL   string `json:"posterUrl"   db:"poster_url"`
}
