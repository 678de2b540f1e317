package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/Pooch41/Cinephile-Online/internal/apperror"
	"github.com/Pooch41/Cinephile-Online/internal/model"
)

// Hand-written in-memory mocks. They implement the same interfaces as the
// sqlite repository, so the service can't tell the difference — which is
// the point: these tests exercise coordination logic only.

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	err    error // when set, every call fails with it
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.User, 0, len(m.users))
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

type favKey struct {
	userID  int64
	movieID int64
}

type mockMovieRepo struct {
	movies    map[int64]*model.Movie
	links     map[favKey]bool
	nextID    int64
	addErr    error // injected failure for AddFavorite
	removeErr error
}

func newMockMovieRepo() *mockMovieRepo {
	return &mockMovieRepo{
		movies: make(map[int64]*model.Movie),
		links:  make(map[favKey]bool),
	}
}

func (m *mockMovieRepo) FindByTitle(_ context.Context, title string) (*model.Movie, error) {
	for _, movie := range m.movies {
		if movie.Title == title {
			result := *movie
			return &result, nil
		}
	}
	return nil, apperror.NotFound("movie", title)
}

func (m *mockMovieRepo) AddFavorite(_ context.Context, userID int64, movie *model.Movie) (bool, error) {
	if m.addErr != nil {
		return false, m.addErr
	}
	if movie.ID == 0 {
		m.nextID++
		movie.ID = m.nextID
		stored := *movie
		m.movies[movie.ID] = &stored
	}
	key := favKey{userID, movie.ID}
	if m.links[key] {
		return false, nil
	}
	m.links[key] = true
	return true, nil
}

func (m *mockMovieRepo) RemoveFavorite(_ context.Context, userID, movieID int64) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	key := favKey{userID, movieID}
	if !m.links[key] {
		return apperror.NotFound("favourite", fmt.Sprintf("user=%d movie=%d", userID, movieID))
	}
	delete(m.links, key)

	for k := range m.links {
		if k.movieID == movieID {
			return nil // still referenced
		}
	}
	delete(m.movies, movieID)
	return nil
}

func (m *mockMovieRepo) Rename(_ context.Context, movieID int64, newTitle string) error {
	movie, ok := m.movies[movieID]
	if !ok {
		return apperror.NotFound("movie", movieID)
	}
	movie.Title = newTitle
	return nil
}

func (m *mockMovieRepo) ListByUser(_ context.Context, userID int64) ([]model.Movie, error) {
	result := make([]model.Movie, 0)
	for k := range m.links {
		if k.userID == userID {
			result = append(result, *m.movies[k.movieID])
		}
	}
	return result, nil
}

func (m *mockMovieRepo) movieCount() int { return len(m.movies) }
func (m *mockMovieRepo) linkCount() int  { return len(m.links) }

// mockFetcher records lookups and returns canned metadata or an error.
type mockFetcher struct {
	calls  []string
	result *model.Movie
	err    error
}

func (m *mockFetcher) Fetch(_ context.Context, title string) (*model.Movie, error) {
	m.calls = append(m.calls, title)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		result := *m.result
		return &result, nil
	}
	return &model.Movie{
		Title:       title,
		Director:    "Christopher Nolan",
		ReleaseYear: "2010",
		PosterURL:   "https://example.com/poster.jpg",
	}, nil
}

func newTestService(t *testing.T) (*FavoriteService, *mockUserRepo, *mockMovieRepo, *mockFetcher) {
	t.Helper()
	users := newMockUserRepo()
	movies := newMockMovieRepo()
	fetcher := &mockFetcher{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewFavoriteService(users, movies, fetcher, logger)
	return svc, users, movies, fetcher
}

func mustCreateUser(t *testing.T, svc *FavoriteService, name string) *model.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), name)
	if err != nil {
		t.Fatalf("setup: CreateUser() error = %v", err)
	}
	return user
}

// === CreateUser ===

func TestCreateUser_Success(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	user, err := svc.CreateUser(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("expected user to have an ID")
	}
	if user.Name != "Alice" {
		t.Errorf("Name = %q, want %q", user.Name, "Alice")
	}
}

func TestCreateUser_TrimsWhitespace(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	user, err := svc.CreateUser(context.Background(), "  Alice  ")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.Name != "Alice" {
		t.Errorf("Name = %q, want trimmed %q", user.Name, "Alice")
	}
}

func TestCreateUser_EmptyName(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	for _, name := range []string{"", "   "} {
		_, err := svc.CreateUser(context.Background(), name)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("CreateUser(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestCreateUser_StoreFailure(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	users.err = apperror.StoreFailed("create user", errors.New("disk full"))

	_, err := svc.CreateUser(context.Background(), "Alice")
	if !errors.Is(err, apperror.ErrStore) {
		t.Errorf("error = %v, want ErrStore", err)
	}
}

// === AddFavorite ===

func TestAddFavorite_FetchesUnknownTitle(t *testing.T) {
	svc, _, movies, fetcher := newTestService(t)
	user := mustCreateUser(t, svc, "Alice")

	movie, added, err := svc.AddFavorite(context.Background(), user.ID, "Inception")
	if err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}
	if !added {
		t.Error("added = false, want true")
	}
	if movie.ID == 0 {
		t.Error("expected persisted movie with an ID")
	}
	if len(fetcher.calls) != 1 || fetcher.calls[0] != "Inception" {
		t.Errorf("fetcher calls = %v, want one lookup for Inception", fetcher.calls)
	}
	if movies.movieCount() != 1 || movies.linkCount() != 1 {
		t.Errorf("store has %d movies / %d links, want 1/1",
			movies.movieCount(), movies.linkCount())
	}
}

func TestAddFavorite_ReusesKnownTitle(t *testing.T) {
	svc, _, movies, fetcher := newTestService(t)
	alice := mustCreateUser(t, svc, "Alice")
	bob := mustCreateUser(t, svc, "Bob")

	first, _, err := svc.AddFavorite(context.Background(), alice.ID, "Inception")
	if err != nil {
		t.Fatalf("AddFavorite(alice) error = %v", err)
	}

	// Second user, same title: reuse the row, no second outbound call.
	second, added, err := svc.AddFavorite(context.Background(), bob.ID, "Inception")
	if err != nil {
		t.Fatalf("AddFavorite(bob) error = %v", err)
	}
	if !added {
		t.Error("added = false, want true for bob's new link")
	}
	if second.ID != first.ID {
		t.Errorf("movie IDs differ (%d vs %d), want shared row", second.ID, first.ID)
	}
	if len(fetcher.calls) != 1 {
		t.Errorf("fetcher called %d times, want 1", len(fetcher.calls))
	}
	if movies.movieCount() != 1 || movies.linkCount() != 2 {
		t.Errorf("store has %d movies / %d links, want 1/2",
			movies.movieCount(), movies.linkCount())
	}
}

func TestAddFavorite_IdempotentForSameUser(t *testing.T) {
	svc, _, movies, _ := newTestService(t)
	user := mustCreateUser(t, svc, "Alice")

	first, _, err := svc.AddFavorite(context.Background(), user.ID, "Inception")
	if err != nil {
		t.Fatalf("first AddFavorite() error = %v", err)
	}

	// Same (user, title) again: success, added=false, nothing new written.
	second, added, err := svc.AddFavorite(context.Background(), user.ID, "Inception")
	if err != nil {
		t.Fatalf("second AddFavorite() error = %v", err)
	}
	if added {
		t.Error("added = true on repeat, want false")
	}
	if second.ID != first.ID {
		t.Errorf("repeat returned movie %d, want existing %d", second.ID, first.ID)
	}
	if movies.movieCount() != 1 || movies.linkCount() != 1 {
		t.Errorf("store has %d movies / %d links, want 1/1",
			movies.movieCount(), movies.linkCount())
	}
}

func TestAddFavorite_ProviderHasNoMatch(t *testing.T) {
	svc, _, movies, fetcher := newTestService(t)
	user := mustCreateUser(t, svc, "Alice")
	fetcher.err = apperror.NotFound("movie", "No Such Movie")

	_, _, err := svc.AddFavorite(context.Background(), user.ID, "No Such Movie")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if movies.movieCount() != 0 || movies.linkCount() != 0 {
		t.Errorf("store has %d movies / %d links, want 0/0 (no rows written)",
			movies.movieCount(), movies.linkCount())
	}
}

func TestAddFavorite_ProviderUnavailable(t *testing.T) {
	svc, _, movies, fetcher := newTestService(t)
	user := mustCreateUser(t, svc, "Alice")
	fetcher.err = apperror.Unavailable("omdb", "connection refused")

	_, _, err := svc.AddFavorite(context.Background(), user.ID, "Inception")
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
	if movies.movieCount() != 0 || movies.linkCount() != 0 {
		t.Errorf("store has %d movies / %d links, want 0/0 (no rows written)",
			movies.movieCount(), movies.linkCount())
	}
}

func TestAddFavorite_StoreFailure(t *testing.T) {
	svc, _, movies, _ := newTestService(t)
	user := mustCreateUser(t, svc, "Alice")
	movies.addErr = apperror.StoreFailed("insert favourite", errors.New("locked"))

	_, _, err := svc.AddFavorite(context.Background(), user.ID, "Inception")
	if !errors.Is(err, apperror.ErrStore) {
		t.Errorf("error = %v, want ErrStore", err)
	}
}

func TestAddFavorite_Validation(t *testing.T) {
	svc, _, _, fetcher := newTestService(t)

	tests := []struct {
		name   string
		userID int64
		title  string
	}{
		{"empty title", 1, ""},
		{"whitespace title", 1, "   "},
		{"zero user id", 0, "Inception"},
		{"negative user id", -4, "Inception"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.AddFavorite(context.Background(), tt.userID, tt.title)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("fetcher called %d times on invalid input, want 0", len(fetcher.calls))
	}
}

// === RemoveFavorite ===

func TestRemoveFavorite_LastReferenceCollects(t *testing.T) {
	svc, _, movies, _ := newTestService(t)
	user := mustCreateUser(t, svc, "Alice")

	movie, _, err := svc.AddFavorite(context.Background(), user.ID, "Inception")
	if err != nil {
		t.Fatalf("setup: AddFavorite() error = %v", err)
	}

	if err := svc.RemoveFavorite(context.Background(), user.ID, movie.ID); err != nil {
		t.Fatalf("RemoveFavorite() error = %v", err)
	}

	if movies.movieCount() != 0 {
		t.Errorf("movie rows = %d, want 0 after last unlink", movies.movieCount())
	}

	listed, err := svc.ListUserMovies(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListUserMovies() error = %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("ListUserMovies() = %v, want empty", listed)
	}
}

func TestRemoveFavorite_SharedMovieSurvives(t *testing.T) {
	svc, _, movies, _ := newTestService(t)
	alice := mustCreateUser(t, svc, "Alice")
	bob := mustCreateUser(t, svc, "Bob")

	movie, _, err := svc.AddFavorite(context.Background(), alice.ID, "Inception")
	if err != nil {
		t.Fatalf("setup: AddFavorite(alice) error = %v", err)
	}
	if _, _, err := svc.AddFavorite(context.Background(), bob.ID, "Inception"); err != nil {
		t.Fatalf("setup: AddFavorite(bob) error = %v", err)
	}

	if err := svc.RemoveFavorite(context.Background(), alice.ID, movie.ID); err != nil {
		t.Fatalf("RemoveFavorite() error = %v", err)
	}

	if movies.movieCount() != 1 {
		t.Errorf("movie rows = %d, want 1 (bob still links it)", movies.movieCount())
	}
}

func TestRemoveFavorite_NotFavorited(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	user := mustCreateUser(t, svc, "Alice")

	err := svc.RemoveFavorite(context.Background(), user.ID, 42)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRemoveFavorite_Validation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if err := svc.RemoveFavorite(context.Background(), 0, 1); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("zero user id: error = %v, want ErrValidation", err)
	}
	if err := svc.RemoveFavorite(context.Background(), 1, 0); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("zero movie id: error = %v, want ErrValidation", err)
	}
}

// === RenameMovie ===

func TestRenameMovie_VisibleToAllUsers(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	alice := mustCreateUser(t, svc, "Alice")
	bob := mustCreateUser(t, svc, "Bob")

	movie, _, err := svc.AddFavorite(context.Background(), alice.ID, "Inception")
	if err != nil {
		t.Fatalf("setup: AddFavorite(alice) error = %v", err)
	}
	if _, _, err := svc.AddFavorite(context.Background(), bob.ID, "Inception"); err != nil {
		t.Fatalf("setup: AddFavorite(bob) error = %v", err)
	}

	if err := svc.RenameMovie(context.Background(), movie.ID, "Inception (2010)"); err != nil {
		t.Fatalf("RenameMovie() error = %v", err)
	}

	// Both users share the row, so both lists show the new title.
	for _, userID := range []int64{alice.ID, bob.ID} {
		listed, err := svc.ListUserMovies(context.Background(), userID)
		if err != nil {
			t.Fatalf("ListUserMovies(%d) error = %v", userID, err)
		}
		if len(listed) != 1 || listed[0].Title != "Inception (2010)" {
			t.Errorf("ListUserMovies(%d) = %v, want the renamed title", userID, listed)
		}
	}
}

func TestRenameMovie_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.RenameMovie(context.Background(), 999, "Anything")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRenameMovie_Validation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if err := svc.RenameMovie(context.Background(), 1, "  "); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("blank title: error = %v, want ErrValidation", err)
	}
	if err := svc.RenameMovie(context.Background(), 0, "Title"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("zero movie id: error = %v, want ErrValidation", err)
	}
}

// === Reads ===

func TestGetUserByID(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	user := mustCreateUser(t, svc, "Alice")

	found, err := svc.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Name != "Alice" {
		t.Errorf("Name = %q, want %q", found.Name, "Alice")
	}

	if _, err := svc.GetUserByID(context.Background(), 999); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown id: error = %v, want ErrNotFound", err)
	}
}

func TestListUsers(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	mustCreateUser(t, svc, "Alice")
	mustCreateUser(t, svc, "Bob")

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("ListUsers() returned %d users, want 2", len(users))
	}
}

// === End-to-end scenario over mocks ===

// The full add-list-remove lifecycle: metadata fetched once, movie and
// link created, list shows exactly the one movie, and removing the last
// reference deletes the movie row.
func TestFavoriteLifecycle(t *testing.T) {
	svc, _, movies, fetcher := newTestService(t)

	alice := mustCreateUser(t, svc, "Alice")
	if alice.ID != 1 {
		t.Fatalf("alice.ID = %d, want 1", alice.ID)
	}

	movie, added, err := svc.AddFavorite(context.Background(), alice.ID, "Inception")
	if err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}
	if !added || movie.Title != "Inception" {
		t.Fatalf("AddFavorite() = (%v, %v), want new Inception link", movie, added)
	}
	if len(fetcher.calls) != 1 {
		t.Errorf("fetcher called %d times, want 1", len(fetcher.calls))
	}

	listed, err := svc.ListUserMovies(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListUserMovies() error = %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "Inception" {
		t.Fatalf("ListUserMovies() = %v, want exactly [Inception]", listed)
	}

	if err := svc.RemoveFavorite(context.Background(), alice.ID, movie.ID); err != nil {
		t.Fatalf("RemoveFavorite() error = %v", err)
	}
	if movies.movieCount() != 0 {
		t.Errorf("movie rows = %d, want 0 after last unlink", movies.movieCount())
	}

	listed, err = svc.ListUserMovies(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListUserMovies() after remove error = %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("ListUserMovies() = %v, want empty", listed)
	}
}
