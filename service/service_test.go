package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MichaelGalloway404/BooksRead/book"
	"github.com/MichaelGalloway404/BooksRead/catalog"
	"github.com/MichaelGalloway404/BooksRead/config"
	"github.com/MichaelGalloway404/BooksRead/logger"
	"github.com/MichaelGalloway404/BooksRead/repo"
	"github.com/MichaelGalloway404/BooksRead/session"
	"github.com/MichaelGalloway404/BooksRead/validator"
)

func init() {
	// Initialize logger for tests
	logger.Init("info")
}

// Mock repository for testing
type mockRepository struct {
	users      []book.User
	passwords  map[string]string
	entries    map[int64][]book.Entry
	usersError error
	booksError error
	pingError  error

	addCalls    int
	removeCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		passwords: map[string]string{},
		entries:   map[int64][]book.Entry{},
	}
}

func (m *mockRepository) withUser(id int64, username, password string) *mockRepository {
	m.users = append(m.users, book.User{ID: id, Username: username})
	m.passwords[username] = password
	return m
}

func (m *mockRepository) Close() error {
	return nil
}

func (m *mockRepository) Ping() error {
	return m.pingError
}

func (m *mockRepository) FindUserByCredentials(ctx context.Context, username, password string) (*book.User, error) {
	if m.usersError != nil {
		return nil, m.usersError
	}
	for _, u := range m.users {
		if u.Username == username && m.passwords[username] == password {
			user := u
			return &user, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *mockRepository) CreateUser(ctx context.Context, username, password string) (*book.User, error) {
	if m.usersError != nil {
		return nil, m.usersError
	}
	for _, u := range m.users {
		if u.Username == username {
			return nil, repo.ErrDuplicateUser
		}
	}
	user := book.User{ID: int64(len(m.users) + 1), Username: username}
	m.users = append(m.users, user)
	m.passwords[username] = password
	return &user, nil
}

func (m *mockRepository) GetUserByID(ctx context.Context, id int64) (*book.User, error) {
	if m.usersError != nil {
		return nil, m.usersError
	}
	for _, u := range m.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *mockRepository) GetUserByUsername(ctx context.Context, username string) (*book.User, error) {
	if m.usersError != nil {
		return nil, m.usersError
	}
	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *mockRepository) ListUsernames(ctx context.Context) ([]string, error) {
	if m.usersError != nil {
		return nil, m.usersError
	}
	names := make([]string, 0, len(m.users))
	for _, u := range m.users {
		names = append(names, u.Username)
	}
	return names, nil
}

func (m *mockRepository) ListBooksForUser(ctx context.Context, userID int64) ([]book.Entry, error) {
	if m.booksError != nil {
		return nil, m.booksError
	}
	return m.entries[userID], nil
}

func (m *mockRepository) AddBookForUser(ctx context.Context, userID int64, title, author, coverURL string) error {
	if m.booksError != nil {
		return m.booksError
	}
	m.addCalls++
	for _, e := range m.entries[userID] {
		if e.Title == title && e.Author == author {
			return repo.ErrDuplicateEntry
		}
	}
	m.entries[userID] = append(m.entries[userID], book.Entry{
		ID:       int64(m.addCalls),
		OwnerID:  userID,
		Title:    title,
		Author:   author,
		CoverURL: coverURL,
	})
	return nil
}

func (m *mockRepository) RemoveBookForUser(ctx context.Context, userID int64, title, author string) (int64, error) {
	if m.booksError != nil {
		return 0, m.booksError
	}
	m.removeCalls++
	kept := m.entries[userID][:0]
	var affected int64
	for _, e := range m.entries[userID] {
		if e.Title == title && e.Author == author {
			affected++
			continue
		}
		kept = append(kept, e)
	}
	m.entries[userID] = kept
	return affected, nil
}

func newTestService(t *testing.T, mockRepo repo.Repository, catalogURL string) *Service {
	t.Helper()
	cfg := config.Load()
	if catalogURL != "" {
		cfg.Catalog.BaseURL = catalogURL
		cfg.Catalog.CoversBaseURL = catalogURL + "/covers"
	}
	cfg.Catalog.RequestsPerSecond = 1000
	sessions := session.NewManager(cfg.Session)
	t.Cleanup(sessions.Close)
	return New(mockRepo, catalog.New(cfg.Catalog), sessions, cfg)
}

func TestService_Login(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		expectErr error
	}{
		{
			name:     "success",
			username: "alice",
			password: "s3cret",
		},
		{
			name:      "wrong password",
			username:  "alice",
			password:  "nope",
			expectErr: ErrInvalidCredentials,
		},
		{
			name:      "unknown user",
			username:  "mallory",
			password:  "s3cret",
			expectErr: ErrInvalidCredentials,
		},
		{
			name:      "missing username",
			username:  "",
			password:  "s3cret",
			expectErr: validator.ErrMissingField,
		},
		{
			name:      "missing password",
			username:  "alice",
			password:  "",
			expectErr: validator.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := newMockRepository().withUser(1, "alice", "s3cret")
			svc := newTestService(t, mockRepo, "")
			token := svc.Sessions().Begin()

			user, _, err := svc.Login(context.Background(), token, tt.username, tt.password)

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Errorf("Expected %v, got %v", tt.expectErr, err)
				}
				if _, ok := svc.Sessions().CurrentUser(token); ok {
					t.Errorf("Session should stay anonymous after a failed login")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if user.ID != 1 {
				t.Errorf("Expected user ID 1, got %d", user.ID)
			}
			current, ok := svc.Sessions().CurrentUser(token)
			if !ok || current.ID != 1 {
				t.Errorf("Expected session bound to user 1, got %+v ok=%v", current, ok)
			}
		})
	}
}

func TestService_SignUp(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		confirm   string
		expectErr error
	}{
		{
			name:     "success",
			username: "bob",
			password: "pw",
			confirm:  "pw",
		},
		{
			name:      "password mismatch",
			username:  "bob",
			password:  "pw",
			confirm:   "other",
			expectErr: validator.ErrPasswordMismatch,
		},
		{
			name:      "missing username",
			username:  "",
			password:  "pw",
			confirm:   "pw",
			expectErr: validator.ErrMissingField,
		},
		{
			name:      "duplicate username",
			username:  "alice",
			password:  "pw",
			confirm:   "pw",
			expectErr: repo.ErrDuplicateUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := newMockRepository().withUser(1, "alice", "s3cret")
			svc := newTestService(t, mockRepo, "")

			user, err := svc.SignUp(context.Background(), tt.username, tt.password, tt.confirm)

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Errorf("Expected %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if user.Username != tt.username {
				t.Errorf("Expected username %q, got %q", tt.username, user.Username)
			}
		})
	}
}

func TestService_AddBook(t *testing.T) {
	mockRepo := newMockRepository().withUser(1, "alice", "s3cret")
	svc := newTestService(t, mockRepo, "")
	token := svc.Sessions().Begin()

	ctx := context.Background()

	// unauthenticated
	err := svc.AddBook(ctx, token, "Dune", "Frank Herbert", "c1")
	if !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("Expected ErrNotAuthenticated, got %v", err)
	}

	if _, _, err := svc.Login(ctx, token, "alice", "s3cret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// missing fields
	err = svc.AddBook(ctx, token, "Dune", "", "c1")
	if !errors.Is(err, validator.ErrMissingField) {
		t.Errorf("Expected ErrMissingField, got %v", err)
	}

	if err := svc.AddBook(ctx, token, "Dune", "Frank Herbert", "c1"); err != nil {
		t.Fatalf("AddBook failed: %v", err)
	}

	// a duplicate add is absorbed
	if err := svc.AddBook(ctx, token, "Dune", "Frank Herbert", "c1"); err != nil {
		t.Errorf("Expected duplicate add to be absorbed, got %v", err)
	}

	entries, err := mockRepo.ListBooksForUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListBooksForUser failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
}

func TestService_RemoveBook(t *testing.T) {
	mockRepo := newMockRepository().withUser(1, "alice", "s3cret")
	svc := newTestService(t, mockRepo, "")
	token := svc.Sessions().Begin()

	ctx := context.Background()

	if err := svc.RemoveBook(ctx, token, "Dune", "Frank Herbert"); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("Expected ErrNotAuthenticated, got %v", err)
	}

	if _, _, err := svc.Login(ctx, token, "alice", "s3cret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := svc.AddBook(ctx, token, "Dune", "Frank Herbert", "c1"); err != nil {
		t.Fatalf("AddBook failed: %v", err)
	}

	if err := svc.RemoveBook(ctx, token, "Dune", "Frank Herbert"); err != nil {
		t.Fatalf("RemoveBook failed: %v", err)
	}

	// removing a book the user does not own is a no-op
	if err := svc.RemoveBook(ctx, token, "Dune", "Frank Herbert"); err != nil {
		t.Errorf("Expected missing remove to be a no-op, got %v", err)
	}
}

func TestService_Profile(t *testing.T) {
	mockRepo := newMockRepository().withUser(1, "alice", "s3cret")
	svc := newTestService(t, mockRepo, "")
	token := svc.Sessions().Begin()

	ctx := context.Background()

	if _, _, err := svc.Profile(ctx, token); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("Expected ErrNotAuthenticated, got %v", err)
	}

	if _, _, err := svc.Login(ctx, token, "alice", "s3cret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	svc.Sessions().AdvanceOffset(token, 40)

	user, _, err := svc.Profile(ctx, token)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %q", user.Username)
	}
	if got := svc.Sessions().Offset(token); got != 0 {
		t.Errorf("Expected profile to rewind offset to 0, got %d", got)
	}
}

func TestService_ProfileView(t *testing.T) {
	mockRepo := newMockRepository().withUser(1, "alice", "s3cret")
	mockRepo.entries[1] = []book.Entry{{ID: 1, OwnerID: 1, Title: "Dune", Author: "Frank Herbert"}}
	svc := newTestService(t, mockRepo, "")

	ctx := context.Background()

	user, entries, err := svc.ProfileView(ctx, "alice")
	if err != nil {
		t.Fatalf("ProfileView failed: %v", err)
	}
	if user.ID != 1 || len(entries) != 1 {
		t.Errorf("Expected user 1 with 1 entry, got %+v with %d entries", user, len(entries))
	}

	if _, _, err := svc.ProfileView(ctx, "nobody"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestService_Search(t *testing.T) {
	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"docs":[`)
		for i := 0; i < 50; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"title":"Book %02d","author_name":["Author"],"cover_i":%d,"key":"/works/OL%dW"}`, i, i+1, i+1)
		}
		fmt.Fprint(w, `]}`)
	}))
	defer catalogSrv.Close()

	mockRepo := newMockRepository()
	svc := newTestService(t, mockRepo, catalogSrv.URL)
	token := svc.Sessions().Begin()

	ctx := context.Background()

	first := svc.Search(ctx, token, "book", "", 0)
	if first.Total != 50 {
		t.Fatalf("Expected total 50, got %d", first.Total)
	}
	if len(first.Page) != 20 || first.Offset != 0 {
		t.Fatalf("Expected first page of 20 at offset 0, got %d at %d", len(first.Page), first.Offset)
	}
	if first.Page[0].Title != "Book 00" {
		t.Errorf("Expected first title Book 00, got %q", first.Page[0].Title)
	}

	second := svc.Search(ctx, token, "book", "", 20)
	if second.Offset != 20 || len(second.Page) != 20 {
		t.Fatalf("Expected second page of 20 at offset 20, got %d at %d", len(second.Page), second.Offset)
	}
	if second.Page[0].Title != "Book 20" {
		t.Errorf("Expected title Book 20, got %q", second.Page[0].Title)
	}

	third := svc.Search(ctx, token, "book", "", 20)
	if third.Offset != 40 || len(third.Page) != 10 {
		t.Fatalf("Expected final page of 10 at offset 40, got %d at %d", len(third.Page), third.Offset)
	}

	back := svc.Search(ctx, token, "book", "", -20)
	if back.Offset != 20 || back.Page[0].Title != "Book 20" {
		t.Errorf("Expected to page back to offset 20, got %d (%q)", back.Offset, back.Page[0].Title)
	}
}

func TestService_SearchPage(t *testing.T) {
	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"docs":[{"title":"Dune","author_name":["Frank Herbert"],"cover_i":11,"key":"/works/OL1W"},{"title":"Dune Messiah","author_name":["Frank Herbert"],"cover_i":12,"key":"/works/OL2W"}]}`)
	}))
	defer catalogSrv.Close()

	svc := newTestService(t, newMockRepository(), catalogSrv.URL)

	page := svc.SearchPage(context.Background(), "dune", "", 1, 1)
	if len(page) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(page))
	}
	if page[0].Title != "Dune Messiah" {
		t.Errorf("Expected Dune Messiah, got %q", page[0].Title)
	}
}

func TestService_Home(t *testing.T) {
	mockRepo := newMockRepository().withUser(1, "alice", "pw").withUser(2, "bob", "pw")
	svc := newTestService(t, mockRepo, "")
	token := svc.Sessions().Begin()

	ctx := context.Background()
	if _, _, err := svc.Login(ctx, token, "alice", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	names, err := svc.Home(ctx, token)
	if err != nil {
		t.Fatalf("Home failed: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Expected 2 usernames, got %d", len(names))
	}
	if _, ok := svc.Sessions().CurrentUser(token); ok {
		t.Errorf("Expected home view to reset the session identity")
	}
}

func TestService_Ping(t *testing.T) {
	tests := []struct {
		name        string
		pingError   error
		expectError bool
	}{
		{
			name:        "success",
			pingError:   nil,
			expectError: false,
		},
		{
			name:        "failure",
			pingError:   &testError{msg: "connection failed"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := newMockRepository()
			mockRepo.pingError = tt.pingError
			svc := newTestService(t, mockRepo, "")

			err := svc.Ping(context.Background())

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

// testError is a simple error type for testing
type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
