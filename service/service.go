// Package service provides business logic layer between HTTP handlers and
// the repository, catalog client and session manager
package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MichaelGalloway404/BooksRead/book"
	"github.com/MichaelGalloway404/BooksRead/catalog"
	"github.com/MichaelGalloway404/BooksRead/config"
	"github.com/MichaelGalloway404/BooksRead/logger"
	"github.com/MichaelGalloway404/BooksRead/pager"
	"github.com/MichaelGalloway404/BooksRead/repo"
	"github.com/MichaelGalloway404/BooksRead/session"
	"github.com/MichaelGalloway404/BooksRead/validator"
)

// ErrInvalidCredentials is returned on a failed login. It covers both an
// unknown username and a wrong password; the distinction is never disclosed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service provides business logic for the application
type Service struct {
	repo     repo.Repository
	catalog  *catalog.Client
	sessions *session.Manager
	pageSize int
}

// New creates a new Service
func New(repository repo.Repository, cat *catalog.Client, sessions *session.Manager, cfg *config.Config) *Service {
	pageSize := cfg.Search.PageSize
	if pageSize <= 0 {
		pageSize = pager.DefaultPageSize
	}
	return &Service{
		repo:     repository,
		catalog:  cat,
		sessions: sessions,
		pageSize: pageSize,
	}
}

// Sessions exposes the session manager to the transport layer
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Accounts

// Login resolves credentials to an identity, binds it to the session and
// returns the user together with their collection. A failed resolution
// leaves the session anonymous.
func (s *Service) Login(ctx context.Context, token, username, password string) (*book.User, []book.Entry, error) {
	if err := validator.ValidateCredentials(username, password); err != nil {
		return nil, nil, err
	}

	user, err := s.repo.FindUserByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if err := s.sessions.Authenticate(token, *user); err != nil {
		return nil, nil, fmt.Errorf("bind session: %w", err)
	}

	entries, err := s.repo.ListBooksForUser(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("login list books: %w", err)
	}

	logger.Info("User logged in", "user_id", user.ID, "username", user.Username)
	return user, entries, nil
}

// SignUp validates the form and creates a new account.
// repo.ErrDuplicateUser is surfaced for a render-with-error outcome.
func (s *Service) SignUp(ctx context.Context, username, password, confirm string) (*book.User, error) {
	if err := validator.ValidateSignUp(username, password, confirm); err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateUser) {
			return nil, err
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}

	logger.Info("User created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Logout destroys the session
func (s *Service) Logout(token string) {
	s.sessions.End(token)
}

// Home resets the session for an anonymous view and returns all usernames
func (s *Service) Home(ctx context.Context, token string) ([]string, error) {
	s.sessions.ResetForAnonymousView(token)

	names, err := s.repo.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return names, nil
}

// Search

// SearchResult is one page of a search plus the session's new offset
type SearchResult struct {
	Page   []book.Candidate
	Offset int
	Total  int
}

// Search runs the catalog query, advances the session's cumulative offset by
// delta and slices the current page with presentation defaults applied.
// Catalog failures have already been absorbed into an empty result set.
func (s *Service) Search(ctx context.Context, token, title, author string, delta int) SearchResult {
	candidates := s.catalog.Search(ctx, title, author)
	offset := s.sessions.AdvanceOffset(token, delta)
	page := pager.Slice(candidates, offset, s.pageSize, s.catalog.CoverByISBN)

	return SearchResult{
		Page:   page,
		Offset: offset,
		Total:  len(candidates),
	}
}

// SearchPage runs a sessionless catalog search for the JSON API: no cursor
// is kept, the caller supplies limit and offset explicitly.
func (s *Service) SearchPage(ctx context.Context, title, author string, limit, offset int) []book.Candidate {
	candidates := s.catalog.Search(ctx, title, author)
	return pager.Slice(candidates, offset, limit, s.catalog.CoverByISBN)
}

// Collections

// AddBook adds a book to the authenticated user's collection. A duplicate
// entry is logged and absorbed: the flow proceeds as if the add succeeded.
func (s *Service) AddBook(ctx context.Context, token, title, author, coverURL string) error {
	userID, err := s.sessions.RequireAuthenticated(token)
	if err != nil {
		return err
	}

	if err := validator.ValidateBookInfo(title, author, coverURL); err != nil {
		return err
	}

	if err := s.repo.AddBookForUser(ctx, userID, title, author, coverURL); err != nil {
		if errors.Is(err, repo.ErrDuplicateEntry) {
			logger.Info("Duplicate book for user", "user_id", userID, "title", title, "author", author)
			return nil
		}
		return fmt.Errorf("add book: %w", err)
	}
	return nil
}

// RemoveBook deletes by (owner, title, author). Removing a book the user
// does not own is a no-op, not an error.
func (s *Service) RemoveBook(ctx context.Context, token, title, author string) error {
	userID, err := s.sessions.RequireAuthenticated(token)
	if err != nil {
		return err
	}

	affected, err := s.repo.RemoveBookForUser(ctx, userID, title, author)
	if err != nil {
		return fmt.Errorf("remove book: %w", err)
	}
	if affected == 0 {
		logger.Debug("Remove matched no books", "user_id", userID, "title", title, "author", author)
	}
	return nil
}

// Profile returns the authenticated user's collection and rewinds the
// session's pagination cursor. User and books are independent rows, so the
// two lookups run concurrently.
func (s *Service) Profile(ctx context.Context, token string) (*book.User, []book.Entry, error) {
	userID, err := s.sessions.RequireAuthenticated(token)
	if err != nil {
		return nil, nil, err
	}
	s.sessions.ResetOffset(token)

	var (
		user    *book.User
		entries []book.Entry
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.repo.GetUserByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("profile user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		e, err := s.repo.ListBooksForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("profile books: %w", err)
		}
		entries = e
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return user, entries, nil
}

// ProfileView returns any user's collection by username, for public viewing
func (s *Service) ProfileView(ctx context.Context, username string) (*book.User, []book.Entry, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("profile view user %q: %w", username, err)
	}

	entries, err := s.repo.ListBooksForUser(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("profile view books: %w", err)
	}
	return user, entries, nil
}

// Health

// Ping checks the health of the service and its dependencies
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(); err != nil {
		return fmt.Errorf("repository ping: %w", err)
	}
	return nil
}
