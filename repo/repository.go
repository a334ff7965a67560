package repo

import (
	"context"
	"errors"

	"github.com/MichaelGalloway404/BooksRead/book"
)

// ErrNotFound is returned when a record is not found in the repository.
// FindUserByCredentials returns it for both an unknown username and a wrong
// password; callers cannot tell the two apart.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateUser is returned when a username is already taken
var ErrDuplicateUser = errors.New("username already taken")

// ErrDuplicateEntry is returned when a user already owns a book with the
// same title and author
var ErrDuplicateEntry = errors.New("book already in collection")

// Repository defines the interface for data access operations
type Repository interface {
	// Close closes the database connection
	Close() error

	// Health check
	Ping() error

	// Users
	FindUserByCredentials(ctx context.Context, username, password string) (*book.User, error)
	CreateUser(ctx context.Context, username, password string) (*book.User, error)
	GetUserByID(ctx context.Context, id int64) (*book.User, error)
	GetUserByUsername(ctx context.Context, username string) (*book.User, error)
	ListUsernames(ctx context.Context) ([]string, error)

	// Collections; entries are unique per (owner, title, author)
	ListBooksForUser(ctx context.Context, userID int64) ([]book.Entry, error)
	AddBookForUser(ctx context.Context, userID int64, title, author, coverURL string) error
	RemoveBookForUser(ctx context.Context, userID int64, title, author string) (int64, error)
}
