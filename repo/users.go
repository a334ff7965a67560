package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/MichaelGalloway404/BooksRead/book"
)

// FindUserByCredentials resolves a username/password pair to a user.
// An unknown username and a wrong password both return ErrNotFound, so the
// two cases are indistinguishable to the caller.
func (r *Repo) FindUserByCredentials(ctx context.Context, username, password string) (*book.User, error) {
	QUERY := `SELECT user_id, username, password_hash FROM users WHERE username = ?`

	var u book.User
	var hash string
	err := r.db.QueryRowContext(ctx, QUERY, username).Scan(&u.ID, &u.Username, &hash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}

	return &u, nil
}

// CreateUser inserts a new user with a bcrypt password hash.
// Returns ErrDuplicateUser when the username is taken.
func (r *Repo) CreateUser(ctx context.Context, username, password string) (*book.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	INSERT := `INSERT INTO users(username, password_hash) VALUES(?, ?)`
	result, err := r.db.ExecContext(ctx, INSERT, username, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user id: %w", err)
	}

	return &book.User{ID: id, Username: username}, nil
}

// GetUserByID retrieves a user by ID
func (r *Repo) GetUserByID(ctx context.Context, id int64) (*book.User, error) {
	QUERY := `SELECT user_id, username FROM users WHERE user_id = ?`

	var u book.User
	err := r.db.QueryRowContext(ctx, QUERY, id).Scan(&u.ID, &u.Username)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id %d: %w", id, err)
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username. The lookup is
// case-insensitive: the landing page displays names uppercased and posts
// them back as-is.
func (r *Repo) GetUserByUsername(ctx context.Context, username string) (*book.User, error) {
	QUERY := `SELECT user_id, username FROM users WHERE username = ? COLLATE NOCASE`

	var u book.User
	err := r.db.QueryRowContext(ctx, QUERY, username).Scan(&u.ID, &u.Username)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username %q: %w", username, err)
	}
	return &u, nil
}

// ListUsernames returns all registered usernames ordered alphabetically
func (r *Repo) ListUsernames(ctx context.Context) ([]string, error) {
	QUERY := `SELECT username FROM users ORDER BY username COLLATE NOCASE`

	rows, err := r.db.QueryContext(ctx, QUERY)
	if err != nil {
		return nil, fmt.Errorf("list usernames: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usernames: %w", err)
	}

	return names, nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
