package repo

import (
	"context"
	"fmt"

	"github.com/MichaelGalloway404/BooksRead/book"
)

// ListBooksForUser returns the user's collection ordered by title
func (r *Repo) ListBooksForUser(ctx context.Context, userID int64) ([]book.Entry, error) {
	QUERY := `
		SELECT book_id, user_id, title, author, cover_url
		FROM books
		WHERE user_id = ?
		ORDER BY title COLLATE NOCASE
	`

	rows, err := r.db.QueryContext(ctx, QUERY, userID)
	if err != nil {
		return nil, fmt.Errorf("list books for user %d: %w", userID, err)
	}
	defer rows.Close()

	entries := make([]book.Entry, 0)
	for rows.Next() {
		var e book.Entry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Author, &e.CoverURL); err != nil {
			return nil, fmt.Errorf("scan book entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book entries: %w", err)
	}

	return entries, nil
}

// AddBookForUser inserts a book into the user's collection.
// Returns ErrDuplicateEntry when the (user, title, author) already exists.
func (r *Repo) AddBookForUser(ctx context.Context, userID int64, title, author, coverURL string) error {
	INSERT := `INSERT INTO books(user_id, title, author, cover_url) VALUES(?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, INSERT, userID, title, author, coverURL); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("add book for user %d: %w", userID, err)
	}
	return nil
}

// RemoveBookForUser deletes by the (owner, title, author) key and returns the
// number of rows removed. Deleting a book the user does not own is a no-op.
// The key deliberately collapses editions that share title and author.
func (r *Repo) RemoveBookForUser(ctx context.Context, userID int64, title, author string) (int64, error) {
	DELETE := `DELETE FROM books WHERE user_id = ? AND title = ? AND author = ?`

	result, err := r.db.ExecContext(ctx, DELETE, userID, title, author)
	if err != nil {
		return 0, fmt.Errorf("remove book for user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("remove book rows affected: %w", err)
	}
	return affected, nil
}
