package book

// User is an account that owns a collection of books.
// The password hash never leaves the repository layer.
type User struct {
	ID       int64  `json:"ID"`
	Username string `json:"Username"`
}

// Candidate is a search result prior to persistence. It is created per
// search request and either discarded or promoted to an Entry when the
// user adds it to their collection.
type Candidate struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"coverUrl"`
	OLID     string `json:"olid,omitempty"`
	ISBN     string `json:"isbn,omitempty"`
}

// Entry is a book owned by a user. Uniqueness of (OwnerID, Title, Author)
// is enforced by the repository.
type Entry struct {
	ID       int64  `json:"entry_id,omitempty"`
	OwnerID  int64  `json:"owner_id,omitempty"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"coverUrl"`
}
