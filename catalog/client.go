// Package catalog provides a client for the Open Library book catalog.
// Search is best-effort: upstream failures are absorbed and reported as
// zero results so a flaky catalog can never take down the page-render path.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/MichaelGalloway404/BooksRead/book"
	"github.com/MichaelGalloway404/BooksRead/config"
	"github.com/MichaelGalloway404/BooksRead/logger"
)

// isbnPattern matches a bare ISBN: 10 to 13 consecutive digits
var isbnPattern = regexp.MustCompile(`^\d{10,13}$`)

// IsDirectISBN reports whether the trimmed input should be treated as a
// direct ISBN lookup rather than a title search.
func IsDirectISBN(s string) bool {
	return isbnPattern.MatchString(strings.TrimSpace(s))
}

// Client queries the Open Library search and covers endpoints
type Client struct {
	baseURL       string
	coversBaseURL string
	http          *http.Client
	limiter       *rate.Limiter
	group         singleflight.Group
}

// New creates a catalog client from configuration
func New(cfg config.CatalogConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps < 1 {
		rps = 1
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		coversBaseURL: strings.TrimRight(cfg.CoversBaseURL, "/"),
		http: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// searchResponse mirrors the relevant part of search.json
type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Title      string   `json:"title"`
	AuthorName []string `json:"author_name"`
	CoverID    int64    `json:"cover_i"`
	Key        string   `json:"key"`
	ISBN       []string `json:"isbn"`
}

// Search routes a query: a bare 10-13 digit title is a direct ISBN lookup,
// anything else goes to the title/author search. A blank title is valid and
// yields broad, unfiltered catalog results.
func (c *Client) Search(ctx context.Context, title, author string) []book.Candidate {
	if IsDirectISBN(title) {
		return c.SearchByISBN(title)
	}
	return c.SearchByTitleAuthor(ctx, title, author)
}

// SearchByTitleAuthor queries the catalog with whichever of title/author are
// non-empty. Documents without a cover image are dropped: they cannot be
// presented as candidates. Any transport or decode failure is logged and
// returned as zero results.
func (c *Client) SearchByTitleAuthor(ctx context.Context, title, author string) []book.Candidate {
	// Identical in-flight queries share one upstream call. The shared call
	// runs on the first caller's context, which is bounded by the client
	// timeout either way.
	v, err, _ := c.group.Do(title+"\x00"+author, func() (any, error) {
		return c.search(ctx, title, author)
	})
	if err != nil {
		logger.Error("Catalog search failed", "title", title, "author", author, "error", err)
		return []book.Candidate{}
	}
	return v.([]book.Candidate)
}

func (c *Client) search(ctx context.Context, title, author string) ([]book.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	if title != "" {
		params.Set("title", title)
	}
	if author != "" {
		params.Set("author", author)
	}

	searchURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request returned status: %s", resp.Status)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	candidates := make([]book.Candidate, 0, len(result.Docs))
	for _, doc := range result.Docs {
		if doc.CoverID == 0 {
			// no artwork, not presentable
			continue
		}
		isbn := ""
		if len(doc.ISBN) > 0 {
			isbn = doc.ISBN[0]
		}
		candidates = append(candidates, book.Candidate{
			Title:    doc.Title,
			Author:   strings.Join(doc.AuthorName, ", "),
			CoverURL: c.CoverByID(doc.CoverID),
			OLID:     doc.Key,
			ISBN:     isbn,
		})
	}

	return candidates, nil
}

// SearchByISBN synthesizes a single candidate for a direct ISBN lookup.
// No network call is made; the identifier is assumed to denote a real book.
func (c *Client) SearchByISBN(identifier string) []book.Candidate {
	isbn := strings.TrimSpace(identifier)
	return []book.Candidate{{
		Title:    fmt.Sprintf("Book with ISBN %s", isbn),
		Author:   "Unknown Author",
		CoverURL: c.CoverByISBN(isbn),
		ISBN:     isbn,
	}}
}

// CoverByID returns the medium cover image URL for a cover-image identifier
func (c *Client) CoverByID(coverID int64) string {
	return fmt.Sprintf("%s/b/id/%d-M.jpg", c.coversBaseURL, coverID)
}

// CoverByISBN returns the medium cover image URL for an ISBN
func (c *Client) CoverByISBN(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-M.jpg", c.coversBaseURL, isbn)
}
