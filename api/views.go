package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MichaelGalloway404/BooksRead/book"
	"github.com/MichaelGalloway404/BooksRead/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// View data passed to the named templates. Field names title/author/coverUrl
// on candidates and entries come from the book package's JSON shape.

type homeData struct {
	Users []string
}

type loginData struct {
	Error   string
	Message string
}

type signupData struct {
	Error string
}

type profileData struct {
	ListTitle string
	Books     []book.Entry
}

type selectionData struct {
	Books      []book.Candidate
	Offset     int
	Total      int
	BookTitle  string
	BookAuthor string
	LoggedIn   bool
}

// render executes the named template into a buffer first, so a template
// failure becomes a clean 500 instead of a half-written page
func render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// titleCase uppercases the first rune, matching the display style of the
// profile headings
func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// upperAll uppercases usernames for the landing page listing
func upperAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToUpper(n)
	}
	return out
}
