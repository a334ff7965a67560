package api

import (
	"net/http"

	"github.com/MichaelGalloway404/BooksRead/middleware"
	"github.com/MichaelGalloway404/BooksRead/service"
)

// NewHandler creates and returns the main HTTP handler (router) for the application
func NewHandler(svc *service.Service) http.Handler {
	mux := http.NewServeMux()

	// Browser routes
	mux.Handle("GET /{$}", homeHandler(svc))
	mux.Handle("GET /login", loginPageHandler(svc))
	mux.Handle("POST /login", loginSubmitHandler(svc))
	mux.Handle("GET /signup", signupPageHandler(svc))
	mux.Handle("POST /signup", signupSubmitHandler(svc))
	mux.Handle("GET /profile", profileHandler(svc))
	mux.Handle("POST /profile/view", profileViewHandler(svc))
	mux.Handle("POST /search", searchHandler(svc))
	mux.Handle("POST /books/add", addBookHandler(svc))
	mux.Handle("POST /books/delete", deleteBookHandler(svc))
	mux.Handle("POST /logout", logoutHandler(svc))

	// OPDS export
	mux.Handle("GET /opds/users/{username}", opdsUserFeedHandler(svc))

	// JSON API
	mux.Handle("GET /api/search", withCORS(searchAPIHandler(svc)))
	mux.HandleFunc("GET /health", healthCheckHandler(svc))

	// Apply middleware chain
	chain := middleware.Chain(
		middleware.Recovery,
		middleware.Logger,
		middleware.RequestID,
	)

	return chain(mux)
}
