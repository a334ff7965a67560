package api

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"strconv"

	"github.com/MichaelGalloway404/BooksRead/logger"
	"github.com/MichaelGalloway404/BooksRead/opds"
	"github.com/MichaelGalloway404/BooksRead/pager"
	"github.com/MichaelGalloway404/BooksRead/repo"
	"github.com/MichaelGalloway404/BooksRead/service"
)

func searchAPIHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		title := r.URL.Query().Get("title")
		author := r.URL.Query().Get("author")

		// Parse limit with validation
		limitStr := r.URL.Query().Get("limit")
		limit := pager.DefaultPageSize
		if limitStr != "" {
			l, err := strconv.Atoi(limitStr)
			if err != nil {
				respondWithValidationError(w, "invalid 'limit' parameter")
				return
			}
			if l < 1 || l > 100 {
				respondWithValidationError(w, "'limit' must be between 1 and 100")
				return
			}
			limit = l
		}

		// Parse offset with validation
		offsetStr := r.URL.Query().Get("offset")
		offset := 0
		if offsetStr != "" {
			o, err := strconv.Atoi(offsetStr)
			if err != nil {
				respondWithValidationError(w, "invalid 'offset' parameter")
				return
			}
			if o < 0 {
				respondWithValidationError(w, "'offset' must be >= 0")
				return
			}
			offset = o
		}

		results := svc.SearchPage(ctx, title, author, limit, offset)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(results); err != nil {
			logger.Error("Failed to encode search results", "error", err)
		}
	})
}

func opdsUserFeedHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		username := r.PathValue("username")
		user, entries, err := svc.ProfileView(ctx, username)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				respondWithError(w, "user not found", err, http.StatusNotFound)
			} else {
				respondWithError(w, "Failed to build feed", err, http.StatusInternalServerError)
			}
			return
		}

		feed := opds.CollectionFeed(user, entries, r.URL.Path)

		w.Header().Set("Content-Type", opds.TypeAcquisition)
		if _, err := w.Write([]byte(xml.Header)); err != nil {
			logger.Error("Failed to write feed header", "error", err)
			return
		}
		if err := xml.NewEncoder(w).Encode(feed); err != nil {
			logger.Error("Failed to encode feed", "error", err)
		}
	})
}

func healthCheckHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := svc.Ping(ctx); err != nil {
			respondWithError(w, "service unavailable", err, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		}); err != nil {
			logger.Error("Failed to encode health check response", "error", err)
		}
	}
}
