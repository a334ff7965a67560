package app

import (
	"github.com/MichaelGalloway404/BooksRead/catalog"
	"github.com/MichaelGalloway404/BooksRead/config"
	"github.com/MichaelGalloway404/BooksRead/repo"
	"github.com/MichaelGalloway404/BooksRead/service"
	"github.com/MichaelGalloway404/BooksRead/session"
)

type Server struct {
	storage  *repo.Repo
	sessions *session.Manager
	service  *service.Service
	config   *config.Config
}

func NewServer(storage *repo.Repo, cfg *config.Config) *Server {
	sessions := session.NewManager(cfg.Session)
	return &Server{
		storage:  storage,
		sessions: sessions,
		service:  service.New(storage, catalog.New(cfg.Catalog), sessions, cfg),
		config:   cfg,
	}
}

// Service returns the wired business layer for the HTTP handler
func (s *Server) Service() *service.Service {
	return s.service
}

func (s *Server) Close() error {
	if s.sessions != nil {
		s.sessions.Close()
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return err
		}
	}
	return nil
}
