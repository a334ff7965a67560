package app

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MichaelGalloway404/BooksRead/api"
	"github.com/MichaelGalloway404/BooksRead/config"
	"github.com/MichaelGalloway404/BooksRead/logger"
	"github.com/MichaelGalloway404/BooksRead/repo"
)

func CLI(args []string) int {
	var app appEnv
	if err := app.fromArgs(args); err != nil {
		fmt.Println(err)
		return 2
	}

	if err := app.run(); err != nil {
		logger.Error("Runtime error", "error", err)
		return 1
	}
	return 0
}

type appEnv struct {
	httpServer *http.Server
	config     *config.Config
	cmd        string
	server     *Server
}

func (app *appEnv) fromArgs(args []string) error {
	fl := flag.NewFlagSet("booksread", flag.ContinueOnError)

	// Load default config
	cfg := config.Load()

	// CLI flags override environment variables
	port := cfg.Server.Port
	dbPath := cfg.Database.Path

	fl.IntVar(&port, "p", cfg.Server.Port, "Port number")
	fl.StringVar(&dbPath, "d", cfg.Database.Path, "Path to the database file")

	if err := fl.Parse(args); err != nil {
		fl.Usage()
		return err
	}

	if fl.NArg() < 1 {
		return fmt.Errorf("please provide a command to run (serve, init)")
	}

	app.cmd = fl.Arg(0)
	app.config = cfg
	app.config.Server.Port = port
	app.config.Database.Path = dbPath

	return nil
}

func (app *appEnv) run() error {
	// Initialize logger
	logger.Init(app.config.LogLevel)

	storage := repo.GetStorageWithConfig(app.config.Database.Path, app.config)

	switch app.cmd {
	case "serve":
		app.server = NewServer(storage, app.config)
		app.serve()
	case "init":
		// Schema is created on open; nothing more to do
		defer func() {
			if err := storage.Close(); err != nil {
				logger.Error("Error closing storage", "error", err)
			}
		}()
		logger.Info("Database initialized", "path", app.config.Database.Path)
	default:
		return fmt.Errorf("unknown command %s", app.cmd)
	}
	return nil
}

func (app *appEnv) serve() {
	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: api.NewHandler(app.server.Service()),

		ReadTimeout:  time.Duration(app.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(app.config.Server.IdleTimeout) * time.Second,
	}
	app.httpServer = srv

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "port", app.config.Server.Port, "url", fmt.Sprintf("http://localhost:%d", app.config.Server.Port))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
		return
	case sig := <-shutdownSignal:
		logger.Info("Received shutdown signal", "signal", sig.String())

		logger.Info("Shutting down server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}

		logger.Info("Closing sessions and database...")
		if err := app.server.Close(); err != nil {
			logger.Error("Error closing server", "error", err)
		}

		logger.Info("Server stopped")
	}
}
