package repo

import (
	"database/sql"
	"time"

	"github.com/MichaelGalloway404/BooksRead/config"
	"github.com/MichaelGalloway404/BooksRead/logger"
	_ "github.com/mattn/go-sqlite3"
)

func GetStorage(path string) *Repo {
	return GetStorageWithConfig(path, config.Load())
}

func GetStorageWithConfig(path string, cfg *config.Config) *Repo {
	r := &Repo{path: path}

	db, err := sql.Open("sqlite3", "file:"+r.path+"?cache=shared&mode=rwc&_journal_mode=WAL")
	if err != nil {
		logger.Error("Failed to open database", "path", r.path, "error", err)
		panic(err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logger.Warn("Failed to enable foreign keys", "error", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("Failed to set busy_timeout", "error", err)
	}

	r.db = db

	if err := r.createSchema(); err != nil {
		logger.Error("Failed to create schema", "error", err)
		panic(err)
	}

	return r
}

func (r *Repo) createSchema() error {
	sqlStmt := `
           CREATE TABLE IF NOT EXISTS "users" (
               user_id integer primary key autoincrement not null,
               username text not null,
               password_hash text not null,
               UNIQUE(username)
           );
           CREATE INDEX IF NOT EXISTS [I_username] ON "users" ([username]);

           CREATE TABLE IF NOT EXISTS "books" (
               book_id integer primary key autoincrement not null,
               user_id integer not null,
               title text not null,
               author text not null,
               cover_url text not null default '',
               UNIQUE(user_id, title, author),
               FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
           );
           CREATE INDEX IF NOT EXISTS [I_books_user_id] ON "books" ([user_id]);
  	    `
	_, err := r.db.Exec(sqlStmt)
	return err
}
