package repo

import (
	"database/sql"

	"github.com/MichaelGalloway404/BooksRead/logger"
)

type Repo struct {
	db   *sql.DB
	path string
}

func (r *Repo) Close() error {
	if r.db != nil {
		logger.Info("Closing database connection")
		return r.db.Close()
	}
	return nil
}

func (r *Repo) Ping() error {
	if r.db != nil {
		return r.db.Ping()
	}
	return sql.ErrConnDone
}
