package configutil

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Database selects where a sqlite database lives, a remote libsql database is
// used when Url is set, otherwise File is opened locally.
type Database struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Database) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		dsn := config.Url
		if config.AuthToken != "" {
			parsed, err := url.Parse(config.Url)
			if err != nil {
				return nil, err
			}
			query := parsed.Query()
			query.Set("authToken", config.AuthToken)
			parsed.RawQuery = query.Encode()
			dsn = parsed.String()
		}
		return sql.Open("libsql", dsn)
	}

	if config.File == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}
	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if config.File != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
