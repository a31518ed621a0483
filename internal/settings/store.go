// Package settings persists the user-facing toggles and request statistics
// that the popup shows.
package settings

import (
	"context"
	"database/sql"
	"fmt"
	"ratemyclass/internal/components/assert"
)

type Settings struct {
	TooltipsEnabled bool
	// RequestsLastSearch is the number of upstream requests the last pass made.
	RequestsLastSearch int64
	// RequestsLifetime1 is the total number of upstream requests ever made.
	RequestsLifetime1 int64
	// RequestsLifetime2 is the total number of names ever looked up,
	// including the ones answered from the cache.
	RequestsLifetime2 int64
}

// Search summarizes the lookups of one pass.
type Search struct {
	Requests int64
	Lookups  int64
}

type Store struct {
	db *sql.DB
}

// NewStore creates the settings table if needed.
func NewStore(ctx context.Context, db *sql.DB) (Store, error) {
	assert.NotNil(db)
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return Store{}, fmt.Errorf("create settings schema: %w", err)
	}
	return Store{db: db}, nil
}

func (s Store) Get(ctx context.Context) (Settings, error) {
	rows, err := s.db.QueryContext(ctx, "select key, value from settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	var out Settings
	for rows.Next() {
		var key string
		var value int64
		err = rows.Scan(&key, &value)
		if err != nil {
			return Settings{}, err
		}

		switch key {
		case key_tooltips_enabled:
			out.TooltipsEnabled = value != 0
		case key_requests_last_search:
			out.RequestsLastSearch = value
		case key_requests_lifetime_1:
			out.RequestsLifetime1 = value
		case key_requests_lifetime_2:
			out.RequestsLifetime2 = value
		}
	}
	return out, rows.Err()
}

func (s Store) SetTooltipsEnabled(ctx context.Context, enabled bool) error {
	var value int64
	if enabled {
		value = 1
	}
	_, err := s.db.ExecContext(
		ctx,
		`insert into settings (key, value) values (?, ?)
		on conflict (key) do update set value = excluded.value`,
		key_tooltips_enabled, value,
	)
	return err
}

// RecordSearch stores the statistics of a finished pass.
func (s Store) RecordSearch(ctx context.Context, search Search) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`insert into settings (key, value) values (?, ?)
		on conflict (key) do update set value = excluded.value`,
		key_requests_last_search, search.Requests,
	)
	if err != nil {
		return err
	}

	increments := []struct {
		key string
		by  int64
	}{
		{key: key_requests_lifetime_1, by: search.Requests},
		{key: key_requests_lifetime_2, by: search.Lookups},
	}
	for _, inc := range increments {
		_, err = tx.ExecContext(
			ctx,
			`insert into settings (key, value) values (?, ?)
			on conflict (key) do update set value = value + excluded.value`,
			inc.key, inc.by,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
