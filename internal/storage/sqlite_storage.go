package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"guild_war_stats/internal/app"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteStorage persists envelopes in a single-table key-value schema.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at path and runs the
// embedded migrations.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting %q: %w", pragma, err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("Opened sqlite storage")

	return &SQLiteStorage{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Get reads the envelope stored under key, or (nil, nil) if absent
func (ss *SQLiteStorage) Get(ctx context.Context, key string) (*app.GuildWarData, error) {
	var payload string
	err := ss.db.QueryRowContext(ctx,
		"SELECT payload FROM guild_war_data WHERE key = ?", key,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}

	var data app.GuildWarData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", key, err)
	}
	return &data, nil
}

// Set upserts the envelope under key
func (ss *SQLiteStorage) Set(ctx context.Context, key string, data *app.GuildWarData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}

	_, err = ss.db.ExecContext(ctx,
		`INSERT INTO guild_war_data (key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Delete removes the envelope stored under key. Deleting an absent key is
// not an error.
func (ss *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if _, err := ss.db.ExecContext(ctx,
		"DELETE FROM guild_war_data WHERE key = ?", key,
	); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle
func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}
