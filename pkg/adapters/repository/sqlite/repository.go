package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

// tokenSlot names the single slot the session token lives in
const tokenSlot = "auth_token"

type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.TokenStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS kv_slots (
		slot TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(query)
	return err
}

// Load returns the stored token, or "" when the slot is empty
func (r *SQLiteRepository) Load(ctx context.Context) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE slot = ?`, tokenSlot).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Save overwrites the slot; there is never more than one token.
func (r *SQLiteRepository) Save(ctx context.Context, token string) error {
	query := `INSERT INTO kv_slots (slot, value, updated_at) VALUES (?, ?, ?)
			  ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, tokenSlot, token, time.Now().UTC())
	return err
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_slots WHERE slot = ?`, tokenSlot)
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
