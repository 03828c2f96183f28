package slot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tastybites/ordering/internal/cart/domain"
)

// SQLiteSlot is a file-backed durable slot, usable when no Redis instance is
// available (single-host deployments, local development).
type SQLiteSlot struct {
	db *sql.DB
}

func NewSQLiteSlot(dbPath string) (*SQLiteSlot, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS cart_slots (
		slot_name  TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create cart_slots table: %w", err)
	}

	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Load(ctx context.Context, name string) ([]domain.CartLine, error) {
	var payload string
	query := `SELECT payload FROM cart_slots WHERE slot_name = ?`
	err := s.db.QueryRowContext(ctx, query, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("query slot: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart lines failed: %w", err)
	}

	return lines, nil
}

func (s *SQLiteSlot) Save(ctx context.Context, name string, lines []domain.CartLine) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart lines failed: %w", err)
	}

	query := `INSERT INTO cart_slots (slot_name, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	          ON CONFLICT(slot_name) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, name, string(payload)); err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Clear(ctx context.Context, name string) error {
	query := `DELETE FROM cart_slots WHERE slot_name = ?`
	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
