package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore keeps fragments in a save_slots table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects and creates the table if it does not exist.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS save_slots (
		slot TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Write upserts the slot in a single statement.
func (s *PostgresStore) Write(ctx context.Context, slot string, data []byte) error {
	if err := validSlot(slot); err != nil {
		return err
	}

	query := `
	INSERT INTO save_slots (slot, data)
	VALUES ($1, $2)
	ON CONFLICT (slot)
	DO UPDATE SET data = $2, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, slot, string(data)); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

// Read loads the slot.
func (s *PostgresStore) Read(ctx context.Context, slot string) ([]byte, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM save_slots WHERE slot = $1`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return []byte(data), nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
