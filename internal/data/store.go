package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/repo"

	_ "modernc.org/sqlite"
)

const (
	keyTimer       = "timer"
	keyScene       = "scene"
	keyDestination = "destination"
)

// stateRepo implements the state repository (SQLite key/value store)
type stateRepo struct {
	db *sql.DB
}

// NewStateRepo creates a new state repository
func NewStateRepo(dbPath string) (repo.StateRepo, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bridge_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &stateRepo{db: db}, nil
}

func (r *stateRepo) SaveTimer(ctx context.Context, state *domain.TimerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal timer state: %w", err)
	}
	return r.set(ctx, keyTimer, string(data))
}

func (r *stateRepo) LoadTimer(ctx context.Context) (*domain.TimerState, error) {
	value, err := r.get(ctx, keyTimer)
	if err != nil || value == "" {
		return nil, err
	}
	var state domain.TimerState
	if err := json.Unmarshal([]byte(value), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timer state: %w", err)
	}
	return &state, nil
}

func (r *stateRepo) ClearTimer(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bridge_state WHERE key = ?`, keyTimer)
	if err != nil {
		return fmt.Errorf("failed to clear timer: %w", err)
	}
	return nil
}

func (r *stateRepo) SaveScene(ctx context.Context, scene *domain.Scene) error {
	data, err := json.Marshal(scene)
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}
	return r.set(ctx, keyScene, string(data))
}

func (r *stateRepo) LoadScene(ctx context.Context) (*domain.Scene, error) {
	value, err := r.get(ctx, keyScene)
	if err != nil || value == "" {
		return nil, err
	}
	var scene domain.Scene
	if err := json.Unmarshal([]byte(value), &scene); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scene: %w", err)
	}
	return &scene, nil
}

func (r *stateRepo) SaveDestination(ctx context.Context, destination string) error {
	return r.set(ctx, keyDestination, destination)
}

func (r *stateRepo) LoadDestination(ctx context.Context) (string, error) {
	return r.get(ctx, keyDestination)
}

func (r *stateRepo) Close() error {
	return r.db.Close()
}

func (r *stateRepo) set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO bridge_state (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *stateRepo) get(ctx context.Context, key string) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM bridge_state WHERE key = ?`, key)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", key, err)
	}
	return value, nil
}
