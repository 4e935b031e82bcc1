package data

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
)

func newTestStore(t *testing.T) *stateRepo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStateRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store.(*stateRepo)
}

func TestTimerState_SaveLoadClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Absent timer loads as nil
	state, err := store.LoadTimer(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if state != nil {
		t.Errorf("Expected nil timer, got %+v", state)
	}

	saved := &domain.TimerState{
		DelayMinutes: 45,
		Intent:       "worried_checkin",
		SetAtEpochMs: time.Now().UnixMilli(),
	}
	if err := store.SaveTimer(ctx, saved); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	loaded, err := store.LoadTimer(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if loaded == nil || *loaded != *saved {
		t.Errorf("Expected %+v, got %+v", saved, loaded)
	}

	if err := store.ClearTimer(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	loaded, err = store.LoadTimer(ctx)
	if err != nil || loaded != nil {
		t.Errorf("Expected cleared timer, got %+v (err=%v)", loaded, err)
	}
}

func TestTimerState_Overwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.SaveTimer(ctx, &domain.TimerState{DelayMinutes: 5, Intent: "a", SetAtEpochMs: 1})
	store.SaveTimer(ctx, &domain.TimerState{DelayMinutes: 10, Intent: "b", SetAtEpochMs: 2})

	loaded, err := store.LoadTimer(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if loaded.DelayMinutes != 10 || loaded.Intent != "b" {
		t.Errorf("Expected the second save to win, got %+v", loaded)
	}
}

func TestScene_SaveLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	scene, err := store.LoadScene(ctx)
	if err != nil || scene != nil {
		t.Errorf("Expected nil scene, got %+v (err=%v)", scene, err)
	}

	saved := &domain.Scene{State: domain.ScenePaused, Summary: "at the station"}
	if err := store.SaveScene(ctx, saved); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	loaded, err := store.LoadScene(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if loaded == nil || *loaded != *saved {
		t.Errorf("Expected %+v, got %+v", saved, loaded)
	}
}

func TestDestination_SaveLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	dest, err := store.LoadDestination(ctx)
	if err != nil || dest != "" {
		t.Errorf("Expected empty destination, got %q (err=%v)", dest, err)
	}

	if err := store.SaveDestination(ctx, "555123@c.us"); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	dest, err = store.LoadDestination(ctx)
	if err != nil || dest != "555123@c.us" {
		t.Errorf("Expected 555123@c.us, got %q (err=%v)", dest, err)
	}
}
