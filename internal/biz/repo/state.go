package repo

import (
	"context"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
)

// StateRepo is the persistence interface for timer and session state.
// Write-through cache for restart recovery; the live in-memory timer is the
// source of truth while the process runs.
type StateRepo interface {
	// SaveTimer persists the timer state
	SaveTimer(ctx context.Context, state *domain.TimerState) error

	// LoadTimer returns the persisted timer state, nil when absent
	LoadTimer(ctx context.Context) (*domain.TimerState, error)

	// ClearTimer removes the persisted timer state
	ClearTimer(ctx context.Context) error

	// SaveScene persists the scene context
	SaveScene(ctx context.Context, scene *domain.Scene) error

	// LoadScene returns the persisted scene, nil when absent
	LoadScene(ctx context.Context) (*domain.Scene, error)

	// SaveDestination persists the user destination address
	SaveDestination(ctx context.Context, destination string) error

	// LoadDestination returns the persisted destination, empty when absent
	LoadDestination(ctx context.Context) (string, error)

	Close() error
}
