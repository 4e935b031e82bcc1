package repo

import (
	"context"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
)

// ConversationRepo is the conversation log interface.
// The host chat application owns the real log; the bridge reads the tail and
// appends synthetic turns.
type ConversationRepo interface {
	// Tail returns the last n turns in order
	Tail(ctx context.Context, n int) ([]domain.Turn, error)

	// Append appends a turn to the conversation
	Append(ctx context.Context, turn domain.Turn) error

	// LastTurnTime returns the time of the newest turn; zero when the
	// conversation is empty
	LastTurnTime(ctx context.Context) (time.Time, error)
}
