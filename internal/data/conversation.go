package data

import (
	"context"
	"sync"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/repo"
)

// conversationRepo is an in-memory conversation log. The host chat
// application owns the real log; this implementation backs the standalone
// bridge binary.
type conversationRepo struct {
	mu    sync.Mutex
	turns []domain.Turn
}

// NewConversationRepo creates an in-memory conversation repository
func NewConversationRepo() repo.ConversationRepo {
	return &conversationRepo{}
}

func (r *conversationRepo) Tail(ctx context.Context, n int) ([]domain.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.turns) <= n {
		return append([]domain.Turn(nil), r.turns...), nil
	}
	return append([]domain.Turn(nil), r.turns[len(r.turns)-n:]...), nil
}

func (r *conversationRepo) Append(ctx context.Context, turn domain.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	r.turns = append(r.turns, turn)
	return nil
}

func (r *conversationRepo) LastTurnTime(ctx context.Context) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.turns) == 0 {
		return time.Time{}, nil
	}
	return r.turns[len(r.turns)-1].CreatedAt, nil
}
