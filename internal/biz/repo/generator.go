package repo

import (
	"context"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
)

// GenerateRequest represents a reply generation request
type GenerateRequest struct {
	System string
	Turns  []domain.Turn
	// Silent requests must not surface the prompt in any visible log
	Silent bool
}

// GeneratorRepo is the reply generation interface.
// The reply is returned directly; the caller bounds the wait with its context.
type GeneratorRepo interface {
	GenerateReply(ctx context.Context, req *GenerateRequest) (string, error)
}
