package repo

import (
	"context"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
)

// ChannelStatus represents the bridge service status report
type ChannelStatus struct {
	State      domain.ConnectionState
	ClientInfo string // pushname / phone of the connected account, if any
}

// ChannelRepo is the messaging channel interface.
// Implemented against the external bridge service; the core treats it as an
// opaque capability.
type ChannelRepo interface {
	// GetStatus queries the current connection state
	GetStatus(ctx context.Context) (*ChannelStatus, error)

	// Connect asks the bridge to establish the channel session
	Connect(ctx context.Context) (bool, error)

	// Disconnect tears down the channel session, keeping credentials
	Disconnect(ctx context.Context) error

	// Logout tears down the session and discards credentials
	Logout(ctx context.Context) error

	// FetchPendingMessages drains the channel inbox
	FetchPendingMessages(ctx context.Context) ([]domain.InboundMessage, error)

	// SendMessage sends a text message to a destination address
	SendMessage(ctx context.Context, destination, text string) error
}
