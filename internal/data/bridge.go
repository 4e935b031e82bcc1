package data

import (
	"context"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/repo"
	"github.com/anthropics/whatsapp-chat-bridge/whatsapp"
)

// bridgeRepo implements the channel repository against the bridge service
type bridgeRepo struct {
	client *whatsapp.Client
}

// NewBridgeRepo creates a channel repository backed by the bridge client
func NewBridgeRepo(client *whatsapp.Client) repo.ChannelRepo {
	return &bridgeRepo{client: client}
}

func (r *bridgeRepo) GetStatus(ctx context.Context) (*repo.ChannelStatus, error) {
	status, err := r.client.GetStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &repo.ChannelStatus{
		State:      domain.ParseConnectionState(status.State),
		ClientInfo: status.ClientInfo,
	}, nil
}

func (r *bridgeRepo) Connect(ctx context.Context) (bool, error) {
	result, err := r.client.Connect(ctx)
	if err != nil {
		return false, err
	}
	return result.Success, nil
}

func (r *bridgeRepo) Disconnect(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *bridgeRepo) Logout(ctx context.Context) error {
	return r.client.Logout(ctx)
}

func (r *bridgeRepo) FetchPendingMessages(ctx context.Context) ([]domain.InboundMessage, error) {
	msgs, err := r.client.PendingMessages(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.InboundMessage, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, domain.InboundMessage{
			Body:      m.Body,
			HasMedia:  m.HasMedia,
			MediaType: m.MediaType,
		})
	}
	return result, nil
}

func (r *bridgeRepo) SendMessage(ctx context.Context, destination, text string) error {
	return r.client.SendMessage(ctx, destination, text)
}
