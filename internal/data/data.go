package data

import (
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/repo"
	"github.com/anthropics/whatsapp-chat-bridge/whatsapp"
)

// Repositories contains all repositories
type Repositories struct {
	Channel      repo.ChannelRepo
	Conversation repo.ConversationRepo
	Generator    repo.GeneratorRepo
	State        repo.StateRepo
}

// NewRepositories creates all repositories
func NewRepositories(bridgeClient *whatsapp.Client, genCfg GeneratorConfig, stateDBPath string) (*Repositories, error) {
	stateRepo, err := NewStateRepo(stateDBPath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Channel:      NewBridgeRepo(bridgeClient),
		Conversation: NewConversationRepo(),
		Generator:    NewGeneratorRepo(genCfg),
		State:        stateRepo,
	}, nil
}
