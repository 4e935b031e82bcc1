package service

import (
	"context"
	"sync"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/repo"
)

// Mock implementations shared by the service tests

type sentMessage struct {
	Destination string
	Text        string
}

type mockChannelRepo struct {
	mu sync.Mutex

	status    repo.ChannelStatus
	statusErr error

	connectOK  bool
	connectErr error

	pending  [][]domain.InboundMessage
	fetchErr error

	sent    []sentMessage
	sendErr error

	fetchCalls      int
	connectCalls    int
	disconnectCalls int
	logoutCalls     int
}

func (m *mockChannelRepo) GetStatus(ctx context.Context) (*repo.ChannelStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	status := m.status
	return &status, nil
}

func (m *mockChannelRepo) Connect(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectCalls++
	return m.connectOK, m.connectErr
}

func (m *mockChannelRepo) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnectCalls++
	return nil
}

func (m *mockChannelRepo) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutCalls++
	return nil
}

func (m *mockChannelRepo) FetchPendingMessages(ctx context.Context) ([]domain.InboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.fetchErr != nil {
		err := m.fetchErr
		m.fetchErr = nil
		return nil, err
	}
	if len(m.pending) == 0 {
		return nil, nil
	}
	batch := m.pending[0]
	m.pending = m.pending[1:]
	return batch, nil
}

func (m *mockChannelRepo) SendMessage(ctx context.Context, destination, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMessage{Destination: destination, Text: text})
	return nil
}

func (m *mockChannelRepo) sentMessages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

func (m *mockChannelRepo) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

type mockConversationRepo struct {
	mu    sync.Mutex
	turns []domain.Turn
}

func (m *mockConversationRepo) Tail(ctx context.Context, n int) ([]domain.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.turns) <= n {
		return append([]domain.Turn(nil), m.turns...), nil
	}
	return append([]domain.Turn(nil), m.turns[len(m.turns)-n:]...), nil
}

func (m *mockConversationRepo) Append(ctx context.Context, turn domain.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, turn)
	return nil
}

func (m *mockConversationRepo) LastTurnTime(ctx context.Context) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.turns) == 0 {
		return time.Time{}, nil
	}
	return m.turns[len(m.turns)-1].CreatedAt, nil
}

func (m *mockConversationRepo) allTurns() []domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Turn(nil), m.turns...)
}

type mockGeneratorRepo struct {
	mu        sync.Mutex
	reply     string
	replyFunc func(req *repo.GenerateRequest) string
	err       error
	block     chan struct{} // when set, GenerateReply waits for close or ctx
	requests  []*repo.GenerateRequest
}

func (m *mockGeneratorRepo) GenerateReply(ctx context.Context, req *repo.GenerateRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	reply := m.reply
	replyFunc := m.replyFunc
	err := m.err
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if replyFunc != nil {
		return replyFunc(req), nil
	}
	return reply, nil
}

func (m *mockGeneratorRepo) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type mockStateRepo struct {
	mu          sync.Mutex
	timer       *domain.TimerState
	scene       *domain.Scene
	destination string
}

func (m *mockStateRepo) SaveTimer(ctx context.Context, state *domain.TimerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *state
	m.timer = &copied
	return nil
}

func (m *mockStateRepo) LoadTimer(ctx context.Context) (*domain.TimerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer == nil {
		return nil, nil
	}
	copied := *m.timer
	return &copied, nil
}

func (m *mockStateRepo) ClearTimer(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timer = nil
	return nil
}

func (m *mockStateRepo) SaveScene(ctx context.Context, scene *domain.Scene) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *scene
	m.scene = &copied
	return nil
}

func (m *mockStateRepo) LoadScene(ctx context.Context) (*domain.Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scene == nil {
		return nil, nil
	}
	copied := *m.scene
	return &copied, nil
}

func (m *mockStateRepo) SaveDestination(ctx context.Context, destination string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destination = destination
	return nil
}

func (m *mockStateRepo) LoadDestination(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destination, nil
}

func (m *mockStateRepo) Close() error {
	return nil
}

func (m *mockStateRepo) persistedTimer() *domain.TimerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer == nil {
		return nil
	}
	copied := *m.timer
	return &copied
}
