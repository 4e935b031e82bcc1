package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/repo"
)

// ConnectionManager owns the channel connection state machine. Entering the
// connected state starts the relay loop and resumes the proactive scheduler;
// leaving it stops the loop and cancels the scheduler.
type ConnectionManager struct {
	channel   repo.ChannelRepo
	relay     *RelayLoop
	scheduler *ProactiveScheduler

	statusInterval time.Duration

	mu    sync.Mutex
	state domain.ConnectionState

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(
	channel repo.ChannelRepo,
	relay *RelayLoop,
	scheduler *ProactiveScheduler,
	statusInterval time.Duration,
) *ConnectionManager {
	return &ConnectionManager{
		channel:        channel,
		relay:          relay,
		scheduler:      scheduler,
		statusInterval: statusInterval,
		state:          domain.StateDisconnected,
	}
}

// State returns the current connection state
func (m *ConnectionManager) State() domain.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect asks the bridge service to establish the channel session. A failed
// connect is logged and reverts to disconnected; the caller must re-invoke.
func (m *ConnectionManager) Connect(ctx context.Context) {
	if m.State() == domain.StateConnected {
		return
	}
	m.applyState(ctx, domain.StateConnecting)

	ok, err := m.channel.Connect(ctx)
	if err != nil || !ok {
		fmt.Printf("[Connection] Connect failed: ok=%v err=%v\n", ok, err)
		m.applyState(ctx, domain.StateDisconnected)
		return
	}

	m.Refresh(ctx)
}

// Disconnect tears down the channel session
func (m *ConnectionManager) Disconnect(ctx context.Context) {
	if err := m.channel.Disconnect(ctx); err != nil {
		fmt.Printf("[Connection] Disconnect error: %v\n", err)
	}
	m.applyState(ctx, domain.StateDisconnected)
}

// Logout tears down the session and discards channel credentials
func (m *ConnectionManager) Logout(ctx context.Context) {
	if err := m.channel.Logout(ctx); err != nil {
		fmt.Printf("[Connection] Logout error: %v\n", err)
	}
	m.applyState(ctx, domain.StateDisconnected)
}

// Refresh queries the bridge status and applies the reported state. Used on
// startup to reconstruct the state and by the watch loop to observe QR scan
// completion. A transport error keeps the current state.
func (m *ConnectionManager) Refresh(ctx context.Context) {
	status, err := m.channel.GetStatus(ctx)
	if err != nil {
		fmt.Printf("[Connection] Status query failed: %v\n", err)
		return
	}
	m.applyState(ctx, status.State)
}

// applyState transitions to the next state and runs entry/exit side effects
// outside the lock
func (m *ConnectionManager) applyState(ctx context.Context, next domain.ConnectionState) {
	m.mu.Lock()
	prev := m.state
	if prev == next {
		m.mu.Unlock()
		return
	}
	m.state = next
	m.mu.Unlock()

	fmt.Printf("[Connection] %s -> %s\n", prev, next)

	if next == domain.StateConnected {
		m.relay.Start()
		m.scheduler.Resume(ctx)
	} else if prev == domain.StateConnected {
		m.relay.Stop()
		m.scheduler.Cancel()
	}
}

// Run starts the status watch loop
func (m *ConnectionManager) Run(ctx context.Context) {
	m.ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go m.watchLoop()
	fmt.Printf("[Connection] Watching status every %v\n", m.statusInterval)
}

// Stop stops the watch loop and leaves the connected state
func (m *ConnectionManager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.applyState(context.Background(), domain.StateDisconnected)
}

func (m *ConnectionManager) watchLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.Refresh(m.ctx)
		}
	}
}
