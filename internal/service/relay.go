package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/repo"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/usecase"
)

// RelayLoop polls the channel for pending messages and relays them through
// the conversation. At most one batch is processed at a time; ticks arriving
// while a batch is in flight are skipped entirely.
type RelayLoop struct {
	channel   repo.ChannelRepo
	conv      repo.ConversationRepo
	gen       repo.GeneratorRepo
	store     repo.StateRepo
	prompts   *usecase.PromptBuilder
	scheduler *ProactiveScheduler

	channelName  string
	interval     time.Duration
	replyTimeout time.Duration

	inFlight atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRelayLoop creates a new relay loop
func NewRelayLoop(
	channel repo.ChannelRepo,
	conv repo.ConversationRepo,
	gen repo.GeneratorRepo,
	store repo.StateRepo,
	prompts *usecase.PromptBuilder,
	scheduler *ProactiveScheduler,
	channelName string,
	interval time.Duration,
	replyTimeout time.Duration,
) *RelayLoop {
	return &RelayLoop{
		channel:      channel,
		conv:         conv,
		gen:          gen,
		store:        store,
		prompts:      prompts,
		scheduler:    scheduler,
		channelName:  channelName,
		interval:     interval,
		replyTimeout: replyTimeout,
	}
}

// Start starts the poll loop
func (l *RelayLoop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())

	l.wg.Add(1)
	go l.loop()
	fmt.Printf("[Relay] Started with interval %v\n", l.interval)
}

// Stop stops the poll loop and waits for an in-flight batch to finish
func (l *RelayLoop) Stop() {
	l.mu.Lock()
	if l.cancel == nil {
		l.mu.Unlock()
		return
	}
	l.cancel()
	l.cancel = nil
	l.mu.Unlock()

	l.wg.Wait()
	fmt.Println("[Relay] Stopped")
}

func (l *RelayLoop) loop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			l.tick(l.ctx)
		}
	}
}

// tick runs one poll cycle. The in-flight check happens before the fetch so
// a skipped tick never drains messages it will not process.
func (l *RelayLoop) tick(ctx context.Context) {
	if !l.inFlight.CompareAndSwap(false, true) {
		fmt.Println("[Relay] Batch in flight, skipping tick")
		return
	}
	defer l.inFlight.Store(false)

	msgs, err := l.channel.FetchPendingMessages(ctx)
	if err != nil {
		fmt.Printf("[Relay] Failed to fetch pending messages: %v\n", err)
		return
	}
	if len(msgs) == 0 {
		return
	}

	fmt.Printf("[Relay] Processing batch of %d messages\n", len(msgs))
	for i := range msgs {
		if ctx.Err() != nil {
			return
		}
		if err := l.relayOne(ctx, &msgs[i]); err != nil {
			fmt.Printf("[Relay] Message %d/%d failed: %v\n", i+1, len(msgs), err)
		}
	}
}

// relayOne injects one inbound message as a user turn, generates a reply and
// relays it back to the channel
func (l *RelayLoop) relayOne(ctx context.Context, msg *domain.InboundMessage) error {
	// User activity interrupts scheduled outreach
	l.scheduler.Cancel()

	now := time.Now()
	userTurn := domain.Turn{Role: domain.RoleUser, Text: msg.DisplayText(), CreatedAt: now}
	if err := l.conv.Append(ctx, userTurn); err != nil {
		return fmt.Errorf("append user turn: %w", err)
	}

	tail, err := l.conv.Tail(ctx, l.prompts.HistoryLimit())
	if err != nil {
		return fmt.Errorf("read conversation tail: %w", err)
	}

	genCtx, cancel := context.WithTimeout(ctx, l.replyTimeout)
	defer cancel()
	reply, err := l.gen.GenerateReply(genCtx, &repo.GenerateRequest{
		System: l.prompts.ReplySystem(),
		Turns:  tail,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// Abandon this message's outbound relay, continue with the batch
			fmt.Printf("[Relay] Reply generation timed out after %v\n", l.replyTimeout)
			return nil
		}
		return fmt.Errorf("generate reply: %w", err)
	}

	clean := usecase.StripMarkup(reply)
	if clean == "" {
		fmt.Println("[Relay] Empty reply after markup strip, nothing to send")
		return nil
	}

	dest, err := l.store.LoadDestination(ctx)
	if err != nil || dest == "" {
		fmt.Println("[Relay] No destination configured, dropping reply")
		return nil
	}

	if err := l.channel.SendMessage(ctx, dest, clean); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	botTurn := domain.Turn{Role: domain.RoleBot, Text: clean, Channel: l.channelName, CreatedAt: time.Now()}
	if err := l.conv.Append(ctx, botTurn); err != nil {
		return fmt.Errorf("append bot turn: %w", err)
	}
	return nil
}
