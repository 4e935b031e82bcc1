package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/repo"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/usecase"
)

// ProactiveScheduler manages the self-rescheduling outreach timer.
// It holds at most one armed timer; scheduling a new one always cancels the
// prior. The persisted TimerState is a write-through copy used only for
// restart recovery.
type ProactiveScheduler struct {
	channel repo.ChannelRepo
	conv    repo.ConversationRepo
	gen     repo.GeneratorRepo
	store   repo.StateRepo
	prompts *usecase.PromptBuilder

	channelName string
	genTimeout  time.Duration
	now         func() time.Time

	mu    sync.Mutex
	timer *time.Timer
	armed *domain.TimerState
}

// NewProactiveScheduler creates a new proactive scheduler
func NewProactiveScheduler(
	channel repo.ChannelRepo,
	conv repo.ConversationRepo,
	gen repo.GeneratorRepo,
	store repo.StateRepo,
	prompts *usecase.PromptBuilder,
	channelName string,
	genTimeout time.Duration,
) *ProactiveScheduler {
	return &ProactiveScheduler{
		channel:     channel,
		conv:        conv,
		gen:         gen,
		store:       store,
		prompts:     prompts,
		channelName: channelName,
		genTimeout:  genTimeout,
		now:         time.Now,
	}
}

// Schedule cancels any existing timer, persists the new timer state and arms
// a one-shot fire after delayMinutes. No-op if delayMinutes <= 0.
func (s *ProactiveScheduler) Schedule(ctx context.Context, delayMinutes int, intent string) {
	if delayMinutes <= 0 {
		fmt.Printf("[Scheduler] Ignoring schedule with delay %d\n", delayMinutes)
		return
	}

	state := &domain.TimerState{
		DelayMinutes: delayMinutes,
		Intent:       intent,
		SetAtEpochMs: s.now().UnixMilli(),
	}
	if err := s.store.SaveTimer(ctx, state); err != nil {
		fmt.Printf("[Scheduler] Failed to persist timer: %v\n", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.armLocked(time.Duration(delayMinutes)*time.Minute, intent, state)
	fmt.Printf("[Scheduler] Armed %dm timer, intent=%s\n", delayMinutes, intent)
}

// Cancel clears the armed timer. Safe to call when no timer is armed.
// Persisted TimerState is left in place; it is replaced on the next Schedule
// or cleared when a fire completes without a reschedule.
func (s *ProactiveScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
}

// Armed reports whether a timer is currently armed
func (s *ProactiveScheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// ArmedState returns a copy of the armed timer state, nil when unarmed
func (s *ProactiveScheduler) ArmedState() *domain.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed == nil {
		return nil
	}
	state := *s.armed
	return &state
}

// Resume re-arms the persisted timer after a reconnect or restart. If the
// deadline already passed while offline, the fire happens immediately.
func (s *ProactiveScheduler) Resume(ctx context.Context) {
	state, err := s.store.LoadTimer(ctx)
	if err != nil {
		fmt.Printf("[Scheduler] Failed to load persisted timer: %v\n", err)
		return
	}
	if state == nil {
		return
	}

	remaining := state.Remaining(s.now())
	if remaining <= 0 {
		fmt.Printf("[Scheduler] Persisted timer overdue by %v, firing now\n", -remaining)
		s.fire(state.Intent)
		return
	}

	s.mu.Lock()
	s.armLocked(remaining, state.Intent, state)
	s.mu.Unlock()
	fmt.Printf("[Scheduler] Resumed timer, %v remaining, intent=%s\n", remaining.Round(time.Second), state.Intent)
}

func (s *ProactiveScheduler) armLocked(d time.Duration, intent string, state *domain.TimerState) {
	s.disarmLocked()
	s.armed = state
	s.timer = time.AfterFunc(d, func() {
		s.fire(intent)
	})
}

func (s *ProactiveScheduler) disarmLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armed = nil
}

// fire runs a matured timer: silent generation, relay of the user-facing
// part, and the self-perpetuating reschedule. Cancellation (user message,
// disconnect, logout) is the only stop condition for the chain.
func (s *ProactiveScheduler) fire(intent string) {
	s.mu.Lock()
	s.timer = nil
	s.armed = nil
	s.mu.Unlock()

	ctx := context.Background()

	dest, err := s.store.LoadDestination(ctx)
	if err != nil || dest == "" {
		fmt.Printf("[Scheduler] Skipping fire: no destination configured\n")
		return
	}
	lastTurn, err := s.conv.LastTurnTime(ctx)
	if err != nil || lastTurn.IsZero() {
		fmt.Printf("[Scheduler] Skipping fire: no active conversation\n")
		return
	}

	scene, err := s.store.LoadScene(ctx)
	if err != nil {
		fmt.Printf("[Scheduler] Failed to load scene: %v\n", err)
	}

	now := s.now()
	prompt := s.prompts.BuildProactivePrompt(now, lastTurn, scene, intent)

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()
	reply, err := s.gen.GenerateReply(genCtx, &repo.GenerateRequest{
		System: s.prompts.ProactiveSystem(),
		Turns:  []domain.Turn{{Role: domain.RoleUser, Text: prompt, CreatedAt: now}},
		Silent: true,
	})
	if err != nil {
		fmt.Printf("[Scheduler] Proactive generation failed: %v\n", err)
		return
	}

	parsed := usecase.ParseScheduledReply(reply)

	if parsed.Message != "" {
		if err := s.channel.SendMessage(ctx, dest, parsed.Message); err != nil {
			fmt.Printf("[Scheduler] Failed to relay proactive message: %v\n", err)
		} else {
			turn := domain.Turn{
				Role:      domain.RoleBot,
				Text:      parsed.Message,
				Channel:   s.channelName,
				CreatedAt: now,
			}
			if err := s.conv.Append(ctx, turn); err != nil {
				fmt.Printf("[Scheduler] Failed to append proactive turn: %v\n", err)
			}
		}
	}

	if parsed.HasSchedule {
		s.Schedule(ctx, parsed.DelayMinutes, parsed.Intent)
		return
	}
	if err := s.store.ClearTimer(ctx); err != nil {
		fmt.Printf("[Scheduler] Failed to clear persisted timer: %v\n", err)
	}
	fmt.Printf("[Scheduler] Fire complete, no reschedule requested\n")
}
