package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
)

func TestBuildProactivePrompt(t *testing.T) {
	builder := NewPromptBuilder(DefaultPromptConfig)

	now := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	lastTurn := now.Add(-95 * time.Minute)
	scene := &domain.Scene{State: domain.ScenePaused, Summary: "waiting at the station"}

	prompt := builder.BuildProactivePrompt(now, lastTurn, scene, "worried_checkin")

	for _, want := range []string{
		"2026-03-01 14:30",
		"1 hours 35 minutes",
		"paused",
		"waiting at the station",
		"worried_checkin",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildProactivePrompt_EmptyConversation(t *testing.T) {
	builder := NewPromptBuilder(DefaultPromptConfig)

	prompt := builder.BuildProactivePrompt(time.Now(), time.Time{}, nil, "casual_followup")

	if !strings.Contains(prompt, "unknown") {
		t.Errorf("Expected unknown elapsed for empty conversation:\n%s", prompt)
	}
	if !strings.Contains(prompt, string(domain.SceneActive)) {
		t.Errorf("Expected default scene state active:\n%s", prompt)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "less than a minute"},
		{5 * time.Minute, "5 minutes"},
		{2 * time.Hour, "2 hours"},
		{150 * time.Minute, "2 hours 30 minutes"},
	}

	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
