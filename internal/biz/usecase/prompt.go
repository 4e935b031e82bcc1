package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
)

// PromptConfig contains prompt-related configuration values
type PromptConfig struct {
	ReplySystemPrompt     string
	ProactiveSystemPrompt string
	ProactiveTemplate     string
	HistoryLimit          int
}

// DefaultPromptConfig is used when no prompts file is configured
var DefaultPromptConfig = PromptConfig{
	ReplySystemPrompt: "You are chatting with a friend over WhatsApp. " +
		"Reply naturally and briefly, as you would in a messaging app.",
	ProactiveSystemPrompt: "You are chatting with a friend over WhatsApp. " +
		"You decided earlier to check in on them. Write the check-in message now. " +
		"If you want to check in again later, end your reply with a line " +
		"'NEXT_CHECKIN_MINUTES: <minutes>' and optionally 'NEXT_INTENT: <token>'.",
	ProactiveTemplate: `[Scheduled check-in]
Current time: {{current_time}}
Time since the last message in the conversation: {{elapsed}}
Scene: {{scene_state}}{{scene_summary}}
Reason for this check-in: {{intent}}

Write the message you want to send now.`,
	HistoryLimit: 20,
}

// PromptBuilder builds generation prompts
type PromptBuilder struct {
	cfg PromptConfig
}

// NewPromptBuilder creates a prompt builder
func NewPromptBuilder(cfg PromptConfig) *PromptBuilder {
	if cfg.ProactiveTemplate == "" {
		cfg.ProactiveTemplate = DefaultPromptConfig.ProactiveTemplate
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultPromptConfig.HistoryLimit
	}
	return &PromptBuilder{cfg: cfg}
}

// ReplySystem returns the system prompt for inbound reply generation
func (b *PromptBuilder) ReplySystem() string {
	return b.cfg.ReplySystemPrompt
}

// ProactiveSystem returns the system prompt for proactive generation
func (b *PromptBuilder) ProactiveSystem() string {
	return b.cfg.ProactiveSystemPrompt
}

// HistoryLimit returns how many tail turns to feed into reply generation
func (b *PromptBuilder) HistoryLimit() int {
	return b.cfg.HistoryLimit
}

// BuildProactivePrompt builds the prompt for a proactive fire, embedding the
// current time, elapsed time since the last conversation turn, scene state
// and the fire intent
func (b *PromptBuilder) BuildProactivePrompt(now, lastTurn time.Time, scene *domain.Scene, intent string) string {
	elapsed := "unknown"
	if !lastTurn.IsZero() {
		elapsed = formatElapsed(now.Sub(lastTurn))
	}

	sceneState := string(domain.SceneActive)
	sceneSummary := ""
	if scene != nil {
		sceneState = string(scene.State)
		if scene.Summary != "" {
			sceneSummary = " — " + scene.Summary
		}
	}

	replacer := strings.NewReplacer(
		"{{current_time}}", now.Format("2006-01-02 15:04"),
		"{{elapsed}}", elapsed,
		"{{scene_state}}", sceneState,
		"{{scene_summary}}", sceneSummary,
		"{{intent}}", intent,
	)
	return replacer.Replace(b.cfg.ProactiveTemplate)
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if minutes == 0 {
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d hours %d minutes", hours, minutes)
}
