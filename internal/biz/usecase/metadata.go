package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
)

const (
	checkinMarker = "NEXT_CHECKIN_MINUTES:"
	intentMarker  = "NEXT_INTENT:"
)

// ScheduledReply is the result of parsing generated text for scheduling
// directives
type ScheduledReply struct {
	Message      string
	DelayMinutes int
	Intent       string
	HasSchedule  bool
}

// ParseScheduledReply extracts the user-facing message and optional
// scheduling directives from generated text. Parsing is tolerant: malformed
// numeric values yield "no reschedule" rather than failing.
func ParseScheduledReply(raw string) ScheduledReply {
	result := ScheduledReply{}
	var messageLines []string

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, checkinMarker):
			value := strings.TrimSpace(strings.TrimPrefix(trimmed, checkinMarker))
			minutes, err := strconv.Atoi(value)
			if err != nil || minutes <= 0 {
				fmt.Printf("[Parser] Ignoring malformed checkin directive: %q\n", trimmed)
				continue
			}
			result.DelayMinutes = minutes
			result.HasSchedule = true

		case strings.HasPrefix(trimmed, intentMarker):
			result.Intent = strings.TrimSpace(strings.TrimPrefix(trimmed, intentMarker))

		default:
			messageLines = append(messageLines, line)
		}
	}

	result.Message = strings.TrimSpace(strings.Join(messageLines, "\n"))
	if result.HasSchedule && result.Intent == "" {
		result.Intent = domain.DefaultIntent
	}
	return result
}

// FormatScheduledReply renders a message with scheduling directives in the
// wire format ParseScheduledReply consumes
func FormatScheduledReply(message string, delayMinutes int, intent string) string {
	var sb strings.Builder
	sb.WriteString(message)
	if delayMinutes > 0 {
		sb.WriteString(fmt.Sprintf("\n%s %d", checkinMarker, delayMinutes))
		if intent != "" {
			sb.WriteString(fmt.Sprintf("\n%s %s", intentMarker, intent))
		}
	}
	return sb.String()
}

// directiveRegex matches bracketed uppercase directive tags the model may
// emit, e.g. [REACTION:smile] or [THINKING]
var directiveRegex = regexp.MustCompile(`\[[A-Z][A-Z_]*(?::[^\]]*)?\]`)

// StripMarkup removes directive tags from a reply before it is relayed to
// the channel
func StripMarkup(text string) string {
	return strings.TrimSpace(directiveRegex.ReplaceAllString(text, ""))
}
