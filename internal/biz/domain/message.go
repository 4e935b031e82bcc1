package domain

import (
	"fmt"
	"time"
)

// InboundMessage represents a message fetched from the channel.
// Consumed once per relay cycle.
type InboundMessage struct {
	Body      string
	HasMedia  bool
	MediaType string
}

// DisplayText builds the text injected into the conversation as a user turn.
// Media messages get a bracketed type annotation around the body.
func (m *InboundMessage) DisplayText() string {
	if !m.HasMedia {
		return m.Body
	}
	mediaType := m.MediaType
	if mediaType == "" {
		mediaType = "media"
	}
	if m.Body == "" {
		return fmt.Sprintf("[%s attachment]", mediaType)
	}
	return fmt.Sprintf("[%s attachment] %s", mediaType, m.Body)
}

// Role represents who authored a conversation turn
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Turn represents a single entry in the conversation log
type Turn struct {
	Role      Role
	Text      string
	Channel   string // channel tag for scheduler-originated turns, empty otherwise
	CreatedAt time.Time
}
