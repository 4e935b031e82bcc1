package domain

import "time"

// DefaultIntent is used when a scheduled reply carries a delay but no intent
const DefaultIntent = "casual_followup"

// TimerState represents the persisted proactive timer.
// At most one logical timer exists per conversation; SetAtEpochMs plus
// DelayMinutes defines the fire deadline.
type TimerState struct {
	DelayMinutes int    `json:"delay_minutes"`
	Intent       string `json:"intent"`
	SetAtEpochMs int64  `json:"set_at_epoch_ms"`
}

// Deadline returns the moment the timer is due to fire
func (t *TimerState) Deadline() time.Time {
	return time.UnixMilli(t.SetAtEpochMs).Add(time.Duration(t.DelayMinutes) * time.Minute)
}

// Remaining returns how long until the deadline; negative when overdue
func (t *TimerState) Remaining(now time.Time) time.Duration {
	return t.Deadline().Sub(now)
}

// SceneState represents the coarse narrative context flag
type SceneState string

const (
	SceneActive SceneState = "active"
	ScenePaused SceneState = "paused"
	SceneEnded  SceneState = "ended"
)

// Scene is informational context fed into proactive prompt construction
type Scene struct {
	State   SceneState `json:"state"`
	Summary string     `json:"summary"`
}
