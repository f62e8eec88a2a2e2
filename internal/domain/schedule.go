package domain

import "time"

// ScheduleStatus tracks the lifecycle of a scheduled item.
type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "scheduled"
	ScheduleCompleted ScheduleStatus = "completed"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleScheduled, ScheduleCompleted, ScheduleCancelled:
		return true
	}
	return false
}

// ScheduleOptions is the generation payload stored with a scheduled item.
type ScheduleOptions struct {
	Keyword   string            `json:"keyword,omitempty"`
	WordCount int               `json:"word_count,omitempty"`
	Tone      string            `json:"tone,omitempty"`
	Category  string            `json:"category,omitempty"`
	Tags      string            `json:"tags,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// ScheduledItem is a topic queued for generation at a future time.
// ID is the identity; Topic may repeat across items.
type ScheduledItem struct {
	ID           string          `json:"id"`
	Topic        string          `json:"topic"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	Status       ScheduleStatus  `json:"status"`
	Options      ScheduleOptions `json:"options"`
	CreatedAt    time.Time       `json:"created_at"`
}
