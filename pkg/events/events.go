// Package events defines the usage events published to Kafka.
// Events carry counters and sizes only, never user text.
package events

import "time"

// Type identifies what happened.
type Type string

const (
	TypeImageGenerated Type = "image_generated"
	TypeTextExtracted  Type = "text_extracted"
	TypeReviewAdded    Type = "review_added"
	TypeSessionEnded   Type = "session_ended"
)

// UsageEvent represents one completed user action.
type UsageEvent struct {
	Type       Type      `json:"type"`
	SessionID  string    `json:"session_id"`
	FontSize   int       `json:"font_size,omitempty"`
	TextLength int       `json:"text_length,omitempty"`
	Bytes      int       `json:"bytes,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
