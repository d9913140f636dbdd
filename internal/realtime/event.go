package realtime

import "github.com/google/uuid"

type EventType string

const (
	EventChatTurnCompleted EventType = "ChatTurnCompleted"
	EventChatTurnFailed    EventType = "ChatTurnFailed"
)

// Event is a chat lifecycle notification fanned out to interested consumers
// (other app instances, background indexers). It is advisory: the stream
// response itself never depends on delivery.
type Event struct {
	Type          EventType `json:"type"`
	ProjectID     uuid.UUID `json:"project_id"`
	ParentID      uuid.UUID `json:"parent_id"`
	ParentType    string    `json:"parent_type"`
	UserMessageID uuid.UUID `json:"user_message_id,omitempty"`
	AIMessageID   uuid.UUID `json:"ai_message_id,omitempty"`
}
