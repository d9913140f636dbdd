package stream

// FrameType tags one discrete unit of the chat streaming wire protocol.
type FrameType string

const (
	FrameToken FrameType = "token"
	FrameDone  FrameType = "done"
	FrameError FrameType = "error"
)

// Frame is a single self-delimiting payload. A stream is a sequence of token
// frames closed by exactly one done or error frame.
type Frame struct {
	Type          FrameType `json:"type"`
	Text          string    `json:"text,omitempty"`
	UserMessageID string    `json:"userMessageId,omitempty"`
	AIMessageID   string    `json:"aiMessageId,omitempty"`
	Message       string    `json:"message,omitempty"`
}

func TokenFrame(text string) Frame {
	return Frame{Type: FrameToken, Text: text}
}

func DoneFrame(userMessageID, aiMessageID string) Frame {
	return Frame{Type: FrameDone, UserMessageID: userMessageID, AIMessageID: aiMessageID}
}

func ErrorFrame(message string) Frame {
	return Frame{Type: FrameError, Message: message}
}
