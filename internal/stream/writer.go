package stream

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/strideworks/stride-backend/internal/logger"
)

// Emitter is the controller's view of the outbound stream.
type Emitter interface {
	Token(text string) error
	Done(userMessageID, aiMessageID string) error
	Error(message string) error
}

// Writer frames events onto a long-lived SSE response. After the first
// terminal frame (done or error) every further write is a no-op, so the
// stream always closes with exactly one terminal.
type Writer struct {
	w        http.ResponseWriter
	flusher  http.Flusher
	log      *logger.Logger
	terminal bool
}

func NewWriter(w http.ResponseWriter, log *logger.Logger) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}
	return &Writer{w: w, flusher: flusher, log: log.With("component", "StreamWriter")}, nil
}

// WriteHeaders opens the persistent channel. Called before the first token so
// the connection is live before the model produces anything.
func (sw *Writer) WriteHeaders() {
	sw.w.Header().Set("Content-Type", "text/event-stream")
	sw.w.Header().Set("Cache-Control", "no-cache")
	sw.w.Header().Set("Connection", "keep-alive")
	sw.w.Header().Set("X-Accel-Buffering", "no")
	sw.w.WriteHeader(http.StatusOK)
	sw.flusher.Flush()
}

func (sw *Writer) Token(text string) error {
	return sw.send(TokenFrame(text))
}

func (sw *Writer) Done(userMessageID, aiMessageID string) error {
	if sw.terminal {
		return nil
	}
	sw.terminal = true
	return sw.send(DoneFrame(userMessageID, aiMessageID))
}

func (sw *Writer) Error(message string) error {
	if sw.terminal {
		return nil
	}
	sw.terminal = true
	return sw.send(ErrorFrame(message))
}

func (sw *Writer) send(f Frame) error {
	jsonBytes, err := json.Marshal(f)
	if err != nil {
		sw.log.Warn("Failed to marshal stream frame", "error", err)
		return err
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", string(jsonBytes)); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}
