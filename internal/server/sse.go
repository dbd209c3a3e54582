package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Evaluation stream event names
const (
	EventStep     = "step"
	EventError    = "error"
	EventComplete = "complete"
)

// sseRetryMillis is the reconnect delay suggested to clients
const sseRetryMillis = 3000

var errStreamClosed = errors.New("event stream already completed")

// SSEWriter writes one evaluation as a Server-Sent Events stream. Events
// carry increasing ids; nothing can be written after the complete event.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	nextID  int
	closed  bool
}

// NewSSEWriter commits a 200 event-stream response on w
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprintf(w, "retry: %d\n\n", sseRetryMillis); err != nil {
		return nil, err
	}
	flusher.Flush()
	return &SSEWriter{w: w, flusher: flusher, nextID: 1}, nil
}

// WriteEvent sends data as JSON under the given event name
func (s *SSEWriter) WriteEvent(event string, data any) error {
	if s.closed {
		return errStreamClosed
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.nextID, event, payload); err != nil {
		return err
	}
	s.nextID++
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent(EventError, map[string]string{"error": message}) //nolint:errcheck
}

// WriteComplete sends the terminal event and closes the stream. result is
// omitted when nil.
func (s *SSEWriter) WriteComplete(status string, result any) {
	payload := map[string]any{"status": status}
	if result != nil {
		payload["result"] = result
	}
	s.WriteEvent(EventComplete, payload) //nolint:errcheck
	s.closed = true
}
