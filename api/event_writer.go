package api

import (
	"bytes"
	"io"
	"sync"
)

// EventWriter is an io.Writer that buffers what it's given and broadcasts
// each write as an output event to subscribed WebSocket clients. A VM's
// Out field is set to one of these per session.
type EventWriter struct {
	broadcaster *Broadcaster
	sessionID   string
	stream      string // "stdout" or "stderr"
	buffer      *bytes.Buffer
	mutex       sync.Mutex
}

// NewEventWriter creates a writer that broadcasts on behalf of sessionID.
func NewEventWriter(broadcaster *Broadcaster, sessionID string, stream string) *EventWriter {
	return &EventWriter{
		broadcaster: broadcaster,
		sessionID:   sessionID,
		stream:      stream,
		buffer:      &bytes.Buffer{},
	}
}

// Write buffers p and broadcasts it as an output event.
func (w *EventWriter) Write(p []byte) (n int, err error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err = w.buffer.Write(p)
	if err == nil && n > 0 && w.broadcaster != nil {
		w.broadcaster.BroadcastOutput(w.sessionID, w.stream, string(p))
	}
	return n, err
}

// GetBufferAndClear returns all output accumulated so far and clears it.
func (w *EventWriter) GetBufferAndClear() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	output := w.buffer.String()
	w.buffer.Reset()
	return output
}

// GetBuffer returns accumulated output without clearing it.
func (w *EventWriter) GetBuffer() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.buffer.String()
}

var _ io.Writer = (*EventWriter)(nil)
