package debugger

import (
	"sync"
)

// CommandHistory is a bounded, navigable log of debugger command lines.
type CommandHistory struct {
	mu       sync.RWMutex
	commands []string
	maxSize  int
	position int
}

// NewCommandHistory creates an empty history capped at 1000 entries.
func NewCommandHistory() *CommandHistory {
	return &CommandHistory{
		commands: make([]string, 0, 100),
		maxSize:  1000,
	}
}

// Add appends cmd, unless it is empty or repeats the last entry.
func (h *CommandHistory) Add(cmd string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cmd == "" {
		return
	}
	if n := len(h.commands); n > 0 && h.commands[n-1] == cmd {
		h.position = n
		return
	}

	h.commands = append(h.commands, cmd)
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}
	h.position = len(h.commands)
}

// Previous walks one step back through history, returning "" at the start.
func (h *CommandHistory) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 || h.position == 0 {
		return ""
	}
	h.position--
	return h.commands[h.position]
}

// Next walks one step forward through history, returning "" at the end.
func (h *CommandHistory) Next() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 {
		return ""
	}
	if h.position >= len(h.commands)-1 {
		h.position = len(h.commands)
		return ""
	}
	h.position++
	return h.commands[h.position]
}

// GetLast returns the most recent command without moving position.
func (h *CommandHistory) GetLast() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.commands) == 0 {
		return ""
	}
	return h.commands[len(h.commands)-1]
}

// GetAll returns a copy of the full history, oldest first.
func (h *CommandHistory) GetAll() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]string, len(h.commands))
	copy(result, h.commands)
	return result
}

// Clear empties the history.
func (h *CommandHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.commands = h.commands[:0]
	h.position = 0
}

// Size returns the number of commands currently retained.
func (h *CommandHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.commands)
}

// Search returns every retained command starting with prefix.
func (h *CommandHistory) Search(prefix string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var results []string
	for _, cmd := range h.commands {
		if len(cmd) >= len(prefix) && cmd[:len(prefix)] == prefix {
			results = append(results, cmd)
		}
	}
	return results
}
