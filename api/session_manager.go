package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/retro49/plas/debugger"
	"github.com/retro49/plas/parser"
	"github.com/retro49/plas/vm"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session is one compiled program plus the VM executing it. Unlike the
// debugger's Debugger type, a Session has no command history — a remote
// client drives it one request at a time. Its breakpoint manager is created
// on first use.
type Session struct {
	ID        string
	Program   *parser.Program
	VM        *vm.VM
	CreatedAt time.Time

	mu          sync.Mutex
	running     bool
	breakpoints *debugger.BreakpointManager
}

// Breakpoints returns the session's breakpoint manager, created lazily
// since most sessions never set one.
func (s *Session) Breakpoints() *debugger.BreakpointManager {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.breakpoints == nil {
		s.breakpoints = debugger.NewBreakpointManager()
	}
	return s.breakpoints
}

// SessionManager owns every live session keyed by ID.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates an empty session manager broadcasting state and
// output changes through broadcaster.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession compiles opts.Source and, on success, wraps it in a fresh
// VM wired to broadcast its output and state transitions.
func (sm *SessionManager) CreateSession(opts SessionCreateRequest) (*Session, *parser.ErrorList, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, nil, err
	}

	program, errs := parser.Parse(opts.Source, "session", parser.Options{DataStrict: opts.DataStrict})
	if errs.HasErrors() {
		return nil, errs, nil
	}

	writer := NewEventWriter(sm.broadcaster, sessionID, "stdout")

	machine := vm.New(program, writer)
	machine.MaxSteps = opts.MaxSteps

	session := &Session{
		ID:        sessionID,
		Program:   program,
		VM:        machine,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, nil, ErrSessionAlreadyExists
	}
	sm.sessions[sessionID] = session
	return session, nil, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns every live session ID.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func generateSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
