package api

import (
	"fmt"
	"net/http"

	"github.com/retro49/plas/vm"
)

// handleCreateSession handles POST /api/v1/session: compile Source and
// start a new VM over it.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, parseErrs, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create session: %v", err))
		return
	}
	if parseErrs != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "parse error",
			Message: parseErrs.Error(),
		})
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// handleListSessions handles GET /api/v1/session.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ListSessions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": ids,
		"count":    len(ids),
	})
}

func stateName(st vm.State) string {
	switch st {
	case vm.StateReady:
		return "ready"
	case vm.StateRunning:
		return "running"
	case vm.StateHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// handleGetSessionStatus handles GET /api/v1/session/{id}.
func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	resp := SessionStatusResponse{
		SessionID: sessionID,
		State:     stateName(session.VM.State),
		IP:        session.VM.IP,
		Steps:     session.VM.Steps,
	}
	if session.VM.State == vm.StateHalted {
		resp.ExitCode = session.VM.ExitCode()
		if re := session.VM.RuntimeErr(); re != nil {
			resp.Error = re.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDestroySession handles DELETE /api/v1/session/{id}.
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Session destroyed"})
}

// handleRun handles POST /api/v1/session/{id}/run: executes to completion
// (exit, end of program, runtime error or step budget), asynchronously so
// the caller can poll status or watch the WebSocket for the halt event. The
// session's breakpoints are not consulted; the run does not stop at them.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	go func() {
		session.mu.Lock()
		session.running = true
		session.mu.Unlock()
		defer func() {
			session.mu.Lock()
			session.running = false
			session.mu.Unlock()
		}()

		runErr := session.VM.Run()
		s.broadcastState(sessionID, session.VM)
		if runErr != nil {
			s.broadcaster.BroadcastExecutionEvent(sessionID, "error", map[string]interface{}{
				"message": runErr.Error(),
			})
			return
		}
		s.broadcaster.BroadcastExecutionEvent(sessionID, "halted", map[string]interface{}{
			"exitCode": session.VM.ExitCode(),
		})
	}()

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Program started"})
}

// handleStep handles POST /api/v1/session/{id}/step: executes exactly one
// instruction.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	halted, stepErr := session.VM.Step()
	if stepErr != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Step failed: %v", stepErr))
		return
	}
	if halted {
		session.VM.State = vm.StateHalted
	}
	s.broadcastState(sessionID, session.VM)
	writeJSON(w, http.StatusOK, toRegistersResponse(session.VM))
}

// handleReset handles POST /api/v1/session/{id}/reset: rebuilds the VM
// fresh over the same linked program.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	maxSteps := session.VM.MaxSteps
	writer := NewEventWriter(s.broadcaster, sessionID, "stdout")
	session.VM = vm.New(session.Program, writer)
	session.VM.MaxSteps = maxSteps

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "VM reset"})
}

// handleGetRegisters handles GET /api/v1/session/{id}/registers.
func (s *Server) handleGetRegisters(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, toRegistersResponse(session.VM))
}

func toRegistersResponse(machine *vm.VM) RegistersResponse {
	var resp RegistersResponse
	for i := 0; i < vm.RegisterCount; i++ {
		resp.Registers[i] = machine.Regs.Get(i).String()
	}
	resp.Flags = FlagsView{
		Eq: machine.Flags[vm.FlagEq],
		Ne: machine.Flags[vm.FlagNe],
		Gt: machine.Flags[vm.FlagGt],
		Lt: machine.Flags[vm.FlagLt],
		Ge: machine.Flags[vm.FlagGe],
		Le: machine.Flags[vm.FlagLe],
	}
	return resp
}

// handleBreakpoint handles POST/DELETE /api/v1/session/{id}/breakpoint.
func (s *Server) handleBreakpoint(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var req BreakpointRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch r.Method {
	case http.MethodPost:
		session.Breakpoints().Add(req.Address, false)
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Breakpoint added"})
	case http.MethodDelete:
		for _, bp := range session.Breakpoints().All() {
			if bp.Address == req.Address {
				_ = session.Breakpoints().Delete(bp.ID)
			}
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Breakpoint removed"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListBreakpoints handles GET /api/v1/session/{id}/breakpoints.
func (s *Server) handleListBreakpoints(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	addrs := make([]int, 0)
	for _, bp := range session.Breakpoints().All() {
		addrs = append(addrs, bp.Address)
	}
	writeJSON(w, http.StatusOK, BreakpointsResponse{Breakpoints: addrs})
}

// handleGetConfig handles GET /api/v1/config.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"maxSteps":   0,
		"dataStrict": false,
	})
}

func (s *Server) broadcastState(sessionID string, machine *vm.VM) {
	if s.broadcaster == nil {
		return
	}
	regs := toRegistersResponse(machine)
	s.broadcaster.BroadcastState(sessionID, map[string]interface{}{
		"status":    stateName(machine.State),
		"ip":        machine.IP,
		"registers": regs.Registers,
		"flags":     regs.Flags,
	})
}
