// Package debugger provides an interactive, single-stepping front end over
// a PVM instance (SPEC_FULL.md §B.3): a breakpoint manager, a line-oriented
// REPL (RunCLI), and an optional tcell/tview full-screen view (RunTUI).
package debugger

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retro49/plas/parser"
	"github.com/retro49/plas/vm"
)

// StepMode distinguishes a single-instruction step from a free run.
type StepMode int

const (
	StepNone StepMode = iota
	StepSingle
)

// Debugger wraps one VM instance with breakpoints, step control, and a
// command history.
type Debugger struct {
	VM      *vm.VM
	Program *parser.Program

	Breakpoints *BreakpointManager
	History     *CommandHistory

	Running     bool
	StepMode    StepMode
	LastCommand string

	Output strings.Builder
}

// New creates a debugger over program, with a fresh VM at address 0
// writing putc/log output to out.
func New(program *parser.Program, out io.Writer) *Debugger {
	return &Debugger{
		VM:          vm.New(program, out),
		Program:     program,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(),
	}
}

// ResolveAddress resolves a label name or a bare integer to an address.
func (d *Debugger) ResolveAddress(s string) (int, error) {
	if addr, ok := d.Program.Labels[s]; ok {
		return addr, nil
	}
	addr, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid address or unknown label: %s", s)
	}
	return addr, nil
}

// ExecuteCommand parses and runs one debugger command line, repeating the
// last non-empty command when given a blank line (a bare Enter repeats
// step/next, as in gdb).
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line != "" {
		d.History.Add(line)
		d.LastCommand = line
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun()
	case "continue", "c":
		return d.cmdContinue()
	case "step", "s":
		return d.cmdStep()
	case "break", "b":
		return d.cmdBreak(args, false)
	case "tbreak", "tb":
		return d.cmdBreak(args, true)
	case "delete", "d":
		return d.cmdDelete(args)
	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "list", "l":
		return d.cmdList(args)
	case "reset":
		return d.cmdReset()
	case "help", "h", "?":
		return d.cmdHelp()
	case "quit", "q":
		d.Running = false
		return nil
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// GetOutput returns and clears the debugger's own message buffer (distinct
// from the VM's program output, which goes to its own writer).
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}

// describe formats the instruction at address for listing/step output.
func (d *Debugger) describe(address int) string {
	instr := d.Program.At(address)
	if instr == nil {
		return fmt.Sprintf("%4d: <end of program>", address)
	}
	var parts []string
	for _, tok := range instr.Tokens {
		parts = append(parts, tok.Lexeme)
	}
	marker := "  "
	if address == d.VM.IP {
		marker = "=>"
	}
	return fmt.Sprintf("%s %4d: %s", marker, address, strings.Join(parts, " "))
}
