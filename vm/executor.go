package vm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retro49/plas/parser"
)

// State is the current run state of a VM instance.
type State int

const (
	StateReady State = iota
	StateRunning
	StateHalted
)

// VM is one PVM instance (SPEC_FULL.md §4.4): an instruction pointer, a
// single saved-return slot, the register file, the flag register, and the
// read-only linked program it executes. A VM is strictly single-threaded
// internally; concurrency, where it exists at all, is across VM instances
// (see SPEC_FULL.md §B.4), never within one.
type VM struct {
	Program *parser.Program
	Regs    Registers
	Flags   Flags
	IP      int
	Ret     int
	State   State
	Steps   int

	// MaxSteps bounds execution; 0 means unlimited, the core default
	// (SPEC_FULL.md §5). The CLI sets a finite default unless told
	// otherwise (SPEC_FULL.md §B.2).
	MaxSteps int

	Out io.Writer

	// OnWarning receives non-fatal diagnostics (currently only the
	// `data` instruction's "no effect" notice). Nil means warnings are
	// discarded.
	OnWarning func(message string, originLine int)

	exitCode   int
	exitSet    bool
	runtimeErr *RuntimeError
}

// New creates a VM ready to execute program, writing putc/log output to
// out.
func New(program *parser.Program, out io.Writer) *VM {
	return &VM{
		Program: program,
		Regs:    NewRegisters(),
		Out:     out,
		State:   StateReady,
	}
}

// ExitCode returns the process exit code once the VM has halted: the
// argument of the `exit` instruction that stopped it, 0 for falling off
// the end of the program, or a RuntimeError's code if one occurred.
func (v *VM) ExitCode() int {
	if v.runtimeErr != nil {
		return v.runtimeErr.ExitCode()
	}
	if v.exitSet {
		return v.exitCode
	}
	return ExitSuccess
}

// RuntimeErr returns the fatal runtime error that halted the VM, if any.
func (v *VM) RuntimeErr() *RuntimeError {
	return v.runtimeErr
}

// Run drives the dispatch loop to completion: fetch, execute, advance
// (unless the instruction itself sets IP), until IP runs past the end of
// the program, `exit` is executed, or a runtime error occurs
// (SPEC_FULL.md §4.4).
func (v *VM) Run() error {
	v.State = StateRunning
	for v.State == StateRunning {
		halted, err := v.Step()
		if err != nil {
			v.State = StateHalted
			if re, ok := err.(*RuntimeError); ok {
				v.runtimeErr = re
			}
			return err
		}
		if halted {
			v.State = StateHalted
		}
	}
	return nil
}

// Step executes exactly one instruction. It reports halted=true when the
// program has run to completion (IP past the last address) or `exit` was
// executed.
func (v *VM) Step() (halted bool, err error) {
	if v.IP >= v.Program.Len() {
		return true, nil
	}
	if v.MaxSteps > 0 && v.Steps >= v.MaxSteps {
		return true, &RuntimeError{
			Kind:       ErrStepBudgetExceeded,
			Message:    "step budget exceeded",
			OriginLine: v.Program.OriginLine(v.IP),
		}
	}

	instr := v.Program.At(v.IP)
	v.Steps++

	jumped, haltedNow, err := v.execute(instr)
	if err != nil {
		return false, err
	}
	if haltedNow {
		return true, nil
	}
	if !jumped {
		v.IP++
	}
	return false, nil
}

// execute dispatches on the instruction's mnemonic. jumped reports whether
// IP was explicitly set by the handler (suppressing the default +1
// advance); halted reports whether `exit` was executed.
func (v *VM) execute(instr *parser.Instruction) (jumped, halted bool, err error) {
	mnemonic := instr.Tokens[0].Lexeme
	args := instr.Tokens[1:]

	switch mnemonic {
	case "putc":
		return false, false, v.opPutc(args)
	case "load":
		return false, false, v.opLoad(args)
	case "go":
		v.opGo(args)
		return true, false, nil
	case "home":
		v.opHome()
		return true, false, nil
	case "exit":
		code, err := v.opExit(args)
		if err != nil {
			return false, false, err
		}
		v.exitCode = code
		v.exitSet = true
		return false, true, nil
	case "eval":
		return false, false, v.opEval(args)
	case "ifeq", "ifne", "ifgt", "iflt", "ifge", "ifle":
		jumped, err := v.opIf(mnemonic, args)
		return jumped, false, err
	case "add", "sub", "mul":
		return false, false, v.opArith(mnemonic, args, instr.Origin)
	case "idiv":
		return false, false, v.opIdiv(args, instr.Origin)
	case "div":
		return false, false, v.opDiv(args, instr.Origin)
	case "log":
		return false, false, v.opLog(args)
	case "data":
		v.opData(instr.Origin)
		return false, false, nil
	default:
		return false, false, fmt.Errorf("unimplemented instruction %q at line %d", mnemonic, instr.Origin)
	}
}

// NewBufferedWriter wraps w in a bufio.Writer so program output can go
// through a single buffered writer instead of one syscall per putc. The
// caller must Flush it.
func NewBufferedWriter(w io.Writer) *bufio.Writer {
	return bufio.NewWriter(w)
}
