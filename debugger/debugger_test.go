package debugger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retro49/plas/debugger"
	"github.com/retro49/plas/parser"
)

func mustParse(t *testing.T, src string) *parser.Program {
	t.Helper()
	program, errs := parser.Parse(src, "test.plas", parser.Options{})
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Error())
	}
	return program
}

func TestDebugger_BreakAndContinueStopsAtBreakpoint(t *testing.T) {
	src := "load $0 3\n: loop\nlog $0\nsub $0 1\neval $0 0\nifgt @ loop\nexit 0\n"
	program := mustParse(t, src)
	var out bytes.Buffer
	dbg := debugger.New(program, &out)

	var cliOut bytes.Buffer
	debugger.RunCLI(dbg, strings.NewReader("break 1\nrun\ncontinue\nquit\n"), &cliOut)

	// run stops at address 1 once; continue loops back and stops there again.
	if strings.Count(cliOut.String(), "stopped: breakpoint at address 1") != 2 {
		t.Fatalf("expected to stop at the breakpoint, got %q", cliOut.String())
	}
}

func TestDebugger_PrintRegister(t *testing.T) {
	program := mustParse(t, "load $0 72\nputc $0\nexit 0\n")
	var out bytes.Buffer
	dbg := debugger.New(program, &out)

	var cliOut bytes.Buffer
	debugger.RunCLI(dbg, strings.NewReader("run\nprint $0\nquit\n"), &cliOut)

	if !strings.Contains(cliOut.String(), "$0 = 72") {
		t.Fatalf("expected register value in output, got %q", cliOut.String())
	}
}
