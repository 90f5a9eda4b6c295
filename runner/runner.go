// Package runner wires the preprocessor/tokenizer/parser/linker pipeline
// to the PVM and to PLAS's diagnostics: read file, parse, link, execute,
// report (SPEC_FULL.md §B.2).
package runner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retro49/plas/diag"
	"github.com/retro49/plas/parser"
	"github.com/retro49/plas/vm"
)

// Options controls one run of a PLAS source file.
type Options struct {
	DataStrict  bool
	MaxSteps    int
	DumpTokens  bool // write <file>.tkn, the advisory sibling artifact from SPEC_FULL.md §6
	DumpProgram bool // write <file>.lst, the linked-program listing
	Out         io.Writer
	Logger      *diag.Logger
}

// Result summarizes one completed run for callers that want more than the
// exit code. Run itself returns only the exit code.
type Result struct {
	Program  *parser.Program
	VM       *vm.VM
	ExitCode int
}

// Compile reads path, preprocesses, tokenizes, and links it. On a syntax
// error it renders the diagnostic through opts.Logger and returns
// exitCode=vm.ExitSyntaxError with program=nil.
func Compile(path string, opts Options) (*parser.Program, int, error) {
	program, errs, err := parser.ParseFile(path, parser.Options{DataStrict: opts.DataStrict})
	if err != nil {
		if os.IsNotExist(err) {
			opts.Logger.Warn(fmt.Sprintf("file not found %s", path))
			return nil, 2, nil
		}
		return nil, 2, err
	}

	if errs.HasErrors() {
		e := errs.First()
		opts.Logger.ParserError(e.Message, e.Reason)
		return nil, vm.ExitSyntaxError, nil
	}

	if opts.DumpTokens {
		if werr := writeTokenDump(path+".tkn", program); werr != nil {
			opts.Logger.Warn(fmt.Sprintf("could not write token dump: %v", werr))
		}
	}
	if opts.DumpProgram {
		if werr := writeProgramListing(path+".lst", program); werr != nil {
			opts.Logger.Warn(fmt.Sprintf("could not write program listing: %v", werr))
		}
	}

	return program, vm.ExitSuccess, nil
}

// Run compiles and executes path to completion, returning the process
// exit code per SPEC_FULL.md §6.
func Run(path string, opts Options) int {
	program, exitCode, err := Compile(path, opts)
	if err != nil {
		opts.Logger.Error("error", err.Error())
		return 2
	}
	if program == nil {
		return exitCode
	}

	machine := vm.New(program, opts.Out)
	machine.MaxSteps = opts.MaxSteps
	machine.OnWarning = func(message string, originLine int) {
		opts.Logger.RuntimeWarning(message, originLine)
	}

	if runErr := machine.Run(); runErr != nil {
		if re, ok := runErr.(*vm.RuntimeError); ok {
			opts.Logger.ParserError(re.Message, re.Reason)
			return re.ExitCode()
		}
		opts.Logger.Error("error", runErr.Error())
		return 1
	}

	return machine.ExitCode()
}

func writeTokenDump(path string, program *parser.Program) error {
	var sb strings.Builder
	for addr := 0; addr < program.Len(); addr++ {
		instr := program.At(addr)
		fmt.Fprintf(&sb, "%d (line %d):", addr, instr.Origin)
		for _, tok := range instr.Tokens {
			fmt.Fprintf(&sb, " %s:%q", tok.Kind, tok.Lexeme)
		}
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0600)
}

func writeProgramListing(path string, program *parser.Program) error {
	var sb strings.Builder
	for addr := 0; addr < program.Len(); addr++ {
		instr := program.At(addr)
		var parts []string
		for _, tok := range instr.Tokens {
			parts = append(parts, tok.Lexeme)
		}
		fmt.Fprintf(&sb, "%4d  line %-5d  %s\n", addr, instr.Origin, strings.Join(parts, " "))
	}
	return os.WriteFile(path, []byte(sb.String()), 0600)
}
