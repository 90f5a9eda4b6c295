package debugger

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retro49/plas/vm"
)

// RunCLI drives the line-oriented debugger REPL until the user quits or
// input ends, returning the process exit code.
func RunCLI(dbg *Debugger, in io.Reader, out io.Writer) int {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "(plas-dbg) ")
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if line == "quit" || line == "q" || line == "exit" {
			fmt.Fprintln(out, "exiting debugger...")
			break
		}

		if err := dbg.ExecuteCommand(line); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if output := dbg.GetOutput(); output != "" {
			fmt.Fprint(out, output)
		}

		for dbg.Running {
			singleStep := dbg.StepMode == StepSingle
			dbg.StepMode = StepNone

			halted, err := dbg.VM.Step()
			if err != nil {
				fmt.Fprintf(out, "runtime error: %v\n", err)
				dbg.Running = false
				break
			}
			if halted {
				dbg.VM.State = vm.StateHalted
				dbg.Running = false
				fmt.Fprintf(out, "program exited with code %d\n", dbg.VM.ExitCode())
				break
			}
			if singleStep {
				dbg.Running = false
				fmt.Fprintln(out, dbg.describe(dbg.VM.IP))
				break
			}
			if dbg.Breakpoints.Has(dbg.VM.IP) {
				dbg.Breakpoints.ProcessHit(dbg.VM.IP)
				dbg.Running = false
				fmt.Fprintf(out, "stopped: breakpoint at address %d\n", dbg.VM.IP)
				break
			}
		}
	}

	return dbg.VM.ExitCode()
}
