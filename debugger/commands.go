package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retro49/plas/vm"
)

// cmdRun starts execution of the program from address 0.
func (d *Debugger) cmdRun() error {
	d.VM.IP = 0
	d.VM.Steps = 0
	d.VM.State = vm.StateRunning
	d.Running = true
	d.StepMode = StepNone
	d.Println("starting program execution...")
	return nil
}

// cmdContinue resumes a halted-at-a-breakpoint program until the next
// breakpoint, program end, or runtime error.
func (d *Debugger) cmdContinue() error {
	if d.VM.State == vm.StateHalted {
		return fmt.Errorf("program is not running")
	}
	d.Running = true
	d.StepMode = StepNone
	d.Println("continuing...")
	return nil
}

// cmdStep arms a single-instruction step for the next driver iteration.
func (d *Debugger) cmdStep() error {
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

// cmdBreak sets a breakpoint at an address or label, temporary ones
// auto-deleting after their first hit.
func (d *Debugger) cmdBreak(args []string, temporary bool) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address|label>")
	}
	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.Add(address, temporary)
	if temporary {
		d.Printf("temporary breakpoint %d at address %d\n", bp.ID, address)
	} else {
		d.Printf("breakpoint %d at address %d\n", bp.ID, address)
	}
	return nil
}

// cmdDelete removes a breakpoint by ID, or every breakpoint if no ID is
// given.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		for _, bp := range d.Breakpoints.All() {
			_ = d.Breakpoints.Delete(bp.ID)
		}
		d.Println("all breakpoints deleted")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if err := d.Breakpoints.Delete(id); err != nil {
		return err
	}
	d.Printf("breakpoint %d deleted\n", id)
	return nil
}

// cmdPrint evaluates a register reference ($0-$f) and prints its value.
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <$register>")
	}
	idx, err := registerIndex(args[0])
	if err != nil {
		return err
	}
	d.Printf("%s = %s\n", args[0], d.VM.Regs.Get(idx).String())
	return nil
}

// cmdInfo shows register or breakpoint state.
func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <registers|flags|breakpoints>")
	}
	switch strings.ToLower(args[0]) {
	case "registers", "reg", "r":
		return d.showRegisters()
	case "flags", "f":
		return d.showFlags()
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	default:
		return fmt.Errorf("unknown info command: %s", args[0])
	}
}

func (d *Debugger) showRegisters() error {
	d.Println("registers:")
	for i := 0; i < vm.RegisterCount; i++ {
		d.Printf("  $%x = %s\n", i, d.VM.Regs.Get(i).String())
	}
	return nil
}

func (d *Debugger) showFlags() error {
	names := [...]string{"eq", "ne", "gt", "lt", "ge", "le"}
	d.Println("flags:")
	for i, name := range names {
		d.Printf("  f%s = %v\n", name, d.VM.Flags[i])
	}
	return nil
}

func (d *Debugger) showBreakpoints() error {
	breakpoints := d.Breakpoints.All()
	if len(breakpoints) == 0 {
		d.Println("no breakpoints")
		return nil
	}
	d.Println("breakpoints:")
	for _, bp := range breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		temp := ""
		if bp.Temporary {
			temp = " (temporary)"
		}
		d.Printf("  %d: address %d %s%s (hit %d times)\n", bp.ID, bp.Address, status, temp, bp.HitCount)
	}
	return nil
}

// cmdList shows up to 10 instructions starting at the current address, or
// at the address or label given as its argument.
func (d *Debugger) cmdList(args []string) error {
	start := d.VM.IP
	if len(args) > 0 {
		addr, err := d.ResolveAddress(args[0])
		if err != nil {
			return err
		}
		start = addr
	}
	for addr := start; addr < start+10 && addr < d.Program.Len(); addr++ {
		d.Println(d.describe(addr))
	}
	return nil
}

// cmdReset rewinds the VM to address 0 with fresh registers.
func (d *Debugger) cmdReset() error {
	program := d.VM.Program
	out := d.VM.Out
	d.VM = vm.New(program, out)
	d.Running = false
	d.StepMode = StepNone
	d.Println("vm reset")
	return nil
}

func (d *Debugger) cmdHelp() error {
	d.Println("plas debugger commands:")
	d.Println("  run (r)              start execution from address 0")
	d.Println("  continue (c)         resume after a breakpoint")
	d.Println("  step (s)             execute a single instruction")
	d.Println("  break (b) <addr>     set a breakpoint")
	d.Println("  tbreak (tb) <addr>   set a one-shot breakpoint")
	d.Println("  delete (d) [id]      delete a breakpoint, or all")
	d.Println("  print (p) <$reg>     show a register's value")
	d.Println("  info (i) <what>      registers | flags | breakpoints")
	d.Println("  list (l) [addr]      list upcoming instructions")
	d.Println("  reset                restart the VM")
	d.Println("  help (h, ?)          show this help")
	d.Println("  quit (q)             exit the debugger")
	return nil
}

func registerIndex(lexeme string) (int, error) {
	if len(lexeme) != 2 || lexeme[0] != '$' {
		return 0, fmt.Errorf("not a register: %s", lexeme)
	}
	const digits = "0123456789abcdef"
	idx := strings.IndexByte(digits, lexeme[1])
	if idx < 0 {
		return 0, fmt.Errorf("not a register: %s", lexeme)
	}
	return idx, nil
}
