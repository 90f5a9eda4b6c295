package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/retro49/plas/vm"
)

// TUI is the full-screen debugger view (SPEC_FULL.md §B.3): a program
// listing, register/flag panels, a breakpoint list, an output pane, and a
// command input.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	MainLayout      *tview.Flex
	ProgramView     *tview.TextView
	RegisterView    *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI builds a TUI over dbg.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{Debugger: dbg, App: tview.NewApplication()}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.ProgramView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.ProgramView.SetBorder(true).SetTitle(" Program ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers & Flags ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 8, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.ProgramView, 0, 2, false).
		AddItem(right, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.executeCommand(cmd)
		t.CommandInput.SetText("")
	}
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	for t.Debugger.Running {
		singleStep := t.Debugger.StepMode == StepSingle
		t.Debugger.StepMode = StepNone

		halted, err := t.Debugger.VM.Step()
		if err != nil {
			t.WriteOutput(fmt.Sprintf("[red]runtime error:[white] %v\n", err))
			t.Debugger.Running = false
			break
		}
		if halted {
			t.Debugger.VM.State = vm.StateHalted
			t.Debugger.Running = false
			t.WriteOutput(fmt.Sprintf("program exited with code %d\n", t.Debugger.VM.ExitCode()))
			break
		}
		if singleStep {
			t.Debugger.Running = false
			break
		}
		if t.Debugger.Breakpoints.Has(t.Debugger.VM.IP) {
			t.Debugger.Breakpoints.ProcessHit(t.Debugger.VM.IP)
			t.Debugger.Running = false
			t.WriteOutput(fmt.Sprintf("stopped: breakpoint at address %d\n", t.Debugger.VM.IP))
			break
		}
	}

	t.RefreshAll()
}

// WriteOutput appends text to the output pane and scrolls to the bottom.
func (t *TUI) WriteOutput(text string) {
	fmt.Fprint(t.OutputView, text)
	t.OutputView.ScrollToEnd()
}

// RefreshAll repaints every panel from current debugger state.
func (t *TUI) RefreshAll() {
	t.updateProgramView()
	t.updateRegisterView()
	t.updateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) updateProgramView() {
	ip := t.Debugger.VM.IP
	start := ip - 5
	if start < 0 {
		start = 0
	}

	var lines []string
	for addr := start; addr < start+20 && addr < t.Debugger.Program.Len(); addr++ {
		color := "white"
		marker := "  "
		if addr == ip {
			color = "yellow"
			marker = "->"
		}
		if t.Debugger.Breakpoints.Has(addr) {
			marker = "* "
		}
		lines = append(lines, fmt.Sprintf("[%s]%s %s[white]", color, marker, strings.TrimSpace(t.Debugger.describe(addr)[2:])))
	}
	t.ProgramView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateRegisterView() {
	var b strings.Builder
	regs := &t.Debugger.VM.Regs
	for i := 0; i < vm.RegisterCount; i++ {
		fmt.Fprintf(&b, "$%x=%-8s", i, regs.Get(i).String())
		if i%4 == 3 {
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')

	names := [...]string{"eq", "ne", "gt", "lt", "ge", "le"}
	for i, name := range names {
		if t.Debugger.VM.Flags[i] {
			fmt.Fprintf(&b, "[green]%s[white] ", name)
		} else {
			fmt.Fprintf(&b, "%s ", name)
		}
	}
	t.RegisterView.SetText(b.String())
}

func (t *TUI) updateBreakpointsView() {
	bps := t.Debugger.Breakpoints.All()
	if len(bps) == 0 {
		t.BreakpointsView.SetText("[yellow]no breakpoints set[white]")
		return
	}
	var lines []string
	for _, bp := range bps {
		status, color := "enabled", "green"
		if !bp.Enabled {
			status, color = "disabled", "red"
		}
		lines = append(lines, fmt.Sprintf("%d: [%s]%s[white] addr %d (hits %d)", bp.ID, color, status, bp.Address, bp.HitCount))
	}
	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]plas debugger[white]\n")
	t.WriteOutput("F1 help, F5 continue, F11 step, Ctrl-C quit\n\n")
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}

// RunTUI starts the full-screen debugger and returns the process exit
// code once the application exits.
func RunTUI(dbg *Debugger) int {
	tui := NewTUI(dbg)
	if err := tui.Run(); err != nil {
		fmt.Println("tui error:", err)
		return 1
	}
	return dbg.VM.ExitCode()
}
