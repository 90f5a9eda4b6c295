// Package tools provides static analysis over a linked PLAS program: an
// unused-label check and an unreachable-code check, reported as a sorted
// list of Issues.
package tools

import (
	"fmt"
	"sort"

	"github.com/retro49/plas/parser"
)

// Level is the severity of a lint finding.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Issue is a single lint finding, anchored at the origin line it concerns.
type Issue struct {
	Level   Level
	Line    int
	Message string
	Code    string
}

func (i *Issue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// Options controls which passes Check runs.
type Options struct {
	CheckUnusedLabels bool
	CheckUnreachable  bool
}

// DefaultOptions enables every pass.
func DefaultOptions() Options {
	return Options{CheckUnusedLabels: true, CheckUnreachable: true}
}

// Check runs every enabled pass over an already-linked program and returns
// its findings sorted by origin line. It never looks at parse errors —
// callers are expected to have already rejected those.
func Check(program *parser.Program) []*Issue {
	return CheckWithOptions(program, DefaultOptions())
}

// CheckWithOptions is Check with explicit pass selection.
func CheckWithOptions(program *parser.Program, opts Options) []*Issue {
	var issues []*Issue

	if opts.CheckUnusedLabels {
		issues = append(issues, checkUnusedLabels(program)...)
	}
	if opts.CheckUnreachable {
		issues = append(issues, checkUnreachable(program)...)
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

// checkUnusedLabels warns about a declared label no instruction ever
// targets via `@ name` (SPEC_FULL.md §3's Label Table exists purely to
// serve go/if*/ifn* targets; one with no reference is dead weight).
func checkUnusedLabels(program *parser.Program) []*Issue {
	referenced := reachableTargets(program)

	var issues []*Issue
	for name, addr := range program.Labels {
		if !referenced[addr] {
			issues = append(issues, &Issue{
				Level:   LevelWarning,
				Line:    program.OriginLine(addr),
				Message: fmt.Sprintf("label %q is never referenced", name),
				Code:    "UNUSED_LABEL",
			})
		}
	}
	return issues
}

// checkUnreachable flags an address that is neither address 0 (the entry
// point), the fall-through of a preceding non-terminal instruction, nor
// the target of any go/if*/ifn*.
func checkUnreachable(program *parser.Program) []*Issue {
	targets := reachableTargets(program)

	var issues []*Issue
	for addr := 1; addr < program.Len(); addr++ {
		if targets[addr] {
			continue
		}
		prev := program.At(addr - 1)
		if prev == nil || len(prev.Tokens) == 0 {
			continue
		}
		if isUnconditionalExit(prev.Tokens[0].Lexeme) {
			issues = append(issues, &Issue{
				Level:   LevelWarning,
				Line:    program.OriginLine(addr),
				Message: "unreachable: follows an exit or home with no incoming jump",
				Code:    "UNREACHABLE_CODE",
			})
		}
	}
	return issues
}

// reachableTargets collects address 0 (the entry point) plus every address
// any instruction's ADDRESS-kind argument names.
func reachableTargets(program *parser.Program) map[int]bool {
	reached := map[int]bool{0: true}
	for addr := 0; addr < program.Len(); addr++ {
		instr := program.At(addr)
		for _, tok := range instr.Tokens {
			if tok.Kind == parser.KindAddress {
				reached[tok.Addr] = true
			}
		}
	}
	return reached
}

func isUnconditionalExit(mnemonic string) bool {
	switch mnemonic {
	case "exit", "home":
		return true
	default:
		return false
	}
}
