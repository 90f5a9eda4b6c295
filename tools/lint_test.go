package tools_test

import (
	"testing"

	"github.com/retro49/plas/parser"
	"github.com/retro49/plas/tools"
)

func mustParse(t *testing.T, src string) *parser.Program {
	t.Helper()
	program, errs := parser.Parse(src, "test.plas", parser.Options{})
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Error())
	}
	return program
}

func TestCheck_CleanProgramHasNoIssues(t *testing.T) {
	src := "load $0 3\n: loop\nlog $0\nsub $0 1\neval $0 0\nifgt @ loop\nexit 0\n"
	issues := tools.Check(mustParse(t, src))

	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestCheck_UnusedLabel(t *testing.T) {
	src := "load $0 0\n: dead\nlog $0\nexit 0\n"
	issues := tools.Check(mustParse(t, src))

	var found bool
	for _, i := range issues {
		if i.Code == "UNUSED_LABEL" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UNUSED_LABEL finding, got %v", issues)
	}
}

func TestCheck_UnreachableAfterExit(t *testing.T) {
	src := "load $0 0\nexit 0\nlog $0\n"
	issues := tools.Check(mustParse(t, src))

	var found bool
	for _, i := range issues {
		if i.Code == "UNREACHABLE_CODE" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UNREACHABLE_CODE finding, got %v", issues)
	}
}

func TestCheck_ReachableViaJumpIsNotFlagged(t *testing.T) {
	src := "go @ sub\nexit 0\n: sub\nlog $0\nhome\n"
	issues := tools.Check(mustParse(t, src))

	for _, i := range issues {
		if i.Code == "UNREACHABLE_CODE" {
			t.Fatalf("did not expect unreachable finding for a jump target: %v", i)
		}
	}
}
