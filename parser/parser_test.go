package parser

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, source string) *Program {
	t.Helper()
	program, errs := Parse(source, "test.plas", Options{})
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Error())
	}
	return program
}

func TestParse_SimpleProgram(t *testing.T) {
	program := mustParse(t, "load $0 72\nputc $0\nexit 0\n")

	if program.Len() != 3 {
		t.Fatalf("expected 3 addresses, got %d", program.Len())
	}
	if program.At(0).Tokens[0].Lexeme != "load" {
		t.Errorf("address 0 = %v", program.At(0).Tokens)
	}
	if program.At(2).Tokens[0].Lexeme != "exit" {
		t.Errorf("address 2 = %v", program.At(2).Tokens)
	}
}

func TestParse_LabelResolvesToFollowingInstruction(t *testing.T) {
	src := "load $0 3\n: loop\nlog $0\nsub $0 1\neval $0 0\nifgt @ loop\nexit 0\n"
	program := mustParse(t, src)

	// "loop" is declared before "log $0"; the declaration line itself
	// must not occupy an address (Invariant 1).
	if program.Len() != 6 {
		t.Fatalf("expected 6 addresses (label line consumes none), got %d", program.Len())
	}
	ifgt := program.At(4)
	if ifgt.Tokens[0].Lexeme != "ifgt" {
		t.Fatalf("expected ifgt at address 4, got %v", ifgt.Tokens)
	}
	target := ifgt.Tokens[1]
	if target.Kind != KindAddress || target.Addr != 1 {
		t.Errorf("expected ifgt to jump to address 1 (log $0), got %+v", target)
	}
}

func TestParse_GoHomeSubroutine(t *testing.T) {
	src := "load $0 0\ngo @ sub\nlog $0\nexit 0\n: sub\nload $0 42\nhome\n"
	program := mustParse(t, src)

	goInstr := program.At(1)
	if goInstr.Tokens[0].Lexeme != "go" {
		t.Fatalf("expected go at address 1, got %v", goInstr.Tokens)
	}
	if goInstr.Tokens[1].Addr != 4 {
		t.Errorf("expected go to target address 4 (load $0 42), got %d", goInstr.Tokens[1].Addr)
	}
}

func TestParse_EveryAddressStartsWithInstruction(t *testing.T) {
	src := "load $0 3\n: loop\nlog $0\nsub $0 1\neval $0 0\nifgt @ loop\nexit 0\n"
	program := mustParse(t, src)

	for a := 0; a < program.Len(); a++ {
		instr := program.At(a)
		if len(instr.Tokens) == 0 || instr.Tokens[0].Kind != KindInstruction {
			t.Errorf("address %d does not start with INSTRUCTION: %v", a, instr.Tokens)
		}
		for _, tok := range instr.Tokens {
			if tok.Kind == KindSymbol || tok.Kind == KindLabel {
				t.Errorf("address %d retains a %s token: %v", a, tok.Kind, tok)
			}
		}
	}
}

func TestParse_UndefinedLabel(t *testing.T) {
	_, errs := Parse("go @ nowhere\n", "test.plas", Options{})
	if !errs.HasErrors() {
		t.Fatal("expected a parse error for an undefined label")
	}
	if got := errs.First().Message; got == "" || !strings.Contains(got, "label not found") {
		t.Errorf("expected 'label not found' in message, got %q", got)
	}
}

func TestParse_MissingArgument(t *testing.T) {
	_, errs := Parse("load $0\n", "test.plas", Options{})
	if !errs.HasErrors() {
		t.Fatal("expected a parse error for a missing argument")
	}
	if got := errs.First().Message; !strings.Contains(got, "expected argument not found") {
		t.Errorf("expected 'expected argument not found' in message, got %q", got)
	}
}

func TestParse_DuplicateLabel(t *testing.T) {
	_, errs := Parse(": a\nlog $0\n: a\nexit 0\n", "test.plas", Options{})
	if !errs.HasErrors() {
		t.Fatal("expected a parse error for a redefined label")
	}
	if got := errs.First().Message; !strings.Contains(got, "redefined") {
		t.Errorf("expected a redefinition message, got %q", got)
	}
}

func TestParse_NonInstructionLead(t *testing.T) {
	_, errs := Parse("$0 72\n", "test.plas", Options{})
	if !errs.HasErrors() {
		t.Fatal("expected a parse error for a non-instruction lead token")
	}
}

func TestParse_WrongArgumentKind(t *testing.T) {
	_, errs := Parse("go $0\n", "test.plas", Options{})
	if !errs.HasErrors() {
		t.Fatal("expected a parse error: go requires an ADDRESS argument")
	}
}

func TestParse_DataPermissiveByDefault(t *testing.T) {
	program, errs := Parse("data\nexit 0\n", "test.plas", Options{})
	if errs.HasErrors() {
		t.Fatalf("data should parse without error by default: %v", errs.Error())
	}
	if program.Len() != 2 {
		t.Fatalf("expected 2 addresses, got %d", program.Len())
	}
}

func TestParse_DataStrictRejected(t *testing.T) {
	_, errs := Parse("data\nexit 0\n", "test.plas", Options{DataStrict: true})
	if !errs.HasErrors() {
		t.Fatal("expected data to be rejected under DataStrict")
	}
}
