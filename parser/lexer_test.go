package parser

import (
	"reflect"
	"testing"
)

func TestSplitLexemes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"load $0 72", []string{"load", "$0", "72"}},
		{": loop", []string{":", "loop"}},
		{"ifgt @ loop", []string{"ifgt", "@", "loop"}},
		{"eval $0 -3.5", []string{"eval", "$0", "-3.5"}},
	}

	for _, tt := range tests {
		got := SplitLexemes(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLexemes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		lexeme string
		want   Kind
	}{
		{"load", KindInstruction},
		{"data", KindInstruction},
		{"$0", KindMemory},
		{"$f", KindMemory},
		{"$g", KindError},
		{"72", KindValue},
		{"-3.5", KindValue},
		{"-3", KindValue},
		{"loop", KindLabel},
		{":", KindSymbol},
		{"@", KindSymbol},
	}

	for _, tt := range tests {
		if got := Classify(tt.lexeme); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.lexeme, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	line := Line{Text: "load $0 72", Origin: 5}
	toks := Tokenize(line, "prog.plas")

	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	if toks[0].Kind != KindInstruction || toks[0].Lexeme != "load" {
		t.Errorf("token 0 = %+v", toks[0])
	}
	if toks[1].Kind != KindMemory || toks[1].Lexeme != "$0" {
		t.Errorf("token 1 = %+v", toks[1])
	}
	if toks[2].Kind != KindValue || toks[2].Lexeme != "72" {
		t.Errorf("token 2 = %+v", toks[2])
	}
	for _, tok := range toks {
		if tok.Pos.Line != 5 {
			t.Errorf("expected origin line 5, got %d", tok.Pos.Line)
		}
	}
}
