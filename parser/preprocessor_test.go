package parser

import "testing"

func TestPreprocess_StripsCommentsAndBlankLines(t *testing.T) {
	src := "load $0 72\n# a full comment\n\nputc $0   # trailing comment\nexit 0\n"
	lines := Preprocess(src)

	if len(lines) != 3 {
		t.Fatalf("expected 3 surviving lines, got %d", len(lines))
	}
	if lines[0].Text != "load $0 72" || lines[0].Origin != 1 {
		t.Errorf("line 0 = %+v", lines[0])
	}
	if lines[1].Text != "putc $0" || lines[1].Origin != 4 {
		t.Errorf("line 1 = %+v", lines[1])
	}
	if lines[2].Text != "exit 0" || lines[2].Origin != 5 {
		t.Errorf("line 2 = %+v", lines[2])
	}
}

func TestPreprocess_CollapsesInternalSpaces(t *testing.T) {
	lines := Preprocess("load   $0    72\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "load $0 72" {
		t.Errorf("got %q", lines[0].Text)
	}
}

func TestPreprocess_Idempotent(t *testing.T) {
	src := "load $0 72\nputc $0  # comment\n\nexit 0\n"
	first := Preprocess(src)

	var rebuilt string
	for _, l := range first {
		rebuilt += l.Text + "\n"
	}
	second := Preprocess(rebuilt)

	if len(first) != len(second) {
		t.Fatalf("idempotence broke line count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("line %d: %q vs %q", i, first[i].Text, second[i].Text)
		}
	}
}

func TestPreprocess_TabsBecomeSpaces(t *testing.T) {
	lines := Preprocess("load\t$0\t72\n")
	if len(lines) != 1 || lines[0].Text != "load $0 72" {
		t.Fatalf("got %+v", lines)
	}
}
