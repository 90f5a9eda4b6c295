package debugger

import "testing"

func TestCommandHistory_AddAndNavigate(t *testing.T) {
	h := NewCommandHistory()
	h.Add("step")
	h.Add("continue")
	h.Add("print $0")

	if got := h.Previous(); got != "print $0" {
		t.Fatalf("Previous() = %q", got)
	}
	if got := h.Previous(); got != "continue" {
		t.Fatalf("Previous() = %q", got)
	}
	if got := h.Next(); got != "print $0" {
		t.Fatalf("Next() = %q", got)
	}
}

func TestCommandHistory_SkipsEmptyAndDuplicates(t *testing.T) {
	h := NewCommandHistory()
	h.Add("")
	h.Add("step")
	h.Add("step")

	if h.Size() != 1 {
		t.Fatalf("expected size 1, got %d", h.Size())
	}
}
