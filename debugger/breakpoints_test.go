package debugger

import "testing"

func TestBreakpointManager_AddAndHas(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.Add(4, false)

	if !bm.Has(4) {
		t.Fatal("expected breakpoint at address 4")
	}
	if bp.HitCount != 0 {
		t.Fatalf("expected fresh breakpoint to have 0 hits, got %d", bp.HitCount)
	}
}

func TestBreakpointManager_TemporaryRemovedAfterHit(t *testing.T) {
	bm := NewBreakpointManager()
	bm.Add(4, true)

	hit := bm.ProcessHit(4)
	if hit == nil || hit.HitCount != 1 {
		t.Fatalf("expected a single hit, got %+v", hit)
	}
	if bm.Has(4) {
		t.Fatal("temporary breakpoint should be removed after its first hit")
	}
}

func TestBreakpointManager_Delete(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.Add(10, false)

	if err := bm.Delete(bp.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bm.Has(10) {
		t.Fatal("breakpoint should be gone after delete")
	}
	if err := bm.Delete(999); err == nil {
		t.Fatal("expected an error deleting an unknown id")
	}
}
