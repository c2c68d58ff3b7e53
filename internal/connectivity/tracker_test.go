package connectivity

import (
	"sync"
	"testing"
)

func TestTracker_UpDown(t *testing.T) {
	tr := NewTracker(nil)
	if tr.Connected() {
		t.Fatalf("tracker must start disconnected")
	}

	tr.Up(":8080")
	if !tr.Connected() {
		t.Fatalf("expected connected after Up")
	}
	first := tr.Since()

	tr.Up(":8080")
	if tr.Since() != first || tr.changes != 1 {
		t.Fatalf("repeated Up must be a no-op")
	}

	tr.Down("shutdown")
	if tr.Connected() || tr.changes != 2 {
		t.Fatalf("expected disconnected after Down")
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); tr.Up("x") }()
		go func() { defer wg.Done(); _ = tr.Connected() }()
	}
	wg.Wait()
	if !tr.Connected() {
		t.Fatalf("expected connected")
	}
}
