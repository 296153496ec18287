package botpool

import (
	"sort"
	"testing"
	"time"
)

func TestSubmitAndWaitForCompletion(t *testing.T) {
	p := New(4, func(n int) int { return n * n })
	defer p.Shutdown()

	for i := 1; i <= 10; i++ {
		p.Submit(i)
	}
	p.WaitForCompletion()

	got := p.DrainCompleted()
	sort.Ints(got)
	want := []int{1, 4, 9, 16, 25, 36, 49, 64, 81, 100}
	if len(got) != len(want) {
		t.Fatalf("len(DrainCompleted()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNextCompletedEmptyReturnsFalse(t *testing.T) {
	p := New(2, func(n int) int { return n })
	defer p.Shutdown()

	if _, ok := p.NextCompleted(); ok {
		t.Errorf("NextCompleted() on empty pool = ok, want not ok")
	}
}

func TestNextCompletedDrainsOneAtATime(t *testing.T) {
	p := New(2, func(n int) int { return n })
	defer p.Shutdown()

	p.Submit(1)
	p.Submit(2)
	p.WaitForCompletion()

	seen := 0
	for {
		if _, ok := p.NextCompleted(); ok {
			seen++
		} else {
			break
		}
	}
	if seen != 2 {
		t.Errorf("drained %d results, want 2", seen)
	}
}

func TestShutdownStopsWorkers(t *testing.T) {
	p := New(2, func(n int) int { return n })
	p.Submit(1)
	p.WaitForCompletion()
	p.Shutdown()

	done := make(chan struct{})
	go func() {
		p.Submit(2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Submit after Shutdown blocked instead of returning")
	}
}
