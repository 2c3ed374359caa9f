package unread

import (
	"sync"
	"testing"
)

func TestOnEventIsIdempotent(t *testing.T) {
	tracker := NewTracker()
	admin := "admin-1"

	events := []string{"a", "b", "a", "c", "b", "a"}
	for _, id := range events {
		tracker.OnEvent(admin, id)
	}

	if got := tracker.Count(admin); got != 3 {
		t.Fatalf("expected count to equal distinct ids (3), got %d", got)
	}
}

func TestDuplicateEventAfterRefetchDoesNotDoubleCount(t *testing.T) {
	tracker := NewTracker()
	admin := "admin-1"

	// Live event, then the same id surfaces again via a list re-fetch.
	tracker.OnEvent(admin, "X")
	tracker.OnEvent(admin, "X")

	if got := tracker.Count(admin); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestAcknowledgeRemovesSingleID(t *testing.T) {
	tracker := NewTracker()
	admin := "admin-1"

	tracker.OnEvent(admin, "a")
	tracker.OnEvent(admin, "b")
	tracker.Acknowledge(admin, "a")

	if got := tracker.Count(admin); got != 1 {
		t.Fatalf("expected 1 after acknowledge, got %d", got)
	}

	// Acknowledging again is a no-op and the count never goes negative.
	tracker.Acknowledge(admin, "a")
	tracker.Acknowledge(admin, "missing")
	if got := tracker.Count(admin); got != 1 {
		t.Fatalf("expected count unchanged, got %d", got)
	}
}

func TestResetAllEmptiesTheSet(t *testing.T) {
	tracker := NewTracker()
	admin := "admin-1"

	tracker.OnEvent(admin, "a")
	tracker.OnEvent(admin, "b")
	tracker.ResetAll(admin)

	if got := tracker.Count(admin); got != 0 {
		t.Fatalf("expected 0 after reset, got %d", got)
	}
}

func TestTrackerScopesPerAdmin(t *testing.T) {
	tracker := NewTracker()

	tracker.OnEvent("admin-1", "a")
	tracker.OnEvent("admin-2", "a")
	tracker.OnEvent("admin-2", "b")

	if got := tracker.Count("admin-1"); got != 1 {
		t.Fatalf("expected 1 for admin-1, got %d", got)
	}
	if got := tracker.Count("admin-2"); got != 2 {
		t.Fatalf("expected 2 for admin-2, got %d", got)
	}

	tracker.ResetAll("admin-2")
	if got := tracker.Count("admin-1"); got != 1 {
		t.Fatalf("reset of admin-2 must not touch admin-1, got %d", got)
	}
}

func TestConcurrentEventsSettleToDistinctCount(t *testing.T) {
	tracker := NewTracker()
	admin := "admin-1"
	ids := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tracker.OnEvent(admin, ids[i%len(ids)])
		}(i)
	}
	wg.Wait()

	if got := tracker.Count(admin); got != len(ids) {
		t.Fatalf("expected %d, got %d", len(ids), got)
	}
}
