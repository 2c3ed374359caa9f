package unread

import (
	"sync"
)

// Tracker maintains per-admin sets of unread order ids fed by live events.
// Inserts and removals are idempotent: the count for an admin is always the
// number of distinct ids currently in the set, never the number of events
// observed. The sets are ephemeral and rebuilt from the event stream.
type Tracker struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

// NewTracker builds an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{sets: make(map[string]map[string]struct{})}
}

// OnEvent records an unread order id for the admin. Duplicate ids are
// absorbed without changing the count.
func (t *Tracker) OnEvent(adminID, orderID string) {
	if adminID == "" || orderID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.sets[adminID]
	if !ok {
		set = make(map[string]struct{})
		t.sets[adminID] = set
	}
	set[orderID] = struct{}{}
}

// Acknowledge removes a single order id for the admin. Removing an absent
// id is a no-op.
func (t *Tracker) Acknowledge(adminID, orderID string) {
	if adminID == "" || orderID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.sets[adminID]
	if !ok {
		return
	}
	delete(set, orderID)
	if len(set) == 0 {
		delete(t.sets, adminID)
	}
}

// ResetAll empties the admin's set. Invoked when the admin visits the
// canonical listing page for the tracked events.
func (t *Tracker) ResetAll(adminID string) {
	if adminID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sets, adminID)
}

// Count returns the number of distinct unread order ids for the admin.
func (t *Tracker) Count(adminID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sets[adminID])
}

// IDs returns a copy of the admin's unread order ids.
func (t *Tracker) IDs(adminID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	set, ok := t.sets[adminID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
