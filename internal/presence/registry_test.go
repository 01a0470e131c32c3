package presence

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegisterAndUnregister(t *testing.T) {
	r := NewRegistry()

	r.Register(1, "conn-a")
	r.Register(1, "conn-b")
	if !r.IsOnline(1) {
		t.Fatalf("expected user 1 online")
	}

	if remaining := r.Unregister(1, "conn-a"); remaining != 1 {
		t.Fatalf("expected 1 remaining connection, got %d", remaining)
	}
	if !r.IsOnline(1) {
		t.Fatalf("expected user 1 still online with one connection left")
	}

	if remaining := r.Unregister(1, "conn-b"); remaining != 0 {
		t.Fatalf("expected 0 remaining connections, got %d", remaining)
	}
	if r.IsOnline(1) {
		t.Fatalf("expected user 1 offline after last disconnect")
	}
}

func TestRegisterDuplicateConnID(t *testing.T) {
	r := NewRegistry()

	r.Register(1, "conn-a")
	r.Register(1, "conn-a")

	if remaining := r.Unregister(1, "conn-a"); remaining != 0 {
		t.Fatalf("duplicate register must not double-count, got %d remaining", remaining)
	}
}

func TestRegisterIgnoresInvalidIDs(t *testing.T) {
	r := NewRegistry()

	r.Register(0, "conn-a")
	r.Register(-5, "conn-b")
	r.Register(1, "")

	if got := len(r.Snapshot()); got != 0 {
		t.Fatalf("expected empty registry, got %d users", got)
	}
}

func TestUnregisterUnknownUser(t *testing.T) {
	r := NewRegistry()

	if remaining := r.Unregister(42, "conn-x"); remaining != 0 {
		t.Fatalf("expected 0 for unknown user, got %d", remaining)
	}
}

func TestSnapshotListsOnlineUsers(t *testing.T) {
	r := NewRegistry()

	r.Register(9, "a")
	r.Register(2, "b")
	r.Register(2, "c")

	snapshot := r.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 online users, got %d", len(snapshot))
	}
	if snapshot[0] != 2 || snapshot[1] != 9 {
		t.Fatalf("expected sorted snapshot, got %v", snapshot)
	}
}

func TestConcurrentRegistrations(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for userID := 1; userID <= 10; userID++ {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(userID, i int) {
				defer wg.Done()
				connID := fmt.Sprintf("conn-%d-%d", userID, i)
				r.Register(userID, connID)
				r.IsOnline(userID)
				r.Unregister(userID, connID)
			}(userID, i)
		}
	}
	wg.Wait()

	if got := len(r.Snapshot()); got != 0 {
		t.Fatalf("expected empty registry after all disconnects, got %d", got)
	}
}
