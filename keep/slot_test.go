package keep

import (
	"sync"
	"testing"

	"enarx-go/errkit"
)

func TestSlotArenaAcquireRelease(t *testing.T) {
	a := NewSlotArena(2)

	id1, err := a.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !a.InUse(id1) {
		t.Fatal("slot should be in use after Acquire")
	}

	id2, err := a.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if id1 == id2 {
		t.Fatal("Acquire returned the same slot twice")
	}

	_, err = a.Acquire()
	if !errkit.Is(err, errkit.ErrSlotExhausted) {
		t.Fatalf("err = %v, want ErrSlotExhausted", err)
	}

	a.Release(id1)
	if a.InUse(id1) {
		t.Fatal("slot should be free after Release")
	}

	id3, err := a.Acquire()
	if err != nil {
		t.Fatalf("Acquire after Release: %v", err)
	}
	if id3 != id1 {
		t.Fatalf("Acquire after Release = %d, want reused slot %d", id3, id1)
	}
}

func TestSlotArenaExclusivity(t *testing.T) {
	a := NewSlotArena(4)
	var wg sync.WaitGroup
	seen := make(chan SlotID, 4)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := a.Acquire()
			if err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			seen <- id
		}()
	}
	wg.Wait()
	close(seen)

	ids := make(map[SlotID]bool)
	for id := range seen {
		if ids[id] {
			t.Fatalf("slot %d was acquired by more than one goroutine", id)
		}
		ids[id] = true
	}
	if len(ids) != 4 {
		t.Fatalf("got %d distinct slots, want 4", len(ids))
	}
}

func TestSlotArenaReleaseOutOfRange(t *testing.T) {
	a := NewSlotArena(1)
	a.Release(-1)
	a.Release(99)
}
