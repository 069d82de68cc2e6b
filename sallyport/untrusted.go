package sallyport

import (
	"unsafe"

	"enarx-go/errkit"
)

// KeepMemoryMap describes the address ranges a shim is allowed to read
// from or write to on the host's behalf: the current Block's data area,
// and nothing that overlaps the shim's own private memory (its stack,
// its code, its SSA). Validate uses it to reject host-supplied offsets
// that would otherwise let a compromised host trick the shim into
// touching its own secrets.
type KeepMemoryMap struct {
	// DataStart/DataEnd bound the Block's data area in the shim's
	// address space.
	DataStart, DataEnd uintptr
	// PrivateStart/PrivateEnd bound memory the shim must never expose,
	// even if a pointer nominally falls within DataStart/DataEnd (this
	// only happens if the regions are misconfigured, but Validate
	// checks it anyway since a Keep's memory map is host-influenced).
	PrivateStart, PrivateEnd uintptr
}

func (km *KeepMemoryMap) contains(addr, size uintptr) bool {
	if size == 0 {
		return addr >= km.DataStart && addr <= km.DataEnd
	}
	end := addr + size
	return addr >= km.DataStart && end <= km.DataEnd && end >= addr
}

func (km *KeepMemoryMap) overlapsPrivate(addr, size uintptr) bool {
	if km.PrivateStart == km.PrivateEnd {
		return false
	}
	end := addr + size
	return addr < km.PrivateEnd && end > km.PrivateStart
}

// Untrusted wraps an address+length reference into a Block's data area,
// as reported by a request argument. It cannot be dereferenced directly;
// Validate must succeed first. This mirrors the original's
// UntrustedRef<T> pattern using Go generics instead of a phantom type
// parameter.
type Untrusted[T any] struct {
	addr uintptr
	len  uintptr
}

// NewUntrusted constructs an Untrusted[T] from a raw address and element
// count, as decoded from a syscall argument register.
func NewUntrusted[T any](addr uintptr, count uintptr) Untrusted[T] {
	var zero T
	return Untrusted[T]{addr: addr, len: count * uintptr(unsafe.Sizeof(zero))}
}

// Validate checks that the referenced range lies entirely within the
// Keep's data area and does not overlap private memory, returning a
// dereferenceable slice only on success. Any failure is
// ErrPointerOutsideData or ErrPointerOverlapsPrivate — never a silent
// truncation.
func (u Untrusted[T]) Validate(km *KeepMemoryMap) ([]T, error) {
	if !km.contains(u.addr, u.len) {
		return nil, errkit.ErrPointerOutsideData
	}
	if km.overlapsPrivate(u.addr, u.len) {
		return nil, errkit.ErrPointerOverlapsPrivate
	}
	var zero T
	elemSize := uintptr(unsafe.Sizeof(zero))
	count := uintptr(0)
	if elemSize > 0 {
		count = u.len / elemSize
	}
	ptr := (*T)(unsafe.Pointer(u.addr))
	return unsafe.Slice(ptr, count), nil
}

// Addr returns the untrusted address without validating it. Only used
// to echo a pointer back into a reply (e.g. mmap's returned address),
// never to dereference it.
func (u Untrusted[T]) Addr() uintptr {
	return u.addr
}
