// Package enarxsys implements the Enarx-extended syscalls that bypass
// the ordinary shim dispatch table because answering them needs
// Keep-level state a per-syscall handler never sees: the guest's memory
// region list, the capacity to grow a Keep's memory at runtime, and
// (for SGX) the CPUID/attestation primitives a backend's entry/exit
// driver answers inline.
package enarxsys

import (
	"enarx-go/errkit"
)

// BalloonRequest is the decoded SYS_ENARX_BALLOON_MEMORY request: grow
// the Keep's guest memory by npgs pages of size 1<<pow2, placed at the
// guest-physical address addr.
type BalloonRequest struct {
	Pow2 uint64
	Npgs uint64
	Addr uint64
}

// MemoryGrower is implemented by a backend's Keep: it knows how to
// actually map new pages into the guest's physical address space and
// report the host virtual address they landed at.
type MemoryGrower interface {
	GrowMemory(size uintptr, npgs uintptr, guestPhysAddr uintptr) (hostVirtAddr uintptr, err error)
}

// Balloon validates a balloon request against the host's page size and
// grows the Keep's memory through grower. Per the original, only a
// balloon size exactly matching the host page size is supported, and
// the guest physical address must be aligned to that size — a Keep
// can't meaningfully request huge-page-sized growth the host doesn't
// also use.
func Balloon(req BalloonRequest, hostPageSize uintptr, grower MemoryGrower) (hostVirtAddr uintptr, err error) {
	size := uintptr(1) << req.Pow2
	if size != hostPageSize {
		return 0, errkit.ErrBalloonUnsupportedSize
	}
	if uintptr(req.Addr)%size != 0 {
		return 0, errkit.ErrBalloonMisaligned
	}
	return grower.GrowMemory(size, uintptr(req.Npgs), uintptr(req.Addr))
}
