package shim

import (
	"golang.org/x/sys/unix"

	"enarx-go/sallyport"
)

// MemorySyscalls answers the subset of the memory-management syscalls a
// payload running inside a Keep is allowed to make. None of them asks
// the host to map anything on the Keep's behalf. In the default
// implementation brk moves the break within the reserved heap, madvise
// is accepted and ignored, and mmap, munmap and mprotect return an
// error (ENOSYS, or EINVAL for a rejected mmap argument).
type MemorySyscalls interface {
	Brk(addr sallyport.Untrusted[byte]) Result
	Mmap(addr sallyport.Untrusted[byte], length uint64, prot, flags int32, fd int32, offset uint64) Result
	Munmap(addr sallyport.Untrusted[byte], length uint64) Result
	Madvise(addr sallyport.Untrusted[byte], length uint64, advice int32) Result
	Mprotect(addr sallyport.Untrusted[byte], length uint64, prot int32) Result
}

// localMemory implements MemorySyscalls by operating directly against
// the Keep's current break and reserved heap bounds. It
// never touches host memory: every syscall here is answered entirely
// from state the shim already owns.
type localMemory struct {
	heapStart, heapEnd uintptr
	brk                uintptr
}

func newLocalMemory(heapStart, heapEnd uintptr) *localMemory {
	return &localMemory{heapStart: heapStart, heapEnd: heapEnd, brk: heapStart}
}

func (m *localMemory) Brk(addr sallyport.Untrusted[byte]) Result {
	requested := addr.Addr()
	if requested == 0 {
		return ok(uint64(m.brk))
	}
	if requested < m.heapStart || requested > m.heapEnd {
		return ok(uint64(m.brk))
	}
	m.brk = requested
	return ok(uint64(m.brk))
}

func (m *localMemory) Mmap(addr sallyport.Untrusted[byte], length uint64, prot, flags int32, fd int32, offset uint64) Result {
	if fd != -1 {
		// File-backed mmap has no meaning inside a Keep: there is no
		// host file descriptor space to map from.
		return fail(int32(unix.ENOSYS))
	}
	if flags&unix.MAP_ANONYMOUS == 0 {
		return fail(int32(unix.EINVAL))
	}
	if length == 0 {
		return fail(int32(unix.EINVAL))
	}
	return fail(int32(unix.ENOSYS))
}

func (m *localMemory) Munmap(addr sallyport.Untrusted[byte], length uint64) Result {
	return fail(int32(unix.ENOSYS))
}

func (m *localMemory) Madvise(addr sallyport.Untrusted[byte], length uint64, advice int32) Result {
	// Advisory only; a Keep has no page cache to evict from.
	return ok(0)
}

func (m *localMemory) Mprotect(addr sallyport.Untrusted[byte], length uint64, prot int32) Result {
	return fail(int32(unix.ENOSYS))
}
