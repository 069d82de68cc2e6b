// Package keep implements the host-side Keep: the memory-layout algebra
// that places a shim and its payload in a Keep's address space, the
// Keep/Thread/Command types shared by every backend, and the
// execution-slot arena that lets a Keep and its Threads hold references
// to each other without a reference cycle.
package keep

import "enarx-go/errkit"

// SyscallTriggerPort is the I/O port a guest writes to in order to
// signal the host that a Block is ready to be proxied. Only meaningful
// for KVM-based backends (SEV-SNP); SGX signals via ENCLU[EEXIT]
// instead.
const SyscallTriggerPort = 0xFF

// MaxSetupSize bounds how much of a Keep's address space the loader
// reserves for boot-time structures (page tables, GDT, the initial
// stack) before the shim and its payload begin.
const MaxSetupSize = 2 << 20

// Line is a half-open [Start, End) range of guest-virtual addresses,
// matching the original's Line<usize>.
type Line struct {
	Start, End uintptr
}

// Length returns End - Start.
func (l Line) Length() uintptr {
	return l.End - l.Start
}

// raise rounds v up to the next multiple of boundary (boundary need not
// be a power of two; the original algebra divides rather than masks).
// Returns false if the computation would overflow uintptr.
func raise(v, boundary uintptr) (uintptr, bool) {
	if boundary == 0 {
		return v, true
	}
	sum := v + boundary
	if sum < v {
		return 0, false
	}
	return lower(sum-1, boundary), true
}

func lower(v, boundary uintptr) uintptr {
	return v / boundary * boundary
}

// above places a span of `count` bytes immediately after prev, with its
// start raised to the next multiple of align. It is strictly monotonic:
// the returned line's Start is always >= prev.End.
func above(prev Line, count uintptr, align uintptr) (Line, bool) {
	start, ok := raise(prev.End, align)
	if !ok {
		return Line{}, false
	}
	end := start + count
	if end < start {
		return Line{}, false
	}
	return Line{Start: start, End: end}, true
}

// BootInfo is the computed memory layout of one Keep: the setup region,
// the shim, and the payload code, plus the total reserved memory size
// and how many contiguous sallyport Blocks the shim gets.
type BootInfo struct {
	Setup           Line
	Shim            Line
	Code            Line
	MemSize         uintptr
	NrSyscallBlocks uintptr
}

// Calculate lays out setup, shim, and code back to back and derives the
// total mapped memory size, mirroring BootInfo::calculate in the
// original: the shim is placed on a MaxSetupSize (2MiB) boundary since
// the first 2MB are the unencrypted shared setup region, and the code
// is placed on a pageSize boundary after it. nrSyscallBlocks must be at
// least 1 or ErrNoSallyports is returned, since a Keep with no Block
// can never proxy a syscall.
func Calculate(setup Line, shimSize, codeSize uintptr, nrSyscallBlocks uintptr, pageSize uintptr) (BootInfo, error) {
	if nrSyscallBlocks == 0 {
		return BootInfo{}, errkit.ErrNoSallyports
	}
	if setup.End >= MaxSetupSize {
		return BootInfo{}, errkit.WrapWithDetail(nil, errkit.KindBuilder, "bootinfo.calculate", "setup area must be smaller than MaxSetupSize")
	}

	shim, ok := above(setup, shimSize, MaxSetupSize)
	if !ok {
		return BootInfo{}, errkit.ErrNoMemory
	}
	code, ok := above(shim, codeSize, pageSize)
	if !ok {
		return BootInfo{}, errkit.ErrNoMemory
	}
	memSize, ok := raise(code.End, pageSize)
	if !ok {
		return BootInfo{}, errkit.ErrNoMemory
	}

	return BootInfo{
		Setup:           setup,
		Shim:            shim,
		Code:            code,
		MemSize:         memSize,
		NrSyscallBlocks: nrSyscallBlocks,
	}, nil
}
