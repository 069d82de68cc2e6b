package shim

import "enarx-go/sallyport"

// composedHandler embeds one implementation of each domain interface to
// satisfy Handler. Embedding (rather than a single monolithic struct)
// keeps each domain's state private to the file that owns it.
type composedHandler struct {
	*localMemory
	*localProcess
	*proxiedFile
	*proxiedNetwork
	*localSystem
	*localEnarx
}

// Config wires a Handler's dependencies: the host proxy for syscalls
// that must cross into untrusted territory, the Keep's memory map for
// validating untrusted pointers, its heap bounds for brk/mmap, an
// attestor for get_attestation, and an exit hook the backend uses to
// tear down the execution slot.
type Config struct {
	Proxy           Proxy
	KeepMemoryMap   *sallyport.KeepMemoryMap
	HeapStart       uintptr
	HeapEnd         uintptr
	Attestor        Attestor
	Exit            ExitFunc
	OnUnknownSyscall UnknownSyscallFunc
}

// NewHandler builds the default composed Handler used by both backends.
func NewHandler(cfg Config) Handler {
	fds := NewFDTable()
	return &composedHandler{
		localMemory:    newLocalMemory(cfg.HeapStart, cfg.HeapEnd),
		localProcess:   newLocalProcess(cfg.Exit),
		proxiedFile:    newProxiedFile(cfg.Proxy, fds),
		proxiedNetwork: newProxiedNetwork(cfg.Proxy, fds),
		localSystem:    newLocalSystem(cfg.Proxy, cfg.KeepMemoryMap),
		localEnarx:     newLocalEnarx(cfg.Attestor, cfg.KeepMemoryMap),
	}
}
