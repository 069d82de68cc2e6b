package keep

import "enarx-go/sallyport"

// Command is what a Thread's Enter loop reports back to its caller:
// either a live Block that needs a proxied syscall answered, or a
// request to simply resume the Thread (e.g. after an AEX that needed
// no host involvement).
type Command interface {
	isCommand()
}

// SysCall carries the Block whose Request the host executor must
// answer before resuming the Thread.
type SysCall struct {
	Block *sallyport.Block
}

func (SysCall) isCommand() {}

// Continue means the Thread can be re-entered immediately with no host
// action required.
type Continue struct{}

func (Continue) isCommand() {}

// Thread is one execution slot inside a Keep: entering it runs (or
// resumes) the payload until it either proxies a syscall or exits.
type Thread interface {
	// Enter runs the thread until it needs host attention, returning
	// the Command describing what the host should do next.
	Enter() (Command, error)
}

// Datum is one named, backend-defined piece of data a Keep reports
// about itself — CPU features, firmware version, whatever a backend
// wants to surface through `info` without every caller needing a
// backend-specific type switch.
type Datum struct {
	Name  string
	Value string
}

// Keep is a running, measured TEE instance: it owns the address space
// BootInfo computed and can spawn execution slots (Threads) into it.
type Keep interface {
	// Spawn creates a new Thread in this Keep, drawing from its slot
	// arena. Returns ErrSlotExhausted if none remain.
	Spawn() (Thread, error)
}

// Backend is implemented once per TEE technology (SGX, SEV-SNP); it
// reports whether the host can actually use it and builds Keeps.
type Backend interface {
	// Name identifies the backend ("sgx", "sev", "kvm").
	Name() string
	// Have reports whether this host can run this backend at all.
	Have() bool
	// Data returns backend-specific diagnostic data for `info`.
	Data() []Datum
	// Build constructs a Keep measuring shimPath/codePath per cfg.
	Build(cfg BuildConfig) (Keep, error)
}

// BuildConfig carries the inputs every backend's builder needs,
// independent of which TEE technology is in play.
type BuildConfig struct {
	ShimPath string
	CodePath string
	// NrSyscallBlocks is how many contiguous sallyport Blocks to
	// reserve for proxying syscalls.
	NrSyscallBlocks uintptr
	// PageSize is the host's page size, used by the layout algebra.
	PageSize uintptr
}
