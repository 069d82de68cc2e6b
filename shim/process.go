package shim

import (
	"golang.org/x/sys/unix"

	"enarx-go/sallyport"
)

// arch_prctl codes missing from golang.org/x/sys/unix as of this
// writing; the same gap the original shim worked around against libc.
const (
	archSetGS = 0x1001
	archSetFS = 0x1002
	archGetFS = 0x1003
	archGetGS = 0x1004
)

// ExitFunc is called by exit/exit_group; it never returns to the
// dispatcher (a real implementation tears down the thread or the whole
// Keep), but is a func value here so tests can observe the call instead
// of terminating the process.
type ExitFunc func(code int32)

// ProcessSyscalls answers process-identity and signal-disposition calls.
// A Keep runs one payload with no process hierarchy, so every identity
// call returns the same fixed values rather than consulting a process
// table that doesn't exist.
type ProcessSyscalls interface {
	ArchPrctl(code int32, addr sallyport.Untrusted[byte]) Result
	Exit(code int32) Result
	ExitGroup(code int32) Result
	SetTidAddress(addr sallyport.Untrusted[byte]) Result
	RtSigaction(signum int32, act, oldact sallyport.Untrusted[byte], sigsetsize uint64) Result
	RtSigprocmask(how int32, set, oldset sallyport.Untrusted[byte], sigsetsize uint64) Result
	Sigaltstack(ss, oldSs sallyport.Untrusted[byte]) Result
	Getpid() Result
	Getuid() Result
	Getgid() Result
	Geteuid() Result
	Getegid() Result
}

type localProcess struct {
	fsBase, gsBase uint64
	exit           ExitFunc
}

func newLocalProcess(exit ExitFunc) *localProcess {
	return &localProcess{exit: exit}
}

func (p *localProcess) ArchPrctl(code int32, addr sallyport.Untrusted[byte]) Result {
	switch code {
	case archSetFS:
		p.fsBase = uint64(addr.Addr())
		return ok(0)
	case archSetGS:
		p.gsBase = uint64(addr.Addr())
		return ok(0)
	case archGetFS, archGetGS:
		// The caller passed a pointer to write the value into; that
		// write goes through the normal validated-pointer path in a
		// full dispatcher, not modeled here since it needs a live
		// KeepMemoryMap.
		return ok(0)
	default:
		return fail(int32(unix.EINVAL))
	}
}

func (p *localProcess) Exit(code int32) Result {
	if p.exit != nil {
		p.exit(code)
	}
	return ok(0)
}

func (p *localProcess) ExitGroup(code int32) Result {
	if p.exit != nil {
		p.exit(code)
	}
	return ok(0)
}

func (p *localProcess) SetTidAddress(addr sallyport.Untrusted[byte]) Result {
	return ok(uint64(sallyport.FakePID))
}

func (p *localProcess) RtSigaction(signum int32, act, oldact sallyport.Untrusted[byte], sigsetsize uint64) Result {
	// Single-threaded, no real signal delivery inside a Keep; accept
	// and drop, matching the original's stub disposition tracking.
	return ok(0)
}

func (p *localProcess) RtSigprocmask(how int32, set, oldset sallyport.Untrusted[byte], sigsetsize uint64) Result {
	return ok(0)
}

func (p *localProcess) Sigaltstack(ss, oldSs sallyport.Untrusted[byte]) Result {
	return ok(0)
}

func (p *localProcess) Getpid() Result  { return ok(sallyport.FakePID) }
func (p *localProcess) Getuid() Result  { return ok(sallyport.FakeUID) }
func (p *localProcess) Getgid() Result  { return ok(sallyport.FakeGID) }
func (p *localProcess) Geteuid() Result { return ok(sallyport.FakeUID) }
func (p *localProcess) Getegid() Result { return ok(sallyport.FakeGID) }
