package shim

import (
	"golang.org/x/sys/unix"

	"enarx-go/sallyport"
)

// Handler composes the six per-domain handler interfaces a shim must
// implement to answer every syscall Dispatch knows how to route. This
// is the Go analogue of the original's single SyscallHandler supertrait.
type Handler interface {
	MemorySyscalls
	ProcessSyscalls
	FileSyscalls
	NetworkSyscalls
	SystemSyscalls
	EnarxSyscalls
}

// UnknownSyscallFunc is called for any nr Dispatch has no table entry for.
// It never gets a chance to answer; Dispatch always returns ENOSYS for
// these itself. A real shim may still want the hook for logging, which
// is why it's kept as an overridable function value rather than inlined.
type UnknownSyscallFunc func(a, b, c, d, e, f Register, nr uint64)

// Dispatch routes one trapped syscall to h, then applies the rdx-
// preservation rule: proxied Linux syscalls (nr < 0xEA00) never use
// Ret[1], so their caller's original rdx (argument c) must be echoed
// back unchanged rather than left as whatever the handler happened to
// put there — payload libc code reads rdx after every syscall trap on
// x86-64 and a stray value there is a visible correctness bug, not just
// an unused register.
func Dispatch(h Handler, a, b, c, d, e, f Register, nr uint64, onUnknown UnknownSyscallFunc) Result {
	res := dispatchOne(h, a, b, c, d, e, f, nr, onUnknown)
	if nr < sallyportEnarxThreshold {
		res.Ret[1] = c
	}
	return res
}

const sallyportEnarxThreshold = 0xEA00

func dispatchOne(h Handler, a, b, c, d, e, f Register, nr uint64, onUnknown UnknownSyscallFunc) Result {
	switch nr {
	// MemorySyscalls
	case unix.SYS_BRK:
		return h.Brk(ptr[byte](a, 0))
	case unix.SYS_MMAP:
		return h.Mmap(ptr[byte](a, 0), b, int32(c), int32(d), int32(e), f)
	case unix.SYS_MUNMAP:
		return h.Munmap(ptr[byte](a, 0), b)
	case unix.SYS_MADVISE:
		return h.Madvise(ptr[byte](a, 0), b, int32(c))
	case unix.SYS_MPROTECT:
		return h.Mprotect(ptr[byte](a, 0), b, int32(c))

	// ProcessSyscalls
	case unix.SYS_ARCH_PRCTL:
		return h.ArchPrctl(int32(a), ptr[byte](b, 0))
	case unix.SYS_EXIT:
		return h.Exit(int32(a))
	case unix.SYS_EXIT_GROUP:
		return h.ExitGroup(int32(a))
	case unix.SYS_SET_TID_ADDRESS:
		return h.SetTidAddress(ptr[byte](a, 0))
	case unix.SYS_RT_SIGACTION:
		return h.RtSigaction(int32(a), ptr[byte](b, 0), ptr[byte](c, 0), d)
	case unix.SYS_RT_SIGPROCMASK:
		return h.RtSigprocmask(int32(a), ptr[byte](b, 0), ptr[byte](c, 0), d)
	case unix.SYS_SIGALTSTACK:
		return h.Sigaltstack(ptr[byte](a, 0), ptr[byte](b, 0))
	case unix.SYS_GETPID:
		return h.Getpid()
	case unix.SYS_GETUID:
		return h.Getuid()
	case unix.SYS_GETGID:
		return h.Getgid()
	case unix.SYS_GETEUID:
		return h.Geteuid()
	case unix.SYS_GETEGID:
		return h.Getegid()

	// SystemSyscalls
	case unix.SYS_GETRANDOM:
		return h.Getrandom(ptr[byte](a, b), b, int32(c))
	case unix.SYS_CLOCK_GETTIME:
		return h.ClockGettime(int32(a), ptr[byte](b, 0))
	case unix.SYS_UNAME:
		return h.Uname(ptr[byte](a, 0))

	// FileSyscalls
	case unix.SYS_CLOSE:
		return h.Close(int32(a))
	case unix.SYS_READ:
		return h.Read(int32(a), ptr[byte](b, c), c)
	case unix.SYS_READV:
		return h.Readv(int32(a), ptr[byte](b, 0), int32(c))
	case unix.SYS_WRITE:
		return h.Write(int32(a), ptr[byte](b, c), c)
	case unix.SYS_WRITEV:
		return h.Writev(int32(a), ptr[byte](b, 0), int32(c))
	case unix.SYS_IOCTL:
		return h.Ioctl(int32(a), b, ptr[byte](c, 0))
	case unix.SYS_READLINK:
		return h.Readlink(ptr[byte](a, 0), ptr[byte](b, c), c)
	case unix.SYS_FSTAT:
		return h.Fstat(int32(a), ptr[byte](b, 0))
	case unix.SYS_FCNTL:
		return h.Fcntl(int32(a), int32(b), int32(c))
	case unix.SYS_POLL:
		return h.Poll(ptr[byte](a, 0), b, int32(c))
	case unix.SYS_PIPE:
		return h.Pipe(ptr[byte](a, 0))
	case unix.SYS_EPOLL_CREATE1:
		return h.EpollCreate1(int32(a))
	case unix.SYS_EPOLL_CTL:
		return h.EpollCtl(int32(a), int32(b), int32(c), ptr[byte](d, 0))
	case unix.SYS_EPOLL_WAIT:
		return h.EpollWait(int32(a), ptr[byte](b, 0), int32(c), int32(d))
	case unix.SYS_EPOLL_PWAIT:
		return h.EpollPwait(int32(a), ptr[byte](b, 0), int32(c), int32(d), ptr[byte](e, 0))
	case unix.SYS_EVENTFD2:
		return h.Eventfd2(uint32(a), int32(b))
	case unix.SYS_DUP:
		return h.Dup(int32(a))
	case unix.SYS_DUP2:
		return h.Dup2(int32(a), int32(b))
	case unix.SYS_DUP3:
		return h.Dup3(int32(a), int32(b), int32(c))

	// NetworkSyscalls
	case unix.SYS_SOCKET:
		return h.Socket(int32(a), int32(b), int32(c))
	case unix.SYS_BIND:
		return h.Bind(int32(a), ptr[byte](b, 0), c)
	case unix.SYS_LISTEN:
		return h.Listen(int32(a), int32(b))
	case unix.SYS_GETSOCKNAME:
		return h.Getsockname(int32(a), ptr[byte](b, 0), ptr[byte](c, 0))
	case unix.SYS_ACCEPT:
		return h.Accept(int32(a), ptr[byte](b, 0), ptr[byte](c, 0))
	case unix.SYS_ACCEPT4:
		return h.Accept4(int32(a), ptr[byte](b, 0), ptr[byte](c, 0), int32(d))
	case unix.SYS_CONNECT:
		return h.Connect(int32(a), ptr[byte](b, 0), c)
	case unix.SYS_RECVFROM:
		return h.Recvfrom(int32(a), ptr[byte](b, 0), c, int32(d), ptr[byte](e, 0), ptr[byte](f, 0))
	case unix.SYS_SENDTO:
		return h.Sendto(int32(a), ptr[byte](b, 0), c, int32(d), ptr[byte](e, 0), f)
	case unix.SYS_SETSOCKOPT:
		return h.Setsockopt(int32(a), int32(b), int32(c), ptr[byte](d, 0), e)

	// EnarxSyscalls
	case sallyport.SysEnarxGetAtt:
		return h.GetAttestation(ptr[byte](a, b), ptr[byte](c, d), d, b)

	default:
		if onUnknown != nil {
			onUnknown(a, b, c, d, e, f, nr)
		}
		return fail(int32(unix.ENOSYS))
	}
}
