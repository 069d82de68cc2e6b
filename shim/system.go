package shim

import (
	"crypto/rand"

	"golang.org/x/sys/unix"

	"enarx-go/sallyport"
)

// SystemSyscalls answers miscellaneous system-information calls that
// don't belong to memory, process, file, or network concerns.
type SystemSyscalls interface {
	Getrandom(buf sallyport.Untrusted[byte], count uint64, flags int32) Result
	ClockGettime(clockID int32, tp sallyport.Untrusted[byte]) Result
	Uname(buf sallyport.Untrusted[byte]) Result
}

// localSystem answers getrandom from the Go runtime's CSPRNG rather
// than proxying to the host, since a Keep's attestation guarantees are
// worthless if its entropy source is host-controlled. clock_gettime and
// uname still proxy: wall-clock time and kernel identification aren't
// secrets worth generating in-Keep.
type localSystem struct {
	proxy Proxy
	km    *sallyport.KeepMemoryMap
}

func newLocalSystem(proxy Proxy, km *sallyport.KeepMemoryMap) *localSystem {
	return &localSystem{proxy: proxy, km: km}
}

func (s *localSystem) Getrandom(buf sallyport.Untrusted[byte], count uint64, flags int32) Result {
	dst, err := buf.Validate(s.km)
	if err != nil {
		return fail(int32(unix.EFAULT))
	}
	if uint64(len(dst)) < count {
		return fail(int32(unix.EINVAL))
	}
	n, err := rand.Read(dst[:count])
	if err != nil {
		return fail(int32(unix.EIO))
	}
	return ok(uint64(n))
}

func (s *localSystem) ClockGettime(clockID int32, tp sallyport.Untrusted[byte]) Result {
	return s.proxy.call(unix.SYS_CLOCK_GETTIME, uint64(clockID), uint64(tp.Addr()))
}

func (s *localSystem) Uname(buf sallyport.Untrusted[byte]) Result {
	return s.proxy.call(unix.SYS_UNAME, uint64(buf.Addr()))
}
