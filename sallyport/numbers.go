package sallyport

// Enarx-internal syscall numbers. These live above the Linux syscall
// table (x86-64 tops out well below 0xEA00) so a shim can tell a
// genuine proxied Linux syscall from an Enarx-extended one with a
// single comparison.
const (
	SysEnarxGetAtt         = 0xEA01
	SysEnarxCPUID          = 0xEA02
	SysEnarxERESUME        = 0xEA03
	SysEnarxMemInfo        = 0xEA04
	SysEnarxBalloonMemory  = 0xEA05
	enarxSyscallThreshold  = 0xEA00
)

// IsEnarxSyscall reports whether nr is one of the Enarx-extended
// syscalls rather than a proxied Linux syscall.
func IsEnarxSyscall(nr uint64) bool {
	return nr >= enarxSyscallThreshold
}

// Fake identity values the shim reports for getpid/getuid/getgid family
// calls; no process table exists inside a Keep.
const (
	FakePID = 1000
	FakeUID = 1000
	FakeGID = 1000
)
