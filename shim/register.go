// Package shim implements the in-Keep side of the syscall proxy: the
// table-driven dispatcher that turns a trapped syscall instruction into
// a call against one of six per-domain handler interfaces, each of
// which either answers locally or builds a Request into the current
// Block and hands control to the host executor.
package shim

import "enarx-go/sallyport"

// Register is a single syscall argument or return value, matching the
// native word width a trapped syscall instruction presents them in.
type Register = uint64

// Result is what Dispatch returns: the two-word return value Reply
// expects, and a positive errno (or 0 on success) the shim's trap
// handler uses to decide whether to also set the carry flag / errno
// convention the payload's libc expects.
type Result struct {
	Ret  [2]uint64
	Errno int32
}

// ok builds a success Result from a single return register, echoing c
// into Ret[1] only for non-Enarx syscalls (handled by Dispatch).
func ok(ret uint64) Result {
	return Result{Ret: [2]uint64{ret, 0}}
}

func okPair(a, b uint64) Result {
	return Result{Ret: [2]uint64{a, b}}
}

func fail(errno int32) Result {
	return Result{Errno: errno}
}

// ptr reinterprets a register as an untrusted pointer of count elements
// into the current Block's data area.
func ptr[T any](reg Register, count uint64) sallyport.Untrusted[T] {
	return sallyport.NewUntrusted[T](uintptr(reg), uintptr(count))
}
