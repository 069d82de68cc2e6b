// Package hostexec implements the host side of the syscall proxy: it
// reads a Request out of a Block, runs the real syscall against the
// host kernel via golang.org/x/sys/unix, and writes back a Reply —
// mirroring the teacher's own direct use of golang.org/x/sys/unix in
// container/syscalls.go for unprivileged Linux primitives instead of
// re-deriving raw syscall numbers by hand.
package hostexec

import (
	"golang.org/x/sys/unix"

	"enarx-go/errkit"
	"enarx-go/sallyport"
)

// Handler answers one proxied syscall by number, given its (already
// host-translated) arguments, and returns the two-word reply value plus
// a positive errno (0 on success), which Run negates into the Reply.
type Handler func(args [6]uint64) (ret0, ret1 uint64, errno int32)

// Executor dispatches a Request by syscall number to a registered
// Handler, falling back to ENOSYS for anything unregistered. It owns no
// state beyond the table itself; every Handler is responsible for its
// own resource bookkeeping (matching the teacher's executor-as-thin-
// dispatch style in container/syscalls.go).
type Executor struct {
	handlers map[uint64]Handler
}

// NewExecutor returns an Executor pre-populated with default handlers
// for close, read, write, dup and socket only. Every other syscall the
// shim's file and network handlers proxy gets ENOSYS unless a handler
// is added with Register.
func NewExecutor() *Executor {
	e := &Executor{handlers: make(map[uint64]Handler)}
	e.registerDefaults()
	return e
}

// Register installs or overrides the handler for one syscall number.
func (e *Executor) Register(nr uint64, h Handler) {
	e.handlers[nr] = h
}

// Run answers req directly, without touching a Block; used by tests and
// by callers that have already decoded the request off the wire.
func (e *Executor) Run(req sallyport.Request) sallyport.Reply {
	h, ok := e.handlers[req.Num]
	if !ok {
		return sallyport.Reply{Ret: [2]uint64{uint64(int64(-int32(unix.ENOSYS))), 0}}
	}
	r0, r1, errno := h(req.Arg)
	if errno != 0 {
		return sallyport.Reply{Ret: [2]uint64{uint64(int64(-errno)), 0}}
	}
	return sallyport.Reply{Ret: [2]uint64{r0, r1}}
}

// Proxy executes the Request currently held in block.Msg and writes the
// Reply back into the same Message slot, completing the wait/signal
// cycle described in spec.md §4.1.
func (e *Executor) Proxy(block *sallyport.Block) error {
	req := block.Msg.Request()
	reply := e.Run(req)
	block.Msg.EncodeReply(reply)
	return nil
}

func (e *Executor) registerDefaults() {
	e.Register(uint64(unix.SYS_CLOSE), func(a [6]uint64) (uint64, uint64, int32) {
		err := unix.Close(int(a[0]))
		return 0, 0, errnoOf(err)
	})
	e.Register(uint64(unix.SYS_READ), func(a [6]uint64) (uint64, uint64, int32) {
		buf := bufferAt(a[1], a[2])
		n, err := unix.Read(int(a[0]), buf)
		return uint64(n), 0, errnoOf(err)
	})
	e.Register(uint64(unix.SYS_WRITE), func(a [6]uint64) (uint64, uint64, int32) {
		buf := bufferAt(a[1], a[2])
		n, err := unix.Write(int(a[0]), buf)
		return uint64(n), 0, errnoOf(err)
	})
	e.Register(uint64(unix.SYS_DUP), func(a [6]uint64) (uint64, uint64, int32) {
		fd, err := unix.Dup(int(a[0]))
		return uint64(fd), 0, errnoOf(err)
	})
	e.Register(uint64(unix.SYS_SOCKET), func(a [6]uint64) (uint64, uint64, int32) {
		fd, err := unix.Socket(int(a[0]), int(a[1]), int(a[2]))
		return uint64(fd), 0, errnoOf(err)
	})
}

func errnoOf(err error) int32 {
	if err == nil {
		return 0
	}
	if errno, ok := err.(unix.Errno); ok {
		return int32(errno)
	}
	return int32(unix.EIO)
}

// bufferAt is overridden in tests; production callers translate a Block
// data-area offset into a live slice via sallyport.Untrusted[T] before
// the Executor ever sees raw addresses. Left here as the seam a real
// host process wires to its own mmap of the Keep's shared pages.
var bufferAt = func(addr, length uint64) []byte {
	panic(errkit.New(errkit.KindInternal, "hostexec", "bufferAt not wired to a live Keep mapping"))
}
