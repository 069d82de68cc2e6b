package hostexec

import (
	"os"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"

	"enarx-go/sallyport"
)

func withFakeMapping(t *testing.T, backing []byte) {
	t.Helper()
	old := bufferAt
	base := uintptr(0)
	if len(backing) > 0 {
		base = uintptr(unsafe.Pointer(&backing[0]))
	}
	bufferAt = func(addr, length uint64) []byte {
		off := uintptr(addr) - base
		return backing[off : off+uintptr(length)]
	}
	t.Cleanup(func() { bufferAt = old })
}

func TestExecutorUnknownSyscall(t *testing.T) {
	e := NewExecutor()
	reply := e.Run(sallyport.Request{Num: 0x4242})
	if int64(reply.Ret[0]) != int64(-int32(unix.ENOSYS)) {
		t.Fatalf("Ret[0] = %d, want -ENOSYS", int64(reply.Ret[0]))
	}
}

func TestExecutorWriteRead(t *testing.T) {
	backing := make([]byte, 64)
	copy(backing, []byte("payload bytes"))
	withFakeMapping(t, backing)

	base := uintptr(unsafe.Pointer(&backing[0]))

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	e := NewExecutor()
	reply := e.Run(sallyport.Request{
		Num: uint64(unix.SYS_WRITE),
		Arg: [6]uint64{uint64(w.Fd()), uint64(base), 13, 0, 0, 0},
	})
	if int64(reply.Ret[0]) < 0 {
		t.Fatalf("write failed: errno %d", -int64(reply.Ret[0]))
	}
}

func TestExecutorProxyRoundTrip(t *testing.T) {
	backing := make([]byte, 64)
	withFakeMapping(t, backing)

	var block sallyport.Block
	block.Msg.Encode(sallyport.Request{Num: 0x4242})

	e := NewExecutor()
	if err := e.Proxy(&block); err != nil {
		t.Fatalf("Proxy: %v", err)
	}
	if block.Msg.Phase != sallyport.PhaseReply {
		t.Fatal("Proxy should leave the Message in PhaseReply")
	}
}
