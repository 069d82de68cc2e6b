package shim

import (
	"testing"

	"golang.org/x/sys/unix"

	"enarx-go/sallyport"
)

func testHandler() (Handler, *bool) {
	exited := false
	h := NewHandler(Config{
		KeepMemoryMap: &sallyport.KeepMemoryMap{},
		Exit:          func(code int32) { exited = true },
	})
	return h, &exited
}

func TestDispatchGetpid(t *testing.T) {
	h, _ := testHandler()
	res := Dispatch(h, 0, 0, 0, 0, 0, 0, unix.SYS_GETPID, nil)
	if res.Errno != 0 {
		t.Fatalf("errno = %d, want 0", res.Errno)
	}
	if res.Ret[0] != sallyport.FakePID {
		t.Fatalf("Ret[0] = %d, want %d", res.Ret[0], sallyport.FakePID)
	}
}

func TestDispatchRdxPreservedForLinuxSyscall(t *testing.T) {
	h, _ := testHandler()
	const rdx = 0xdeadbeef
	res := Dispatch(h, 0, 0, rdx, 0, 0, 0, unix.SYS_GETPID, nil)
	if res.Ret[1] != rdx {
		t.Fatalf("Ret[1] = %#x, want %#x (original rdx)", res.Ret[1], uint64(rdx))
	}
}

func TestDispatchRdxNotPreservedForEnarxSyscall(t *testing.T) {
	h, _ := testHandler()
	const rdx = 0xdeadbeef
	res := Dispatch(h, 0, 0, rdx, 4, 0, 0, sallyport.SysEnarxGetAtt, nil)
	if res.Ret[1] == rdx {
		t.Fatalf("Ret[1] should not echo rdx for an Enarx syscall")
	}
}

func TestDispatchUnknownSyscall(t *testing.T) {
	h, _ := testHandler()
	var sawNr uint64
	onUnknown := func(a, b, c, d, e, f Register, nr uint64) { sawNr = nr }

	res := Dispatch(h, 0, 0, 0, 0, 0, 0, 0x9999, onUnknown)
	if res.Errno != int32(unix.ENOSYS) {
		t.Fatalf("errno = %d, want ENOSYS", res.Errno)
	}
	if sawNr != 0x9999 {
		t.Fatalf("onUnknown saw nr = %#x, want 0x9999", sawNr)
	}
}

func TestDispatchExitCallsHook(t *testing.T) {
	h, exited := testHandler()
	Dispatch(h, 0, 0, 0, 0, 0, 0, unix.SYS_EXIT, nil)
	if !*exited {
		t.Fatal("exit hook was not called")
	}
}

func TestDispatchGetrandomFillsBuffer(t *testing.T) {
	buf := make([]byte, 32)
	km := &sallyport.KeepMemoryMap{
		DataStart: addrOf(buf),
		DataEnd:   addrOf(buf) + uintptr(len(buf)),
	}
	h := NewHandler(Config{KeepMemoryMap: km})

	res := Dispatch(h, uint64(addrOf(buf)), 16, 0, 0, 0, 0, unix.SYS_GETRANDOM, nil)
	if res.Errno != 0 {
		t.Fatalf("errno = %d, want 0", res.Errno)
	}
	if res.Ret[0] != 16 {
		t.Fatalf("Ret[0] = %d, want 16", res.Ret[0])
	}
}
