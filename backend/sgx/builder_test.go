package sgx

import "testing"

func TestCalculateLayoutOrdering(t *testing.T) {
	layout, err := CalculateLayout(0x1000, 4, 2, 0x5000, 0x200)
	if err != nil {
		t.Fatalf("CalculateLayout: %v", err)
	}

	if layout.Prefix.Start != 0 {
		t.Fatalf("Prefix.Start = %#x, want 0", layout.Prefix.Start)
	}
	if layout.Heap.Start != layout.Prefix.End {
		t.Fatalf("Heap.Start (%#x) must equal Prefix.End (%#x)", layout.Heap.Start, layout.Prefix.End)
	}
	if layout.Stack.Start != layout.Heap.End {
		t.Fatalf("Stack.Start (%#x) must equal Heap.End (%#x)", layout.Stack.Start, layout.Heap.End)
	}
	if layout.Shim.Start < layout.Stack.End {
		t.Fatalf("Shim.Start (%#x) must be >= Stack.End (%#x)", layout.Shim.Start, layout.Stack.End)
	}
	if layout.Code.Start < layout.Shim.End {
		t.Fatalf("Code.Start (%#x) must be >= Shim.End (%#x)", layout.Code.Start, layout.Shim.End)
	}
	if layout.Enclave.End != layout.Code.End {
		t.Fatalf("Enclave.End (%#x) must equal Code.End (%#x)", layout.Enclave.End, layout.Code.End)
	}
}

func TestCalculateLayoutRejectsZeroSizes(t *testing.T) {
	if _, err := CalculateLayout(0x1000, 1, 1, 0, 0x1000); err == nil {
		t.Fatal("expected error for zero shim size")
	}
	if _, err := CalculateLayout(0x1000, 1, 1, 0x1000, 0); err == nil {
		t.Fatal("expected error for zero code size")
	}
}

type fakeLoader struct {
	created  uintptr
	segments []uintptr
	inited   bool
}

func (f *fakeLoader) CreateEnclave(size uintptr) error {
	f.created = size
	return nil
}

func (f *fakeLoader) AddSegment(dst uintptr, flags uint8, data []byte, measure bool) error {
	f.segments = append(f.segments, dst)
	return nil
}

func (f *fakeLoader) Init(sigstruct []byte) error {
	f.inited = true
	return nil
}

func TestBuildLoadsSegmentsInOrder(t *testing.T) {
	layout, err := CalculateLayout(0x1000, 2, 2, 0x1000, 0x1000)
	if err != nil {
		t.Fatalf("CalculateLayout: %v", err)
	}
	loader := &fakeLoader{}

	err = Build(loader, layout, make([]byte, 0x1000), make([]byte, 0x1000), []byte("sig"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if loader.created != layout.Enclave.Length() {
		t.Fatalf("created size = %#x, want %#x", loader.created, layout.Enclave.Length())
	}
	if !loader.inited {
		t.Fatal("Init was not called")
	}
	wantOrder := []uintptr{layout.Prefix.Start, layout.Heap.Start, layout.Stack.Start, layout.Shim.Start, layout.Code.Start}
	if len(loader.segments) != len(wantOrder) {
		t.Fatalf("got %d segments, want %d", len(loader.segments), len(wantOrder))
	}
	for i, want := range wantOrder {
		if loader.segments[i] != want {
			t.Fatalf("segment[%d] = %#x, want %#x", i, loader.segments[i], want)
		}
	}
}
