package sallyport

import (
	"bytes"
	"testing"

	"enarx-go/errkit"
)

func TestCursorPutAndRead(t *testing.T) {
	var b Block
	c := b.NewCursor()

	off, err := c.Put([]byte("hello"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if off != 0 {
		t.Fatalf("off = %d, want 0", off)
	}
	if !bytes.Equal(b.Data[0:5], []byte("hello")) {
		t.Fatalf("Data[0:5] = %q, want %q", b.Data[0:5], "hello")
	}

	off2, err := c.Put([]byte("world"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if off2 != 5 {
		t.Fatalf("off2 = %d, want 5", off2)
	}
}

func TestCursorAllocOverflow(t *testing.T) {
	var b Block
	c := b.NewCursor()

	_, _, err := c.Alloc(len(b.Data) + 1)
	if !errkit.IsKind(err, errkit.KindProtocol) {
		t.Fatalf("Alloc overflow err = %v, want KindProtocol", err)
	}
	if !errkit.Is(err, errkit.ErrNoBufferSpace) {
		t.Fatalf("Alloc overflow err should match ErrNoBufferSpace, got %v", err)
	}
}

func TestCursorExactFit(t *testing.T) {
	var b Block
	c := b.NewCursor()

	_, _, err := c.Alloc(len(b.Data))
	if err != nil {
		t.Fatalf("exact-fit Alloc failed: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}

	_, _, err = c.Alloc(1)
	if err == nil {
		t.Fatal("expected error allocating past an exhausted cursor")
	}
}

func TestCursorWriteReadRoundTrip(t *testing.T) {
	var b Block
	c := b.NewCursor()

	type record struct {
		A uint32
		B uint64
	}
	want := record{A: 7, B: 99}

	off, err := c.Write(want)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got record
	if err := c.Read(off, &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != want {
		t.Fatalf("Read() = %+v, want %+v", got, want)
	}
}
