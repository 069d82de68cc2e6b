package sallyport

import (
	"encoding/binary"

	"enarx-go/errkit"
)

// Cursor is a two-pointer allocator over a Block's data area: start
// tracks how much has been allocated from the front, end tracks the
// total capacity. It never shrinks end and never allocates past it,
// so both host and shim can agree on the data area's layout without
// coordinating through anything but the allocation order itself.
type Cursor struct {
	data  []byte
	start int
}

// Len returns how many bytes remain unallocated.
func (c *Cursor) Len() int {
	return len(c.data) - c.start
}

// Alloc reserves the next n bytes of the data area and returns them as
// a slice plus their offset from the start of the data area. It returns
// ErrNoBufferSpace if n would overrun the Block.
func (c *Cursor) Alloc(n int) ([]byte, int, error) {
	if n < 0 || c.start+n > len(c.data) {
		return nil, 0, errkit.ErrNoBufferSpace
	}
	off := c.start
	c.start += n
	return c.data[off : off+n], off, nil
}

// Put copies src into the next len(src) bytes of the data area and
// returns its offset. It is the Go analogue of the original's
// copy_from_slice allocation helper.
func (c *Cursor) Put(src []byte) (int, error) {
	dst, off, err := c.Alloc(len(src))
	if err != nil {
		return 0, err
	}
	copy(dst, src)
	return off, nil
}

// Write encodes v in little-endian form into the next
// binary.Size(v) bytes of the data area and returns its offset.
func (c *Cursor) Write(v any) (int, error) {
	size := binary.Size(v)
	if size < 0 {
		return 0, errkit.New(errkit.KindInternal, "cursor.write", "value has no fixed binary size")
	}
	dst, off, err := c.Alloc(size)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 0, size)
	w := &sliceWriter{buf: buf}
	if err := binary.Write(w, binary.LittleEndian, v); err != nil {
		return 0, errkit.Wrap(err, errkit.KindInternal, "cursor.write")
	}
	copy(dst, w.buf)
	return off, nil
}

// Read decodes binary.Size(v) bytes starting at off into v.
func (c *Cursor) Read(off int, v any) error {
	size := binary.Size(v)
	if size < 0 {
		return errkit.New(errkit.KindInternal, "cursor.read", "value has no fixed binary size")
	}
	if off < 0 || off+size > len(c.data) {
		return errkit.ErrPointerOutsideData
	}
	return binary.Read(bytesReader(c.data[off:off+size]), binary.LittleEndian, v)
}

type sliceWriter struct{ buf []byte }

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// bytesReader adapts a byte slice to io.Reader without pulling in
// bytes.Reader's extra state (Len/Seek) that nothing here needs.
type bytesReader []byte

func (r bytesReader) Read(p []byte) (int, error) {
	n := copy(p, r)
	if n < len(p) {
		return n, errkit.New(errkit.KindInternal, "cursor.read", "short read")
	}
	return n, nil
}
