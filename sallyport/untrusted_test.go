package sallyport

import (
	"testing"
	"unsafe"

	"enarx-go/errkit"
)

func TestUntrustedValidateWithinData(t *testing.T) {
	buf := make([]byte, 64)
	base := uintptr(unsafe.Pointer(&buf[0]))
	km := &KeepMemoryMap{
		DataStart: base,
		DataEnd:   base + uintptr(len(buf)),
	}

	u := NewUntrusted[byte](base+8, 16)
	slice, err := u.Validate(km)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(slice) != 16 {
		t.Fatalf("len(slice) = %d, want 16", len(slice))
	}
}

func TestUntrustedValidateOutsideData(t *testing.T) {
	buf := make([]byte, 64)
	base := uintptr(unsafe.Pointer(&buf[0]))
	km := &KeepMemoryMap{
		DataStart: base,
		DataEnd:   base + uintptr(len(buf)),
	}

	u := NewUntrusted[byte](base+60, 16)
	_, err := u.Validate(km)
	if !errkit.Is(err, errkit.ErrPointerOutsideData) {
		t.Fatalf("Validate() err = %v, want ErrPointerOutsideData", err)
	}
}

func TestUntrustedValidateOverlapsPrivate(t *testing.T) {
	buf := make([]byte, 64)
	base := uintptr(unsafe.Pointer(&buf[0]))
	km := &KeepMemoryMap{
		DataStart:    base,
		DataEnd:      base + uintptr(len(buf)),
		PrivateStart: base + 8,
		PrivateEnd:   base + 24,
	}

	u := NewUntrusted[byte](base+16, 4)
	_, err := u.Validate(km)
	if !errkit.Is(err, errkit.ErrPointerOverlapsPrivate) {
		t.Fatalf("Validate() err = %v, want ErrPointerOverlapsPrivate", err)
	}
}
