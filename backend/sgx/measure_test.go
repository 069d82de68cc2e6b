package sgx

import (
	"encoding/hex"
	"testing"
)

func TestMeasureIsDeterministicOverContent(t *testing.T) {
	pages := [][]byte{[]byte("tcs"), []byte("heap"), []byte("code")}

	a, err := Measure(pages)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	b, err := Measure(pages)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if a.MREnclave != b.MREnclave {
		t.Fatalf("MREnclave changed across calls with identical pages: %s vs %s", a.MREnclave, b.MREnclave)
	}

	other, err := Measure([][]byte{[]byte("different")})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if other.MREnclave == a.MREnclave {
		t.Fatal("MREnclave did not change when page content changed")
	}
}

func TestMeasureSignatureIsNotEmpty(t *testing.T) {
	m, err := Measure([][]byte{[]byte("page")})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if m.Signature == "" {
		t.Fatal("Signature is empty: signing key was generated but never used")
	}
	if _, err := m.Sigstruct(); err != nil {
		t.Fatalf("Sigstruct: %v", err)
	}
}

// TestBuildInitReceivesMeasuredSigstruct exercises the full path a real
// binary would drive: Measure the pages, then feed its Sigstruct into
// Build's sig parameter, and confirm the fake loader's Init sees
// exactly those bytes.
func TestBuildInitReceivesMeasuredSigstruct(t *testing.T) {
	layout, err := CalculateLayout(0x1000, 1, 1, 0x1000, 0x1000)
	if err != nil {
		t.Fatalf("CalculateLayout: %v", err)
	}
	shim := make([]byte, 0x1000)
	code := make([]byte, 0x1000)

	m, err := Measure([][]byte{shim, code})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	sigstruct, err := m.Sigstruct()
	if err != nil {
		t.Fatalf("Sigstruct: %v", err)
	}

	loader := &capturingLoader{}
	if err := Build(loader, layout, shim, code, sigstruct); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if hex.EncodeToString(loader.sig) != m.Signature {
		t.Fatalf("Init received %x, want the measured signature %s", loader.sig, m.Signature)
	}
}

type capturingLoader struct {
	sig []byte
}

func (c *capturingLoader) CreateEnclave(size uintptr) error                            { return nil }
func (c *capturingLoader) AddSegment(dst uintptr, flags uint8, data []byte, m bool) error { return nil }
func (c *capturingLoader) Init(sigstruct []byte) error {
	c.sig = sigstruct
	return nil
}
