package errkit

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindValidation, "validation failure"},
		{KindUnsupported, "unsupported syscall"},
		{KindCoercion, "argument coercion failure"},
		{KindAttack, "attack detected"},
		{KindBuilder, "builder error"},
		{KindTEE, "TEE error"},
		{KindFirmware, "firmware error"},
		{KindProtocol, "protocol violation"},
		{KindInternal, "internal error"},
		{Kind(999), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("Kind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKeepError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *KeepError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "<nil>",
		},
		{
			name: "full error",
			err: &KeepError{
				Op:     "build",
				Keep:   "keep-1",
				Kind:   KindBuilder,
				Detail: "sallyport block missing",
				Err:    fmt.Errorf("no LOAD segment"),
			},
			expected: "keep keep-1: build: sallyport block missing: no LOAD segment",
		},
		{
			name: "without keep",
			err: &KeepError{
				Op:     "enter",
				Kind:   KindTEE,
				Detail: "unexpected AEX",
			},
			expected: "enter: unexpected AEX",
		},
		{
			name: "kind only",
			err: &KeepError{
				Kind: KindValidation,
			},
			expected: "validation failure",
		},
		{
			name: "with underlying error",
			err: &KeepError{
				Op:   "proxy",
				Kind: KindProtocol,
				Err:  fmt.Errorf("cursor exhausted"),
			},
			expected: "proxy: protocol violation: cursor exhausted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("KeepError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKeepError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	err := &KeepError{
		Op:   "test",
		Kind: KindInternal,
		Err:  underlying,
	}

	if got := err.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	var nilErr *KeepError
	if got := nilErr.Unwrap(); got != nil {
		t.Errorf("nil.Unwrap() = %v, want nil", got)
	}
}

func TestKeepError_Is(t *testing.T) {
	err1 := &KeepError{Kind: KindValidation, Op: "test1"}
	err2 := &KeepError{Kind: KindValidation, Op: "test2"}
	err3 := &KeepError{Kind: KindBuilder, Op: "test3"}

	if !err1.Is(err2) {
		t.Error("err1.Is(err2) should be true (same kind)")
	}

	if err1.Is(err3) {
		t.Error("err1.Is(err3) should be false (different kind)")
	}

	if err1.Is(fmt.Errorf("some error")) {
		t.Error("err1.Is(fmt.Errorf(...)) should be false")
	}

	var nilErr *KeepError
	if !nilErr.Is(nil) {
		t.Error("nil.Is(nil) should be true")
	}
}

func TestNew(t *testing.T) {
	err := New(KindCoercion, "validate", "arch_prctl code out of range")

	if err.Kind != KindCoercion {
		t.Errorf("Kind = %v, want %v", err.Kind, KindCoercion)
	}
	if err.Op != "validate" {
		t.Errorf("Op = %q, want %q", err.Op, "validate")
	}
	if err.Detail != "arch_prctl code out of range" {
		t.Errorf("Detail = %q, want %q", err.Detail, "arch_prctl code out of range")
	}
}

func TestWrap(t *testing.T) {
	underlying := fmt.Errorf("permission denied")
	err := Wrap(underlying, KindValidation, "validate pointer")

	if err.Err != underlying {
		t.Error("Wrapped error should preserve underlying error")
	}
	if err.Kind != KindValidation {
		t.Errorf("Kind = %v, want %v", err.Kind, KindValidation)
	}
	if err.Op != "validate pointer" {
		t.Errorf("Op = %q, want %q", err.Op, "validate pointer")
	}
}

func TestWrapWithKeep(t *testing.T) {
	underlying := fmt.Errorf("not found")
	err := WrapWithKeep(underlying, KindBuilder, "build", "my-keep")

	if err.Keep != "my-keep" {
		t.Errorf("Keep = %q, want %q", err.Keep, "my-keep")
	}
}

func TestWrapWithDetail(t *testing.T) {
	underlying := fmt.Errorf("syscall failed")
	err := WrapWithDetail(underlying, KindTEE, "enter", "unexpected vector")

	if err.Detail != "unexpected vector" {
		t.Errorf("Detail = %q, want %q", err.Detail, "unexpected vector")
	}
}

func TestIsKind(t *testing.T) {
	err := &KeepError{Kind: KindValidation}
	wrapped := fmt.Errorf("wrapped: %w", err)

	if !IsKind(err, KindValidation) {
		t.Error("IsKind(err, KindValidation) should be true")
	}
	if !IsKind(wrapped, KindValidation) {
		t.Error("IsKind(wrapped, KindValidation) should be true")
	}
	if IsKind(err, KindBuilder) {
		t.Error("IsKind(err, KindBuilder) should be false")
	}
	if IsKind(fmt.Errorf("plain error"), KindValidation) {
		t.Error("IsKind(plain error, KindValidation) should be false")
	}
}

func TestGetKind(t *testing.T) {
	err := &KeepError{Kind: KindFirmware}
	wrapped := fmt.Errorf("wrapped: %w", err)

	kind, ok := GetKind(err)
	if !ok || kind != KindFirmware {
		t.Errorf("GetKind(err) = (%v, %v), want (%v, true)", kind, ok, KindFirmware)
	}

	kind, ok = GetKind(wrapped)
	if !ok || kind != KindFirmware {
		t.Errorf("GetKind(wrapped) = (%v, %v), want (%v, true)", kind, ok, KindFirmware)
	}

	_, ok = GetKind(fmt.Errorf("plain error"))
	if ok {
		t.Error("GetKind(plain error) should return false")
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *KeepError
		kind Kind
	}{
		{"ErrNoBufferSpace", ErrNoBufferSpace, KindProtocol},
		{"ErrPointerOutsideData", ErrPointerOutsideData, KindValidation},
		{"ErrUnknownSyscall", ErrUnknownSyscall, KindUnsupported},
		{"ErrReplyOutOfContract", ErrReplyOutOfContract, KindAttack},
		{"ErrNoMemory", ErrNoMemory, KindBuilder},
		{"ErrNoSallyports", ErrNoSallyports, KindBuilder},
		{"ErrUnhandledExit", ErrUnhandledExit, KindTEE},
		{"ErrFirmwareUpdate", ErrFirmwareUpdate, KindFirmware},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("%s.Kind = %v, want %v", tt.name, tt.err.Kind, tt.kind)
			}
			wrapped := Wrap(fmt.Errorf("underlying"), tt.kind, "test")
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("errors.Is(wrapped, %s) should be true", tt.name)
			}
		})
	}
}

func TestErrorChain(t *testing.T) {
	underlying := fmt.Errorf("firmware rejected page")
	err1 := Wrap(underlying, KindFirmware, "update cpuid page")
	err2 := fmt.Errorf("builder failed: %w", err1)

	if !errors.Is(err2, ErrFirmwareUpdate) {
		t.Error("errors.Is should find ErrFirmwareUpdate in chain")
	}

	var kerr *KeepError
	if !errors.As(err2, &kerr) {
		t.Error("errors.As should find KeepError in chain")
	}
	if kerr.Op != "update cpuid page" {
		t.Errorf("kerr.Op = %q, want %q", kerr.Op, "update cpuid page")
	}

	if errors.Unwrap(err1) != underlying {
		t.Error("Unwrap should return underlying error")
	}
}
