package sgx

import (
	"enarx-go/errkit"
	"enarx-go/keep"
)

// prefixPages is the number of pages reserved before the heap for the
// TCS, the Layout page itself, and the two SSAs — mirroring the
// ordering in the original's enclave builder (TCS, Layout, SSAs, heap,
// stack, then the relocated shim and code segments).
const prefixPages = 4

// Layout is the computed enclave memory map: where the internal
// bookkeeping segments (TCS/Layout/SSAs), heap, stack, shim, and code
// each land relative to the enclave's base address.
type Layout struct {
	Enclave keep.Line
	Prefix  keep.Line
	Heap    keep.Line
	Stack   keep.Line
	Shim    keep.Line
	Code    keep.Line
}

// CalculateLayout lays out an enclave's internal segments, heap, stack,
// shim, and code back to back, each page-aligned, mirroring
// Layout::calculate in the original (not present in the retrieved
// source but described by its call site in builder.rs).
func CalculateLayout(pageSize uintptr, heapPages, stackPages, shimSize, codeSize uintptr) (Layout, error) {
	if pageSize == 0 || shimSize == 0 || codeSize == 0 {
		return Layout{}, errkit.ErrNoMemory
	}

	prefix := keep.Line{Start: 0, End: prefixPages * pageSize}
	heap := keep.Line{Start: prefix.End, End: prefix.End + heapPages*pageSize}
	stack := keep.Line{Start: heap.End, End: heap.End + stackPages*pageSize}

	shimStart := raiseTo(stack.End, pageSize)
	shim := keep.Line{Start: shimStart, End: shimStart + raiseTo(shimSize, pageSize)}

	codeStart := raiseTo(shim.End, pageSize)
	code := keep.Line{Start: codeStart, End: codeStart + raiseTo(codeSize, pageSize)}

	return Layout{
		Enclave: keep.Line{Start: 0, End: code.End},
		Prefix:  prefix,
		Heap:    heap,
		Stack:   stack,
		Shim:    shim,
		Code:    code,
	}, nil
}

func raiseTo(v, align uintptr) uintptr {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

// EnclaveLoader is the seam to the actual SGX enclave-creation ioctls
// (ECREATE/EADD/EINIT against /dev/sgx_enclave), which this module
// doesn't implement since it needs a real enclave driver. A production
// binary wires Build to a concrete loader; tests use a fake that
// records the segments it was asked to load.
type EnclaveLoader interface {
	CreateEnclave(size uintptr) error
	AddSegment(dst uintptr, flags uint8, data []byte, measure bool) error
	Init(sigstruct []byte) error
}

// Build creates the enclave and loads, in order, one TCS segment at the
// start of the prefix, the heap, the stack, the shim image and the code
// image, then calls Init with sig. It adds no separate Layout or SSA
// segments (their prefix pages stay reserved but unloaded), and it
// loads shimImage and codeImage as given, without relocating them.
func Build(loader EnclaveLoader, layout Layout, shimImage, codeImage []byte, sig []byte) error {
	if err := loader.CreateEnclave(layout.Enclave.Length()); err != nil {
		return errkit.Wrap(err, errkit.KindBuilder, "sgx.build")
	}

	if err := loader.AddSegment(layout.Prefix.Start, 0x01 /* TCS */, nil, true); err != nil {
		return errkit.Wrap(err, errkit.KindBuilder, "sgx.build.tcs")
	}
	if err := loader.AddSegment(layout.Heap.Start, 0x07 /* RWX */, make([]byte, layout.Heap.Length()), true); err != nil {
		return errkit.Wrap(err, errkit.KindBuilder, "sgx.build.heap")
	}
	if err := loader.AddSegment(layout.Stack.Start, 0x03 /* RW */, make([]byte, layout.Stack.Length()), true); err != nil {
		return errkit.Wrap(err, errkit.KindBuilder, "sgx.build.stack")
	}
	if err := loader.AddSegment(layout.Shim.Start, 0x05 /* RX */, shimImage, true); err != nil {
		return errkit.Wrap(err, errkit.KindBuilder, "sgx.build.shim")
	}
	if err := loader.AddSegment(layout.Code.Start, 0x05 /* RX */, codeImage, true); err != nil {
		return errkit.Wrap(err, errkit.KindBuilder, "sgx.build.code")
	}

	if err := loader.Init(sig); err != nil {
		return errkit.Wrap(err, errkit.KindBuilder, "sgx.build.init")
	}
	return nil
}
