package snp

import "enarx-go/errkit"

// ghcbMSR is the GHCB MSR (0xc0010130) the guest and hypervisor use to
// negotiate protocol version and to request guest termination before a
// real GHCB page is even mapped. Referenced but not retrieved from the
// original's snp::ghcb submodule; this models the publicly documented
// GHCB MSR protocol (AMD64 APM vol. 2, GHCB specification) instead.
const ghcbMSR = 0xc0010130

// ghcbMSRTerminateRequest is the GHCB MSR protocol's terminate-request
// code, held in bits 0-11 of the MSR value a guest writes to ask the
// hypervisor to terminate it.
const ghcbMSRTerminateRequest = 0x100

// ghcbTerminateReasonSet is the reason-set value placed in bits 12-15
// of a terminate request.
const ghcbTerminateReasonSet = 0x1

// TerminateReason identifies why the guest asked to be terminated
// through the GHCB MSR protocol, mirroring the reason codes the GHCB
// spec reserves for general and SEV-ES-specific termination.
type TerminateReason uint8

const (
	TerminateGeneral TerminateReason = iota
	TerminateUnsupportedProtocol
)

// EncodeTerminateRequest builds the MSR value a guest writes to request
// termination: the terminate-request code in bits 0-11, the reason set
// in bits 12-15 and the reason code in bits 16-23.
func EncodeTerminateRequest(reason TerminateReason) uint64 {
	return ghcbMSRTerminateRequest | ghcbTerminateReasonSet<<12 | uint64(reason)<<16
}

// PvalidateError classifies a failed PVALIDATE instruction, mirroring
// snp::Error: FailInput means the address/size alignment contract was
// violated, FailSizeMismatch means a 2MB validation request landed on
// 4KB-backed pages, and Unknown carries through any other return code
// unaltered.
type PvalidateError struct {
	Code uint32
}

func (e *PvalidateError) Error() string {
	switch e.Code {
	case 1:
		return "pvalidate: misaligned address for requested page size"
	case 6:
		return "pvalidate: size mismatch against backing page size"
	default:
		return "pvalidate: unknown failure"
	}
}

// PvalidateFunc executes the PVALIDATE instruction, validating or
// rescinding a guest-physical page's RMP entry. Exists so tests can
// substitute a scripted result instead of executing a privileged
// instruction unavailable outside a real SNP guest.
type PvalidateFunc func(addr uintptr, size uintptr, validate bool) (rmpDone bool, retCode uint32)

// pvalidateFunc is replaced in tests; a real guest binary wires this to
// an asm stub emitting the PVALIDATE instruction itself.
var pvalidateFunc PvalidateFunc = func(addr, size uintptr, validate bool) (bool, uint32) {
	return false, 0
}

// Pvalidate runs PVALIDATE over addr/size, translating the instruction's
// raw return code into a typed error the way pvalidate() does in the
// original.
func Pvalidate(addr, size uintptr, validate bool) (rmpDone bool, err error) {
	done, code := pvalidateFunc(addr, size, validate)
	if code == 0 {
		return done, nil
	}
	return false, errkit.Wrap(&PvalidateError{Code: code}, errkit.KindTEE, "snp.pvalidate")
}
