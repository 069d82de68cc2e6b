package shim

import "enarx-go/sallyport"

// EnarxSyscalls answers the one Enarx-extended syscall that's dispatched
// through the same per-domain table as ordinary Linux syscalls.
// SYS_ENARX_CPUID, SYS_ENARX_ERESUME, SYS_ENARX_MEM_INFO, and
// SYS_ENARX_BALLOON_MEMORY bypass this table entirely — they're handled
// inline by each backend's entry/exit driver (see backend/sgx and
// backend/snp) because answering them requires machine state (SSA,
// VMCB, GHCB) the generic dispatcher never sees.
type EnarxSyscalls interface {
	GetAttestation(nonce sallyport.Untrusted[byte], buf sallyport.Untrusted[byte], bufLen uint64, nonceLen uint64) Result
}

// Attestor is implemented by a backend that can produce a quote/report
// for the Keep it's running. get_attestation defers entirely to it;
// the shim dispatcher has no attestation logic of its own.
type Attestor interface {
	Attest(nonce []byte) (report []byte, err error)
}

type localEnarx struct {
	attestor Attestor
	km       *sallyport.KeepMemoryMap
}

func newLocalEnarx(attestor Attestor, km *sallyport.KeepMemoryMap) *localEnarx {
	return &localEnarx{attestor: attestor, km: km}
}

func (e *localEnarx) GetAttestation(nonce, buf sallyport.Untrusted[byte], bufLen, nonceLen uint64) Result {
	nonceBytes, err := nonce.Validate(e.km)
	if err != nil {
		return fail(int32(-1))
	}
	out, err := buf.Validate(e.km)
	if err != nil {
		return fail(int32(-1))
	}
	report, err := e.attestor.Attest(nonceBytes[:nonceLen])
	if err != nil {
		return fail(int32(-1))
	}
	if uint64(len(report)) > bufLen {
		return fail(int32(-1))
	}
	copy(out, report)
	return ok(uint64(len(report)))
}
