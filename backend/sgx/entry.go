// Package sgx implements the Intel SGX backend: enclave segment
// construction and measurement (builder.go, measure.go), the
// StateSaveArea the AEX trap hands back (ssa.go), and the entry/exit
// state machine that turns an AEX into either an inline CPUID answer,
// an inline attestation answer, an ERESUME, or a syscall handed to the
// host (entry.go).
package sgx

import (
	"enarx-go/errkit"
	"enarx-go/sallyport"
)

// EntryMode selects which SGX instruction the next hardware transition
// uses: ENCLU[EENTER] to start fresh at CSSA 1, or ENCLU[ERESUME] to
// continue at CSSA 0 after the shim handled something internally.
type EntryMode int

const (
	Enter EntryMode = iota
	Resume
)

// ExceptionVector identifies why an AEX (Asynchronous Enclave Exit)
// happened. Only InvalidOpcode is handled specially: it's how a syscall
// instruction trapped from inside the enclave looks from the outside.
type ExceptionVector int

const (
	ExceptionNone ExceptionVector = iota
	ExceptionInvalidOpcode
	ExceptionOther
)

// HardwareThread is the seam between this package's entry/exit state
// machine and the actual ENCLU instruction sequence, which needs
// assembly this module doesn't implement. A real binary wires this to
// its TCS/SSA management; tests wire it to a fake that scripts a
// sequence of AEX reasons.
type HardwareThread interface {
	// EnterOrResume runs the enclave in the given mode until the next
	// AEX, returning which exception vector caused it (ExceptionNone if
	// the enclave made an ENARX_ERESUME-style internal return instead
	// of trapping).
	EnterOrResume(mode EntryMode) (ExceptionVector, error)
}

// Attestor answers SYS_ENARX_GETATT using this enclave's attestation
// mechanism.
type Attestor interface {
	Attest(nonce []byte) (report []byte, err error)
}

// Thread drives one SGX execution slot: each call to Enter runs the
// AEX loop until a real Linux syscall needs to leave the enclave.
type Thread struct {
	hw       HardwareThread
	block    *sallyport.Block
	km       *sallyport.KeepMemoryMap
	attestor Attestor
}

// NewThread builds a Thread around a hardware driver, the Block it
// shares with the host, the Keep's memory map (for validating
// attestation pointers), and an Attestor.
func NewThread(hw HardwareThread, block *sallyport.Block, km *sallyport.KeepMemoryMap, attestor Attestor) *Thread {
	return &Thread{hw: hw, block: block, km: km, attestor: attestor}
}

// Enter runs the AEX state machine described in the original: an
// invalid-opcode AEX means "I made a syscall, re-enter at CSSA 1 to
// read it"; a clean return with SYS_ENARX_CPUID or SYS_ENARX_GETATT
// is answered by this loop itself (handleCPUID, handleGetAttestation),
// which then re-enters with Enter; SYS_ENARX_ERESUME means resume at
// CSSA 0; anything else means a genuine Linux syscall the host must
// answer.
func (t *Thread) Enter() (needsHost bool, err error) {
	mode := Enter
	for {
		vector, err := t.hw.EnterOrResume(mode)
		if err != nil {
			return false, errkit.Wrap(err, errkit.KindTEE, "sgx.enter")
		}

		if vector == ExceptionInvalidOpcode {
			mode = Enter
			continue
		}
		if vector != ExceptionNone {
			return false, errkit.WrapWithDetail(nil, errkit.KindTEE, "sgx.enter", "unexpected AEX vector")
		}

		req := t.block.Msg.Request()
		switch req.Num {
		case sallyport.SysEnarxCPUID:
			t.handleCPUID(req)
			mode = Enter
		case sallyport.SysEnarxGetAtt:
			if err := t.handleGetAttestation(req); err != nil {
				return false, err
			}
			mode = Enter
		case sallyport.SysEnarxERESUME:
			mode = Resume
		default:
			return true, nil
		}
	}
}
