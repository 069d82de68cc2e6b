package sgx

import (
	"enarx-go/errkit"
	"enarx-go/sallyport"
)

// handleGetAttestation answers SYS_ENARX_GETATT in the entry loop,
// without handing it to the host syscall executor: it reads the nonce
// the payload supplied, asks the configured Attestor to produce a
// report, writes it back into the buffer the payload provided, and
// records the length written as the reply.
func (t *Thread) handleGetAttestation(req sallyport.Request) error {
	nonce := sallyport.NewUntrusted[byte](uintptr(req.Arg[0]), uintptr(req.Arg[1]))
	buf := sallyport.NewUntrusted[byte](uintptr(req.Arg[2]), uintptr(req.Arg[3]))

	nonceBytes, err := nonce.Validate(t.km)
	if err != nil {
		return errkit.Wrap(err, errkit.KindValidation, "sgx.get_attestation")
	}
	out, err := buf.Validate(t.km)
	if err != nil {
		return errkit.Wrap(err, errkit.KindValidation, "sgx.get_attestation")
	}

	report, err := t.attestor.Attest(nonceBytes)
	if err != nil {
		return errkit.Wrap(err, errkit.KindTEE, "sgx.get_attestation")
	}
	if uint64(len(report)) > req.Arg[3] {
		return errkit.New(errkit.KindValidation, "sgx.get_attestation", "report larger than caller's buffer")
	}
	copy(out, report)

	t.block.Msg.EncodeReply(sallyport.Reply{Ret: [2]uint64{uint64(len(report)), 0}})
	return nil
}
