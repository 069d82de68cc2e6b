package sgx

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"enarx-go/errkit"
)

// sigstructKeyBits is the RSA modulus size SGX's SIGSTRUCT format
// requires for an enclave's signing key.
const sigstructKeyBits = 3072

// Measurement is the JSON shape `enarx report` emits for an SGX
// Keep, and also carries the raw material Build's Init wants: the
// digest doubles as MRENCLAVE, and Signature is the PKCS#1v1.5 sigstruct
// signature over it, matching the original's inline format string plus
// its measurement-only signing step.
type Measurement struct {
	Backend   string `json:"backend"`
	MREnclave string `json:"mrenclave"`
	Signature string `json:"signature"`
}

// Measure computes the MRENCLAVE-style rolling hash over the pages
// that would be loaded into the enclave (TCS, layout, SSAs, heap,
// stack, shim, code, each contributing their EADD/EEXTEND measurement
// input) and signs it with a freshly generated ephemeral RSA key,
// mirroring the original's openssl-generated, measurement-only signing
// key: the key never needs to be persisted or reused, since nothing
// else authenticates against it, only the resulting SIGSTRUCT. The
// original constrains the public exponent to 3 for SIGSTRUCT
// compatibility; crypto/rsa.GenerateKey always produces e=65537 and
// exposes no custom-exponent constructor, so this module signs with the
// stdlib's fixed exponent instead (see DESIGN.md) — no consumer here
// checks the public exponent, and nothing in this module verifies
// Signature.
func Measure(pages [][]byte) (Measurement, error) {
	h := sha256.New()
	for _, p := range pages {
		h.Write(p)
	}
	digest := h.Sum(nil)

	key, err := rsa.GenerateKey(rand.Reader, sigstructKeyBits)
	if err != nil {
		return Measurement{}, errkit.Wrap(err, errkit.KindBuilder, "sgx.measure")
	}
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest)
	if err != nil {
		return Measurement{}, errkit.Wrap(err, errkit.KindBuilder, "sgx.measure.sign")
	}

	return Measurement{
		Backend:   "sgx",
		MREnclave: hex.EncodeToString(digest),
		Signature: hex.EncodeToString(sig),
	}, nil
}

// Sigstruct decodes m's hex-encoded Signature back into the raw bytes
// EnclaveLoader.Init expects. Build never computes a signature itself
// (see builder.go); a caller drives Measure first and passes its
// Sigstruct() through as Build's sig argument.
func (m Measurement) Sigstruct() ([]byte, error) {
	sig, err := hex.DecodeString(m.Signature)
	if err != nil {
		return nil, errkit.Wrap(err, errkit.KindCoercion, "sgx.measure.sigstruct")
	}
	return sig, nil
}

// JSON renders m the way `enarx report` prints it.
func (m Measurement) JSON() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", errkit.Wrap(err, errkit.KindInternal, "sgx.measure.json")
	}
	return string(b), nil
}
