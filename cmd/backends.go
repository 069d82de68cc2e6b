package cmd

import (
	"enarx-go/backend/sgx"
	"enarx-go/backend/snp"
	"enarx-go/errkit"
	"enarx-go/keep"
)

// registry lists every backend this binary knows how to name, in the
// order `enarx info` lists them and lookupBackend probes them.
func registry() []keep.Backend {
	return []keep.Backend{
		sgxBackend{},
		snpBackend{name: "sev"},
		snpBackend{name: "kvm"},
	}
}

// lookupBackend resolves name ("" = probe in registry order) to the
// first matching, available Backend.
func lookupBackend(name string) (keep.Backend, error) {
	for _, b := range registry() {
		if name != "" && b.Name() != name {
			continue
		}
		if !b.Have() {
			continue
		}
		return b, nil
	}
	return nil, errkit.New(errkit.KindBuilder, "cmd.lookupBackend", "no matching backend available")
}

// sgxBackend adapts backend/sgx's free functions and Build seam onto
// keep.Backend. Build always fails here: constructing a live enclave
// needs a real /dev/sgx_enclave EnclaveLoader (ECREATE/EADD/EINIT
// ioctls), which is the hardware-specific seam sgx.Build takes as a
// parameter rather than implementing (see backend/sgx/builder.go).
// A production binary supplies that loader; this CLI skeleton only
// wires the delegation up to the point a real one would be plugged in.
type sgxBackend struct{}

func (sgxBackend) Name() string { return "sgx" }
func (sgxBackend) Have() bool   { return sgx.Have() }

func (sgxBackend) Data() []keep.Datum {
	var out []keep.Datum
	for _, d := range sgx.Data() {
		out = append(out, keep.Datum{Name: d.Name, Value: d.Info})
	}
	return out
}

func (sgxBackend) Build(cfg keep.BuildConfig) (keep.Keep, error) {
	return nil, errkit.WrapWithDetail(nil, errkit.KindBuilder, "sgx.build",
		"no EnclaveLoader wired: requires /dev/sgx_enclave ioctls not implemented by this module")
}

// snpBackend adapts backend/snp the same way. A single type serves
// both the "sev" (confidential, C-bit set) and "kvm" (unencrypted
// debug) names the original exposes, since both drive the same SNP
// builder/entry code and differ only in the Firmware implementation a
// real binary would supply.
type snpBackend struct {
	name string
}

func (b snpBackend) Name() string { return b.name }
func (b snpBackend) Have() bool   { return snp.Have() }

func (b snpBackend) Data() []keep.Datum {
	var out []keep.Datum
	for _, d := range snp.Data() {
		out = append(out, keep.Datum{Name: d.Name, Value: d.Info})
	}
	return out
}

func (b snpBackend) Build(cfg keep.BuildConfig) (keep.Keep, error) {
	return nil, errkit.WrapWithDetail(nil, errkit.KindBuilder, "snp.build",
		"no Firmware wired: requires /dev/kvm and /dev/sev ioctls not implemented by this module")
}
