package snp

import "os"

// Datum is one line of the `enarx info` capability report for this
// backend, mirroring sgx.Datum.
type Datum struct {
	Name string
	Pass bool
	Info string
}

const (
	kvmDevice = "/dev/kvm"
	sevDevice = "/dev/sev"
)

func probe(path string) Datum {
	_, err := os.Stat(path)
	if err != nil {
		return Datum{Name: path, Pass: false, Info: err.Error()}
	}
	return Datum{Name: path, Pass: true}
}

// Have reports whether this host exposes both the KVM and SEV firmware
// devices the snp backend needs.
func Have() bool {
	return probe(kvmDevice).Pass && probe(sevDevice).Pass
}

// Data collects the capability probes `enarx info` prints for the snp
// backend.
func Data() []Datum {
	return []Datum{probe(kvmDevice), probe(sevDevice)}
}
