package sgx

import (
	"fmt"
	"os"
)

// Datum is one line of the `enarx info` capability report: a named
// probe result plus a human-readable explanation, mirroring the
// original's data::Datum shape.
type Datum struct {
	Name string
	Pass bool
	Info string
}

const sgxEnclaveDevice = "/dev/sgx_enclave"

// Have reports whether this host exposes an SGX enclave driver, the
// same gate the original uses before offering the sgx backend at all.
func Have() bool {
	return devSGXEnclave().Pass
}

func devSGXEnclave() Datum {
	_, err := os.Stat(sgxEnclaveDevice)
	if err != nil {
		return Datum{Name: sgxEnclaveDevice, Pass: false, Info: err.Error()}
	}
	return Datum{Name: sgxEnclaveDevice, Pass: true, Info: "SGX enclave driver present"}
}

// Data collects the capability probes `enarx info` prints for the sgx
// backend: device presence plus the EPC size CPUID leaf 0x12 reports.
func Data() []Datum {
	d := []Datum{devSGXEnclave()}
	eax, ebx, ecx, edx := cpuidFunc(0x12, 0x02)
	d = append(d, epcSize(eax, ebx, ecx, edx))
	return d
}

func epcSize(eax, ebx, ecx, edx uint32) Datum {
	low := uint64(eax&0xfffff000) | uint64(ebx&0x000fffff)<<32
	high := uint64(ecx&0xfffff000) | uint64(edx&0x000fffff)<<32
	return Datum{
		Name: "EPC size",
		Pass: low > 0,
		Info: formatSize(low + high),
	}
}

func formatSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%d%ciB", n/div, "KMGTPE"[exp])
}
