// Package snp implements the AMD SEV-SNP backend: the per-VM CPUID
// page the guest firmware reads in place of the real instruction
// (cpuidpage.go), the ELF-segment-flag-driven builder that maps guest
// memory into an already-created VM and launches it through the SNP
// firmware (builder.go), and the
// IoOut-triggered entry/exit loop that answers SYS_ENARX_BALLOON_MEMORY
// and SYS_ENARX_MEM_INFO inline before handing anything else to the
// host (entry.go).
package snp

import "enarx-go/errkit"

// cpuidPageEntryCount is the fixed number of CPUID leaves SNP permits
// per guest, matching the original's COUNT_MAX.
const cpuidPageEntryCount = 64

// CpuidFunctionEntry is one leaf/subleaf CPUID result the guest
// firmware is allowed to trust, since real CPUID inside an SNP guest
// is intercepted and answered by the untrusted host otherwise.
type CpuidFunctionEntry struct {
	EaxIn  uint32
	EcxIn  uint32
	Xcr0In uint64
	XssIn  uint64
	Eax    uint32
	Ebx    uint32
	Ecx    uint32
	Edx    uint32
}

// CpuidPage is the fixed-size page format SNP launch-data copies into
// the guest; Entries holds only the populated prefix.
type CpuidPage struct {
	entries [cpuidPageEntryCount]CpuidFunctionEntry
	count   uint32
}

// Entries returns the populated CPUID entries, mirroring get_functions.
func (p *CpuidPage) Entries() []CpuidFunctionEntry {
	return p.entries[:p.count]
}

// AddEntry appends one CPUID leaf result, failing once the page is
// full the same way the original's add_entry does.
func (p *CpuidPage) AddEntry(e CpuidFunctionEntry) error {
	if int(p.count) >= cpuidPageEntryCount {
		return errkit.WrapWithDetail(nil, errkit.KindBuilder, "snp.cpuidpage", "CPUID page full")
	}
	p.entries[p.count] = e
	p.count++
	return nil
}

// SupportedCPUIDFunc enumerates the leaf/subleaf pairs KVM reports as
// supported on this host, the source the original's
// import_from_kvm draws from before writing the page into guest
// memory. Tests substitute a fixed table; a real binary wires this to
// KVM_GET_SUPPORTED_CPUID.
type SupportedCPUIDFunc func() []CpuidFunctionEntry

// ImportFromKVM populates p from the host's supported CPUID leaves,
// mirroring CpuidPage::import_from_kvm.
func (p *CpuidPage) ImportFromKVM(supported SupportedCPUIDFunc) error {
	for _, e := range supported() {
		if err := p.AddEntry(e); err != nil {
			return err
		}
	}
	return nil
}
