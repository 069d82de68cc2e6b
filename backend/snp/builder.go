package snp

import (
	"enarx-go/errkit"
	"enarx-go/sallyport"
)

// SegmentFlag classifies an ELF PT_LOAD segment's purpose for SNP
// launch-data updates, mirroring sallyport::elf::pf::{kvm,snp}'s
// SALLYPORT/CPUID/SECRETS bits packed into the segment's p_flags.
type SegmentFlag uint32

const (
	// FlagSallyport marks a region as containing one or more Block
	// structures the host and guest share.
	FlagSallyport SegmentFlag = 1 << iota
	// FlagCPUID marks the single page SNP launch-data treats as the
	// guest's CPUID page.
	FlagCPUID
	// FlagSecrets marks the single page SNP launch-data treats as the
	// guest's secrets page.
	FlagSecrets
)

// PageType is the SNP launch-update page classification the firmware
// ioctl expects, mirroring SnpPageType.
type PageType int

const (
	PageNormal PageType = iota
	PageCPUID
	PageSecrets
)

// Firmware is the seam to the real SEV-SNP launch sequence (KVM
// SEV_SNP ioctls plus the /dev/sev firmware device), which this module
// can't drive directly without real hardware and a real kernel. A
// production binary wires this to github.com/google/go-sev-guest or an
// equivalent cgo binding; tests wire it to a fake that records launch
// updates.
type Firmware interface {
	SetUserMemoryRegion(slot uint32, guestPhysAddr, userspaceAddr, size uint64) error
	UpdateData(guestPhysAddr uint64, page []byte, pageType PageType) error
	Finish() error
}

// Region is one mapped guest-physical range, recording enough to
// answer SYS_ENARX_MEM_INFO later.
type Region struct {
	Slot          uint32
	GuestPhysAddr uint64
	UserspaceAddr uint64
	MemorySize    uint64
}

// Builder accumulates mapped regions and sallyport block addresses
// while constructing an SNP Keep, mirroring backend::sev::Builder.
type Builder struct {
	fw         Firmware
	regions    []Region
	sallyports []uint64
	nextSlot   uint32
}

// NewBuilder starts a builder against an already-launched SNP firmware
// session (VM creation and SnpStart happen before this, same as the
// original's TryFrom<Config>).
func NewBuilder(fw Firmware) *Builder {
	return &Builder{fw: fw}
}

// Map registers one guest-physical mapping and, per flags, feeds it
// through the SNP launch-update path as CPUID, secrets, or an ordinary
// normal page. A CPUID-page update is retried exactly once on failure
// before surfacing an error, mirroring the original's FIXME'd retry
// (the launch_update ioctl spuriously returns EAGAIN on some firmware
// versions).
func (b *Builder) Map(data []byte, guestPhysAddr, userspaceAddr uint64, flags SegmentFlag) error {
	if len(data) == 0 {
		return nil
	}

	if flags&FlagSallyport != 0 {
		for off := 0; off+sallyport.PageSize <= len(data); off += sallyport.PageSize {
			b.sallyports = append(b.sallyports, guestPhysAddr+uint64(off))
		}
	}

	slot := b.nextSlot
	b.nextSlot++
	if err := b.fw.SetUserMemoryRegion(slot, guestPhysAddr, userspaceAddr, uint64(len(data))); err != nil {
		return errkit.Wrap(err, errkit.KindBuilder, "snp.builder.map")
	}

	pageType := PageNormal
	switch {
	case flags&FlagCPUID != 0:
		pageType = PageCPUID
	case flags&FlagSecrets != 0:
		pageType = PageSecrets
	}

	if err := b.fw.UpdateData(guestPhysAddr, data, pageType); err != nil {
		if pageType != PageCPUID {
			return errkit.Wrap(err, errkit.KindBuilder, "snp.builder.updatedata")
		}
		// Retry once with the same page buffer; a second failure is
		// returned as a builder error.
		if err := b.fw.UpdateData(guestPhysAddr, data, pageType); err != nil {
			return errkit.Wrap(err, errkit.KindBuilder, "snp.builder.updatedata.retry")
		}
	}

	b.regions = append(b.regions, Region{
		Slot:          slot,
		GuestPhysAddr: guestPhysAddr,
		UserspaceAddr: userspaceAddr,
		MemorySize:    uint64(len(data)),
	})
	return nil
}

// Finish completes the SNP launch sequence and returns the Keep state
// the entry loop needs, failing if no sallyport block was ever mapped.
func (b *Builder) Finish() (*KeepState, error) {
	if len(b.sallyports) == 0 {
		return nil, errkit.WrapWithDetail(nil, errkit.KindBuilder, "snp.builder.finish", "no sallyport blocks defined")
	}
	if err := b.fw.Finish(); err != nil {
		return nil, errkit.Wrap(err, errkit.KindBuilder, "snp.builder.finish")
	}
	return &KeepState{
		Regions:         b.regions,
		SallyportStart:  b.sallyports[0],
		NrSyscallBlocks: uintptr(len(b.sallyports)),
	}, nil
}

// KeepState is what a built SNP Keep carries forward into the entry
// loop and into SYS_ENARX_MEM_INFO responses.
type KeepState struct {
	Regions         []Region
	SallyportStart  uint64
	NrSyscallBlocks uintptr
}
