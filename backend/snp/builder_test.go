package snp

import "testing"

type fakeFirmware struct {
	regions     []uint32
	updates     []PageType
	failCPUID   bool
	cpuidCalls  int
	finishCalls int
}

func (f *fakeFirmware) SetUserMemoryRegion(slot uint32, guestPhysAddr, userspaceAddr, size uint64) error {
	f.regions = append(f.regions, slot)
	return nil
}

func (f *fakeFirmware) UpdateData(guestPhysAddr uint64, page []byte, pageType PageType) error {
	if pageType == PageCPUID {
		f.cpuidCalls++
		if f.failCPUID && f.cpuidCalls == 1 {
			return errTransient
		}
	}
	f.updates = append(f.updates, pageType)
	return nil
}

func (f *fakeFirmware) Finish() error {
	f.finishCalls++
	return nil
}

type sentinelError struct{ msg string }

func (e *sentinelError) Error() string { return e.msg }

var errTransient = &sentinelError{msg: "transient firmware rejection"}

func TestBuilderMapNormalPage(t *testing.T) {
	fw := &fakeFirmware{}
	b := NewBuilder(fw)
	if err := b.Map(make([]byte, 4096), 0x1000, 0x7f0000, 0); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(fw.updates) != 1 || fw.updates[0] != PageNormal {
		t.Fatalf("updates = %v, want [PageNormal]", fw.updates)
	}
}

func TestBuilderMapRecordsSallyportBlocks(t *testing.T) {
	fw := &fakeFirmware{}
	b := NewBuilder(fw)
	data := make([]byte, 8192)
	if err := b.Map(data, 0x2000, 0x7f1000, FlagSallyport); err != nil {
		t.Fatalf("Map: %v", err)
	}
	state, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if state.NrSyscallBlocks != 2 {
		t.Fatalf("NrSyscallBlocks = %d, want 2", state.NrSyscallBlocks)
	}
	if state.SallyportStart != 0x2000 {
		t.Fatalf("SallyportStart = %#x, want 0x2000", state.SallyportStart)
	}
}

func TestBuilderMapCPUIDRetriesOnce(t *testing.T) {
	fw := &fakeFirmware{failCPUID: true}
	b := NewBuilder(fw)
	if err := b.Map(make([]byte, 4096), 0x3000, 0x7f2000, FlagCPUID); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if fw.cpuidCalls != 2 {
		t.Fatalf("cpuidCalls = %d, want 2 (one failure, one retry)", fw.cpuidCalls)
	}
}

func TestBuilderFinishRequiresSallyport(t *testing.T) {
	fw := &fakeFirmware{}
	b := NewBuilder(fw)
	if err := b.Map(make([]byte, 4096), 0x4000, 0x7f3000, 0); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if _, err := b.Finish(); err == nil {
		t.Fatal("expected error when no sallyport block was ever mapped")
	}
}
