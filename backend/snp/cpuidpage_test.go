package snp

import "testing"

func TestCpuidPageAddEntry(t *testing.T) {
	var p CpuidPage
	entry := CpuidFunctionEntry{EaxIn: 1, Eax: 0x10}
	if err := p.AddEntry(entry); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	got := p.Entries()
	if len(got) != 1 || got[0] != entry {
		t.Fatalf("Entries() = %+v, want [%+v]", got, entry)
	}
}

func TestCpuidPageFull(t *testing.T) {
	var p CpuidPage
	for i := 0; i < cpuidPageEntryCount; i++ {
		if err := p.AddEntry(CpuidFunctionEntry{EaxIn: uint32(i)}); err != nil {
			t.Fatalf("AddEntry(%d): %v", i, err)
		}
	}
	if err := p.AddEntry(CpuidFunctionEntry{}); err == nil {
		t.Fatal("expected error once the page is full")
	}
}

func TestImportFromKVM(t *testing.T) {
	var p CpuidPage
	table := []CpuidFunctionEntry{
		{EaxIn: 0, Eax: 0x16},
		{EaxIn: 1, Eax: 0x17},
	}
	err := p.ImportFromKVM(func() []CpuidFunctionEntry { return table })
	if err != nil {
		t.Fatalf("ImportFromKVM: %v", err)
	}
	if len(p.Entries()) != len(table) {
		t.Fatalf("got %d entries, want %d", len(p.Entries()), len(table))
	}
}
