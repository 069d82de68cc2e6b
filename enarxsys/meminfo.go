package enarxsys

import (
	"encoding/binary"

	"enarx-go/errkit"
	"enarx-go/sallyport"
)

// memRegionListVersion1 is the only wire format version currently
// produced; Region readers should reject any other version rather than
// guess at a layout.
const memRegionListVersion1 = 1

// memRegionRecordSize is the packed, little-endian wire size of one
// MemRegionRecord: three uint64 fields plus a uint32 slot, matching
// kvm_userspace_memory_region's guest_phys_addr/userspace_addr/
// memory_size/slot layout closely enough for the host to translate
// one into the other without a second schema.
const memRegionRecordSize = 8 + 8 + 8 + 4

// MemRegionRecord describes one mapped region of a Keep's guest memory,
// resolving the SYS_ENARX_MEM_INFO wire-format Open Question left open
// by the distilled spec: a versioned, packed struct modeling
// kvm_userspace_memory_region rather than an ad hoc list.
type MemRegionRecord struct {
	GuestPhysAddr uint64
	UserspaceAddr uint64
	MemorySize    uint64
	Slot          uint32
}

// WriteMemRegionListV1 encodes regions as a MemRegionListV1 payload
// (u32 version, u32 count, then count fixed-size records) into c,
// returning ErrMemInfoOverflow without any partial write if the list
// doesn't fit the Block's remaining data area.
func WriteMemRegionListV1(c *sallyport.Cursor, regions []MemRegionRecord) error {
	total := 8 + len(regions)*memRegionRecordSize
	if total > c.Len() {
		return errkit.ErrMemInfoOverflow
	}

	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf[0:4], memRegionListVersion1)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(regions)))
	off := 8
	for _, r := range regions {
		binary.LittleEndian.PutUint64(buf[off:off+8], r.GuestPhysAddr)
		binary.LittleEndian.PutUint64(buf[off+8:off+16], r.UserspaceAddr)
		binary.LittleEndian.PutUint64(buf[off+16:off+24], r.MemorySize)
		binary.LittleEndian.PutUint32(buf[off+24:off+28], r.Slot)
		off += memRegionRecordSize
	}

	_, err := c.Put(buf)
	return err
}

// ReadMemRegionListV1 decodes a MemRegionListV1 payload previously
// written by WriteMemRegionListV1 out of data.
func ReadMemRegionListV1(data []byte) ([]MemRegionRecord, error) {
	if len(data) < 8 {
		return nil, errkit.New(errkit.KindProtocol, "meminfo.read", "truncated region list header")
	}
	version := binary.LittleEndian.Uint32(data[0:4])
	if version != memRegionListVersion1 {
		return nil, errkit.New(errkit.KindProtocol, "meminfo.read", "unsupported region list version")
	}
	count := binary.LittleEndian.Uint32(data[4:8])
	want := 8 + int(count)*memRegionRecordSize
	if len(data) < want {
		return nil, errkit.New(errkit.KindProtocol, "meminfo.read", "truncated region list body")
	}

	regions := make([]MemRegionRecord, count)
	off := 8
	for i := range regions {
		regions[i] = MemRegionRecord{
			GuestPhysAddr: binary.LittleEndian.Uint64(data[off : off+8]),
			UserspaceAddr: binary.LittleEndian.Uint64(data[off+8 : off+16]),
			MemorySize:    binary.LittleEndian.Uint64(data[off+16 : off+24]),
			Slot:          binary.LittleEndian.Uint32(data[off+24 : off+28]),
		}
		off += memRegionRecordSize
	}
	return regions, nil
}
