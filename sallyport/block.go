// Package sallyport implements the shared-memory Block protocol used to
// proxy syscalls between a shim running inside a Keep and the untrusted
// host. A Block is a page the Keep and the host both map: the shim
// writes a Request into its Message header and parks data it can't fit
// in registers in the Block's data area; the host answers with a Reply
// in the same header slot, and the shim trusts nothing it reads back
// without validating it first.
package sallyport

import (
	"encoding/binary"
)

// PageSize is the Block's page alignment unit. Requests that need more
// scratch space than one page span nr_syscall_blocks consecutive pages;
// see BootInfo.
const PageSize = 4096

// messageSize is the wire size of the Message header. Request{Num,
// Arg[6]} uses its first 56 bytes and Reply{Ret[2]} its first 16; the
// remaining bytes are unused.
const messageSize = 64

// Message is the fixed 64-byte header of a Block: either a Request (as
// written by the shim) or a Reply (as written by the host), never both
// live at once. Phase exists purely so tests can assert which view is
// currently valid; production code never reads it — the Request/Reply
// exclusivity is a contract enforced by the caller, not by the wire
// format.
type Message struct {
	raw   [messageSize]byte
	Phase Phase
}

// Phase marks which of Request/Reply last wrote a Message. It has no
// wire representation.
type Phase int

const (
	PhaseRequest Phase = iota
	PhaseReply
)

// Request is the shim's view of a Message: a syscall number and up to
// six register-width arguments.
type Request struct {
	Num uint64
	Arg [6]uint64
}

// Reply is the host's view of a Message: a two-word return value. Most
// syscalls only use Ret[0]; the rdx-preservation rule (see shim.Dispatch)
// means non-Enarx syscalls echo the caller's original rdx into Ret[1].
type Reply struct {
	Ret [2]uint64
}

// Encode packs r into m's wire bytes and marks the Message as a request.
func (m *Message) Encode(r Request) {
	binary.LittleEndian.PutUint64(m.raw[0:8], r.Num)
	for i, a := range r.Arg {
		off := 8 + i*8
		binary.LittleEndian.PutUint64(m.raw[off:off+8], a)
	}
	m.Phase = PhaseRequest
}

// Request decodes the Message's wire bytes as a Request.
func (m *Message) Request() Request {
	var r Request
	r.Num = binary.LittleEndian.Uint64(m.raw[0:8])
	for i := range r.Arg {
		off := 8 + i*8
		r.Arg[i] = binary.LittleEndian.Uint64(m.raw[off : off+8])
	}
	return r
}

// EncodeReply packs r into m's wire bytes and marks the Message as a
// reply.
func (m *Message) EncodeReply(r Reply) {
	binary.LittleEndian.PutUint64(m.raw[0:8], r.Ret[0])
	binary.LittleEndian.PutUint64(m.raw[8:16], r.Ret[1])
	m.Phase = PhaseReply
}

// Reply decodes the Message's wire bytes as a Reply.
func (m *Message) Reply() Reply {
	var r Reply
	r.Ret[0] = binary.LittleEndian.Uint64(m.raw[0:8])
	r.Ret[1] = binary.LittleEndian.Uint64(m.raw[8:16])
	return r
}

// Block is one page-aligned unit of the shared memory region: a Message
// header followed by a data area the shim and host use to pass
// variable-length payloads (path strings, iovecs, sockaddrs, the
// MemRegionListV1 in enarxsys). A Keep may be built with several
// contiguous Blocks (BootInfo.NrSyscallBlocks); each is addressed
// independently by a single execution slot at a time.
type Block struct {
	Msg  Message
	Data [PageSize - messageSize]byte
}

// NewCursor returns a Cursor over this Block's data area, ready to
// allocate from the front.
func (b *Block) NewCursor() *Cursor {
	return &Cursor{data: b.Data[:]}
}

// DataOffset is the offset of Data within the Block, used by Untrusted
// pointer validation to translate a data-area offset into an absolute
// address within the Keep's shared memory mapping.
const DataOffset = messageSize
