package snp

import (
	"golang.org/x/sys/unix"

	"enarx-go/enarxsys"
	"enarx-go/errkit"
	"enarx-go/keep"
	"enarx-go/sallyport"
)

// syscallTriggerPort is the I/O port the guest's shim writes to when it
// wants the host to look at the Block, mirroring KVM_SYSCALL_TRIGGER_PORT.
const syscallTriggerPort = 0xFF

// ExitReason is why VcpuRun returned, trimmed to the one case this
// entry loop inspects.
type ExitReason int

const (
	// ExitOther covers every KVM exit reason this loop doesn't special
	// case; the original forwards these as hard errors in debug builds.
	ExitOther ExitReason = iota
	// ExitIoOut is KVM's VcpuExit::IoOut.
	ExitIoOut
)

// Hypervisor is the seam to the real KVM vCPU run loop, which this
// module can't drive without a real /dev/kvm fd and real guest memory.
// A production binary wires this to golang.org/x/sys/unix KVM ioctls;
// tests wire it to a fake that scripts exit reasons.
type Hypervisor interface {
	// Run executes the vCPU until the next exit, returning the reason
	// and, for an I/O exit, the port the guest wrote to.
	Run() (reason ExitReason, port uint16, err error)
}

// Thread drives one SNP vCPU: each call to Enter runs until the guest
// either proxies an ordinary syscall to the host or the vCPU exits for
// an unhandled reason.
type Thread struct {
	hv           Hypervisor
	block        *sallyport.Block
	hostPageSize uintptr
	grower       enarxsys.MemoryGrower
	regions      []enarxsys.MemRegionRecord
}

// NewThread builds a Thread around a vCPU driver, the Block it shares
// with the guest, the host's page size (for balloon validation), a
// MemoryGrower backing SYS_ENARX_BALLOON_MEMORY, and the current region
// list SYS_ENARX_MEM_INFO reports.
func NewThread(hv Hypervisor, block *sallyport.Block, hostPageSize uintptr, grower enarxsys.MemoryGrower, regions []enarxsys.MemRegionRecord) *Thread {
	return &Thread{hv: hv, block: block, hostPageSize: hostPageSize, grower: grower, regions: regions}
}

// Enter mirrors backend::kvm::Thread::enter: an IoOut on the syscall
// trigger port means the guest parked a request in the Block; balloon
// and mem-info requests are answered entirely on the host side without
// waking the shim's ordinary dispatch table, and everything else
// becomes a SysCall command for the host executor.
func (t *Thread) Enter() (keep.Command, error) {
	reason, port, err := t.hv.Run()
	if err != nil {
		return nil, errkit.Wrap(err, errkit.KindTEE, "snp.enter")
	}
	if reason != ExitIoOut || port != syscallTriggerPort {
		return nil, errkit.WrapWithDetail(nil, errkit.KindTEE, "snp.enter", "unexpected vcpu exit")
	}

	req := t.block.Msg.Request()
	switch req.Num {
	case sallyport.SysEnarxBalloonMemory:
		t.handleBalloon(req)
	case sallyport.SysEnarxMemInfo:
		t.handleMemInfo()
	default:
		return keep.SysCall{Block: t.block}, nil
	}
	return keep.Continue{}, nil
}

func (t *Thread) handleBalloon(req sallyport.Request) {
	br := enarxsys.BalloonRequest{Pow2: req.Arg[0], Npgs: req.Arg[1], Addr: req.Arg[2]}
	addr, err := enarxsys.Balloon(br, t.hostPageSize, t.grower)
	if err != nil {
		t.block.Msg.EncodeReply(sallyport.Reply{Ret: [2]uint64{uint64(int64(-unix.EINVAL)), 0}})
		return
	}
	t.block.Msg.EncodeReply(sallyport.Reply{Ret: [2]uint64{uint64(addr), 0}})
}

func (t *Thread) handleMemInfo() {
	cursor := t.block.NewCursor()
	if err := enarxsys.WriteMemRegionListV1(cursor, t.regions); err != nil {
		t.block.Msg.EncodeReply(sallyport.Reply{Ret: [2]uint64{uint64(int64(-unix.ENOBUFS)), 0}})
		return
	}
	t.block.Msg.EncodeReply(sallyport.Reply{Ret: [2]uint64{0, 0}})
}
