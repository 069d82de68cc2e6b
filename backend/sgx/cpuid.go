package sgx

import "enarx-go/sallyport"

// CPUIDFunc executes CPUID for the given leaf/subleaf, mirroring
// __cpuid_count. Exists so tests can substitute deterministic results
// instead of calling the actual CPUID instruction, which isn't
// available this way from portable Go.
type CPUIDFunc func(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

// cpuidFunc is replaced in tests; a real binary wires it to an asm stub.
var cpuidFunc CPUIDFunc = func(leaf, subleaf uint32) (uint32, uint32, uint32, uint32) {
	return 0, 0, 0, 0
}

// handleCPUID answers SYS_ENARX_CPUID in the entry loop, after the
// enclave has exited, without handing it to the host syscall executor:
// it runs CPUID for the requested leaf/subleaf, the result overwrites
// req.Arg[0..4] in the Block, and the loop re-enters the enclave.
func (t *Thread) handleCPUID(req sallyport.Request) {
	eax, ebx, ecx, edx := cpuidFunc(uint32(req.Arg[0]), uint32(req.Arg[1]))
	req.Arg[0] = uint64(eax)
	req.Arg[1] = uint64(ebx)
	req.Arg[2] = uint64(ecx)
	req.Arg[3] = uint64(edx)
	t.block.Msg.Encode(req)
}
