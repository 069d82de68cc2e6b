package shim

import (
	"enarx-go/errkit"
	"enarx-go/sallyport"
)

// Proxy hands a Request to the host executor and blocks until it has
// written back a Reply into the same Block, matching the state machine
// in spec.md §4.1: write request, signal host, wait, read reply. A nil
// Proxy is valid for handlers that never need the host (memory,
// process); it panics if actually invoked, which would indicate a
// dispatcher wiring bug rather than a runtime condition to recover from.
//
// The host is not trusted (spec.md §4.1, §4.9, §7): it can put any
// value at all into a Reply, so a shim that handed Ret[0] straight to
// the payload would let a compromised host lie about how much it read
// or wrote. call is for replies with no such contract to check;
// callBounded is for the ones that do.
type Proxy func(req sallyport.Request) (sallyport.Reply, error)

// noCeiling marks a call as having no upper bound to enforce on Ret[0].
const noCeiling = ^uint64(0)

func (p Proxy) call(num uint64, args ...uint64) Result {
	return p.callBounded(noCeiling, num, args...)
}

// callBounded is call, plus the §4.1/§4.9 contract check: a successful
// reply's Ret[0] may never exceed ceiling, the limit the shim itself
// put into the request (e.g. a read/write count or a readlink bufsize).
// A host that reports transferring more than it was asked to has broken
// the proxy contract, not returned an ordinary error, and per §7 the
// Keep must terminate rather than hand the payload a forged value.
func (p Proxy) callBounded(ceiling uint64, num uint64, args ...uint64) Result {
	if p == nil {
		panic("shim: proxy syscall attempted with no host proxy configured")
	}
	var req sallyport.Request
	req.Num = num
	for i := 0; i < len(args) && i < len(req.Arg); i++ {
		req.Arg[i] = args[i]
	}
	reply, err := p(req)
	if err != nil {
		return fail(int32(-1))
	}
	if int64(reply.Ret[0]) < 0 {
		return fail(int32(-int64(reply.Ret[0])))
	}
	if ceiling != noCeiling && reply.Ret[0] > ceiling {
		panic(errkit.WrapWithDetail(errkit.ErrAttacked, errkit.KindAttack, "shim.proxy", "host reply exceeded the bound of its own request"))
	}
	return okPair(reply.Ret[0], reply.Ret[1])
}
