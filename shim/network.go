package shim

import (
	"golang.org/x/sys/unix"

	"enarx-go/sallyport"
)

const (
	sysSocket      = unix.SYS_SOCKET
	sysBind        = unix.SYS_BIND
	sysListen      = unix.SYS_LISTEN
	sysGetsockname = unix.SYS_GETSOCKNAME
	sysAccept      = unix.SYS_ACCEPT
	sysAccept4     = unix.SYS_ACCEPT4
	sysConnect     = unix.SYS_CONNECT
	sysRecvfrom    = unix.SYS_RECVFROM
	sysSendto      = unix.SYS_SENDTO
	sysSetsockopt  = unix.SYS_SETSOCKOPT
)

// NetworkSyscalls answers the socket syscalls a payload may make. A
// Keep has no network stack; every call proxies to the host, which
// owns the only socket implementation and address family policy; how
// the host wires its own interfaces is entirely out of the shim's view.
type NetworkSyscalls interface {
	Socket(domain, typ, protocol int32) Result
	Bind(fd int32, addr sallyport.Untrusted[byte], addrlen uint64) Result
	Listen(fd int32, backlog int32) Result
	Getsockname(fd int32, addr sallyport.Untrusted[byte], addrlen sallyport.Untrusted[byte]) Result
	Accept(fd int32, addr sallyport.Untrusted[byte], addrlen sallyport.Untrusted[byte]) Result
	Accept4(fd int32, addr sallyport.Untrusted[byte], addrlen sallyport.Untrusted[byte], flags int32) Result
	Connect(fd int32, addr sallyport.Untrusted[byte], addrlen uint64) Result
	Recvfrom(fd int32, buf sallyport.Untrusted[byte], length uint64, flags int32, srcAddr, addrlen sallyport.Untrusted[byte]) Result
	Sendto(fd int32, buf sallyport.Untrusted[byte], length uint64, flags int32, destAddr sallyport.Untrusted[byte], addrlen uint64) Result
	Setsockopt(fd int32, level, optname int32, optval sallyport.Untrusted[byte], optlen uint64) Result
}

type proxiedNetwork struct {
	proxy Proxy
	fds   *FDTable
}

func newProxiedNetwork(proxy Proxy, fds *FDTable) *proxiedNetwork {
	return &proxiedNetwork{proxy: proxy, fds: fds}
}

func (n *proxiedNetwork) Socket(domain, typ, protocol int32) Result {
	r := n.proxy.call(sysSocket, uint64(domain), uint64(typ), uint64(protocol))
	if r.Errno == 0 {
		n.fds.Register(int32(r.Ret[0]))
	}
	return r
}

func (n *proxiedNetwork) Bind(fd int32, addr sallyport.Untrusted[byte], addrlen uint64) Result {
	return n.proxy.call(sysBind, uint64(fd), uint64(addr.Addr()), addrlen)
}

func (n *proxiedNetwork) Listen(fd int32, backlog int32) Result {
	return n.proxy.call(sysListen, uint64(fd), uint64(backlog))
}

func (n *proxiedNetwork) Getsockname(fd int32, addr, addrlen sallyport.Untrusted[byte]) Result {
	return n.proxy.call(sysGetsockname, uint64(fd), uint64(addr.Addr()), uint64(addrlen.Addr()))
}

func (n *proxiedNetwork) Accept(fd int32, addr, addrlen sallyport.Untrusted[byte]) Result {
	r := n.proxy.call(sysAccept, uint64(fd), uint64(addr.Addr()), uint64(addrlen.Addr()))
	if r.Errno == 0 {
		n.fds.Register(int32(r.Ret[0]))
	}
	return r
}

func (n *proxiedNetwork) Accept4(fd int32, addr, addrlen sallyport.Untrusted[byte], flags int32) Result {
	r := n.proxy.call(sysAccept4, uint64(fd), uint64(addr.Addr()), uint64(addrlen.Addr()), uint64(flags))
	if r.Errno == 0 {
		n.fds.Register(int32(r.Ret[0]))
	}
	return r
}

func (n *proxiedNetwork) Connect(fd int32, addr sallyport.Untrusted[byte], addrlen uint64) Result {
	return n.proxy.call(sysConnect, uint64(fd), uint64(addr.Addr()), addrlen)
}

func (n *proxiedNetwork) Recvfrom(fd int32, buf sallyport.Untrusted[byte], length uint64, flags int32, srcAddr, addrlen sallyport.Untrusted[byte]) Result {
	return n.proxy.callBounded(length, sysRecvfrom, uint64(fd), uint64(buf.Addr()), length, uint64(flags), uint64(srcAddr.Addr()))
}

func (n *proxiedNetwork) Sendto(fd int32, buf sallyport.Untrusted[byte], length uint64, flags int32, destAddr sallyport.Untrusted[byte], addrlen uint64) Result {
	return n.proxy.call(sysSendto, uint64(fd), uint64(buf.Addr()), length, uint64(flags), uint64(destAddr.Addr()), addrlen)
}

func (n *proxiedNetwork) Setsockopt(fd int32, level, optname int32, optval sallyport.Untrusted[byte], optlen uint64) Result {
	return n.proxy.call(sysSetsockopt, uint64(fd), uint64(level), uint64(optname), uint64(optval.Addr()), optlen)
}
