package shim

import (
	"golang.org/x/sys/unix"

	"enarx-go/sallyport"
)

// SYS numbers for the Linux syscalls FileSyscalls proxies, used when
// building the Request the host executor will run.
const (
	sysClose       = unix.SYS_CLOSE
	sysRead        = unix.SYS_READ
	sysReadv       = unix.SYS_READV
	sysWrite       = unix.SYS_WRITE
	sysWritev      = unix.SYS_WRITEV
	sysIoctl       = unix.SYS_IOCTL
	sysReadlink    = unix.SYS_READLINK
	sysFstat       = unix.SYS_FSTAT
	sysFcntl       = unix.SYS_FCNTL
	sysPoll        = unix.SYS_POLL
	sysPipe        = unix.SYS_PIPE
	sysEpollCreate = unix.SYS_EPOLL_CREATE1
	sysEpollCtl    = unix.SYS_EPOLL_CTL
	sysEpollWait   = unix.SYS_EPOLL_WAIT
	sysEpollPwait  = unix.SYS_EPOLL_PWAIT
	sysEventfd2    = unix.SYS_EVENTFD2
	sysDup         = unix.SYS_DUP
	sysDup2        = unix.SYS_DUP2
	sysDup3        = unix.SYS_DUP3
)

// FileSyscalls answers the file-descriptor syscalls a payload may make.
// Every one of these is proxied to the host (a Keep owns no file
// system or descriptor table of its own); FDTable only shadows the
// bookkeeping the host can't do on our behalf (see epoll_ctl).
type FileSyscalls interface {
	Close(fd int32) Result
	Read(fd int32, buf sallyport.Untrusted[byte], count uint64) Result
	Readv(fd int32, iov sallyport.Untrusted[byte], iovcnt int32) Result
	Write(fd int32, buf sallyport.Untrusted[byte], count uint64) Result
	Writev(fd int32, iov sallyport.Untrusted[byte], iovcnt int32) Result
	Ioctl(fd int32, request uint64, arg sallyport.Untrusted[byte]) Result
	Readlink(path sallyport.Untrusted[byte], buf sallyport.Untrusted[byte], bufsize uint64) Result
	Fstat(fd int32, statbuf sallyport.Untrusted[byte]) Result
	Fcntl(fd int32, cmd int32, arg int32) Result
	Poll(fds sallyport.Untrusted[byte], nfds uint64, timeout int32) Result
	Pipe(fds sallyport.Untrusted[byte]) Result
	EpollCreate1(flags int32) Result
	EpollCtl(epfd, op, fd int32, event sallyport.Untrusted[byte]) Result
	EpollWait(epfd int32, events sallyport.Untrusted[byte], maxevents int32, timeout int32) Result
	EpollPwait(epfd int32, events sallyport.Untrusted[byte], maxevents int32, timeout int32, sigmask sallyport.Untrusted[byte]) Result
	Eventfd2(initval uint32, flags int32) Result
	Dup(oldfd int32) Result
	Dup2(oldfd, newfd int32) Result
	Dup3(oldfd, newfd, flags int32) Result
}

type proxiedFile struct {
	proxy Proxy
	fds   *FDTable
}

func newProxiedFile(proxy Proxy, fds *FDTable) *proxiedFile {
	return &proxiedFile{proxy: proxy, fds: fds}
}

func (f *proxiedFile) Close(fd int32) Result {
	r := f.proxy.call(sysClose, uint64(fd))
	if r.Errno == 0 {
		f.fds.Unregister(fd)
	}
	return r
}

func (f *proxiedFile) Read(fd int32, buf sallyport.Untrusted[byte], count uint64) Result {
	return f.proxy.callBounded(count, sysRead, uint64(fd), uint64(buf.Addr()), count)
}

func (f *proxiedFile) Readv(fd int32, iov sallyport.Untrusted[byte], iovcnt int32) Result {
	return f.proxy.call(sysReadv, uint64(fd), uint64(iov.Addr()), uint64(iovcnt))
}

func (f *proxiedFile) Write(fd int32, buf sallyport.Untrusted[byte], count uint64) Result {
	return f.proxy.callBounded(count, sysWrite, uint64(fd), uint64(buf.Addr()), count)
}

func (f *proxiedFile) Writev(fd int32, iov sallyport.Untrusted[byte], iovcnt int32) Result {
	return f.proxy.call(sysWritev, uint64(fd), uint64(iov.Addr()), uint64(iovcnt))
}

func (f *proxiedFile) Ioctl(fd int32, request uint64, arg sallyport.Untrusted[byte]) Result {
	return f.proxy.call(sysIoctl, uint64(fd), request, uint64(arg.Addr()))
}

func (f *proxiedFile) Readlink(path, buf sallyport.Untrusted[byte], bufsize uint64) Result {
	return f.proxy.callBounded(bufsize, sysReadlink, uint64(path.Addr()), uint64(buf.Addr()), bufsize)
}

func (f *proxiedFile) Fstat(fd int32, statbuf sallyport.Untrusted[byte]) Result {
	return f.proxy.call(sysFstat, uint64(fd), uint64(statbuf.Addr()))
}

func (f *proxiedFile) Fcntl(fd int32, cmd int32, arg int32) Result {
	return f.proxy.call(sysFcntl, uint64(fd), uint64(cmd), uint64(arg))
}

func (f *proxiedFile) Poll(fds sallyport.Untrusted[byte], nfds uint64, timeout int32) Result {
	return f.proxy.call(sysPoll, uint64(fds.Addr()), nfds, uint64(timeout))
}

func (f *proxiedFile) Pipe(fds sallyport.Untrusted[byte]) Result {
	r := f.proxy.call(sysPipe, uint64(fds.Addr()))
	return r
}

func (f *proxiedFile) EpollCreate1(flags int32) Result {
	r := f.proxy.call(sysEpollCreate, uint64(flags))
	if r.Errno == 0 {
		f.fds.Register(int32(r.Ret[0]))
	}
	return r
}

func (f *proxiedFile) EpollCtl(epfd, op, fd int32, event sallyport.Untrusted[byte]) Result {
	var data uint64
	if op != unix.EPOLL_CTL_DEL {
		data = uint64(event.Addr())
	}
	if err := f.fds.EpollCtl(epfd, fd, op, data); err != nil {
		return fail(int32(unix.EBADF))
	}
	return f.proxy.call(sysEpollCtl, uint64(epfd), uint64(op), uint64(fd), uint64(event.Addr()))
}

func (f *proxiedFile) EpollWait(epfd int32, events sallyport.Untrusted[byte], maxevents int32, timeout int32) Result {
	return f.proxy.call(sysEpollWait, uint64(epfd), uint64(events.Addr()), uint64(maxevents), uint64(timeout))
}

func (f *proxiedFile) EpollPwait(epfd int32, events sallyport.Untrusted[byte], maxevents, timeout int32, sigmask sallyport.Untrusted[byte]) Result {
	return f.proxy.call(sysEpollPwait, uint64(epfd), uint64(events.Addr()), uint64(maxevents), uint64(timeout), uint64(sigmask.Addr()))
}

func (f *proxiedFile) Eventfd2(initval uint32, flags int32) Result {
	r := f.proxy.call(sysEventfd2, uint64(initval), uint64(flags))
	if r.Errno == 0 {
		f.fds.Register(int32(r.Ret[0]))
	}
	return r
}

func (f *proxiedFile) Dup(oldfd int32) Result {
	return f.proxy.call(sysDup, uint64(oldfd))
}

func (f *proxiedFile) Dup2(oldfd, newfd int32) Result {
	return f.proxy.call(sysDup2, uint64(oldfd), uint64(newfd))
}

func (f *proxiedFile) Dup3(oldfd, newfd, flags int32) Result {
	return f.proxy.call(sysDup3, uint64(oldfd), uint64(newfd), uint64(flags))
}
