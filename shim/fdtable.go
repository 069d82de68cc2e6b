package shim

import (
	"sync"

	"golang.org/x/sys/unix"
)

// fdKind distinguishes file descriptors the shim itself created (e.g.
// an eventfd or an epoll instance that only ever exists host-side but
// whose lifecycle the shim tracks) from descriptors the host handed
// back in reply to an open/socket-style proxied call.
type fdKind int

const (
	fdKindHost fdKind = iota
	fdKindShimManaged
)

// fdEntry records what the shim knows about one proxied file
// descriptor: whether the host ever actually returned it to us, and if
// it is an epoll instance, the shadow set of watched fds and the data
// word EpollCtl recorded for each (proxiedFile.EpollCtl records the
// address of the caller's epoll_event). epoll_wait does not read it.
type fdEntry struct {
	kind       fdKind
	epollData  map[int32]uint64
}

// FDTable tracks which file descriptors the shim has proxied into
// existence, grounded in the original's fd_register/fd_unregister
// bookkeeping. epoll_create1, eventfd2, socket, accept and accept4
// register the fd they return and close unregisters it; epoll_ctl
// requires a registered epfd. dup*, epoll_wait and the other handlers
// do not consult the table.
type FDTable struct {
	mu      sync.RWMutex
	entries map[int32]*fdEntry
}

// NewFDTable returns an empty descriptor table.
func NewFDTable() *FDTable {
	return &FDTable{entries: make(map[int32]*fdEntry)}
}

// Register records that fd now refers to a live descriptor the host
// returned to the shim.
func (t *FDTable) Register(fd int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[fd] = &fdEntry{kind: fdKindHost}
}

// Unregister forgets fd, e.g. after a successful close().
func (t *FDTable) Unregister(fd int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, fd)
}

// IsValid reports whether fd was ever registered and hasn't since been
// unregistered.
func (t *FDTable) IsValid(fd int32) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[fd]
	return ok
}

// EpollCtl records (ADD, MOD) or removes (DEL) the shadow event data
// word for fd under epfd; it fails with EBADF for an unregistered epfd
// and EINVAL for any other op. Nothing in the shim reads the word back
// except EpollEventData.
func (t *FDTable) EpollCtl(epfd, fd int32, op int32, data uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[epfd]
	if !ok {
		return unix.EBADF
	}
	if e.epollData == nil {
		e.epollData = make(map[int32]uint64)
	}
	switch op {
	case unix.EPOLL_CTL_ADD, unix.EPOLL_CTL_MOD:
		e.epollData[fd] = data
	case unix.EPOLL_CTL_DEL:
		delete(e.epollData, fd)
	default:
		return unix.EINVAL
	}
	return nil
}

// EpollEventData returns the shadow user-data word the shim recorded
// for fd under epfd, matching fd_get_epoll_event_data in the original.
func (t *FDTable) EpollEventData(epfd, fd int32) (uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[epfd]
	if !ok {
		return 0, false
	}
	data, ok := e.epollData[fd]
	return data, ok
}
