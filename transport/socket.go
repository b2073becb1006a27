package transport

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"

	"github.com/ionos-cloud/netlinklib/defs"
)

// receiveBufferSize matches the conventional rtnetlink dump buffer; the
// kernel never sends a single message larger than this.
const receiveBufferSize = 64 * 1024

// Conn is one netlink socket. A Conn is not safe for concurrent use:
// requests and their replies interleave on the same descriptor.
type Conn struct {
	fd   int
	pid  uint32
	seq  uint32
	log  zerolog.Logger
	rbuf []byte
}

// Dial opens a request/reply socket for the given netlink protocol
// (defs.NETLINK_ROUTE, defs.NETLINK_GENERIC, ...).
func Dial(protocol int) (*Conn, error) {
	return dial(protocol, 0)
}

// DialListener opens a socket subscribed to the given multicast groups
// (defs.RTMGRP_* masks). The kernel pushes events; no request is sent.
func DialListener(protocol int, groups ...uint32) (*Conn, error) {
	var mask uint32
	for _, g := range groups {
		mask |= g
	}
	return dial(protocol, mask)
}

func dial(protocol int, groups uint32) (*Conn, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, protocol)
	if err != nil {
		return nil, fmt.Errorf("transport: socket: %w", err)
	}
	// Strict checking makes the kernel reject malformed dump filters
	// instead of ignoring them. Older kernels lack the option.
	_ = unix.SetsockoptInt(fd, defs.SOL_NETLINK, defs.NETLINK_GET_STRICT_CHK, 1)

	sa := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: groups}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: bind: %w", err)
	}
	local, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: getsockname: %w", err)
	}
	nl, ok := local.(*unix.SockaddrNetlink)
	if !ok {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: getsockname: not a netlink address")
	}

	c := &Conn{
		fd:   fd,
		pid:  nl.Pid,
		seq:  uint32(os.Getpid()),
		log:  log.With().Str("component", "transport").Logger(),
		rbuf: make([]byte, receiveBufferSize),
	}
	c.log.Debug().Int("protocol", protocol).Uint32("pid", c.pid).
		Uint32("groups", groups).Msg("netlink socket open")
	return c, nil
}

func (c *Conn) Close() error {
	return unix.Close(c.fd)
}

// PortID returns the kernel-assigned local netlink port.
func (c *Conn) PortID() uint32 { return c.pid }

func (c *Conn) nextSeq() uint32 {
	c.seq++
	return c.seq
}

func (c *Conn) send(typ, flags uint16, body []byte) (uint32, error) {
	seq := c.nextSeq()
	req, err := packRequest(typ, flags, seq, c.pid, body)
	if err != nil {
		return 0, err
	}
	dst := &unix.SockaddrNetlink{Family: unix.AF_NETLINK}
	if err := unix.Sendto(c.fd, req, 0, dst); err != nil {
		return 0, fmt.Errorf("transport: send: %w", err)
	}
	c.log.Debug().Uint16("type", typ).Uint16("flags", flags).
		Uint32("seq", seq).Int("bytes", len(req)).Msg("request sent")
	return seq, nil
}

func (c *Conn) recv() ([]byte, error) {
	for {
		n, _, err := unix.Recvfrom(c.fd, c.rbuf, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("transport: recv: %w", err)
		}
		return c.rbuf[:n], nil
	}
}
