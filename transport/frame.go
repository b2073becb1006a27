package transport

import (
	"fmt"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/wire"
)

// Message is one framed kernel message: the decoded nlmsghdr fields and
// the payload that follows them. Payload aliases the receive buffer and
// is only valid until the next receive.
type Message struct {
	Type    uint16
	Flags   uint16
	Seq     uint32
	PortID  uint32
	Payload []byte
}

// Interrupted reports whether the kernel flagged this message as part of
// an interrupted dump.
func (m Message) Interrupted() bool {
	return m.Flags&defs.NLM_F_DUMP_INTR != 0
}

func packRequest(typ, flags uint16, seq, pid uint32, body []byte) ([]byte, error) {
	hdr, err := defs.NlMsgHdr.Pack(map[string]wire.Value{
		"nlmsg_len":   wire.Uint(uint64(defs.NlMsgHdr.Size() + len(body))),
		"nlmsg_type":  wire.Uint(uint64(typ)),
		"nlmsg_flags": wire.Uint(uint64(flags)),
		"nlmsg_seq":   wire.Uint(uint64(seq)),
		"nlmsg_pid":   wire.Uint(uint64(pid)),
	})
	if err != nil {
		return nil, err
	}
	return append(hdr, body...), nil
}

// walkMessages frames the messages bundled in one receive buffer and
// hands them to fn in order. It reports whether NLMSG_DONE terminated
// the walk. Netlink is a datagram protocol, so every message in buf is
// complete; anything else is corrupt framing.
func walkMessages(buf []byte, fn func(Message) error) (bool, error) {
	hdrSize := defs.NlMsgHdr.Size()
	for len(buf) > 0 {
		vals, err := defs.NlMsgHdr.Unpack(buf)
		if err != nil {
			return false, fmt.Errorf("%w: %d trailing bytes", ErrShortMessage, len(buf))
		}
		length, _ := defs.NlMsgHdr.SizeValue(vals)
		if length < hdrSize || length > len(buf) {
			return false, fmt.Errorf("%w: declared %d of %d bytes",
				ErrShortMessage, length, len(buf))
		}
		msgType, _ := defs.NlMsgHdr.TagValue(vals)
		if msgType == defs.NLMSG_DONE {
			return true, nil
		}
		msg := Message{
			Type:    uint16(msgType),
			Flags:   uint16(headerField(vals, "nlmsg_flags")),
			Seq:     uint32(headerField(vals, "nlmsg_seq")),
			PortID:  uint32(headerField(vals, "nlmsg_pid")),
			Payload: buf[hdrSize:length],
		}
		if err := fn(msg); err != nil {
			return false, err
		}
		next := length
		if a := defs.NLMSG_ALIGNTO; length%a != 0 {
			next = length + a - length%a
		}
		if next > len(buf) {
			next = len(buf)
		}
		buf = buf[next:]
	}
	return false, nil
}

func headerField(vals []wire.Value, name string) uint64 {
	i, _ := defs.NlMsgHdr.Index(name)
	return vals[i].Uint
}

// ackError decodes an NLMSG_ERROR payload. A zero errno is the kernel's
// "no error" acknowledgment and yields nil.
func ackError(op string, payload []byte) error {
	vals, err := defs.NlMsgErr.Unpack(payload)
	if err != nil {
		return err
	}
	i, _ := defs.NlMsgErr.Index("error")
	errno := vals[i].Int
	if errno == 0 {
		return nil
	}
	return &OpError{Op: op, Errno: errnoFromKernel(errno)}
}
