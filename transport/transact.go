package transport

import (
	"fmt"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/internal/observability"
)

// Transact sends a single acknowledged request and returns the reply
// payloads of type expect that precede the acknowledgment. Most change
// requests return no reply at all; NLM_F_ECHO requests return one.
//
// flags is OR-ed into NLM_F_REQUEST|NLM_F_ACK (defs.NLM_F_CREATE and
// friends).
func (c *Conn) Transact(op string, typ, expect uint16, flags uint16, body []byte) ([][]byte, error) {
	seq, err := c.send(typ, defs.NLM_F_REQUEST|defs.NLM_F_ACK|flags, body)
	if err != nil {
		return nil, err
	}

	var replies [][]byte
	for {
		buf, err := c.recv()
		if err != nil {
			return nil, err
		}
		acked := false
		_, err = walkMessages(buf, func(m Message) error {
			if m.Seq != seq {
				return nil
			}
			observability.RecordMessage(m.Type, len(m.Payload))
			switch m.Type {
			case defs.NLMSG_NOOP:
				return nil
			case defs.NLMSG_ERROR:
				acked = true
				return ackError(op, m.Payload)
			case expect:
				// Reply payloads outlive the receive buffer.
				p := make([]byte, len(m.Payload))
				copy(p, m.Payload)
				replies = append(replies, p)
				return nil
			default:
				return fmt.Errorf("%w: got %d, want %d",
					ErrUnexpectedType, m.Type, expect)
			}
		})
		if err != nil {
			return nil, err
		}
		if acked {
			return replies, nil
		}
	}
}
