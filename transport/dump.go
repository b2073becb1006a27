package transport

import (
	"fmt"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/internal/observability"
)

// Dump issues a dump request of type typ with the given header body and
// streams every reply payload of type expect to each. Replies arrive in
// multi-part batches terminated by NLMSG_DONE.
//
// When the kernel flags the dump as interrupted, Dump still delivers
// every message it received and returns ErrDumpInterrupted afterwards;
// the caller decides whether a torn snapshot is acceptable or the dump
// should be rerun.
func (c *Conn) Dump(typ, expect uint16, body []byte, each func([]byte) error) error {
	seq, err := c.send(typ, defs.NLM_F_REQUEST|defs.NLM_F_DUMP, body)
	if err != nil {
		observability.RecordDump("error")
		return err
	}

	interrupted := false
	msgs := 0
	for {
		buf, err := c.recv()
		if err != nil {
			observability.RecordDump("error")
			return err
		}
		done, err := walkMessages(buf, func(m Message) error {
			if m.Seq != seq {
				return nil
			}
			observability.RecordMessage(m.Type, len(m.Payload))
			if m.Interrupted() {
				interrupted = true
			}
			switch m.Type {
			case defs.NLMSG_NOOP:
				return nil
			case defs.NLMSG_ERROR:
				return ackError("dump", m.Payload)
			case expect:
				msgs++
				return each(m.Payload)
			default:
				return fmt.Errorf("%w: got %d, want %d",
					ErrUnexpectedType, m.Type, expect)
			}
		})
		if err != nil {
			observability.RecordDump("error")
			return err
		}
		if done {
			break
		}
	}

	if interrupted {
		observability.RecordDump("interrupted")
		c.log.Warn().Uint16("type", typ).Msg("dump interrupted, results may be torn")
		return ErrDumpInterrupted
	}
	observability.RecordDump("ok")
	c.log.Debug().Uint16("type", typ).Int("messages", msgs).Msg("dump complete")
	return nil
}
