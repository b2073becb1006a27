package transport

import (
	"errors"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/internal/observability"
)

// ErrNoHandler reports a multicast event of a type the caller supplied
// no handler for.
var ErrNoHandler = errors.New("transport: no handler for event type")

// Events receives multicast messages on a listener connection and
// dispatches each to the handler registered for its type. It returns
// only on a receive error or a handler error; a handler returning
// ErrStopListening stops the loop cleanly.
func (c *Conn) Events(handlers map[uint16]func(payload []byte) error) error {
	for {
		buf, err := c.recv()
		if err != nil {
			return err
		}
		_, err = walkMessages(buf, func(m Message) error {
			observability.RecordEvent(m.Type)
			switch m.Type {
			case defs.NLMSG_NOOP:
				return nil
			case defs.NLMSG_ERROR:
				return ackError("events", m.Payload)
			}
			h, ok := handlers[m.Type]
			if !ok {
				return ErrNoHandler
			}
			return h(m.Payload)
		})
		if errors.Is(err, ErrStopListening) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ErrStopListening tells Events to stop cleanly when returned by a
// handler.
var ErrStopListening = errors.New("transport: stop listening")
