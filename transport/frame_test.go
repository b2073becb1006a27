package transport

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/wire"
)

func message(t *testing.T, typ, flags uint16, seq uint32, payload []byte) []byte {
	t.Helper()
	b, err := packRequest(typ, flags, seq, 0, payload)
	if err != nil {
		t.Fatalf("pack message: %v", err)
	}
	return b
}

func TestWalkMessagesStopsAtDone(t *testing.T) {
	buf := message(t, defs.RTM_NEWLINK, 0, 1, []byte{1, 2, 3, 4})
	buf = append(buf, message(t, defs.RTM_NEWLINK, defs.NLM_F_MULTI, 1, []byte{5, 6, 7, 8})...)
	buf = append(buf, message(t, defs.NLMSG_DONE, 0, 1, nil)...)
	buf = append(buf, 0xde, 0xad) // past DONE, must never be read

	var seen int
	done, err := walkMessages(buf, func(m Message) error {
		seen++
		if m.Type != defs.RTM_NEWLINK {
			t.Fatalf("unexpected type %d", m.Type)
		}
		if len(m.Payload) != 4 {
			t.Fatalf("payload %d bytes", len(m.Payload))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !done || seen != 2 {
		t.Fatalf("done=%v seen=%d", done, seen)
	}
}

func TestWalkMessagesTruncated(t *testing.T) {
	buf := message(t, defs.RTM_NEWLINK, 0, 1, []byte{1, 2, 3, 4})
	_, err := walkMessages(buf[:len(buf)-2], func(Message) error { return nil })
	if !errors.Is(err, ErrShortMessage) {
		t.Fatalf("expected ErrShortMessage, got %v", err)
	}

	_, err = walkMessages([]byte{1, 2, 3}, func(Message) error { return nil })
	if !errors.Is(err, ErrShortMessage) {
		t.Fatalf("expected ErrShortMessage for header fragment, got %v", err)
	}
}

func TestWalkMessagesStopsOnCallbackError(t *testing.T) {
	buf := message(t, defs.RTM_NEWLINK, 0, 1, []byte{1, 2, 3, 4})
	buf = append(buf, message(t, defs.RTM_NEWLINK, 0, 1, []byte{5, 6, 7, 8})...)

	boom := errors.New("boom")
	var seen int
	_, err := walkMessages(buf, func(Message) error {
		seen++
		return boom
	})
	if !errors.Is(err, boom) || seen != 1 {
		t.Fatalf("err=%v seen=%d", err, seen)
	}
}

func TestInterruptedFlag(t *testing.T) {
	m := Message{Flags: defs.NLM_F_MULTI | defs.NLM_F_DUMP_INTR}
	if !m.Interrupted() {
		t.Fatalf("expected interrupted")
	}
	m.Flags = defs.NLM_F_MULTI
	if m.Interrupted() {
		t.Fatalf("expected not interrupted")
	}
}

func errPayload(t *testing.T, errno int64) []byte {
	t.Helper()
	b, err := defs.NlMsgErr.Pack(map[string]wire.Value{"error": wire.Int(errno)})
	if err != nil {
		t.Fatalf("pack nlmsgerr: %v", err)
	}
	return b
}

func TestAckErrorZeroIsAcknowledgment(t *testing.T) {
	if err := ackError("op", errPayload(t, 0)); err != nil {
		t.Fatalf("expected nil for zero errno, got %v", err)
	}
}

func TestAckErrorCarriesErrno(t *testing.T) {
	err := ackError("link add", errPayload(t, -int64(unix.EEXIST)))
	if !errors.Is(err, unix.EEXIST) {
		t.Fatalf("expected EEXIST, got %v", err)
	}
	var op *OpError
	if !errors.As(err, &op) || op.Op != "link add" {
		t.Fatalf("expected OpError for link add, got %#v", err)
	}
}

func TestPackRequestHeader(t *testing.T) {
	body := []byte{1, 2, 3, 4}
	b := message(t, defs.RTM_GETLINK, defs.NLM_F_REQUEST|defs.NLM_F_DUMP, 9, body)

	vals, err := defs.NlMsgHdr.Unpack(b)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if size, _ := defs.NlMsgHdr.SizeValue(vals); size != len(b) {
		t.Fatalf("nlmsg_len %d, want %d", size, len(b))
	}
	if typ, _ := defs.NlMsgHdr.TagValue(vals); typ != defs.RTM_GETLINK {
		t.Fatalf("nlmsg_type %d", typ)
	}
	if got := headerField(vals, "nlmsg_seq"); got != 9 {
		t.Fatalf("nlmsg_seq %d", got)
	}
}
