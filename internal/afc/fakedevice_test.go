package afc

import (
	"net"
	"sync"
	"testing"

	"github.com/danmuck/afcctl/internal/protocol"
	"github.com/danmuck/afcctl/internal/protocol/frame"
	"github.com/danmuck/afcctl/internal/testutil/testlog"
)

// fakeLimits leaves headroom above the client limits so the harness never
// rejects what the client was allowed to send.
var fakeLimits = frame.Limits{MaxFrameBytes: 8 << 20}

type recordedRequest struct {
	op   protocol.Opcode
	pkt  uint64
	body []byte
}

// reply is one scripted response. The payload rides as content for DATA
// and as header payload for everything else, mirroring the decode rule.
type reply struct {
	op      protocol.Opcode
	payload []byte
}

func statusReply(code protocol.StatusCode) []reply {
	return []reply{{op: protocol.OpStatus, payload: []byte{byte(code)}}}
}

func dataReply(content []byte) []reply {
	return []reply{{op: protocol.OpData, payload: content}}
}

// fakeDevice scripts the remote end of a connection over net.Pipe.
type fakeDevice struct {
	conn net.Conn

	wmu sync.Mutex

	mu       sync.Mutex
	handlers map[protocol.Opcode]func(pkt uint64, body []byte) []reply
	requests []recordedRequest
}

func newFakeDevice(t *testing.T) (*fakeDevice, net.Conn) {
	t.Helper()
	testlog.Start(t)
	clientEnd, serverEnd := net.Pipe()
	d := &fakeDevice{
		conn:     serverEnd,
		handlers: make(map[protocol.Opcode]func(pkt uint64, body []byte) []reply),
	}
	go d.serve()
	t.Cleanup(func() {
		clientEnd.Close()
		serverEnd.Close()
	})
	return d, clientEnd
}

func (d *fakeDevice) handle(op protocol.Opcode, fn func(pkt uint64, body []byte) []reply) {
	d.mu.Lock()
	d.handlers[op] = fn
	d.mu.Unlock()
}

func (d *fakeDevice) serve() {
	s := frame.NewSplitter(d.conn, fakeLimits)
	for {
		raw, err := s.Next()
		if err != nil {
			return
		}
		req, err := frame.Decode(raw)
		if err != nil {
			return
		}
		body := req.HeaderPayload
		if req.Op == protocol.OpData {
			body = req.Content
		}

		d.mu.Lock()
		d.requests = append(d.requests, recordedRequest{op: req.Op, pkt: req.PacketNum, body: body})
		fn := d.handlers[req.Op]
		d.mu.Unlock()

		if fn == nil {
			continue
		}
		for _, r := range fn(req.PacketNum, body) {
			d.write(r, req.PacketNum)
		}
	}
}

func (d *fakeDevice) write(r reply, pkt uint64) {
	req := frame.Request{Op: r.op}
	if r.op == protocol.OpData {
		req.Content = r.payload
	} else {
		req.HeaderPayload = r.payload
	}
	d.wmu.Lock()
	defer d.wmu.Unlock()
	_ = frame.WriteFrame(d.conn, req, pkt, fakeLimits)
}

func (d *fakeDevice) recorded(op protocol.Opcode) []recordedRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]recordedRequest, 0, len(d.requests))
	for _, r := range d.requests {
		if op == protocol.OpInvalid || r.op == op {
			out = append(out, r)
		}
	}
	return out
}
