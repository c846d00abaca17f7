package afc

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/afcctl/internal/protocol"
	"github.com/danmuck/afcctl/internal/protocol/frame"
)

// DefaultRequestTimeout bounds how long Send waits for a matching response.
const DefaultRequestTimeout = 10 * time.Second

// pendingTable owns the packet-number -> waiter map. Slots leave the table
// exactly once, through resolveIfPending or expire, never both.
type pendingTable struct {
	mu    sync.Mutex
	slots map[uint64]chan frame.Response
}

func newPendingTable() *pendingTable {
	return &pendingTable{slots: make(map[uint64]chan frame.Response)}
}

func (t *pendingTable) register(packetNum uint64) chan frame.Response {
	ch := make(chan frame.Response, 1)
	t.mu.Lock()
	t.slots[packetNum] = ch
	t.mu.Unlock()
	return ch
}

func (t *pendingTable) resolveIfPending(resp frame.Response) bool {
	t.mu.Lock()
	ch, ok := t.slots[resp.PacketNum]
	if ok {
		delete(t.slots, resp.PacketNum)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	ch <- resp
	return true
}

func (t *pendingTable) expire(packetNum uint64) {
	t.mu.Lock()
	delete(t.slots, packetNum)
	t.mu.Unlock()
}

// ConnConfig tunes one AFC connection.
type ConnConfig struct {
	Limits         frame.Limits
	RequestTimeout time.Duration
}

func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		Limits:         frame.DefaultLimits(),
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Conn multiplexes logically-concurrent requests over one established
// byte stream. One reader goroutine drains inbound frames and resolves
// waiters by packet number; frame writes are serialized by a mutex.
type Conn struct {
	rw      io.ReadWriteCloser
	limits  frame.Limits
	timeout time.Duration
	logger  zerolog.Logger

	wmu     sync.Mutex
	pending *pendingTable
	packet  atomic.Uint64

	closeOnce sync.Once
	done      chan struct{}

	errMu   sync.Mutex
	readErr error
}

// NewConn wraps an already-established stream endpoint and starts the
// frame-drain goroutine. The caller owns closing the Conn.
func NewConn(rw io.ReadWriteCloser, cfg ConnConfig) *Conn {
	if cfg.Limits.MaxFrameBytes == 0 {
		cfg.Limits = frame.DefaultLimits()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	c := &Conn{
		rw:      rw,
		limits:  cfg.Limits,
		timeout: cfg.RequestTimeout,
		logger:  log.With().Str("component", "afc.conn").Logger(),
		pending: newPendingTable(),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Conn) readLoop() {
	splitter := frame.NewSplitter(c.rw, c.limits)
	for {
		buf, err := splitter.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = protocol.ErrConnClosed
			}
			c.fail(err)
			return
		}
		resp, err := frame.Decode(buf)
		if err != nil {
			c.fail(err)
			return
		}
		if !c.pending.resolveIfPending(resp) {
			// Late or duplicated remote response: dropped on purpose.
			c.logger.Debug().
				Stringer("op", resp.Op).
				Uint64("packet", resp.PacketNum).
				Msg("dropping unmatched response")
		}
	}
}

func (c *Conn) fail(err error) {
	c.errMu.Lock()
	if c.readErr == nil {
		c.readErr = err
	}
	c.errMu.Unlock()
	c.closeOnce.Do(func() {
		close(c.done)
		c.rw.Close()
	})
}

func (c *Conn) err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.readErr != nil {
		return c.readErr
	}
	return protocol.ErrConnClosed
}

// Close tears the connection down. In-flight Send calls fail with
// ErrConnClosed.
func (c *Conn) Close() error {
	c.fail(protocol.ErrConnClosed)
	return nil
}

// Limits reports the frame limits this connection enforces.
func (c *Conn) Limits() frame.Limits {
	return c.limits
}

// Send transmits req and blocks until the matching response arrives or
// the connection's request timeout fires.
func (c *Conn) Send(req frame.Request) (frame.Response, error) {
	return c.SendTimeout(req, c.timeout)
}

// SendTimeout is Send with an explicit deadline. Packet numbers are never
// reused; a response arriving after expiry is dropped by the read loop.
// There is no cancellation beyond the timeout.
func (c *Conn) SendTimeout(req frame.Request, timeout time.Duration) (frame.Response, error) {
	packetNum := c.packet.Add(1)
	ch := c.pending.register(packetNum)

	c.wmu.Lock()
	err := frame.WriteFrame(c.rw, req, packetNum, c.limits)
	c.wmu.Unlock()
	if err != nil {
		c.pending.expire(packetNum)
		select {
		case <-c.done:
			return frame.Response{}, c.err()
		default:
		}
		return frame.Response{}, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case resp := <-ch:
		return resp, nil
	case <-timer.C:
		c.pending.expire(packetNum)
		return frame.Response{}, fmt.Errorf("%w: %s packet %d after %s",
			protocol.ErrTimeout, req.Op, packetNum, timeout)
	case <-c.done:
		c.pending.expire(packetNum)
		return frame.Response{}, c.err()
	}
}
