package frame

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/danmuck/afcctl/internal/protocol"
)

// FixedHeaderLen covers the length, opcode, and packet-number words.
const FixedHeaderLen = 24

const lenWordSize = 8

// Request is one outbound message, immutable once handed to WriteFrame.
type Request struct {
	Op            protocol.Opcode
	HeaderPayload []byte
	Content       []byte
}

// Response is one decoded inbound message. The remainder past the fixed
// header lands in Content for DATA frames and in HeaderPayload otherwise.
type Response struct {
	Op            protocol.Opcode
	PacketNum     uint64
	HeaderPayload []byte
	Content       []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxFrameBytes uint64
}

func DefaultLimits() Limits {
	return Limits{MaxFrameBytes: 1 << 20}
}

// Splitter cuts a raw byte stream into complete frame buffers. It never
// emits a partial frame and never drops bytes; a declared length outside
// the limits is connection-fatal since resync is impossible.
type Splitter struct {
	r      io.Reader
	limits Limits
}

func NewSplitter(r io.Reader, limits Limits) *Splitter {
	if limits.MaxFrameBytes == 0 {
		limits = DefaultLimits()
	}
	return &Splitter{r: r, limits: limits}
}

// Next blocks until one complete frame is buffered and returns it,
// fixed header included. Returns io.EOF on clean stream end.
func (s *Splitter) Next() ([]byte, error) {
	var lenWord [lenWordSize]byte
	if _, err := io.ReadFull(s.r, lenWord[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, protocol.ErrTruncated
		}
		return nil, err
	}

	total := binary.LittleEndian.Uint64(lenWord[:])
	if total < FixedHeaderLen {
		return nil, protocol.ErrFrameTooShort
	}
	if total > s.limits.MaxFrameBytes {
		return nil, protocol.ErrFrameTooLarge
	}

	buf := make([]byte, total)
	copy(buf, lenWord[:])
	if _, err := io.ReadFull(s.r, buf[lenWordSize:]); err != nil {
		return nil, protocol.ErrTruncated
	}
	return buf, nil
}

// Decode parses one complete frame buffer into a Response.
func Decode(buf []byte) (Response, error) {
	if len(buf) < FixedHeaderLen {
		return Response{}, protocol.ErrFrameTooShort
	}
	total := binary.LittleEndian.Uint64(buf[0:8])
	if total != uint64(len(buf)) {
		return Response{}, protocol.ErrTruncated
	}

	resp := Response{
		Op:        protocol.Opcode(binary.LittleEndian.Uint64(buf[8:16])),
		PacketNum: binary.LittleEndian.Uint64(buf[16:24]),
	}
	remainder := make([]byte, len(buf)-FixedHeaderLen)
	copy(remainder, buf[FixedHeaderLen:])
	if resp.Op == protocol.OpData {
		resp.Content = remainder
	} else {
		resp.HeaderPayload = remainder
	}
	return resp, nil
}

// WriteFrame serializes req under packetNum and writes it to w.
// One frame per request; requests are never batched.
func WriteFrame(w io.Writer, req Request, packetNum uint64, limits Limits) error {
	if limits.MaxFrameBytes == 0 {
		limits = DefaultLimits()
	}
	total := uint64(FixedHeaderLen) + uint64(len(req.HeaderPayload)) + uint64(len(req.Content))
	if total > limits.MaxFrameBytes {
		return protocol.ErrFrameTooLarge
	}

	var head [FixedHeaderLen]byte
	binary.LittleEndian.PutUint64(head[0:8], total)
	binary.LittleEndian.PutUint64(head[8:16], uint64(req.Op))
	binary.LittleEndian.PutUint64(head[16:24], packetNum)

	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	if len(req.HeaderPayload) > 0 {
		if _, err := w.Write(req.HeaderPayload); err != nil {
			return err
		}
	}
	if len(req.Content) > 0 {
		if _, err := w.Write(req.Content); err != nil {
			return err
		}
	}
	return nil
}
