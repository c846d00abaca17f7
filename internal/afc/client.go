package afc

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/afcctl/internal/observability"
	"github.com/danmuck/afcctl/internal/protocol"
	"github.com/danmuck/afcctl/internal/protocol/frame"
	"github.com/danmuck/afcctl/internal/protocol/payload"
)

// Handle identifies a remote open file. Assigned by the device on
// FILE_OPEN and valid until FILE_CLOSE or connection end.
type Handle uint64

// Client is the public AFC operation surface over one Conn.
type Client struct {
	conn   *Conn
	logger zerolog.Logger
}

// NewClient starts an AFC client over an already-established stream
// endpoint. Transport setup and teardown belong to the caller's dialer;
// Close tears down the protocol connection.
func NewClient(rw io.ReadWriteCloser, cfg ConnConfig) *Client {
	return &Client{
		conn:   NewConn(rw, cfg),
		logger: log.With().Str("component", "afc.client").Logger(),
	}
}

func (c *Client) Close() error {
	c.logger.Debug().Msg("closing connection")
	return c.conn.Close()
}

// MaxChunkBytes is the largest content payload one FILE_READ/FILE_WRITE
// frame can carry under this connection's limits. The header payload of
// both ops is two u64 words at most.
func (c *Client) MaxChunkBytes() int {
	return int(c.conn.Limits().MaxFrameBytes) - frame.FixedHeaderLen - 16
}

func (c *Client) send(req frame.Request) (frame.Response, error) {
	start := time.Now()
	resp, err := c.conn.Send(req)
	observability.RecordRequest(req.Op.String(), err == nil, time.Since(start))
	return resp, err
}

// statusOf applies the uniform STATUS validation rule: wrong opcode is an
// unexpected response, an empty header payload is malformed, and any code
// other than SUCCESS surfaces as a StatusError named from the code table.
func statusOf(op protocol.Opcode, resp frame.Response) error {
	if resp.Op != protocol.OpStatus {
		return fmt.Errorf("%w: %s replied %s", protocol.ErrUnexpectedResponse, op, resp.Op)
	}
	if len(resp.HeaderPayload) == 0 {
		return fmt.Errorf("%w: empty status payload for %s", protocol.ErrMalformedPayload, op)
	}
	if code := protocol.StatusCode(resp.HeaderPayload[0]); code != protocol.StatusSuccess {
		return &protocol.StatusError{Op: op, Status: code}
	}
	return nil
}

// dataOf expects a DATA response and returns its content. A STATUS
// response here is always a failure.
func dataOf(op protocol.Opcode, resp frame.Response) ([]byte, error) {
	if resp.Op == protocol.OpData {
		return resp.Content, nil
	}
	if resp.Op == protocol.OpStatus {
		if err := statusOf(op, resp); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s replied bare STATUS success", protocol.ErrUnexpectedResponse, op)
	}
	return nil, fmt.Errorf("%w: %s replied %s", protocol.ErrUnexpectedResponse, op, resp.Op)
}

func (c *Client) statusRequest(op protocol.Opcode, headerPayload, content []byte) error {
	resp, err := c.send(frame.Request{Op: op, HeaderPayload: headerPayload, Content: content})
	if err != nil {
		return err
	}
	return statusOf(op, resp)
}

func (c *Client) dataRequest(op protocol.Opcode, headerPayload []byte) ([]byte, error) {
	resp, err := c.send(frame.Request{Op: op, HeaderPayload: headerPayload})
	if err != nil {
		return nil, err
	}
	return dataOf(op, resp)
}

// CreateDirectory makes one directory on the device.
func (c *Client) CreateDirectory(path string) error {
	return c.statusRequest(protocol.OpMakeDir, []byte(path), nil)
}

// RemovePath deletes one file or empty directory.
func (c *Client) RemovePath(path string) error {
	return c.statusRequest(protocol.OpRemovePath, []byte(path), nil)
}

// RemoveAll deletes a path and everything under it.
func (c *Client) RemoveAll(path string) error {
	return c.statusRequest(protocol.OpRemovePathAndContents, []byte(path), nil)
}

// RenamePath moves from to to. Both paths ride in one header payload,
// null-separated.
func (c *Client) RenamePath(from, to string) error {
	hp := make([]byte, 0, len(from)+len(to)+1)
	hp = append(hp, from...)
	hp = append(hp, payload.Delim)
	hp = append(hp, to...)
	return c.statusRequest(protocol.OpRenamePath, hp, nil)
}

// ListDirectory returns entry names in device order, sentinels included.
func (c *Client) ListDirectory(path string) ([]string, error) {
	content, err := c.dataRequest(protocol.OpReadDir, []byte(path))
	if err != nil {
		return nil, err
	}
	return payload.DecodeStrings(content), nil
}

// OpenFile opens path under mode and returns the device-assigned handle.
func (c *Client) OpenFile(path string, mode protocol.FileMode) (Handle, error) {
	hp := append(payload.Uint64Bytes(uint64(mode)), path...)
	resp, err := c.send(frame.Request{Op: protocol.OpFileOpen, HeaderPayload: hp})
	if err != nil {
		return 0, err
	}
	if resp.Op != protocol.OpFileOpenRes {
		if resp.Op == protocol.OpStatus {
			return 0, statusOf(protocol.OpFileOpen, resp)
		}
		return 0, fmt.Errorf("%w: FILE_OPEN replied %s", protocol.ErrUnexpectedResponse, resp.Op)
	}
	h, err := payload.Uint32From(resp.HeaderPayload)
	if err != nil {
		return 0, err
	}
	return Handle(h), nil
}

// CloseFile releases a remote handle.
func (c *Client) CloseFile(handle Handle) error {
	return c.statusRequest(protocol.OpFileClose, payload.Uint64Bytes(uint64(handle)), nil)
}

// WriteFile writes b at the handle's current position. The caller keeps
// b within MaxChunkBytes; File.Write does the chunking.
func (c *Client) WriteFile(handle Handle, b []byte) error {
	err := c.statusRequest(protocol.OpFileWrite, payload.Uint64Bytes(uint64(handle)), b)
	if err == nil {
		observability.RecordBytes("write", len(b))
	}
	return err
}

// ReadFile asks for up to length bytes from the handle's current
// position. The device may return fewer, down to none at end of file.
func (c *Client) ReadFile(handle Handle, length int) ([]byte, error) {
	hp := append(payload.Uint64Bytes(uint64(handle)), payload.Uint64Bytes(uint64(length))...)
	content, err := c.dataRequest(protocol.OpFileRead, hp)
	if err != nil {
		return nil, err
	}
	observability.RecordBytes("read", len(content))
	return content, nil
}

// TruncateFile sets the open file's size.
func (c *Client) TruncateFile(handle Handle, size uint64) error {
	hp := append(payload.Uint64Bytes(uint64(handle)), payload.Uint64Bytes(size)...)
	return c.statusRequest(protocol.OpFileSetSize, hp, nil)
}

// GetFileInfo stats path.
func (c *Client) GetFileInfo(path string) (FileInfo, error) {
	content, err := c.dataRequest(protocol.OpGetFileInfo, []byte(path))
	if err != nil {
		return FileInfo{}, err
	}
	pairs, err := payload.DecodePairs(content)
	if err != nil {
		return FileInfo{}, err
	}
	return fileInfoFromPairs(pairs)
}

// GetDeviceInfo returns the device's filesystem attributes verbatim.
func (c *Client) GetDeviceInfo() (map[string]string, error) {
	content, err := c.dataRequest(protocol.OpGetDevInfo, nil)
	if err != nil {
		return nil, err
	}
	return payload.DecodePairs(content)
}
