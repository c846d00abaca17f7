package afc

import (
	"errors"
	"io"
	"sync"

	"github.com/danmuck/afcctl/internal/protocol"
)

// File adapts a remote handle into byte-oriented streams. Reads and
// writes translate into chunked FILE_READ/FILE_WRITE requests; chunks
// never exceed the connection's frame limits. A File must not be used
// from two goroutines at once; remote-side ordering would be undefined.
type File struct {
	c        *Client
	path     string
	handle   Handle
	chunk    int
	closeMu  sync.Mutex
	closed   bool
	closeErr error
}

// Open opens a remote file and wraps its handle in a File.
func (c *Client) Open(path string, mode protocol.FileMode) (*File, error) {
	handle, err := c.OpenFile(path, mode)
	if err != nil {
		return nil, err
	}
	return &File{c: c, path: path, handle: handle, chunk: c.MaxChunkBytes()}, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Handle() Handle {
	return f.handle
}

// Read pulls one chunk per call. An empty device reply signals end of
// data.
func (f *File) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	want := len(p)
	if want > f.chunk {
		want = f.chunk
	}
	data, err := f.c.ReadFile(f.handle, want)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

// Write splits p into chunks and issues sequential FILE_WRITE requests,
// each awaited before the next begins so write order is preserved.
func (f *File) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		end := written + f.chunk
		if end > len(p) {
			end = len(p)
		}
		if err := f.c.WriteFile(f.handle, p[written:end]); err != nil {
			return written, err
		}
		written = end
	}
	return written, nil
}

// Close releases the remote handle. Safe to call more than once; the
// handle is closed remotely exactly once, and a device report that it
// was already gone is not an error.
func (f *File) Close() error {
	f.closeMu.Lock()
	defer f.closeMu.Unlock()
	if f.closed {
		return f.closeErr
	}
	f.closed = true
	err := f.c.CloseFile(f.handle)
	var se *protocol.StatusError
	if errors.As(err, &se) && se.Status == protocol.StatusInvalidArg {
		err = nil
	}
	f.closeErr = err
	return err
}
