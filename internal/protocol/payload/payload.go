package payload

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/danmuck/afcctl/internal/protocol"
)

// Delim separates strings inside AFC payloads. Entry names never contain it.
const Delim byte = 0x00

// EncodeStrings joins items into a null-delimited payload, one trailing
// delimiter per string.
func EncodeStrings(items []string) []byte {
	n := 0
	for _, s := range items {
		n += len(s) + 1
	}
	out := make([]byte, 0, n)
	for _, s := range items {
		out = append(out, s...)
		out = append(out, Delim)
	}
	return out
}

// DecodeStrings scans buf and emits one string per delimiter, in scan order.
// Trailing bytes with no closing delimiter are not emitted.
func DecodeStrings(buf []byte) []string {
	out := make([]string, 0, 8)
	for {
		i := bytes.IndexByte(buf, Delim)
		if i < 0 {
			return out
		}
		out = append(out, string(buf[:i]))
		buf = buf[i+1:]
	}
}

// EncodePairs serializes alternating key/value strings.
func EncodePairs(pairs map[string]string) []byte {
	flat := make([]string, 0, 2*len(pairs))
	for k, v := range pairs {
		flat = append(flat, k, v)
	}
	return EncodeStrings(flat)
}

// DecodePairs consumes a null-delimited payload as alternating key/value
// strings. A pending key with no value is a malformed payload.
func DecodePairs(buf []byte) (map[string]string, error) {
	flat := DecodeStrings(buf)
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("%w: odd key/value count %d", protocol.ErrMalformedPayload, len(flat))
	}
	out := make(map[string]string, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		out[flat[i]] = flat[i+1]
	}
	return out, nil
}

// Uint64Bytes renders v as the 8-byte little-endian word AFC headers use.
func Uint64Bytes(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// Uint32From reads a little-endian u32 from the front of b.
func Uint32From(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("%w: need 4 bytes, have %d", protocol.ErrMalformedPayload, len(b))
	}
	return binary.LittleEndian.Uint32(b), nil
}
