package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrFrameTooLarge      = errors.New("protocol: frame exceeds size limit")
	ErrFrameTooShort      = errors.New("protocol: frame shorter than fixed header")
	ErrTruncated          = errors.New("protocol: truncated data")
	ErrMalformedPayload   = errors.New("protocol: malformed payload")
	ErrUnexpectedResponse = errors.New("protocol: unexpected response")
	ErrTimeout            = errors.New("protocol: request timed out")
	ErrConnClosed         = errors.New("protocol: connection closed")
)

// StatusError is a STATUS response carrying a non-SUCCESS code.
type StatusError struct {
	Op     Opcode
	Status StatusCode
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("protocol: %s failed: %s", e.Op, e.Status)
}

// StatusOf unwraps err into its device status code, if it carries one.
func StatusOf(err error) (StatusCode, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}
