package transport

import (
	"errors"
	"fmt"
)

// Common errors for multicast socket handling.
var (
	// ErrTTLRange indicates a multicast TTL outside the representable 0-255 range
	ErrTTLRange = errors.New("multicast TTL out of range")

	// ErrBadGroupAddress indicates a group address that does not parse as IPv4
	ErrBadGroupAddress = errors.New("malformed multicast group address")

	// ErrNotMulticast indicates an address outside the multicast range
	ErrNotMulticast = errors.New("address is not a multicast group")

	// ErrPortRange indicates a port outside 1-65535
	ErrPortRange = errors.New("port out of range")

	// ErrNilSocket indicates a nil socket was passed to a loop operation
	ErrNilSocket = errors.New("nil socket")

	// ErrSocketClosed indicates the socket has already been closed
	ErrSocketClosed = errors.New("socket closed")
)

// TransportError represents a socket-level failure with operation context.
type TransportError struct {
	Op   string // operation that caused the error
	Addr string // group/port or local address if relevant
	Err  error  // underlying error
}

func (e *TransportError) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("multicast %s %s: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("multicast %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// newTransportError creates a new TransportError.
func newTransportError(op, addr string, err error) *TransportError {
	return &TransportError{
		Op:   op,
		Addr: addr,
		Err:  err,
	}
}
