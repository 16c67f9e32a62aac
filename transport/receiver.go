package transport

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// recvBufferSize bounds a single received datagram. Larger datagrams are
// truncated by the kernel; the keyword payloads this package carries are
// short text messages.
const recvBufferSize = 1024

// Receive drains the socket for a fixed window and returns every datagram
// decoded as text, in arrival order, duplicates retained. The timeout is
// one absolute deadline over the whole collection window, not a
// per-datagram idle timeout.
//
// Hitting the deadline is the designed way the window ends and is not an
// error; an empty result means nothing arrived in time. Any other read
// failure (for example a closed socket) returns the messages collected so
// far together with the error.
func Receive(sock *ReceiveSocket, timeout time.Duration) ([]string, error) {
	if sock == nil {
		return nil, ErrNilSocket
	}

	deadline := time.Now().Add(timeout)
	if err := sock.SetReadDeadline(deadline); err != nil {
		return nil, newTransportError("set deadline", sock.Group().String(), err)
	}

	messages := make([]string, 0)
	buf := make([]byte, recvBufferSize)

	for {
		n, addr, err := sock.ReadFrom(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				logrus.WithFields(logrus.Fields{
					"function": "Receive",
					"group":    sock.Group().String(),
					"count":    len(messages),
				}).Debug("Receive window closed")
				return messages, nil
			}
			return messages, newTransportError("receive", sock.Group().String(), err)
		}

		messages = append(messages, string(buf[:n]))

		logrus.WithFields(logrus.Fields{
			"function":    "Receive",
			"group":       sock.Group().String(),
			"remote_addr": addr.String(),
			"bytes":       n,
		}).Debug("Received multicast datagram")
	}
}
