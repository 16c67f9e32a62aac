package video

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// streamBufferSize bounds a single datagram read. MJPEG senders keep
// datagrams under the 64 KiB UDP payload ceiling.
const streamBufferSize = 64 * 1024

// DatagramReader is the packet read surface GrabFrame consumes. The
// transport package's receive socket satisfies it.
type DatagramReader interface {
	ReadFrom(p []byte) (n int, addr net.Addr, err error)
	SetReadDeadline(t time.Time) error
}

// GrabFrame assembles one JPEG from an MJPEG datagram stream and
// returns it decoded as a YUV420 frame. Datagrams are concatenated
// until a complete frame (SOI through EOI marker) is present, so
// frames split across packets are handled. If the timeout expires
// before a complete frame arrives, ErrNoFrame is returned.
func GrabFrame(src DatagramReader, timeout time.Duration) (*Frame, error) {
	if src == nil {
		return nil, fmt.Errorf("grab frame: nil stream source")
	}
	if err := src.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("grab frame: arm deadline: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "GrabFrame",
		"timeout":  timeout,
	}).Debug("Waiting for a stream frame")

	var assembled []byte
	buf := make([]byte, streamBufferSize)
	for {
		n, _, err := src.ReadFrom(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return nil, fmt.Errorf("after %v: %w", timeout, ErrNoFrame)
			}
			return nil, fmt.Errorf("grab frame: %w", err)
		}
		assembled = append(assembled, buf[:n]...)

		start, end, ok := findJPEG(assembled)
		if !ok {
			continue
		}

		frame, err := jpegToFrame(assembled[start:end])
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"function": "GrabFrame",
			"bytes":    end - start,
			"width":    frame.Width,
			"height":   frame.Height,
		}).Debug("Captured stream frame")
		return frame, nil
	}
}
