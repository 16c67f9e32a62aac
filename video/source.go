package video

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FrameSource yields video frames one at a time. Next returns io.EOF
// after the final frame. Close releases any underlying resources.
type FrameSource interface {
	Next() (*Frame, error)
	Close() error
}

// OpenVideoFile opens a capture file with the reader matching its
// extension. YUV4MPEG2 (.y4m) and concatenated-JPEG (.mjpeg, .mjpg)
// recordings are supported.
func OpenVideoFile(path string) (FrameSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".y4m":
		return OpenY4M(path)
	case ".mjpeg", ".mjpg":
		return OpenMJPEG(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedVideo)
	}
}
