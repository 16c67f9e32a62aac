package video

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"
	"os"
)

// JPEG stream markers. Entropy-coded data byte-stuffs 0xFF, so these
// two-byte sequences only occur as real frame boundaries.
var (
	jpegSOI = []byte{0xFF, 0xD8}
	jpegEOI = []byte{0xFF, 0xD9}
)

// findJPEG locates the first complete JPEG in buf. It returns the
// start and one-past-end offsets of the frame, or ok=false when no
// complete frame is present yet.
func findJPEG(buf []byte) (start, end int, ok bool) {
	start = bytes.Index(buf, jpegSOI)
	if start < 0 {
		return 0, 0, false
	}
	tail := bytes.Index(buf[start+len(jpegSOI):], jpegEOI)
	if tail < 0 {
		return start, 0, false
	}
	end = start + len(jpegSOI) + tail + len(jpegEOI)
	return start, end, true
}

// jpegToFrame decodes a single JPEG into a YUV420 frame.
func jpegToFrame(data []byte) (*Frame, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg frame: %w", err)
	}
	return FromImage(img)
}

// MJPEGReader reads frames from a concatenated-JPEG recording, the
// format produced when an MJPEG network stream is captured straight to
// disk.
type MJPEGReader struct {
	r      io.Reader
	closer io.Closer
	buf    []byte
	done   bool
}

// NewMJPEGReader prepares to read concatenated JPEG frames from r.
func NewMJPEGReader(r io.Reader) *MJPEGReader {
	return &MJPEGReader{r: r}
}

// OpenMJPEG opens a concatenated-JPEG recording file. Close releases
// the underlying file.
func OpenMJPEG(path string) (*MJPEGReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	reader := NewMJPEGReader(f)
	reader.closer = f
	return reader, nil
}

// Next decodes the next JPEG in the recording. It returns io.EOF at the
// clean end of input and ErrMalformedVideo when the recording is cut
// off mid-frame.
func (m *MJPEGReader) Next() (*Frame, error) {
	for {
		if start, end, ok := findJPEG(m.buf); ok {
			data := m.buf[start:end]
			frame, err := jpegToFrame(data)
			m.buf = append([]byte(nil), m.buf[end:]...)
			if err != nil {
				return nil, err
			}
			return frame, nil
		}

		if m.done {
			if bytes.Contains(m.buf, jpegSOI) {
				return nil, fmt.Errorf("recording truncated mid-frame: %w", ErrMalformedVideo)
			}
			return nil, io.EOF
		}

		chunk := make([]byte, 64*1024)
		n, err := m.r.Read(chunk)
		if n > 0 {
			m.buf = append(m.buf, chunk[:n]...)
		}
		if err == io.EOF {
			m.done = true
		} else if err != nil {
			return nil, fmt.Errorf("read recording: %w", err)
		}
	}
}

// Close releases the underlying file, if this reader owns one.
func (m *MJPEGReader) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}
