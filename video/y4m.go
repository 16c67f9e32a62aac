package video

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const y4mMagic = "YUV4MPEG2"

// Y4MReader reads frames from a YUV4MPEG2 capture file. Only 4:2:0
// colorspaces are supported; they are what capture tooling emits for
// the streams this library verifies.
type Y4MReader struct {
	r      *bufio.Reader
	closer io.Closer

	width      int
	height     int
	rateNum    int
	rateDen    int
	colorspace string
}

// NewY4MReader parses the stream header from r and prepares to read
// frames. The reader takes no ownership of r.
func NewY4MReader(r io.Reader) (*Y4MReader, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read stream header: %w", ErrMalformedVideo)
	}

	fields := strings.Fields(strings.TrimSuffix(header, "\n"))
	if len(fields) == 0 || fields[0] != y4mMagic {
		return nil, fmt.Errorf("missing %s magic: %w", y4mMagic, ErrMalformedVideo)
	}

	reader := &Y4MReader{
		r:          br,
		rateNum:    25,
		rateDen:    1,
		colorspace: "420",
	}
	for _, field := range fields[1:] {
		if len(field) < 2 {
			continue
		}
		tag, value := field[0], field[1:]
		switch tag {
		case 'W':
			reader.width, err = strconv.Atoi(value)
		case 'H':
			reader.height, err = strconv.Atoi(value)
		case 'F':
			err = reader.parseRate(value)
		case 'C':
			reader.colorspace = value
		}
		if err != nil {
			return nil, fmt.Errorf("stream parameter %q: %w", field, ErrMalformedVideo)
		}
	}

	if reader.width <= 0 || reader.height <= 0 ||
		reader.width%2 != 0 || reader.height%2 != 0 {
		return nil, fmt.Errorf("stream dimensions %dx%d: %w",
			reader.width, reader.height, ErrBadDimensions)
	}
	if !strings.HasPrefix(reader.colorspace, "420") {
		return nil, fmt.Errorf("colorspace C%s: %w", reader.colorspace, ErrUnsupportedVideo)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewY4MReader",
		"width":      reader.width,
		"height":     reader.height,
		"colorspace": reader.colorspace,
	}).Debug("Opened YUV4MPEG2 stream")

	return reader, nil
}

// OpenY4M opens a YUV4MPEG2 file for frame reading. Close releases the
// underlying file.
func OpenY4M(path string) (*Y4MReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	reader, err := NewY4MReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	reader.closer = f
	return reader, nil
}

func (r *Y4MReader) parseRate(value string) error {
	num, den, found := strings.Cut(value, ":")
	if !found {
		return ErrMalformedVideo
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return ErrMalformedVideo
	}
	d, err := strconv.Atoi(den)
	if err != nil || d == 0 {
		return ErrMalformedVideo
	}
	r.rateNum, r.rateDen = n, d
	return nil
}

// Size returns the stream's frame dimensions.
func (r *Y4MReader) Size() (width, height int) {
	return r.width, r.height
}

// FrameRate returns the stream's frame rate as a rational number.
func (r *Y4MReader) FrameRate() (num, den int) {
	return r.rateNum, r.rateDen
}

// Next reads the next frame. It returns io.EOF at the clean end of the
// stream and ErrMalformedVideo when the file is cut short mid-frame.
func (r *Y4MReader) Next() (*Frame, error) {
	marker, err := r.r.ReadString('\n')
	if err == io.EOF && marker == "" {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read frame marker: %w", ErrMalformedVideo)
	}
	if !strings.HasPrefix(marker, "FRAME") {
		return nil, fmt.Errorf("unexpected frame marker %q: %w",
			strings.TrimSpace(marker), ErrMalformedVideo)
	}

	frame, err := NewFrame(r.width, r.height)
	if err != nil {
		return nil, err
	}
	for _, plane := range [][]byte{frame.Y, frame.U, frame.V} {
		if _, err := io.ReadFull(r.r, plane); err != nil {
			return nil, fmt.Errorf("read frame data: %w", ErrMalformedVideo)
		}
	}
	return frame, nil
}

// Close releases the underlying file, if this reader owns one.
func (r *Y4MReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
