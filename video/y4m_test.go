package video

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"
)

// buildY4M synthesizes a YUV4MPEG2 stream with the given number of
// frames. Frame n has all Y samples set to n for easy identification.
func buildY4M(width, height, frames int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "YUV4MPEG2 W%d H%d F30:1 Ip A1:1 C420jpeg\n", width, height)

	ySize := width * height
	uvSize := (width / 2) * (height / 2)
	for n := 0; n < frames; n++ {
		buf.WriteString("FRAME\n")
		buf.Write(bytes.Repeat([]byte{byte(n)}, ySize))
		buf.Write(bytes.Repeat([]byte{128}, uvSize*2))
	}
	return buf.Bytes()
}

func TestY4MReaderWalksAllFrames(t *testing.T) {
	reader, err := NewY4MReader(bytes.NewReader(buildY4M(8, 6, 3)))
	if err != nil {
		t.Fatalf("header parse failed: %v", err)
	}

	width, height := reader.Size()
	if width != 8 || height != 6 {
		t.Fatalf("Size() = %dx%d, want 8x6", width, height)
	}
	if num, den := reader.FrameRate(); num != 30 || den != 1 {
		t.Errorf("FrameRate() = %d:%d, want 30:1", num, den)
	}

	for n := 0; n < 3; n++ {
		frame, err := reader.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", n, err)
		}
		if frame.Width != 8 || frame.Height != 6 {
			t.Errorf("frame %d dimensions = %dx%d", n, frame.Width, frame.Height)
		}
		if frame.Y[0] != byte(n) {
			t.Errorf("frame %d carries Y[0]=%d, want %d", n, frame.Y[0], n)
		}
	}

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("after last frame: err = %v, want io.EOF", err)
	}
}

func TestY4MReaderHeaderDefaults(t *testing.T) {
	// No F or C parameters: rate defaults to 25:1 and colorspace to 420.
	stream := []byte("YUV4MPEG2 W2 H2\nFRAME\n" + string(bytes.Repeat([]byte{9}, 6)))
	reader, err := NewY4MReader(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("header parse failed: %v", err)
	}
	if num, den := reader.FrameRate(); num != 25 || den != 1 {
		t.Errorf("default FrameRate() = %d:%d, want 25:1", num, den)
	}
	if _, err := reader.Next(); err != nil {
		t.Fatalf("frame read failed: %v", err)
	}
}

func TestY4MReaderRejectsBadStreams(t *testing.T) {
	tests := []struct {
		name   string
		stream []byte
		want   error
	}{
		{"missing magic", []byte("NOTYUV W8 H8\n"), ErrMalformedVideo},
		{"empty input", nil, ErrMalformedVideo},
		{"odd dimensions", []byte("YUV4MPEG2 W7 H8\n"), ErrBadDimensions},
		{"missing dimensions", []byte("YUV4MPEG2 F25:1\n"), ErrBadDimensions},
		{"4:4:4 colorspace", []byte("YUV4MPEG2 W8 H8 C444\n"), ErrUnsupportedVideo},
		{"mono colorspace", []byte("YUV4MPEG2 W8 H8 Cmono\n"), ErrUnsupportedVideo},
		{"garbled width", []byte("YUV4MPEG2 Wabc H8\n"), ErrMalformedVideo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewY4MReader(bytes.NewReader(tt.stream))
			if err == nil {
				t.Fatal("header parse should fail")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestY4MReaderDetectsTruncation(t *testing.T) {
	full := buildY4M(8, 8, 2)
	truncated := full[:len(full)-20]

	reader, err := NewY4MReader(bytes.NewReader(truncated))
	if err != nil {
		t.Fatalf("header parse failed: %v", err)
	}

	if _, err := reader.Next(); err != nil {
		t.Fatalf("first frame should be intact: %v", err)
	}
	_, err = reader.Next()
	if !errors.Is(err, ErrMalformedVideo) {
		t.Errorf("truncated frame: err = %v, want ErrMalformedVideo", err)
	}
}
