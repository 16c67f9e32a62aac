package video

import "fmt"

// Frame holds one picture in planar YUV420 format. The Y plane carries
// full-resolution luminance; the U and V planes carry chrominance at
// half resolution in both dimensions.
type Frame struct {
	Width   int
	Height  int
	Y       []byte // Luminance plane
	U       []byte // Chrominance U plane
	V       []byte // Chrominance V plane
	YStride int    // Stride for Y plane
	UStride int    // Stride for U plane
	VStride int    // Stride for V plane
}

// NewFrame allocates a zeroed YUV420 frame. Width and height must be
// positive and even so the chroma planes subsample cleanly.
func NewFrame(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrBadDimensions)
	}
	chromaW := width / 2
	chromaH := height / 2
	return &Frame{
		Width:   width,
		Height:  height,
		Y:       make([]byte, width*height),
		U:       make([]byte, chromaW*chromaH),
		V:       make([]byte, chromaW*chromaH),
		YStride: width,
		UStride: chromaW,
		VStride: chromaW,
	}, nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	return &Frame{
		Width:   f.Width,
		Height:  f.Height,
		YStride: f.YStride,
		UStride: f.UStride,
		VStride: f.VStride,
		Y:       append([]byte(nil), f.Y...),
		U:       append([]byte(nil), f.U...),
		V:       append([]byte(nil), f.V...),
	}
}

// Validate checks that the frame's declared dimensions, strides, and
// plane buffers are mutually consistent.
func (f *Frame) Validate() error {
	if f == nil {
		return ErrNilFrame
	}
	if f.Width <= 0 || f.Height <= 0 || f.Width%2 != 0 || f.Height%2 != 0 {
		return fmt.Errorf("%dx%d: %w", f.Width, f.Height, ErrBadDimensions)
	}
	if f.YStride < f.Width || f.UStride < f.Width/2 || f.VStride < f.Width/2 {
		return fmt.Errorf("strides %d/%d/%d for %dx%d: %w",
			f.YStride, f.UStride, f.VStride, f.Width, f.Height, ErrPlaneSize)
	}
	if len(f.Y) < f.YStride*f.Height {
		return fmt.Errorf("Y plane %d bytes for %dx%d: %w", len(f.Y), f.Width, f.Height, ErrPlaneSize)
	}
	chromaH := f.Height / 2
	if len(f.U) < f.UStride*chromaH {
		return fmt.Errorf("U plane %d bytes for %dx%d: %w", len(f.U), f.Width, f.Height, ErrPlaneSize)
	}
	if len(f.V) < f.VStride*chromaH {
		return fmt.Errorf("V plane %d bytes for %dx%d: %w", len(f.V), f.Width, f.Height, ErrPlaneSize)
	}
	return nil
}
