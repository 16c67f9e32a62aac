package video

import "fmt"

// Scaler resizes YUV420 frames between resolutions.
//
// Scaling uses bilinear interpolation per plane, which keeps smooth
// gradients intact when producing thumbnails or normalizing captured
// frames to a comparison resolution.
type Scaler struct{}

// NewScaler creates a frame scaler.
func NewScaler() *Scaler {
	return &Scaler{}
}

// Scale resizes frame to the given dimensions. Both target dimensions
// must be positive and even so the chroma planes stay half-resolution.
// Scaling to the source dimensions returns a copy.
func (s *Scaler) Scale(frame *Frame, targetWidth, targetHeight int) (*Frame, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	if targetWidth <= 0 || targetHeight <= 0 || targetWidth%2 != 0 || targetHeight%2 != 0 {
		return nil, fmt.Errorf("target %dx%d: %w", targetWidth, targetHeight, ErrBadDimensions)
	}

	if frame.Width == targetWidth && frame.Height == targetHeight {
		return frame.Clone(), nil
	}

	result, err := NewFrame(targetWidth, targetHeight)
	if err != nil {
		return nil, err
	}

	s.scalePlane(frame.Y, frame.Width, frame.Height, frame.YStride,
		result.Y, targetWidth, targetHeight, result.YStride)

	srcChromaW := frame.Width / 2
	srcChromaH := frame.Height / 2
	dstChromaW := targetWidth / 2
	dstChromaH := targetHeight / 2
	s.scalePlane(frame.U, srcChromaW, srcChromaH, frame.UStride,
		result.U, dstChromaW, dstChromaH, result.UStride)
	s.scalePlane(frame.V, srcChromaW, srcChromaH, frame.VStride,
		result.V, dstChromaW, dstChromaH, result.VStride)

	return result, nil
}

// scalePlane interpolates a single plane. Buffers are assumed validated
// by Scale.
func (s *Scaler) scalePlane(src []byte, srcWidth, srcHeight, srcStride int,
	dst []byte, dstWidth, dstHeight, dstStride int) {

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := 0; y < dstHeight; y++ {
		for x := 0; x < dstWidth; x++ {
			srcX := float64(x) * xRatio
			srcY := float64(y) * yRatio

			x1 := int(srcX)
			y1 := int(srcY)
			x2 := x1 + 1
			y2 := y1 + 1
			if x2 >= srcWidth {
				x2 = srcWidth - 1
			}
			if y2 >= srcHeight {
				y2 = srcHeight - 1
			}

			fx := srcX - float64(x1)
			fy := srcY - float64(y1)

			p11 := float64(src[y1*srcStride+x1])
			p12 := float64(src[y1*srcStride+x2])
			p21 := float64(src[y2*srcStride+x1])
			p22 := float64(src[y2*srcStride+x2])

			top := p11*(1-fx) + p12*fx
			bottom := p21*(1-fx) + p22*fx
			dst[y*dstStride+x] = byte(top*(1-fy) + bottom*fy + 0.5)
		}
	}
}

// IsScalingRequired reports whether the source and target dimensions
// differ.
func (s *Scaler) IsScalingRequired(srcWidth, srcHeight, dstWidth, dstHeight int) bool {
	return srcWidth != dstWidth || srcHeight != dstHeight
}
