package video

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// JPEGQuality is the encoder quality used for JPEG stills. Comparison
// steps read these files back, so compression loss is kept minimal.
const JPEGQuality = 100

// ToImage wraps a frame's planes in an image.YCbCr without copying.
// The returned image shares memory with the frame.
func ToImage(frame *Frame) (*image.YCbCr, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	return &image.YCbCr{
		Y:              frame.Y,
		Cb:             frame.U,
		Cr:             frame.V,
		YStride:        frame.YStride,
		CStride:        frame.UStride,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, frame.Width, frame.Height),
	}, nil
}

// FromImage converts a decoded image into a YUV420 frame. Odd trailing
// rows and columns are cropped so the chroma planes subsample cleanly.
func FromImage(img image.Image) (*Frame, error) {
	if img == nil {
		return nil, ErrNilFrame
	}
	bounds := img.Bounds()
	width := bounds.Dx() &^ 1
	height := bounds.Dy() &^ 1
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%dx%d image: %w", bounds.Dx(), bounds.Dy(), ErrBadDimensions)
	}

	if ycbcr, ok := img.(*image.YCbCr); ok && ycbcr.SubsampleRatio == image.YCbCrSubsampleRatio420 {
		return fromYCbCr420(ycbcr, width, height)
	}

	frame, err := NewFrame(width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			yy, cb, cr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			frame.Y[y*frame.YStride+x] = yy
			// Chroma is taken from the top-left pixel of each 2x2 block.
			if y%2 == 0 && x%2 == 0 {
				ci := (y/2)*frame.UStride + x/2
				frame.U[ci] = cb
				frame.V[ci] = cr
			}
		}
	}
	return frame, nil
}

// fromYCbCr420 copies a 4:2:0 image's planes row by row, honoring the
// source strides.
func fromYCbCr420(img *image.YCbCr, width, height int) (*Frame, error) {
	frame, err := NewFrame(width, height)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	for y := 0; y < height; y++ {
		srcOff := img.YOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(frame.Y[y*frame.YStride:(y+1)*frame.YStride], img.Y[srcOff:srcOff+width])
	}
	chromaW := width / 2
	chromaH := height / 2
	for y := 0; y < chromaH; y++ {
		srcOff := img.COffset(bounds.Min.X, bounds.Min.Y+2*y)
		copy(frame.U[y*frame.UStride:y*frame.UStride+chromaW], img.Cb[srcOff:srcOff+chromaW])
		copy(frame.V[y*frame.VStride:y*frame.VStride+chromaW], img.Cr[srcOff:srcOff+chromaW])
	}
	return frame, nil
}

// WriteImage encodes a frame as a still image file. The format comes
// from the file extension (.jpg, .jpeg, or .png). When width and height
// are positive and differ from the frame's, the frame is scaled first;
// zero values keep the native size. Parent directories are created as
// needed.
func WriteImage(frame *Frame, path string, width, height int) error {
	if err := frame.Validate(); err != nil {
		return err
	}

	out := frame
	if width > 0 && height > 0 && (width != frame.Width || height != frame.Height) {
		scaled, err := NewScaler().Scale(frame, width, height)
		if err != nil {
			return fmt.Errorf("scale for %s: %w", path, err)
		}
		out = scaled
	}

	img, err := ToImage(out)
	if err != nil {
		return err
	}

	var encode func(*os.File) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		encode = func(f *os.File) error {
			return jpeg.Encode(f, img, &jpeg.Options{Quality: JPEGQuality})
		}
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	default:
		return fmt.Errorf("%s: %w", path, ErrBadImageFormat)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "WriteImage",
		"path":     path,
		"width":    out.Width,
		"height":   out.Height,
	}).Debug("Wrote still image")
	return f.Close()
}

// ReadImage decodes a still image file. JPEG and PNG are understood.
func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
