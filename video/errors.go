package video

import "errors"

var (
	// ErrNilFrame indicates a nil frame was passed where a frame is
	// required.
	ErrNilFrame = errors.New("frame is nil")

	// ErrBadDimensions indicates frame dimensions that are zero,
	// negative, or odd where YUV420 requires even values.
	ErrBadDimensions = errors.New("invalid frame dimensions")

	// ErrPlaneSize indicates a frame whose plane buffers do not match
	// its declared dimensions.
	ErrPlaneSize = errors.New("plane buffer does not match frame dimensions")

	// ErrUnsupportedVideo indicates a capture file whose format is not
	// recognized by any reader.
	ErrUnsupportedVideo = errors.New("unsupported video file format")

	// ErrBadImageFormat indicates a still-image format name other than
	// jpg, jpeg, or png.
	ErrBadImageFormat = errors.New("unsupported image format")

	// ErrMalformedVideo indicates a capture file that starts like a
	// known format but violates it partway through.
	ErrMalformedVideo = errors.New("malformed video file")

	// ErrNoFrame indicates a stream grab window that closed before a
	// complete frame arrived.
	ErrNoFrame = errors.New("no complete frame received from stream")
)
