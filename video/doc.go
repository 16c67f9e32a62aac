// Package video provides frame access, conversion, and comparison for
// recorded and streamed test video.
//
// This package implements the video side of the keyword library: reading
// frames out of capture files, decoding single frames from MJPEG network
// streams, converting frames to still images, and comparing images for
// pass/fail verdicts.
//
// # Video Frames
//
// Frames are represented in planar YUV420 format, the layout produced by
// capture tooling and expected by most codecs:
//
//	frame := &video.Frame{
//	    Width:  640,
//	    Height: 480,
//	    Y:      yPlane, // luminance, full resolution
//	    U:      uPlane, // chrominance U, half resolution
//	    V:      vPlane, // chrominance V, half resolution
//	}
//
// # Frame Sources
//
// A FrameSource yields frames one at a time until io.EOF. OpenVideoFile
// selects a reader from the file extension; YUV4MPEG2 (.y4m) capture
// files and concatenated-JPEG (.mjpeg, .mjpg) recordings are supported:
//
//	src, err := video.OpenVideoFile("capture.y4m")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	for {
//	    frame, err := src.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    // use frame
//	}
//
// # Extraction
//
// CountFrames and ExtractFrames walk a capture file; extraction writes
// sequentially numbered still images (frame_0000.jpg, frame_0001.jpg,
// ...) that later comparison steps consume. RemoveFrameFiles cleans a
// directory of those images between test cases.
//
// # Stream Grabs
//
// GrabFrame assembles a single JPEG out of an MJPEG datagram stream and
// returns it as a decoded frame. It reads from any DatagramReader, which
// the transport package's receive socket satisfies.
//
// # Image Comparison
//
// ImagesMatch compares two image files the way a human tester would
// judge a screenshot: per-pixel absolute luminance difference with a
// tolerance that forgives codec noise but flags visible changes.
//
// # Scaling
//
// The Scaler resizes frames with bilinear interpolation when a target
// resolution is requested during image conversion:
//
//	scaler := video.NewScaler()
//	scaled, err := scaler.Scale(frame, 1280, 720)
//
// # Thread Safety
//
// Types in this package are NOT thread-safe. Use one FrameSource or
// Scaler per goroutine, or add external synchronization.
package video
