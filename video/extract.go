package video

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// normalizeImageFormat canonicalizes a still-image format name. A
// leading dot and mixed case are tolerated.
func normalizeImageFormat(format string) (string, error) {
	cleaned := strings.ToLower(strings.TrimPrefix(format, "."))
	switch cleaned {
	case "jpg", "jpeg", "png":
		return cleaned, nil
	default:
		return "", fmt.Errorf("%q: %w", format, ErrBadImageFormat)
	}
}

// CountFrames returns the number of frames in a capture file.
func CountFrames(path string) (int, error) {
	src, err := OpenVideoFile(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	count := 0
	for {
		if _, err := src.Next(); err != nil {
			if err == io.EOF {
				break
			}
			return count, fmt.Errorf("frame %d of %s: %w", count+1, path, err)
		}
		count++
	}

	logrus.WithFields(logrus.Fields{
		"function": "CountFrames",
		"path":     path,
		"frames":   count,
	}).Debug("Counted capture frames")
	return count, nil
}

// ExtractFrames writes every frame of a capture file as a numbered
// still image (frame_0000, frame_0001, ...) in the given format. An
// empty outputDir means the current directory; it is created when
// missing. The paths of the written images are returned in frame
// order.
func ExtractFrames(path, format, outputDir string) ([]string, error) {
	ext, err := normalizeImageFormat(format)
	if err != nil {
		return nil, err
	}
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outputDir, err)
	}

	src, err := OpenVideoFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var written []string
	for {
		frame, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, fmt.Errorf("frame %d of %s: %w", len(written)+1, path, err)
		}

		name := filepath.Join(outputDir, fmt.Sprintf("frame_%04d.%s", len(written), ext))
		if err := WriteImage(frame, name, 0, 0); err != nil {
			return written, err
		}
		written = append(written, name)
	}

	logrus.WithFields(logrus.Fields{
		"function": "ExtractFrames",
		"path":     path,
		"dir":      outputDir,
		"frames":   len(written),
	}).Info("Extracted capture frames")
	return written, nil
}

// RemoveFrameFiles deletes every file with the given image format
// extension from dir. An empty dir means the current directory, which
// must exist. Individual deletions that fail are logged and skipped;
// the count of removed files is returned.
func RemoveFrameFiles(format, dir string) (int, error) {
	ext, err := normalizeImageFormat(format)
	if err != nil {
		return 0, err
	}
	if dir == "" {
		dir = "."
	}
	if _, err := os.Stat(dir); err != nil {
		return 0, fmt.Errorf("frame directory: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*."+ext))
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}

	removed := 0
	for _, name := range matches {
		if err := os.Remove(name); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "RemoveFrameFiles",
				"file":     name,
				"error":    err,
			}).Warn("Could not delete frame file")
			continue
		}
		removed++
	}

	logrus.WithFields(logrus.Fields{
		"function": "RemoveFrameFiles",
		"dir":      dir,
		"removed":  removed,
	}).Debug("Removed frame files")
	return removed, nil
}
