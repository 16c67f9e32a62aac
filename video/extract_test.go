package video

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeCapture drops a synthesized Y4M file into dir and returns its
// path.
func writeCapture(t *testing.T, dir string, frames int) string {
	t.Helper()
	path := filepath.Join(dir, "capture.y4m")
	if err := os.WriteFile(path, buildY4M(16, 16, frames), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCountFrames(t *testing.T) {
	dir := t.TempDir()

	for _, frames := range []int{0, 1, 5} {
		path := filepath.Join(dir, fmt.Sprintf("c%d.y4m", frames))
		if err := os.WriteFile(path, buildY4M(8, 8, frames), 0o644); err != nil {
			t.Fatal(err)
		}
		count, err := CountFrames(path)
		if err != nil {
			t.Fatalf("CountFrames(%d frames): %v", frames, err)
		}
		if count != frames {
			t.Errorf("CountFrames = %d, want %d", count, frames)
		}
	}
}

func TestCountFramesMissingFile(t *testing.T) {
	_, err := CountFrames(filepath.Join(t.TempDir(), "absent.y4m"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}

	_, err = CountFrames(filepath.Join(t.TempDir(), "capture.avi"))
	if !errors.Is(err, ErrUnsupportedVideo) {
		t.Errorf("error = %v, want ErrUnsupportedVideo", err)
	}
}

func TestExtractFramesWritesNumberedStills(t *testing.T) {
	dir := t.TempDir()
	capture := writeCapture(t, dir, 3)
	outDir := filepath.Join(dir, "frames")

	written, err := ExtractFrames(capture, "png", outDir)
	if err != nil {
		t.Fatalf("ExtractFrames: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("wrote %d frames, want 3", len(written))
	}

	for i, path := range written {
		want := filepath.Join(outDir, fmt.Sprintf("frame_%04d.png", i))
		if path != want {
			t.Errorf("frame %d path = %s, want %s", i, path, want)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("frame %d missing on disk: %v", i, err)
		}
	}
}

func TestExtractFramesRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	capture := writeCapture(t, dir, 1)

	_, err := ExtractFrames(capture, "tiff", dir)
	if !errors.Is(err, ErrBadImageFormat) {
		t.Errorf("error = %v, want ErrBadImageFormat", err)
	}

	// A leading dot and upper case are tolerated.
	if _, err := ExtractFrames(capture, ".JPG", dir); err != nil {
		t.Errorf("format .JPG should normalize: %v", err)
	}
}

func TestRemoveFrameFiles(t *testing.T) {
	dir := t.TempDir()
	capture := writeCapture(t, dir, 2)

	if _, err := ExtractFrames(capture, "jpg", dir); err != nil {
		t.Fatal(err)
	}
	// An unrelated file with a different extension must survive.
	keep := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := RemoveFrameFiles("jpg", dir)
	if err != nil {
		t.Fatalf("RemoveFrameFiles: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed %d files, want 2", removed)
	}

	if _, err := os.Stat(keep); err != nil {
		t.Error("cleanup should not touch other extensions")
	}
	leftovers, err := filepath.Glob(filepath.Join(dir, "*.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("leftover frame files: %v", leftovers)
	}
}

func TestRemoveFrameFilesMissingDirectory(t *testing.T) {
	_, err := RemoveFrameFiles("jpg", filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}

	_, err = RemoveFrameFiles("exe", t.TempDir())
	if !errors.Is(err, ErrBadImageFormat) {
		t.Errorf("error = %v, want ErrBadImageFormat", err)
	}
}
