package video

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStill renders a uniform frame to a PNG and returns its path.
func writeStill(t *testing.T, dir, name string, width, height int, y byte) string {
	t.Helper()
	frame := uniformFrame(t, width, height, y, 128, 128)
	path := filepath.Join(dir, name)
	require.NoError(t, WriteImage(frame, path, 0, 0))
	return path
}

func TestImagesMatchIdenticalFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeStill(t, dir, "a.png", 16, 16, 100)
	b := writeStill(t, dir, "b.png", 16, 16, 100)

	match, err := ImagesMatch(a, b)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = ImagesMatch(a, a)
	require.NoError(t, err)
	assert.True(t, match, "a file always matches itself")
}

func TestImagesMatchToleratesSmallDifferences(t *testing.T) {
	dir := t.TempDir()
	a := writeStill(t, dir, "a.png", 16, 16, 100)
	b := writeStill(t, dir, "b.png", 16, 16, 120)

	// A 20-level shift sits under the visibility threshold.
	match, err := ImagesMatch(a, b)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestImagesMatchFlagsVisibleDifferences(t *testing.T) {
	dir := t.TempDir()
	a := writeStill(t, dir, "a.png", 16, 16, 100)
	b := writeStill(t, dir, "b.png", 16, 16, 180)

	match, err := ImagesMatch(a, b)
	require.NoError(t, err)
	assert.False(t, match, "an 80-level shift must register as a change")
}

func TestImagesMatchDimensionMismatchIsUnequal(t *testing.T) {
	dir := t.TempDir()
	a := writeStill(t, dir, "a.png", 16, 16, 100)
	b := writeStill(t, dir, "b.png", 32, 16, 100)

	match, err := ImagesMatch(a, b)
	require.NoError(t, err, "differing sizes are a verdict, not an error")
	assert.False(t, match)
}

func TestImagesMatchMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := writeStill(t, dir, "a.png", 8, 8, 100)

	_, err := ImagesMatch(a, filepath.Join(dir, "absent.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = ImagesMatch(filepath.Join(dir, "absent.png"), a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestImagesMatchAcrossFormats(t *testing.T) {
	dir := t.TempDir()
	frame := uniformFrame(t, 16, 16, 100, 128, 128)

	jpgPath := filepath.Join(dir, "a.jpg")
	pngPath := filepath.Join(dir, "b.png")
	require.NoError(t, WriteImage(frame, jpgPath, 0, 0))
	require.NoError(t, WriteImage(frame, pngPath, 0, 0))

	// JPEG at maximum quality stays well inside the noise tolerance.
	match, err := ImagesMatch(jpgPath, pngPath)
	require.NoError(t, err)
	assert.True(t, match)
}
