package video

import (
	"image"

	"github.com/sirupsen/logrus"
)

// DiffThreshold is the per-pixel luminance difference above which two
// pixels count as visibly different. Differences at or below it are
// treated as codec or capture noise.
const DiffThreshold = 50

// ImagesMatch compares two still-image files and reports whether they
// show the same picture. The comparison takes the per-channel absolute
// difference, weighs it to luminance, and counts pixels whose
// difference exceeds DiffThreshold; any such pixel makes the images
// differ. Images of different dimensions never match.
func ImagesMatch(srcPath, dstPath string) (bool, error) {
	src, err := ReadImage(srcPath)
	if err != nil {
		return false, err
	}
	dst, err := ReadImage(dstPath)
	if err != nil {
		return false, err
	}

	if !src.Bounds().Size().Eq(dst.Bounds().Size()) {
		logrus.WithFields(logrus.Fields{
			"function": "ImagesMatch",
			"src":      srcPath,
			"dst":      dstPath,
		}).Debug("Image dimensions differ")
		return false, nil
	}

	changed := diffPixels(src, dst)
	logrus.WithFields(logrus.Fields{
		"function": "ImagesMatch",
		"src":      srcPath,
		"dst":      dstPath,
		"changed":  changed,
	}).Debug("Compared images")
	return changed == 0, nil
}

// diffPixels counts pixels whose luminance-weighted channel difference
// exceeds DiffThreshold.
func diffPixels(src, dst image.Image) int {
	srcBounds := src.Bounds()
	dstBounds := dst.Bounds()

	changed := 0
	for y := 0; y < srcBounds.Dy(); y++ {
		for x := 0; x < srcBounds.Dx(); x++ {
			sr, sg, sb, _ := src.At(srcBounds.Min.X+x, srcBounds.Min.Y+y).RGBA()
			dr, dg, db, _ := dst.At(dstBounds.Min.X+x, dstBounds.Min.Y+y).RGBA()

			diffR := absDiff(sr>>8, dr>>8)
			diffG := absDiff(sg>>8, dg>>8)
			diffB := absDiff(sb>>8, db>>8)

			// BT.601 luma weighting of the channel differences.
			gray := (299*diffR + 587*diffG + 114*diffB) / 1000
			if gray > DiffThreshold {
				changed++
			}
		}
	}
	return changed
}

func absDiff(a, b uint32) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
