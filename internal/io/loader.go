// Image loading and conversion for display
package io

import (
	"fmt"
	"image"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var supportedExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// ImageLoader handles image file operations
type ImageLoader struct {
	logger logrus.FieldLogger
}

func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		logger: logger,
	}
}

// SupportedExtensions returns the file extensions accepted by LoadImage
func SupportedExtensions() []string {
	return slices.Clone(supportedExtensions)
}

// IsSupported reports whether the path has a readable image extension
func IsSupported(path string) bool {
	return slices.Contains(supportedExtensions, strings.ToLower(filepath.Ext(path)))
}

func (il *ImageLoader) LoadImage(path string) (gocv.Mat, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if !IsSupported(path) {
		return gocv.NewMat(), fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("failed to load image: %s", path)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image loaded successfully")

	return mat, nil
}

// ToImage converts a Mat for display. Single-channel Mats are expanded to
// BGR first so the result always has color.RGBA pixels.
func ToImage(mat gocv.Mat) (image.Image, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("cannot convert empty image")
	}

	if mat.Channels() == 1 {
		bgr := gocv.NewMat()
		defer bgr.Close()
		if err := gocv.CvtColor(mat, &bgr, gocv.ColorGrayToBGR); err != nil {
			return nil, fmt.Errorf("convert gray image: %w", err)
		}
		return bgr.ToImage()
	}

	return mat.ToImage()
}
