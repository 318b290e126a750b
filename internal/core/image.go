// Source image holder shared by the loader and the preview
package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// ImageData owns the currently loaded source image
type ImageData struct {
	mu       sync.Mutex
	source   gocv.Mat
	path     string
	metadata ImageMetadata
}

// ImageMetadata contains image information
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Format   string
}

func NewImageData() *ImageData {
	return &ImageData{source: gocv.NewMat()}
}

// SetSource validates mat and takes ownership of it, releasing the previous
// image. On error the caller keeps ownership.
func (img *ImageData) SetSource(mat gocv.Mat, path string) error {
	if err := ValidateImage(mat); err != nil {
		return err
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	img.source.Close()
	img.source = mat
	img.path = path
	img.metadata = ImageMetadata{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Format:   formatFromPath(path),
	}
	return nil
}

func (img *ImageData) HasImage() bool {
	img.mu.Lock()
	defer img.mu.Unlock()
	return !img.source.Empty()
}

func (img *ImageData) Path() string {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.path
}

func (img *ImageData) Metadata() ImageMetadata {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.metadata
}

// WithSource runs fn on the source image while holding the lock. fn must
// not retain the Mat.
func (img *ImageData) WithSource(fn func(gocv.Mat) error) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.source.Empty() {
		return fmt.Errorf("no image loaded")
	}
	return fn(img.source)
}

// Close releases the source image
func (img *ImageData) Close() {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.source.Close()
	img.source = gocv.NewMat()
	img.path = ""
	img.metadata = ImageMetadata{}
}

func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

// ValidateImage validates an OpenCV Mat for basic requirements
func ValidateImage(mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("image is empty")
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", mat.Cols(), mat.Rows())
	}

	channels := mat.Channels()
	if channels != 1 && channels != 3 && channels != 4 {
		return fmt.Errorf("unsupported channel count: %d", channels)
	}

	const maxDimension = 16384
	if mat.Cols() > maxDimension || mat.Rows() > maxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", mat.Cols(), mat.Rows(), maxDimension)
	}

	return nil
}
