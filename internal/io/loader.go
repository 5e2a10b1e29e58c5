// Image loading and saving functionality
package io

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"noise-bench/internal/core"
)

// ImageLoader handles image file operations
type ImageLoader struct {
	logger logrus.FieldLogger
}

func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		logger: logger,
	}
}

// LoadImage decodes a colour image from disk
func (il *ImageLoader) LoadImage(path string) (gocv.Mat, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if !isSupportedImageFormat(path) {
		return gocv.NewMat(), fmt.Errorf("%w: unsupported image format: %s", core.ErrDecodeFailure, path)
	}

	if _, err := os.Stat(path); err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", core.ErrDecodeFailure, err)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("%w: failed to load image: %s", core.ErrDecodeFailure, path)
	}

	if err := core.ValidateImage(mat); err != nil {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("%w: %v", core.ErrDecodeFailure, err)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image loaded successfully")

	return mat, nil
}

// SaveImage encodes mat by the extension of path and writes it atomically:
// the file either appears complete or not at all.
func (il *ImageLoader) SaveImage(mat gocv.Mat, path string) error {
	il.logger.WithField("filepath", path).Debug("Saving image")

	if mat.Empty() {
		return fmt.Errorf("%w: cannot save empty image", core.ErrIOFailure)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !isSupportedImageFormat(path) {
		return fmt.Errorf("%w: unsupported image format: %s", core.ErrIOFailure, path)
	}

	buf, err := gocv.IMEncode(gocv.FileExt(ext), mat)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", core.ErrIOFailure, path, err)
	}
	defer buf.Close()

	if err := writeAtomic(path, buf.GetBytes()); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIOFailure, err)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image saved successfully")

	return nil
}

// EnsureDir creates dir and any missing parents
func (il *ImageLoader) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIOFailure, err)
	}
	return nil
}

// DecodeFile reads and decodes an image file unchanged
func DecodeFile(path string) (gocv.Mat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", core.ErrDecodeFailure, err)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %s: %v", core.ErrDecodeFailure, path, err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("%w: cannot decode %s", core.ErrDecodeFailure, path)
	}
	return mat, nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func isSupportedImageFormat(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp":
		return true
	}
	return false
}

// SupportedFormats lists the file formats LoadImage and SaveImage accept
func SupportedFormats() []string {
	return []string{"JPEG", "PNG", "TIFF", "BMP"}
}
