// Image shape helpers over gocv.Mat
package core

import (
	"fmt"

	"gocv.io/x/gocv"
)

// maxDimension keeps pathological inputs from exhausting memory
const maxDimension = 16384

// ImageMetadata contains image information
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Type     gocv.MatType
}

// MetadataOf reads the shape of an OpenCV Mat
func MetadataOf(mat gocv.Mat) ImageMetadata {
	return ImageMetadata{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Type:     mat.Type(),
	}
}

// Samples returns the number of 8-bit samples (height * width * channels)
func (m ImageMetadata) Samples() int {
	return m.Width * m.Height * m.Channels
}

// Pixels returns the number of pixels (height * width)
func (m ImageMetadata) Pixels() int {
	return m.Width * m.Height
}

func (m ImageMetadata) String() string {
	return fmt.Sprintf("%dx%dx%d", m.Height, m.Width, m.Channels)
}

// ValidateImage validates an OpenCV Mat as an 8-bit HxWxC image
func ValidateImage(mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("%w: image is empty", ErrInvalidImage)
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("%w: invalid dimensions: %dx%d", ErrInvalidImage, mat.Cols(), mat.Rows())
	}

	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC2, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return fmt.Errorf("%w: unsupported mat type %v, want 8-bit unsigned with 1-4 channels", ErrInvalidImage, mat.Type())
	}

	if mat.Cols() > maxDimension || mat.Rows() > maxDimension {
		return fmt.Errorf("%w: image too large: %dx%d (max: %d)", ErrInvalidImage, mat.Cols(), mat.Rows(), maxDimension)
	}

	return nil
}

// SameShape reports whether two Mats have identical rows, cols and type
func SameShape(a, b gocv.Mat) bool {
	return a.Rows() == b.Rows() && a.Cols() == b.Cols() && a.Type() == b.Type()
}

// Samples copies the interleaved row-major HWC samples of an 8-bit Mat
func Samples(mat gocv.Mat) ([]uint8, error) {
	if err := ValidateImage(mat); err != nil {
		return nil, err
	}

	src := mat
	if !mat.IsContinuous() {
		src = mat.Clone()
		defer src.Close()
	}

	data := src.ToBytes()
	if want := MetadataOf(mat).Samples(); len(data) != want {
		return nil, fmt.Errorf("%w: got %d samples, want %d", ErrInvalidImage, len(data), want)
	}
	return data, nil
}

// FromSamples builds a new Mat owning a copy of data
func FromSamples(rows, cols int, typ gocv.MatType, data []uint8) (gocv.Mat, error) {
	view, err := gocv.NewMatFromBytes(rows, cols, typ, data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer view.Close()

	// NewMatFromBytes may alias the Go slice; detach before returning
	return view.Clone(), nil
}

// MatTypeFor returns the 8-bit unsigned Mat type with the given channel count
func MatTypeFor(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1, nil
	case 2:
		return gocv.MatTypeCV8UC2, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	case 4:
		return gocv.MatTypeCV8UC4, nil
	}
	return gocv.MatTypeCV8UC1, fmt.Errorf("%w: unsupported channel count: %d", ErrInvalidImage, channels)
}

// Uniform returns a rows x cols x channels image with every sample set to v
func Uniform(rows, cols, channels int, v uint8) (gocv.Mat, error) {
	typ, err := MatTypeFor(channels)
	if err != nil {
		return gocv.NewMat(), err
	}
	data := make([]uint8, rows*cols*channels)
	for i := range data {
		data[i] = v
	}
	return FromSamples(rows, cols, typ, data)
}
