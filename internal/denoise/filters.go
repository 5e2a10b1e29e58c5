// Filter adapters for noise reduction
package denoise

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"noise-bench/internal/core"
)

// WindowSize is the linear size of every local filter window
const WindowSize = 5

// Filter is a denoise capability over 8-bit images
type Filter interface {
	Apply(input gocv.Mat) (gocv.Mat, error)
	GetName() string
	GetDescription() string
}

// MeanBlurFilter implements an unweighted local average
type MeanBlurFilter struct {
	ksize image.Point
}

// NewMeanBlurFilter creates a mean blur over a WindowSize x WindowSize window
func NewMeanBlurFilter() *MeanBlurFilter {
	return &MeanBlurFilter{ksize: image.Pt(WindowSize, WindowSize)}
}

func (f *MeanBlurFilter) Apply(input gocv.Mat) (gocv.Mat, error) {
	if err := core.ValidateImage(input); err != nil {
		return gocv.NewMat(), err
	}

	output := gocv.NewMat()
	err := gocv.Blur(input, &output, f.ksize)
	return checked(f, output, err)
}

func (f *MeanBlurFilter) GetName() string {
	return "Mean Blur"
}

func (f *MeanBlurFilter) GetDescription() string {
	return "Unweighted local average"
}

// BoxAverageFilter implements a normalized box average. Output matches
// MeanBlurFilter; both are kept so the two OpenCV entry points can be compared.
type BoxAverageFilter struct {
	ksize image.Point
}

// NewBoxAverageFilter creates a normalized box filter keeping the input depth
func NewBoxAverageFilter() *BoxAverageFilter {
	return &BoxAverageFilter{ksize: image.Pt(WindowSize, WindowSize)}
}

func (f *BoxAverageFilter) Apply(input gocv.Mat) (gocv.Mat, error) {
	if err := core.ValidateImage(input); err != nil {
		return gocv.NewMat(), err
	}

	// depth -1 keeps CV_8U
	output := gocv.NewMat()
	err := gocv.BoxFilter(input, &output, -1, f.ksize)
	return checked(f, output, err)
}

func (f *BoxAverageFilter) GetName() string {
	return "Box Filter"
}

func (f *BoxAverageFilter) GetDescription() string {
	return "Normalized box average"
}

// GaussianBlurFilter implements a Gaussian-weighted window
type GaussianBlurFilter struct {
	ksize image.Point
}

// NewGaussianBlurFilter creates a Gaussian blur whose sigma is derived from the window size
func NewGaussianBlurFilter() *GaussianBlurFilter {
	return &GaussianBlurFilter{ksize: image.Pt(WindowSize, WindowSize)}
}

func (f *GaussianBlurFilter) Apply(input gocv.Mat) (gocv.Mat, error) {
	if err := core.ValidateImage(input); err != nil {
		return gocv.NewMat(), err
	}

	// sigma 0 lets OpenCV derive it from ksize
	output := gocv.NewMat()
	err := gocv.GaussianBlur(input, &output, f.ksize, 0, 0, gocv.BorderDefault)
	return checked(f, output, err)
}

func (f *GaussianBlurFilter) GetName() string {
	return "Gaussian Blur"
}

func (f *GaussianBlurFilter) GetDescription() string {
	return "Gaussian blur for general noise reduction"
}

// MedianBlurFilter implements a local median
type MedianBlurFilter struct {
	ksize int
}

// NewMedianBlurFilter creates a median filter of linear size WindowSize
func NewMedianBlurFilter() *MedianBlurFilter {
	return &MedianBlurFilter{ksize: WindowSize}
}

func (f *MedianBlurFilter) Apply(input gocv.Mat) (gocv.Mat, error) {
	if err := core.ValidateImage(input); err != nil {
		return gocv.NewMat(), err
	}

	output := gocv.NewMat()
	err := gocv.MedianBlur(input, &output, f.ksize)
	return checked(f, output, err)
}

func (f *MedianBlurFilter) GetName() string {
	return "Median Blur"
}

func (f *MedianBlurFilter) GetDescription() string {
	return "Median filter to remove salt-and-pepper noise"
}

// NonLocalMeansFilter implements patch-similarity weighted denoising with
// the library default strength and window sizes
type NonLocalMeansFilter struct{}

func NewNonLocalMeansFilter() *NonLocalMeansFilter {
	return &NonLocalMeansFilter{}
}

func (f *NonLocalMeansFilter) Apply(input gocv.Mat) (gocv.Mat, error) {
	if err := core.ValidateImage(input); err != nil {
		return gocv.NewMat(), err
	}

	output := gocv.NewMat()
	switch input.Channels() {
	case 1:
		gocv.FastNlMeansDenoising(input, &output)
	case 3:
		gocv.FastNlMeansDenoisingColored(input, &output)
	default:
		output.Close()
		return f.perChannel(input)
	}
	return checked(f, output, nil)
}

// perChannel denoises each plane of a 2- or 4-channel image on its own
func (f *NonLocalMeansFilter) perChannel(input gocv.Mat) (gocv.Mat, error) {
	planes := gocv.Split(input)
	defer func() {
		for _, p := range planes {
			p.Close()
		}
	}()

	denoised := make([]gocv.Mat, 0, len(planes))
	defer func() {
		for _, p := range denoised {
			p.Close()
		}
	}()
	for _, plane := range planes {
		out := gocv.NewMat()
		gocv.FastNlMeansDenoising(plane, &out)
		denoised = append(denoised, out)
	}

	output := gocv.NewMat()
	err := gocv.Merge(denoised, &output)
	return checked(f, output, err)
}

func (f *NonLocalMeansFilter) GetName() string {
	return "Non-Local Means"
}

func (f *NonLocalMeansFilter) GetDescription() string {
	return "Patch-similarity weighted denoising over the whole image"
}

// checked wraps a failed OpenCV call and rejects an empty result
func checked(f Filter, output gocv.Mat, err error) (gocv.Mat, error) {
	if err != nil {
		output.Close()
		return gocv.NewMat(), fmt.Errorf("%s failed: %w", f.GetName(), err)
	}
	if output.Empty() {
		output.Close()
		return gocv.NewMat(), fmt.Errorf("%s returned an empty image", f.GetName())
	}
	return output, nil
}
