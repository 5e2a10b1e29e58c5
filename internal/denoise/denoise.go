// Denoise method dispatch
package denoise

import (
	"fmt"

	"gocv.io/x/gocv"

	"noise-bench/internal/core"
)

var filters = [numMethods]Filter{
	MeanBlur:      NewMeanBlurFilter(),
	BoxFilter:     NewBoxAverageFilter(),
	GaussianBlur:  NewGaussianBlurFilter(),
	MedianBlur:    NewMedianBlurFilter(),
	NonLocalMeans: NewNonLocalMeansFilter(),
}

// FilterFor returns the filter that implements m
func FilterFor(m Method) (Filter, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: unknown denoise method %v", core.ErrInvalidParameter, m)
	}
	return filters[m], nil
}

// Denoise applies method m to img. The caller owns the returned Mat.
func Denoise(img gocv.Mat, m Method) (gocv.Mat, error) {
	f, err := FilterFor(m)
	if err != nil {
		return gocv.NewMat(), err
	}

	out, err := f.Apply(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%v: %w", m, err)
	}
	return out, nil
}
