package denoise

import (
	"fmt"

	"noise-bench/internal/core"
)

// Method identifies one of the denoise filters under evaluation
type Method int

const (
	MeanBlur Method = iota
	BoxFilter
	GaussianBlur
	MedianBlur
	NonLocalMeans

	numMethods
)

var methodNames = [numMethods]string{
	MeanBlur:      "meanBlur",
	BoxFilter:     "boxFilter",
	GaussianBlur:  "GaussianBlur",
	MedianBlur:    "medianBlur",
	NonLocalMeans: "NonLocalMeans",
}

// String returns the token used in output file names
func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Valid reports whether m is one of the declared methods
func (m Method) Valid() bool {
	return m >= 0 && m < numMethods
}

// Methods returns every denoise method in sweep order
func Methods() []Method {
	methods := make([]Method, 0, numMethods)
	for m := Method(0); m < numMethods; m++ {
		methods = append(methods, m)
	}
	return methods
}

// ParseMethod maps a file-name token back to its Method
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown denoise method %q", core.ErrInvalidParameter, name)
}

// OutputName returns the file name of a denoised image for the given noise
// kind token, e.g. "medianBlur_gauss_denoiseImg.jpg"
func OutputName(m Method, kind fmt.Stringer) string {
	return m.String() + "_" + kind.String() + "_denoiseImg.jpg"
}
