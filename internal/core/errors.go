// Error kinds shared across the bench
package core

import "errors"

var (
	// ErrInvalidParameter reports noise or denoise parameters outside their domain
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidImage reports an image that is empty or has an unsupported shape
	ErrInvalidImage = errors.New("invalid image")

	// ErrDecodeFailure reports an unreadable input image
	ErrDecodeFailure = errors.New("decode failure")

	// ErrIOFailure reports a directory or file write failure
	ErrIOFailure = errors.New("io failure")

	// ErrDegenerateImage reports a constant perturbed image that cannot be min-max normalized
	ErrDegenerateImage = errors.New("degenerate image: max equals min")
)
