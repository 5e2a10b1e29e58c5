package noise

import (
	"fmt"

	"noise-bench/internal/core"
)

// Kind identifies one of the statistical corruption models
type Kind int

const (
	Gaussian Kind = iota
	Rayleigh
	Gamma
	Exponential
	UniformAverage
	SaltPepper

	numKinds
)

var kindNames = [numKinds]string{
	Gaussian:       "gauss",
	Rayleigh:       "rayleigh",
	Gamma:          "gamma",
	Exponential:    "exponent",
	UniformAverage: "average",
	SaltPepper:     "salt_pepper",
}

// String returns the token used in output file names
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// Additive reports whether the model perturbs samples additively and is
// therefore followed by normalize-and-quantize
func (k Kind) Additive() bool {
	return k.Valid() && k != SaltPepper
}

// Kinds returns every noise kind in sweep order
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind maps a file-name token back to its Kind
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown noise kind %q", core.ErrInvalidParameter, name)
}

// OutputName returns the file name a noised image of this kind is stored under
func OutputName(k Kind) string {
	return k.String() + "_noiseImg.jpg"
}
