package noise

import (
	"fmt"
	"math"

	"noise-bench/internal/core"
)

// Spec is an immutable description of one noise model and its parameters.
// Only the fields relevant to Kind are read.
type Spec struct {
	Kind Kind

	Mean  float64 // gaussian mu, uniform-average mean
	Sigma float64 // gaussian sigma, uniform-average variance parameter
	Scale float64 // rayleigh a, gamma scale, exponential scale

	SaltProb   float64
	PepperProb float64
}

func GaussianSpec(mu, sigma float64) Spec {
	return Spec{Kind: Gaussian, Mean: mu, Sigma: sigma}
}

func RayleighSpec(a float64) Spec {
	return Spec{Kind: Rayleigh, Scale: a}
}

// GammaSpec uses a fixed shape of 1
func GammaSpec(scale float64) Spec {
	return Spec{Kind: Gamma, Scale: scale}
}

func ExponentialSpec(scale float64) Spec {
	return Spec{Kind: Exponential, Scale: scale}
}

func UniformAverageSpec(mean, sigma float64) Spec {
	return Spec{Kind: UniformAverage, Mean: mean, Sigma: sigma}
}

func SaltPepperSpec(ps, pp float64) Spec {
	return Spec{Kind: SaltPepper, SaltProb: ps, PepperProb: pp}
}

// DefaultSpecs returns the fixed parameters of the evaluation sweep, one per kind
func DefaultSpecs() []Spec {
	return []Spec{
		GaussianSpec(0, 10),
		RayleighSpec(15),
		GammaSpec(10),
		ExponentialSpec(10),
		UniformAverageSpec(0, 50),
		SaltPepperSpec(0.01, 0.01),
	}
}

// UniformBounds returns the support [a, b] of the uniform-average model.
// b - a is always 2*sqrt(12*sigma).
func UniformBounds(mean, sigma float64) (a, b float64) {
	half := math.Sqrt(12 * sigma)
	return 2*mean - half, 2*mean + half
}

// Validate checks the parameters of the selected kind
func (s Spec) Validate() error {
	switch s.Kind {
	case Gaussian:
		if !finite(s.Mean) {
			return invalid(s, "mu must be finite, got %v", s.Mean)
		}
		if !finite(s.Sigma) || s.Sigma < 0 {
			return invalid(s, "sigma must be >= 0, got %v", s.Sigma)
		}
	case Rayleigh, Gamma, Exponential:
		if !finite(s.Scale) || s.Scale <= 0 {
			return invalid(s, "scale must be > 0, got %v", s.Scale)
		}
	case UniformAverage:
		if !finite(s.Mean) {
			return invalid(s, "mean must be finite, got %v", s.Mean)
		}
		if !finite(s.Sigma) || s.Sigma < 0 {
			return invalid(s, "sigma must be >= 0, got %v", s.Sigma)
		}
	case SaltPepper:
		if !finite(s.SaltProb) || s.SaltProb < 0 || s.SaltProb > 1 {
			return invalid(s, "salt probability must be in [0,1], got %v", s.SaltProb)
		}
		if !finite(s.PepperProb) || s.PepperProb < 0 || s.PepperProb > 1 {
			return invalid(s, "pepper probability must be in [0,1], got %v", s.PepperProb)
		}
		if s.SaltProb+s.PepperProb > 1 {
			return invalid(s, "salt + pepper probability must be <= 1, got %v", s.SaltProb+s.PepperProb)
		}
	default:
		return fmt.Errorf("%w: unknown noise kind %v", core.ErrInvalidParameter, s.Kind)
	}
	return nil
}

func (s Spec) String() string {
	switch s.Kind {
	case Gaussian:
		return fmt.Sprintf("%v(mu=%g, sigma=%g)", s.Kind, s.Mean, s.Sigma)
	case Rayleigh:
		return fmt.Sprintf("%v(a=%g)", s.Kind, s.Scale)
	case Gamma, Exponential:
		return fmt.Sprintf("%v(scale=%g)", s.Kind, s.Scale)
	case UniformAverage:
		return fmt.Sprintf("%v(mean=%g, sigma=%g)", s.Kind, s.Mean, s.Sigma)
	case SaltPepper:
		return fmt.Sprintf("%v(ps=%g, pp=%g)", s.Kind, s.SaltProb, s.PepperProb)
	}
	return s.Kind.String()
}

func invalid(s Spec, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v: %s", core.ErrInvalidParameter, s.Kind, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
