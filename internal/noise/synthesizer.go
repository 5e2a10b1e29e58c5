// Noise synthesis over 8-bit images
package noise

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat/distuv"

	"noise-bench/internal/core"
)

// Synthesizer draws noise from a private random source. It is not safe for
// concurrent use; create one per goroutine.
type Synthesizer struct {
	src    rand.Source
	policy DegeneratePolicy
}

// NewSynthesizer creates a synthesizer seeded for reproducible output
func NewSynthesizer(seed uint64, policy DegeneratePolicy) *Synthesizer {
	return &Synthesizer{
		src:    rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		policy: policy,
	}
}

// Synthesize returns a corrupted copy of img. The input is never modified and
// the output has the same rows, cols and type.
func (s *Synthesizer) Synthesize(img gocv.Mat, spec Spec) (gocv.Mat, error) {
	if err := spec.Validate(); err != nil {
		return gocv.NewMat(), err
	}

	samples, err := core.Samples(img)
	if err != nil {
		return gocv.NewMat(), err
	}
	meta := core.MetadataOf(img)

	var out []uint8
	if spec.Kind == SaltPepper {
		out = s.saltPepper(samples, meta.Channels, spec.SaltProb, spec.PepperProb)
	} else {
		out, err = s.additive(samples, s.sampler(spec))
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("%v: %w", spec, err)
		}
	}

	return core.FromSamples(meta.Height, meta.Width, meta.Type, out)
}

// sampler maps an additive spec to its distribution
func (s *Synthesizer) sampler(spec Spec) interface{ Rand() float64 } {
	switch spec.Kind {
	case Gaussian:
		return distuv.Normal{Mu: spec.Mean, Sigma: spec.Sigma, Src: s.src}
	case Rayleigh:
		// Rayleigh(a) is Weibull with shape 2 and scale a*sqrt(2)
		return distuv.Weibull{K: 2, Lambda: spec.Scale * math.Sqrt2, Src: s.src}
	case Gamma:
		// gonum parameterizes by rate
		return distuv.Gamma{Alpha: 1, Beta: 1 / spec.Scale, Src: s.src}
	case Exponential:
		return distuv.Exponential{Rate: 1 / spec.Scale, Src: s.src}
	case UniformAverage:
		a, b := UniformBounds(spec.Mean, spec.Sigma)
		return distuv.Uniform{Min: a, Max: b, Src: s.src}
	}
	panic(fmt.Sprintf("noise: no additive sampler for %v", spec.Kind))
}

// additive adds one i.i.d. draw per sample and normalizes the result
func (s *Synthesizer) additive(samples []uint8, dist interface{ Rand() float64 }) ([]uint8, error) {
	perturbed := make([]float64, len(samples))
	for i, v := range samples {
		perturbed[i] = float64(v) + dist.Rand()
	}

	out := make([]uint8, len(samples))
	if err := NormalizeQuantize(perturbed, out, s.policy); err != nil {
		return nil, err
	}
	return out, nil
}

// saltPepper draws one label per pixel and applies it to every channel.
// Labels are pepper, unchanged and salt with probabilities pp, 1-ps-pp and ps.
func (s *Synthesizer) saltPepper(samples []uint8, channels int, ps, pp float64) []uint8 {
	u := distuv.Uniform{Min: 0, Max: 1, Src: s.src}
	unchanged := pp + math.Max(0, 1-ps-pp)

	out := make([]uint8, len(samples))
	copy(out, samples)
	for px := 0; px < len(out); px += channels {
		var v uint8
		switch r := u.Rand(); {
		case r < pp:
			v = 0
		case r < unchanged:
			continue
		default:
			v = 255
		}
		for c := 0; c < channels; c++ {
			out[px+c] = v
		}
	}
	return out
}
