// Descriptive statistics of 8-bit images
package stats

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"noise-bench/internal/core"
)

// ChannelStats summarizes the samples of one image channel
type ChannelStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary holds per-channel statistics in channel order (BGR for colour images)
type Summary []ChannelStats

// Describe computes per-channel statistics of mat
func Describe(mat gocv.Mat) (Summary, error) {
	data, err := core.Samples(mat)
	if err != nil {
		return nil, err
	}
	return DescribeSamples(data, mat.Channels())
}

// DescribeSamples computes per-channel statistics of interleaved samples
func DescribeSamples(data []uint8, channels int) (Summary, error) {
	if channels <= 0 || len(data) == 0 || len(data)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples with %d channels", core.ErrInvalidImage, len(data), channels)
	}

	pixels := len(data) / channels
	plane := make([]float64, pixels)
	summary := make(Summary, channels)
	for c := 0; c < channels; c++ {
		for i := 0; i < pixels; i++ {
			plane[i] = float64(data[i*channels+c])
		}
		mean, std := stat.PopMeanStdDev(plane, nil)
		summary[c] = ChannelStats{
			Mean:   mean,
			StdDev: std,
			Min:    floats.Min(plane),
			Max:    floats.Max(plane),
		}
	}
	return summary, nil
}

// Means returns the per-channel means
func (s Summary) Means() []float64 {
	means := make([]float64, len(s))
	for i, c := range s {
		means[i] = c.Mean
	}
	return means
}

// Fields flattens the summary for structured logging
func (s Summary) Fields() logrus.Fields {
	fields := make(logrus.Fields, 2*len(s))
	for i, c := range s {
		fields[fmt.Sprintf("ch%d_mean", i)] = round2(c.Mean)
		fields[fmt.Sprintf("ch%d_std", i)] = round2(c.StdDev)
	}
	return fields
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
