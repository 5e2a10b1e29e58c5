package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noise-bench/internal/core"
)

func TestDescribeSamples(t *testing.T) {
	// two pixels, BGR
	data := []uint8{10, 100, 0, 30, 100, 255}

	s, err := DescribeSamples(data, 3)
	require.NoError(t, err)
	require.Len(t, s, 3)

	assert.Equal(t, ChannelStats{Mean: 20, StdDev: 10, Min: 10, Max: 30}, s[0])
	assert.Equal(t, ChannelStats{Mean: 100, StdDev: 0, Min: 100, Max: 100}, s[1])
	assert.InDelta(t, 127.5, s[2].Mean, 1e-9)
	assert.Equal(t, []float64{20, 100, 127.5}, s.Means())
}

func TestDescribeSamplesRejectsRaggedInput(t *testing.T) {
	_, err := DescribeSamples([]uint8{1, 2, 3, 4}, 3)
	assert.ErrorIs(t, err, core.ErrInvalidImage)

	_, err = DescribeSamples(nil, 1)
	assert.ErrorIs(t, err, core.ErrInvalidImage)
}

func TestDescribeMat(t *testing.T) {
	mat, err := core.Uniform(4, 4, 3, 128)
	require.NoError(t, err)
	defer mat.Close()

	s, err := Describe(mat)
	require.NoError(t, err)
	for _, c := range s {
		assert.Equal(t, ChannelStats{Mean: 128, Min: 128, Max: 128}, c)
	}

	fields := s.Fields()
	assert.Equal(t, 128.0, fields["ch2_mean"])
	assert.Equal(t, 0.0, fields["ch0_std"])
}
