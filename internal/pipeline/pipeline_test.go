package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"noise-bench/internal/core"
	"noise-bench/internal/denoise"
	"noise-bench/internal/io"
	"noise-bench/internal/noise"
)

// testConfig writes a small colour image into a temp dir and points a
// default config at it
func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	rows, cols := 24, 32
	data := make([]uint8, rows*cols*3)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := (y*cols + x) * 3
			data[i] = uint8(x * 8)
			data[i+1] = uint8(y * 10)
			data[i+2] = uint8((x + y) * 4)
		}
	}
	img, err := core.FromSamples(rows, cols, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	defer img.Close()

	logger, _ := logtest.NewNullLogger()
	input := filepath.Join(dir, "origin.png")
	require.NoError(t, io.NewImageLoader(logger).SaveImage(img, input))

	cfg := DefaultConfig()
	cfg.InputPath = input
	cfg.NoiseDir = filepath.Join(dir, "result", "noiseImg")
	cfg.DenoiseDir = filepath.Join(dir, "result", "denoiseImg")
	return cfg
}

func newTestRunner(cfg Config) (*Runner, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewRunner(cfg, logger), hook
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunWritesFullSweep(t *testing.T) {
	cfg := testConfig(t)
	runner, _ := newTestRunner(cfg)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, 36, report.Written())

	noiseFiles := listDir(t, cfg.NoiseDir)
	require.Len(t, noiseFiles, 6)
	for _, k := range noise.Kinds() {
		assert.Contains(t, noiseFiles, noise.OutputName(k))
	}

	denoiseFiles := listDir(t, cfg.DenoiseDir)
	require.Len(t, denoiseFiles, 30)
	for cell := range Grid(noise.Kinds(), denoise.Methods()) {
		assert.Contains(t, denoiseFiles, cell.OutputName())
	}

	for _, path := range append(report.NoiseWritten, report.DenoiseWritten...) {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), path)

		mat, err := io.DecodeFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, 32, mat.Cols())
		assert.Equal(t, 24, mat.Rows())
		mat.Close()
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	seqCfg := testConfig(t)
	parCfg := testConfig(t)
	parCfg.Workers = 4

	seqRunner, _ := newTestRunner(seqCfg)
	seqReport, err := seqRunner.Run(context.Background())
	require.NoError(t, err)
	parRunner, _ := newTestRunner(parCfg)
	parReport, err := parRunner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, listDir(t, seqCfg.NoiseDir), listDir(t, parCfg.NoiseDir))
	assert.Equal(t, listDir(t, seqCfg.DenoiseDir), listDir(t, parCfg.DenoiseDir))
	assert.Equal(t, len(seqReport.DenoiseWritten), len(parReport.DenoiseWritten))

	for _, k := range noise.Kinds() {
		a, err := os.ReadFile(filepath.Join(seqCfg.NoiseDir, noise.OutputName(k)))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(parCfg.NoiseDir, noise.OutputName(k)))
		require.NoError(t, err)
		assert.Equal(t, a, b, "%v differs between runs", k)
	}
}

func TestRunIsolatesBadNoiseSpec(t *testing.T) {
	cfg := testConfig(t)
	cfg.NoiseSpecs = []noise.Spec{
		noise.GaussianSpec(0, 10),
		noise.RayleighSpec(15),
		noise.GammaSpec(10),
		noise.ExponentialSpec(10),
		noise.UniformAverageSpec(0, 50),
		noise.SaltPepperSpec(0.7, 0.7),
	}
	runner, hook := newTestRunner(cfg)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.NoiseWritten, 5)
	assert.Len(t, report.DenoiseWritten, 25)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, StageNoise, report.Failures[0].Stage)
	assert.Equal(t, noise.SaltPepper, report.Failures[0].Kind)
	assert.ErrorIs(t, report.Err(), core.ErrInvalidParameter)

	assert.NotContains(t, listDir(t, cfg.NoiseDir), noise.OutputName(noise.SaltPepper))
	for _, m := range denoise.Methods() {
		assert.NoFileExists(t, filepath.Join(cfg.DenoiseDir, denoise.OutputName(m, noise.SaltPepper)))
	}

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Data["kind"] == "salt_pepper" {
			logged = true
		}
	}
	assert.True(t, logged, "noise failure was not logged")
}

// listFiles is listDir without subdirectories
func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestRunIsolatesUnwritableDenoiseCell(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Workers = workers

			// a directory in the way makes the final rename fail
			blocked := Cell{Kind: noise.Gaussian, Method: denoise.MedianBlur}
			require.NoError(t, os.MkdirAll(filepath.Join(cfg.DenoiseDir, blocked.OutputName()), 0o755))
			runner, hook := newTestRunner(cfg)

			report, err := runner.Run(context.Background())
			require.NoError(t, err)

			assert.Len(t, report.NoiseWritten, 6)
			assert.Len(t, report.DenoiseWritten, 29)
			require.Len(t, report.Failures, 1)
			f := report.Failures[0]
			assert.Equal(t, StageDenoise, f.Stage)
			assert.Equal(t, blocked.Kind, f.Kind)
			assert.Equal(t, blocked.Method, f.Method)
			assert.ErrorIs(t, report.Err(), core.ErrIOFailure)

			assert.Len(t, listFiles(t, cfg.NoiseDir), 6)
			files := listFiles(t, cfg.DenoiseDir)
			assert.Len(t, files, 29)
			assert.NotContains(t, files, blocked.OutputName())

			var logged bool
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.ErrorLevel && e.Data["kind"] == "gauss" && e.Data["method"] == "medianBlur" {
					logged = true
				}
			}
			assert.True(t, logged, "cell failure was not logged")
		})
	}
}

func TestRunSkipsCellsOfUnwritableNoiseKind(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.NoiseDir, noise.OutputName(noise.Gamma)), 0o755))
	runner, _ := newTestRunner(cfg)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.NoiseWritten, 5)
	assert.Len(t, report.DenoiseWritten, 25)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, StageNoise, report.Failures[0].Stage)
	assert.Equal(t, noise.Gamma, report.Failures[0].Kind)
	assert.ErrorIs(t, report.Err(), core.ErrIOFailure)

	for _, m := range denoise.Methods() {
		assert.NoFileExists(t, filepath.Join(cfg.DenoiseDir, denoise.OutputName(m, noise.Gamma)))
	}
}

func TestRunFatalErrors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.InputPath = filepath.Join(t.TempDir(), "absent.png")
		runner, _ := newTestRunner(cfg)

		report, err := runner.Run(context.Background())
		assert.ErrorIs(t, err, core.ErrDecodeFailure)
		assert.Nil(t, report)
	})

	t.Run("output dir blocked", func(t *testing.T) {
		cfg := testConfig(t)
		blocker := filepath.Join(t.TempDir(), "result")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))
		cfg.NoiseDir = filepath.Join(blocker, "noiseImg")
		runner, _ := newTestRunner(cfg)

		_, err := runner.Run(context.Background())
		assert.ErrorIs(t, err, core.ErrIOFailure)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Workers = 0
		runner, _ := newTestRunner(cfg)

		_, err := runner.Run(context.Background())
		assert.ErrorIs(t, err, core.ErrInvalidParameter)
	})
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	runner, _ := newTestRunner(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Zero(t, report.Written())
	assert.Empty(t, listDir(t, cfg.DenoiseDir))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty input", func(c *Config) { c.InputPath = "" }},
		{"empty output", func(c *Config) { c.DenoiseDir = "" }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"duplicate kind", func(c *Config) { c.NoiseSpecs = append(c.NoiseSpecs, noise.GaussianSpec(1, 1)) }},
		{"unknown kind", func(c *Config) { c.NoiseSpecs = []noise.Spec{{Kind: noise.Kind(12)}} }},
		{"duplicate method", func(c *Config) { c.Methods = []denoise.Method{denoise.MedianBlur, denoise.MedianBlur} }},
		{"unknown method", func(c *Config) { c.Methods = []denoise.Method{denoise.Method(8)} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidParameter)
		})
	}
}
