package pipeline

import (
	"fmt"

	"noise-bench/internal/core"
	"noise-bench/internal/denoise"
	"noise-bench/internal/noise"
)

// Config describes one evaluation sweep
type Config struct {
	// InputPath is the source image
	InputPath string
	// NoiseDir receives {kind}_noiseImg.jpg
	NoiseDir string
	// DenoiseDir receives {method}_{kind}_denoiseImg.jpg
	DenoiseDir string

	// Seed makes noise synthesis reproducible. Each noise kind derives its
	// own stream from it, so output does not depend on Workers.
	Seed uint64
	// Workers bounds the number of grid cells processed at once; 1 is fully sequential
	Workers int

	Degenerate noise.DegeneratePolicy

	NoiseSpecs []noise.Spec
	Methods    []denoise.Method
}

// DefaultConfig returns the fixed sweep: six noise kinds by five methods
func DefaultConfig() Config {
	return Config{
		InputPath:  "./origin.png",
		NoiseDir:   "./result/noiseImg",
		DenoiseDir: "./result/denoiseImg",
		Seed:       1,
		Workers:    1,
		Degenerate: noise.DegenerateZero,
		NoiseSpecs: noise.DefaultSpecs(),
		Methods:    denoise.Methods(),
	}
}

// Validate checks the configuration before any file is touched
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is empty", core.ErrInvalidParameter)
	}
	if c.NoiseDir == "" || c.DenoiseDir == "" {
		return fmt.Errorf("%w: output directories must be set", core.ErrInvalidParameter)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", core.ErrInvalidParameter, c.Workers)
	}

	seen := make(map[noise.Kind]bool, len(c.NoiseSpecs))
	for _, spec := range c.NoiseSpecs {
		if !spec.Kind.Valid() {
			return fmt.Errorf("%w: unknown noise kind %v", core.ErrInvalidParameter, spec.Kind)
		}
		if seen[spec.Kind] {
			// two specs of one kind would write the same file
			return fmt.Errorf("%w: duplicate noise kind %v", core.ErrInvalidParameter, spec.Kind)
		}
		seen[spec.Kind] = true
	}

	methods := make(map[denoise.Method]bool, len(c.Methods))
	for _, m := range c.Methods {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown denoise method %v", core.ErrInvalidParameter, m)
		}
		if methods[m] {
			return fmt.Errorf("%w: duplicate denoise method %v", core.ErrInvalidParameter, m)
		}
		methods[m] = true
	}
	return nil
}
