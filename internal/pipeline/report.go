package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"noise-bench/internal/denoise"
	"noise-bench/internal/noise"
)

// Stage names the phase of the sweep a failure happened in
type Stage string

const (
	StageNoise   Stage = "noise"
	StageDenoise Stage = "denoise"
)

// Failure records one isolated error; the rest of the sweep continues
type Failure struct {
	Stage  Stage
	Kind   noise.Kind
	Method denoise.Method // unset for StageNoise
	Err    error
}

func (f Failure) Error() string {
	if f.Stage == StageNoise {
		return fmt.Sprintf("%s %v: %v", f.Stage, f.Kind, f.Err)
	}
	return fmt.Sprintf("%s %v/%v: %v", f.Stage, f.Method, f.Kind, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report lists what a sweep wrote and what it skipped
type Report struct {
	mu sync.Mutex

	NoiseWritten   []string
	DenoiseWritten []string
	Failures       []Failure
}

func (r *Report) addNoise(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.NoiseWritten = append(r.NoiseWritten, path)
}

func (r *Report) addDenoise(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DenoiseWritten = append(r.DenoiseWritten, path)
}

func (r *Report) addFailure(f Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, f)
}

// sort orders the lists so parallel runs report like sequential ones
func (r *Report) sort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	sort.Strings(r.NoiseWritten)
	sort.Strings(r.DenoiseWritten)
	sort.SliceStable(r.Failures, func(i, j int) bool {
		a, b := r.Failures[i], r.Failures[j]
		if a.Stage != b.Stage {
			return a.Stage == StageNoise
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.Kind < b.Kind
	})
}

// Written returns the total number of files persisted
func (r *Report) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.NoiseWritten) + len(r.DenoiseWritten)
}

// Err joins every failure, or returns nil for a clean sweep
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
