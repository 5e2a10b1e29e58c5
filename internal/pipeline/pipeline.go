// Noise synthesis and denoise evaluation sweep
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"noise-bench/internal/io"
	"noise-bench/internal/noise"
	"noise-bench/internal/stats"
)

// Runner executes the sweep described by a Config
type Runner struct {
	cfg    Config
	logger logrus.FieldLogger
	loader *io.ImageLoader
}

func NewRunner(cfg Config, logger logrus.FieldLogger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logger,
		loader: io.NewImageLoader(logger),
	}
}

// Run loads the input, persists every noised image and every denoised grid
// cell. Configuration, directory and decode errors abort the sweep; errors in
// a single noise kind or cell are recorded in the report and skipped.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	for _, dir := range []string{r.cfg.NoiseDir, r.cfg.DenoiseDir} {
		if err := r.loader.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	src, err := r.loader.LoadImage(r.cfg.InputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	r.logger.WithFields(logrus.Fields{
		"noise_kinds": len(r.cfg.NoiseSpecs),
		"methods":     len(r.cfg.Methods),
		"workers":     r.cfg.Workers,
		"seed":        r.cfg.Seed,
	}).Info("PIPELINE: Starting sweep")

	report := &Report{}
	noised := r.synthesizeAll(ctx, src, report)
	defer func() {
		for _, m := range noised {
			m.Close()
		}
	}()

	kinds := make([]noise.Kind, 0, len(r.cfg.NoiseSpecs))
	for _, spec := range r.cfg.NoiseSpecs {
		kinds = append(kinds, spec.Kind)
	}

	if r.cfg.Workers == 1 {
		r.evaluateSequential(ctx, noised, kinds, report)
	} else {
		r.evaluateParallel(ctx, noised, kinds, report)
	}
	report.sort()

	r.logger.WithFields(logrus.Fields{
		"noise_written":   len(report.NoiseWritten),
		"denoise_written": len(report.DenoiseWritten),
		"failures":        len(report.Failures),
		"duration_ms":     time.Since(start).Milliseconds(),
	}).Info("PIPELINE: Sweep completed")

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("sweep interrupted: %w", err)
	}
	return report, nil
}

// synthesizeAll corrupts src once per noise spec and persists each result.
// A kind that fails to synthesize or persist is missing from the returned map.
func (r *Runner) synthesizeAll(ctx context.Context, src gocv.Mat, report *Report) map[noise.Kind]gocv.Mat {
	results := make([]gocv.Mat, len(r.cfg.NoiseSpecs))
	ok := make([]bool, len(r.cfg.NoiseSpecs))

	wg := sizedwaitgroup.New(r.cfg.Workers)
	for i, spec := range r.cfg.NoiseSpecs {
		if ctx.Err() != nil {
			break
		}
		wg.Add()
		go func() {
			defer wg.Done()
			img, err := r.synthesizeOne(src, spec)
			if err != nil {
				r.logger.WithFields(logrus.Fields{
					"kind":  spec.Kind.String(),
					"spec":  spec.String(),
					"error": err,
				}).Error("PIPELINE: Noise synthesis failed, skipping its cells")
				report.addFailure(Failure{Stage: StageNoise, Kind: spec.Kind, Err: err})
				return
			}

			// a kind whose noise file is missing has no cells either
			path := filepath.Join(r.cfg.NoiseDir, noise.OutputName(spec.Kind))
			if err := r.persist(img, path, logrus.Fields{"kind": spec.Kind.String()}); err != nil {
				img.Close()
				report.addFailure(Failure{Stage: StageNoise, Kind: spec.Kind, Err: err})
				return
			}
			report.addNoise(path)
			results[i], ok[i] = img, true
		}()
	}
	wg.Wait()

	noised := make(map[noise.Kind]gocv.Mat, len(results))
	for i, spec := range r.cfg.NoiseSpecs {
		if ok[i] {
			noised[spec.Kind] = results[i]
		}
	}
	return noised
}

// synthesizeOne runs one noise model on its own seeded stream
func (r *Runner) synthesizeOne(src gocv.Mat, spec noise.Spec) (out gocv.Mat, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = gocv.NewMat()
			err = fmt.Errorf("panic in %v: %v", spec, rec)
		}
	}()

	syn := noise.NewSynthesizer(kindSeed(r.cfg.Seed, spec.Kind), r.cfg.Degenerate)
	return syn.Synthesize(src, spec)
}

// kindSeed derives an independent stream per noise kind
func kindSeed(seed uint64, k noise.Kind) uint64 {
	return seed*0x100000001b3 + uint64(k) + 1
}

func (r *Runner) evaluateSequential(ctx context.Context, noised map[noise.Kind]gocv.Mat, kinds []noise.Kind, report *Report) {
	for res := range Evaluate(noised, kinds, r.cfg.Methods) {
		r.record(res, report)
		res.Image.Close()
		if ctx.Err() != nil {
			r.logger.Warn("PIPELINE: Sweep cancelled, remaining cells skipped")
			return
		}
	}
}

func (r *Runner) evaluateParallel(ctx context.Context, noised map[noise.Kind]gocv.Mat, kinds []noise.Kind, report *Report) {
	wg := sizedwaitgroup.New(r.cfg.Workers)
	for cell := range Grid(kinds, r.cfg.Methods) {
		src, ok := noised[cell.Kind]
		if !ok {
			continue
		}
		if ctx.Err() != nil {
			r.logger.Warn("PIPELINE: Sweep cancelled, remaining cells skipped")
			break
		}

		wg.Add()
		go func() {
			defer wg.Done()
			img, err := denoiseCell(src, cell)
			r.record(CellResult{Cell: cell, Image: img, Err: err}, report)
			img.Close()
		}()
	}
	wg.Wait()
}

// record persists one cell result or files its failure
func (r *Runner) record(res CellResult, report *Report) {
	fields := logrus.Fields{
		"kind":   res.Kind.String(),
		"method": res.Method.String(),
	}

	if res.Err != nil {
		r.logger.WithFields(fields).WithError(res.Err).Error("PIPELINE: Denoise failed, skipping cell")
		report.addFailure(Failure{Stage: StageDenoise, Kind: res.Kind, Method: res.Method, Err: res.Err})
		return
	}

	path := filepath.Join(r.cfg.DenoiseDir, res.OutputName())
	if err := r.persist(res.Image, path, fields); err != nil {
		report.addFailure(Failure{Stage: StageDenoise, Kind: res.Kind, Method: res.Method, Err: err})
		return
	}
	report.addDenoise(path)
}

func (r *Runner) persist(img gocv.Mat, path string, fields logrus.Fields) error {
	if err := r.loader.SaveImage(img, path); err != nil {
		r.logger.WithFields(fields).WithError(err).Error("PIPELINE: Failed to persist image")
		return err
	}

	if summary, err := stats.Describe(img); err == nil {
		r.logger.WithFields(fields).WithFields(summary.Fields()).Debug("PIPELINE: Image statistics")
	}
	return nil
}
