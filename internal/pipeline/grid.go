package pipeline

import (
	"fmt"
	"iter"

	"gocv.io/x/gocv"

	"noise-bench/internal/denoise"
	"noise-bench/internal/noise"
)

// Cell is one (noise kind, denoise method) pairing of the sweep
type Cell struct {
	Kind   noise.Kind
	Method denoise.Method
}

func (c Cell) String() string {
	return fmt.Sprintf("%v/%v", c.Method, c.Kind)
}

// OutputName is the file name of the cell's denoised image
func (c Cell) OutputName() string {
	return denoise.OutputName(c.Method, c.Kind)
}

// Grid yields the Cartesian product of methods and kinds, method-major.
// The sequence is finite and may be ranged over any number of times.
func Grid(kinds []noise.Kind, methods []denoise.Method) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for _, m := range methods {
			for _, k := range kinds {
				if !yield(Cell{Kind: k, Method: m}) {
					return
				}
			}
		}
	}
}

// CellResult is a denoised image for one cell. The consumer owns Image and
// must Close it; Image is empty when Err is set.
type CellResult struct {
	Cell
	Image gocv.Mat
	Err   error
}

// Evaluate lazily denoises every cell whose noised image is available.
// Nothing is computed until the sequence is ranged over, and stopping early
// skips the remaining cells.
func Evaluate(noised map[noise.Kind]gocv.Mat, kinds []noise.Kind, methods []denoise.Method) iter.Seq[CellResult] {
	return func(yield func(CellResult) bool) {
		for cell := range Grid(kinds, methods) {
			src, ok := noised[cell.Kind]
			if !ok {
				continue
			}
			img, err := denoiseCell(src, cell)
			if !yield(CellResult{Cell: cell, Image: img, Err: err}) {
				return
			}
		}
	}
}

// denoiseCell turns a panic in the native layer into an error
func denoiseCell(src gocv.Mat, cell Cell) (out gocv.Mat, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = gocv.NewMat()
			err = fmt.Errorf("panic in %v: %v", cell, r)
		}
	}()
	return denoise.Denoise(src, cell.Method)
}
