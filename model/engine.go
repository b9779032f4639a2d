package model

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/gol-term/rules"
)

// EngineOptions tunes how a generation is computed
type EngineOptions struct {
	// Parallel splits rows across one worker per CPU. The result is the same
	// as the sequential pass.
	Parallel bool
	Workers  int
}

// Engine advances a grid by one generation using a private scratch buffer
type Engine struct {
	scratch *Grid
	opts    EngineOptions
}

// NewEngine creates an engine for grids of the given shape
func NewEngine(rows, cols int, policy Policy, opts EngineOptions) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Engine{
		scratch: NewGrid(rows, cols, policy),
		opts:    opts,
	}
}

// NewEngineFor creates an engine matching the shape of g
func NewEngineFor(g *Grid, opts EngineOptions) *Engine {
	return NewEngine(g.rows, g.cols, g.policy, opts)
}

// Step replaces g with its next generation. Every cell of the next
// generation is computed from the previous one before the buffers swap.
func (e *Engine) Step(g *Grid) error {
	if !e.scratch.SameShape(g) {
		return errors.Wrapf(ErrShapeMismatch, "[Step] engine %dx%d %s, grid %dx%d %s",
			e.scratch.rows, e.scratch.cols, e.scratch.policy, g.rows, g.cols, g.policy)
	}

	if e.opts.Parallel && e.opts.Workers > 1 {
		if err := e.stepParallel(g); err != nil {
			return err
		}
	} else {
		e.stepRows(g, 0, g.rows)
	}

	g.swapCells(e.scratch)
	return nil
}

// stepRows writes rows [startRow, endRow) of the next generation into scratch
func (e *Engine) stepRows(g *Grid, startRow, endRow int) {
	next := e.scratch.cells
	for r := startRow; r < endRow; r++ {
		for c := range g.cols {
			if g.policy == Bordered && (r == 0 || c == 0 || r == g.rows-1 || c == g.cols-1) {
				next[r][c] = Dead
				continue
			}
			next[r][c] = Cell(rules.ApplyConwayRules(g.CountLiveNeighbors(r, c), bool(g.cells[r][c])))
		}
	}
}

func (e *Engine) stepParallel(g *Grid) error {
	var (
		eg            errgroup.Group
		numWorkers    = e.opts.Workers
		rowsPerWorker = (g.rows + numWorkers - 1) / numWorkers
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, g.rows)
		)
		if startRow >= g.rows {
			break
		}
		eg.Go(func() error {
			e.stepRows(g, startRow, endRow)
			return nil
		})
	}

	return errors.Wrap(eg.Wait(), "[stepParallel] worker failed")
}
