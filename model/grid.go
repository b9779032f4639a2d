package model

import (
	"crypto/md5"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfBounds is returned by checked accessors on a bordered grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrShapeMismatch is returned when two grids of different extent are combined.
	ErrShapeMismatch = errors.New("grid shapes differ")
)

// Cell is the state of a single grid position
type Cell bool

const (
	Dead Cell = false
	Live Cell = true
)

func (c Cell) String() string {
	if c {
		return "live"
	}
	return "dead"
}

// Policy selects how the grid treats its edges
type Policy int

const (
	// Wrap connects every edge to the opposite one (torus).
	Wrap Policy = iota
	// Bordered keeps the outermost ring permanently dead.
	Bordered
)

func (p Policy) String() string {
	switch p {
	case Wrap:
		return "wrap"
	case Bordered:
		return "bordered"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a config name onto a Policy
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "wrap", "toroidal", "":
		return Wrap, nil
	case "bordered", "dead":
		return Bordered, nil
	}
	return Wrap, errors.Errorf("[ParsePolicy] unknown boundary policy: %q", name)
}

const historySize = 5

// Grid is a fixed-extent matrix of cells with a boundary policy
type Grid struct {
	rows   int
	cols   int
	policy Policy
	cells  [][]Cell

	history []string // recent hashes for cycle detection
}

// NewGrid creates an all-dead grid. Extents below 1 are raised to 1.
func NewGrid(rows, cols int, policy Policy) *Grid {
	rows, cols = max(rows, 1), max(cols, 1)
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
	}
	return &Grid{
		rows:   rows,
		cols:   cols,
		policy: policy,
		cells:  cells,
	}
}

// Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns
func (g *Grid) Cols() int { return g.cols }

// Policy returns the boundary policy chosen at construction
func (g *Grid) Policy() Policy { return g.policy }

// SameShape reports whether other has the same extent and policy
func (g *Grid) SameShape(other *Grid) bool {
	return other != nil && g.rows == other.rows && g.cols == other.cols && g.policy == other.policy
}

// Clear sets every cell to dead
func (g *Grid) Clear() {
	for r := range g.rows {
		clear(g.cells[r])
	}
	g.history = nil
}

// InBounds reports whether (row, col) lies inside the grid without wrapping
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// resolve applies the boundary policy to a coordinate
func (g *Grid) resolve(row, col int) (int, int, error) {
	if g.policy == Wrap {
		return wrapIndex(row, g.rows), wrapIndex(col, g.cols), nil
	}
	if !g.InBounds(row, col) {
		return 0, 0, errors.Wrapf(ErrOutOfBounds, "(%d,%d) outside %dx%d", row, col, g.rows, g.cols)
	}
	return row, col, nil
}

func wrapIndex(i, n int) int {
	return (i%n + n) % n
}

// Get returns the cell at (row, col)
func (g *Grid) Get(row, col int) (Cell, error) {
	r, c, err := g.resolve(row, col)
	if err != nil {
		return Dead, err
	}
	return g.cells[r][c], nil
}

// Set writes the cell at (row, col)
func (g *Grid) Set(row, col int, state Cell) error {
	r, c, err := g.resolve(row, col)
	if err != nil {
		return err
	}
	g.cells[r][c] = state
	return nil
}

// SetClipped writes the cell only if (row, col) is inside the grid. It never
// wraps, regardless of policy.
func (g *Grid) SetClipped(row, col int, state Cell) bool {
	if !g.InBounds(row, col) {
		return false
	}
	g.cells[row][col] = state
	return true
}

// Alive reports whether the cell is live; coordinates outside the grid are dead
func (g *Grid) Alive(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return bool(g.cells[row][col])
}

// Toggle flips the cell at (row, col) and returns its new state
func (g *Grid) Toggle(row, col int) (Cell, error) {
	r, c, err := g.resolve(row, col)
	if err != nil {
		return Dead, err
	}
	g.cells[r][c] = !g.cells[r][c]
	return g.cells[r][c], nil
}

// CountLiveNeighbors sums the 8-neighborhood of (row, col) under the grid's policy
func (g *Grid) CountLiveNeighbors(row, col int) (count int) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if g.policy == Wrap {
				r, c = wrapIndex(r, g.rows), wrapIndex(c, g.cols)
			} else if !g.InBounds(r, c) {
				continue
			}
			if g.cells[r][c] {
				count++
			}
		}
	}
	return
}

// MergeOr sets every cell that is live in other
func (g *Grid) MergeOr(other *Grid) error {
	if !g.SameShape(other) {
		return errors.Wrapf(ErrShapeMismatch, "[MergeOr] %dx%d vs %dx%d", g.rows, g.cols, other.rows, other.cols)
	}
	for r := range g.rows {
		for c := range g.cols {
			g.cells[r][c] = g.cells[r][c] || other.cells[r][c]
		}
	}
	return nil
}

// CopyFrom overwrites this grid with the cells of other
func (g *Grid) CopyFrom(other *Grid) error {
	if !g.SameShape(other) {
		return errors.Wrapf(ErrShapeMismatch, "[CopyFrom] %dx%d vs %dx%d", g.rows, g.cols, other.rows, other.cols)
	}
	for r := range g.rows {
		copy(g.cells[r], other.cells[r])
	}
	g.history = nil
	return nil
}

// Clone returns an independent copy of the grid, without history
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.rows, g.cols, g.policy)
	for r := range g.rows {
		copy(out.cells[r], g.cells[r])
	}
	return out
}

// ForceDeadBorder kills the outermost ring of a bordered grid
func (g *Grid) ForceDeadBorder() {
	if g.policy != Bordered {
		return
	}
	for c := range g.cols {
		g.cells[0][c] = Dead
		g.cells[g.rows-1][c] = Dead
	}
	for r := range g.rows {
		g.cells[r][0] = Dead
		g.cells[r][g.cols-1] = Dead
	}
}

// CountLivePopulation returns the number of live cells. Not cached.
func (g *Grid) CountLivePopulation() (count int) {
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				count++
			}
		}
	}
	return
}

// LiveCells returns the coordinates of every live cell in row-major order
func (g *Grid) LiveCells() [][2]int {
	var out [][2]int
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				out = append(out, [2]int{r, c})
			}
		}
	}
	return out
}

// Hash returns an MD5 digest of the cell states
func (g *Grid) Hash() string {
	h := md5.New()
	row := make([]byte, g.cols)
	for r := range g.rows {
		for c := range g.cols {
			row[c] = 0
			if g.cells[r][c] {
				row[c] = 1
			}
		}
		h.Write(row)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// UpdateHistory records the current state for stagnation detection
func (g *Grid) UpdateHistory() {
	g.history = append(g.history, g.Hash())
	if len(g.history) > historySize {
		g.history = g.history[1:]
	}
}

// IsStagnant reports whether the current state repeats one of the last three
// recorded states (still life or a period 2-3 oscillator)
func (g *Grid) IsStagnant() bool {
	if len(g.history) < 3 {
		return false
	}
	current := g.Hash()
	for i := 1; i <= 3; i++ {
		if g.history[len(g.history)-i] == current {
			return true
		}
	}
	return false
}

// ResetHistory forgets recorded states
func (g *Grid) ResetHistory() {
	g.history = nil
}

// swapCells exchanges cell storage with other, which must have the same shape
func (g *Grid) swapCells(other *Grid) {
	g.cells, other.cells = other.cells, g.cells
}
