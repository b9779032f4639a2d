package model

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedExchange is returned when an exchange file cannot be read back
var ErrMalformedExchange = errors.New("malformed grid exchange data")

// WriteExchange writes the interior of g (every cell but the outer ring) as
// rows of '0'/'1' digits, one row per line, followed by the full row count
// and column count on their own lines. Grids without an interior are written
// whole.
func WriteExchange(w io.Writer, g *Grid) error {
	r0, c0, h, w0 := exchangeBody(g, true)
	bw := bufio.NewWriter(w)
	line := make([]byte, w0+1)
	line[w0] = '\n'
	for r := r0; r < r0+h; r++ {
		for c := range w0 {
			line[c] = '0'
			if g.cells[r][c0+c] {
				line[c] = '1'
			}
		}
		if _, err := bw.Write(line); err != nil {
			return errors.Wrap(err, "[WriteExchange] failed to write row")
		}
	}
	if _, err := bw.WriteString(strconv.Itoa(g.rows) + "\n" + strconv.Itoa(g.cols)); err != nil {
		return errors.Wrap(err, "[WriteExchange] failed to write dimensions")
	}
	return errors.Wrap(bw.Flush(), "[WriteExchange] failed to flush")
}

// exchangeBody returns the origin and extent of the block of cells carried
// in an exchange file
func exchangeBody(g *Grid, interior bool) (r0, c0, h, w int) {
	if interior && g.rows > 2 && g.cols > 2 {
		return 1, 1, g.rows - 2, g.cols - 2
	}
	return 0, 0, g.rows, g.cols
}

// ReadExchange loads the digits read from r into g. The body is either the
// interior written by WriteExchange or the whole grid; the width of the
// first row tells them apart. The trailing dimension lines are optional,
// but when present they must match g. An interior body leaves the outer
// ring of a wrapping grid as it was. The ring of a bordered grid is always
// dead afterwards.
func ReadExchange(r io.Reader, g *Grid) error {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r ")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "[ReadExchange] failed to scan input")
	}
	if len(lines) == 0 {
		return errors.Wrap(ErrMalformedExchange, "[ReadExchange] empty input")
	}

	r0, c0, h, w := exchangeBody(g, true)
	if len(lines[0]) == g.cols {
		r0, c0, h, w = exchangeBody(g, false)
	} else if len(lines[0]) != w {
		return errors.Wrapf(ErrMalformedExchange, "[ReadExchange] first row has %d cells for a %dx%d grid", len(lines[0]), g.rows, g.cols)
	}

	switch len(lines) {
	case h:
	case h + 2:
		if err := checkDimension(lines[h], g.rows, "rows"); err != nil {
			return err
		}
		if err := checkDimension(lines[h+1], g.cols, "cols"); err != nil {
			return err
		}
	default:
		return errors.Wrapf(ErrMalformedExchange, "[ReadExchange] got %d lines for a %dx%d body", len(lines), h, w)
	}

	next := g.Clone()
	for row, line := range lines[:h] {
		if len(line) != w {
			return errors.Wrapf(ErrMalformedExchange, "[ReadExchange] row %d has %d cells, want %d", row, len(line), w)
		}
		for col := range w {
			switch line[col] {
			case '0':
				next.cells[r0+row][c0+col] = Dead
			case '1':
				next.cells[r0+row][c0+col] = Live
			default:
				return errors.Wrapf(ErrMalformedExchange, "[ReadExchange] row %d col %d: unexpected %q", row, col, line[col])
			}
		}
	}
	next.ForceDeadBorder()
	g.swapCells(next)
	g.history = nil
	return nil
}

func checkDimension(line string, want int, name string) error {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return errors.Wrapf(ErrMalformedExchange, "[ReadExchange] %s line %q is not a number", name, line)
	}
	if n != want {
		return errors.Wrapf(ErrMalformedExchange, "[ReadExchange] %s = %d, want %d", name, n, want)
	}
	return nil
}
