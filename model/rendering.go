package model

import "strings"

const (
	gridPosLive   = "[]"
	gridPosDead   = "  "
	gridPosCursor = "><"
)

// FrameRenderer turns a grid into the text of one terminal frame
type FrameRenderer struct {
	Live   string
	Dead   string
	Cursor string
}

// NewFrameRenderer returns a renderer using two columns per cell
func NewFrameRenderer() *FrameRenderer {
	return &FrameRenderer{Live: gridPosLive, Dead: gridPosDead, Cursor: gridPosCursor}
}

// Position is a (row, col) coordinate on a grid
type Position struct {
	Row int
	Col int
}

// Render draws every row of g followed by a newline
func (r *FrameRenderer) Render(g *Grid) string {
	return r.render(g, nil)
}

// RenderWithCursor draws g and marks the cursor cell
func (r *FrameRenderer) RenderWithCursor(g *Grid, cursor Position) string {
	return r.render(g, &cursor)
}

func (r *FrameRenderer) render(g *Grid, cursor *Position) string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols*len(r.Live) + 1))
	for row := range g.rows {
		for col := range g.cols {
			switch {
			case cursor != nil && cursor.Row == row && cursor.Col == col:
				b.WriteString(r.Cursor)
			case bool(g.cells[row][col]):
				b.WriteString(r.Live)
			default:
				b.WriteString(r.Dead)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
