package patterns

import (
	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-term/model"
)

// ErrInvalidSelection is returned for unknown pattern ids and menu indexes
var ErrInvalidSelection = errors.New("invalid selection")

// ID names a pattern in the catalog
type ID string

const (
	Pulsar         ID = "pulsar"
	PentaDecathlon ID = "penta-decathlon"
	LWSS           ID = "lwss"
	Beacon         ID = "beacon"
	Boat           ID = "boat"
	RPentomino     ID = "r-pentomino"
	Glider         ID = "glider"
	Toad           ID = "toad"
	Blinker        ID = "blinker"

	// Banner is the title-screen lettering; it is not part of the edit menu.
	Banner ID = "banner"
)

// Pattern is an immutable stencil of live (1) and dead (0) cells
type Pattern struct {
	id     ID
	name   string
	height int
	width  int
	cells  []uint8
}

func newPattern(id ID, name string, rows [][]uint8) Pattern {
	p := Pattern{id: id, name: name, height: len(rows)}
	if p.height > 0 {
		p.width = len(rows[0])
	}
	p.cells = make([]uint8, 0, p.height*p.width)
	for _, row := range rows {
		p.cells = append(p.cells, row...)
	}
	return p
}

// ID returns the catalog identifier
func (p Pattern) ID() ID { return p.id }

// Name returns the display name
func (p Pattern) Name() string { return p.name }

// Height returns the number of stencil rows
func (p Pattern) Height() int { return p.height }

// Width returns the number of stencil columns
func (p Pattern) Width() int { return p.width }

// At reports whether stencil cell (i, j) is live
func (p Pattern) At(i, j int) bool {
	if i < 0 || i >= p.height || j < 0 || j >= p.width {
		return false
	}
	return p.cells[i*p.width+j] == 1
}

// Cells returns a copy of the stencil, row by row
func (p Pattern) Cells() [][]bool {
	out := make([][]bool, p.height)
	for i := range out {
		out[i] = make([]bool, p.width)
		for j := range out[i] {
			out[i][j] = p.cells[i*p.width+j] == 1
		}
	}
	return out
}

// Population counts the live cells of the stencil
func (p Pattern) Population() (n int) {
	for _, v := range p.cells {
		n += int(v)
	}
	return
}

// Stamp writes live cells of p into g with its top-left corner at
// (anchorRow, anchorCol). Cells falling outside g are clipped, never wrapped,
// and cells dead in the stencil leave g untouched. It returns the number of
// cells written.
func Stamp(p Pattern, g *model.Grid, anchorRow, anchorCol int) (written int) {
	for i := range p.height {
		for j := range p.width {
			if p.cells[i*p.width+j] != 1 {
				continue
			}
			if g.SetClipped(anchorRow+i, anchorCol+j, model.Live) {
				written++
			}
		}
	}
	return
}

// Catalog is an ordered registry of patterns
type Catalog struct {
	order []Pattern
	byID  map[ID]Pattern
}

// NewCatalog builds a catalog in the given menu order
func NewCatalog(ps ...Pattern) *Catalog {
	c := &Catalog{byID: make(map[ID]Pattern, len(ps))}
	for _, p := range ps {
		if _, dup := c.byID[p.id]; dup {
			continue
		}
		c.order = append(c.order, p)
		c.byID[p.id] = p
	}
	return c
}

var builtin = map[ID]Pattern{
	Pulsar:         newPattern(Pulsar, "Pulsar", pulsar),
	PentaDecathlon: newPattern(PentaDecathlon, "Penta-decathlon", pentaDecathlon),
	LWSS:           newPattern(LWSS, "LWSS", lwss),
	Beacon:         newPattern(Beacon, "Beacon", beacon),
	Boat:           newPattern(Boat, "Boat", boat),
	RPentomino:     newPattern(RPentomino, "R-pentomino", rPentomino),
	Glider:         newPattern(Glider, "Glider", glider),
	Toad:           newPattern(Toad, "Toad", toad),
	Blinker:        newPattern(Blinker, "Blinker", blinker),
	Banner:         newPattern(Banner, "Game of Life", banner),
}

// Builtin returns one of the predefined patterns, including the banner
func Builtin(id ID) (Pattern, error) {
	p, ok := builtin[id]
	if !ok {
		return Pattern{}, errors.Wrapf(ErrInvalidSelection, "[Builtin] unknown pattern: %q", id)
	}
	return p, nil
}

// Default returns the edit menu catalog
func Default() *Catalog {
	ids := []ID{Pulsar, PentaDecathlon, LWSS, Beacon, Boat, RPentomino, Glider, Toad, Blinker}
	ps := make([]Pattern, 0, len(ids))
	for _, id := range ids {
		ps = append(ps, builtin[id])
	}
	return NewCatalog(ps...)
}

// Len returns the number of patterns in the catalog
func (c *Catalog) Len() int { return len(c.order) }

// Patterns returns the patterns in menu order
func (c *Catalog) Patterns() []Pattern {
	return append([]Pattern(nil), c.order...)
}

// Lookup finds a pattern by id
func (c *Catalog) Lookup(id ID) (Pattern, error) {
	p, ok := c.byID[id]
	if !ok {
		return Pattern{}, errors.Wrapf(ErrInvalidSelection, "[Lookup] pattern %q not in catalog", id)
	}
	return p, nil
}

// At returns the pattern at a 1-based menu index
func (c *Catalog) At(index int) (Pattern, error) {
	if index < 1 || index > len(c.order) {
		return Pattern{}, errors.Wrapf(ErrInvalidSelection, "[At] index %d outside 1..%d", index, len(c.order))
	}
	return c.order[index-1], nil
}

// Stamp looks up id and stamps it onto g at (row, col)
func (c *Catalog) Stamp(id ID, g *model.Grid, row, col int) error {
	p, err := c.Lookup(id)
	if err != nil {
		return err
	}
	Stamp(p, g, row, col)
	return nil
}
