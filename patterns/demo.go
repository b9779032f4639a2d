package patterns

import "github.com/sheikhrachel/gol-term/model"

type placement struct {
	id       ID
	row, col int
}

var demoSet = []placement{
	{Pulsar, 2, 2},
	{Beacon, 4, 22},
	{Boat, 10, 23},
	{PentaDecathlon, 4, 30},
	{LWSS, 20, 15},
}

// SeedDemo clears g and stamps the demonstration pattern set
func SeedDemo(g *model.Grid) {
	g.Clear()
	for _, pl := range demoSet {
		Stamp(builtin[pl.id], g, pl.row, pl.col)
	}
}

// SeedBanner clears g and stamps the title lettering
func SeedBanner(g *model.Grid) {
	g.Clear()
	Stamp(builtin[Banner], g, 6, 2)
}
