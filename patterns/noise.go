package patterns

import (
	"slices"

	perlin "github.com/aquilax/go-perlin"

	"github.com/sheikhrachel/gol-term/model"
)

// NoiseOptions controls FillNoise
type NoiseOptions struct {
	Density float64 // fraction of cells to bring to life, 0..1
	Seed    int64
	Scale   float64 // grid cells per noise unit
}

const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 3
	noiseScale  = 6.0
)

// FillNoise brings to life the Density fraction of cells where 2D perlin
// noise is highest. Existing live cells are kept. It returns the number of
// cells written.
func FillNoise(g *model.Grid, opts NoiseOptions) int {
	if opts.Density <= 0 {
		return 0
	}
	if opts.Scale <= 0 {
		opts.Scale = noiseScale
	}

	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, opts.Seed)
	rows, cols := g.Rows(), g.Cols()
	field := make([]float64, rows*cols)
	for r := range rows {
		for c := range cols {
			field[r*cols+c] = p.Noise2D(float64(c)/opts.Scale, float64(r)/opts.Scale)
		}
	}

	count := int(opts.Density * float64(len(field)))
	if count <= 0 {
		return 0
	}
	count = min(count, len(field))
	sorted := slices.Clone(field)
	slices.Sort(sorted)
	threshold := sorted[len(sorted)-count]

	written := 0
	for i, v := range field {
		if v >= threshold && written < count {
			g.SetClipped(i/cols, i%cols, model.Live)
			written++
		}
	}
	return written
}
