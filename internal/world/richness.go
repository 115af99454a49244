// Treasure richness field using simplex noise.
// The torus has no edges, so the field must tile in both axes: each grid
// axis is mapped onto a circle and the noise is sampled in 4D, which makes
// the field seamlessly periodic.
package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// RichnessField assigns each cell a deterministic richness value in [0,1].
// The spawner concentrates treasure, and biases its tier, toward rich cells.
type RichnessField struct {
	noise opensimplex.Noise
	grid  Grid
}

// NewRichnessField creates a richness field for the grid from a seed.
// The same seed and dimensions always produce the same field.
func NewRichnessField(grid Grid, seed int64) *RichnessField {
	return &RichnessField{
		noise: opensimplex.NewNormalized(seed),
		grid:  grid,
	}
}

// At returns the richness of a cell, in [0,1].
func (f *RichnessField) At(c Coord) float64 {
	c = f.grid.Wrap(c)

	// Map each axis onto a circle so the field wraps with the grid.
	const loopRadius = 2.0
	ax := 2 * math.Pi * float64(c.X) / float64(f.grid.Width)
	ay := 2 * math.Pi * float64(c.Y) / float64(f.grid.Height)

	return f.noise.Eval4(
		loopRadius*math.Cos(ax), loopRadius*math.Sin(ax),
		loopRadius*math.Cos(ay), loopRadius*math.Sin(ay),
	)
}
