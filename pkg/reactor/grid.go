package reactor

import (
	"errors"
	"fmt"

	"github.com/chazu/cubetree/pkg/geom"
)

// ErrGridTooLarge is returned when a dense grid would exceed its cell limit.
var ErrGridTooLarge = errors.New("voxel grid too large")

// Grid is a dense boolean voxel grid over a fixed bounding region. It is
// the brute-force reference the region tree is checked against and is
// only practical for small coordinate ranges.
type Grid struct {
	bounds geom.Region
	cells  []bool
	on     int64
}

// NewGrid allocates a grid covering bounds, refusing to allocate more than
// maxCells cells.
func NewGrid(bounds geom.Region, maxCells int64) (*Grid, error) {
	if bounds.IsEmpty() {
		return &Grid{bounds: bounds}, nil
	}
	if v := bounds.Volume(); v > maxCells {
		return nil, fmt.Errorf("%w: %s has %d cells, limit %d", ErrGridTooLarge, bounds, v, maxCells)
	}
	return &Grid{bounds: bounds, cells: make([]bool, bounds.Volume())}, nil
}

// GridFor allocates a grid just large enough for every step.
func GridFor(steps []Step, maxCells int64) (*Grid, error) {
	return NewGrid(Bounds(steps), maxCells)
}

// Bounds returns the smallest region containing every step's region.
// It is empty when steps is empty.
func Bounds(steps []Step) geom.Region {
	if len(steps) == 0 {
		return geom.Region{X: geom.Empty, Y: geom.Empty, Z: geom.Empty}
	}
	b := steps[0].Region
	for _, step := range steps[1:] {
		r := step.Region
		b.X = geom.Span(min(b.X.Low, r.X.Low), max(b.X.High, r.X.High))
		b.Y = geom.Span(min(b.Y.Low, r.Y.Low), max(b.Y.High, r.Y.High))
		b.Z = geom.Span(min(b.Z.Low, r.Z.Low), max(b.Z.High, r.Z.High))
	}
	return b
}

// Apply sets every cell of step's region that lies inside the grid.
func (g *Grid) Apply(step Step) {
	r := step.Region.LimitTo(g.bounds)
	if r.IsEmpty() {
		return
	}
	for x := r.X.Low; x <= r.X.High; x++ {
		for y := r.Y.Low; y <= r.Y.High; y++ {
			for z := r.Z.Low; z <= r.Z.High; z++ {
				i := g.index(x, y, z)
				if g.cells[i] != step.On {
					g.cells[i] = step.On
					if step.On {
						g.on++
					} else {
						g.on--
					}
				}
			}
		}
	}
}

// Count returns the number of cells that are on.
func (g *Grid) Count() int64 {
	return g.on
}

// IsOn reports whether the cell at (x, y, z) is on.
func (g *Grid) IsOn(x, y, z int) bool {
	if !g.bounds.X.Contains(x) || !g.bounds.Y.Contains(y) || !g.bounds.Z.Contains(z) {
		return false
	}
	return g.cells[g.index(x, y, z)]
}

func (g *Grid) index(x, y, z int) int64 {
	dy, dz := g.bounds.Y.Size(), g.bounds.Z.Size()
	return (int64(x-g.bounds.X.Low)*dy+int64(y-g.bounds.Y.Low))*dz + int64(z-g.bounds.Z.Low)
}

// Replay applies every step to a grid sized for them and returns the
// final on-count.
func Replay(steps []Step, maxCells int64) (int64, error) {
	g, err := GridFor(steps, maxCells)
	if err != nil {
		return 0, err
	}
	for _, step := range steps {
		g.Apply(step)
	}
	return g.Count(), nil
}
