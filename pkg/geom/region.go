package geom

import "fmt"

// Axis names one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Line is an axis-aligned cutting plane. One side holds the coordinates
// <= Position, the other those >= Position+1.
type Line struct {
	Axis     Axis
	Position int
}

func (l Line) String() string {
	return fmt.Sprintf("%s=%d|%d", l.Axis, l.Position, l.Position+1)
}

// Region is an axis-aligned box of unit cells. A region with any empty
// axis is empty.
type Region struct {
	X Interval
	Y Interval
	Z Interval
}

// Cuboid returns the region spanning the three closed ranges.
func Cuboid(x0, x1, y0, y1, z0, z1 int) Region {
	return Region{X: Span(x0, x1), Y: Span(y0, y1), Z: Span(z0, z1)}
}

// Cube returns the region [-bound, bound] on every axis.
func Cube(bound int) Region {
	return Cuboid(-bound, bound, -bound, bound, -bound, bound)
}

// IsEmpty reports whether the region covers no cells.
func (r Region) IsEmpty() bool {
	return r.X.IsEmpty() || r.Y.IsEmpty() || r.Z.IsEmpty()
}

// Volume returns the number of cells in the region.
func (r Region) Volume() int64 {
	return r.X.Size() * r.Y.Size() * r.Z.Size()
}

// Interval returns the region's extent along axis.
func (r Region) Interval(axis Axis) Interval {
	switch axis {
	case AxisX:
		return r.X
	case AxisY:
		return r.Y
	case AxisZ:
		return r.Z
	default:
		panic(fmt.Sprintf("geom: invalid axis %d", int(axis)))
	}
}

// WithInterval returns a copy of r with the extent along axis replaced.
func (r Region) WithInterval(axis Axis, i Interval) Region {
	switch axis {
	case AxisX:
		r.X = i
	case AxisY:
		r.Y = i
	case AxisZ:
		r.Z = i
	default:
		panic(fmt.Sprintf("geom: invalid axis %d", int(axis)))
	}
	return r
}

// Intersects reports whether the regions share at least one cell.
func (r Region) Intersects(other Region) bool {
	return r.X.Intersects(other.X) && r.Y.Intersects(other.Y) && r.Z.Intersects(other.Z)
}

// Within reports whether r lies entirely inside other.
func (r Region) Within(other Region) bool {
	return r.X.Within(other.X) && r.Y.Within(other.Y) && r.Z.Within(other.Z)
}

// LimitTo clamps every axis of r to other. The result is empty when the
// regions do not intersect.
func (r Region) LimitTo(other Region) Region {
	return Region{
		X: r.X.LimitTo(other.X),
		Y: r.Y.LimitTo(other.Y),
		Z: r.Z.LimitTo(other.Z),
	}
}

// SeparateFrom returns a line on the first axis (x, then y, then z) where
// the two regions differ. It panics when r == other.
func (r Region) SeparateFrom(other Region) Line {
	if r == other {
		panic(fmt.Sprintf("geom: cannot separate region %s from itself", r))
	}

	for _, axis := range [...]Axis{AxisX, AxisY, AxisZ} {
		mine, theirs := r.Interval(axis), other.Interval(axis)
		if mine != theirs {
			return Line{Axis: axis, Position: mine.SeparateFrom(theirs)}
		}
	}
	panic("geom: unequal regions agree on every axis")
}

// SplitAlong cuts the region by line. A side that would be empty is
// returned as an empty region.
func (r Region) SplitAlong(line Line) (left, right Region) {
	l, rt := r.Interval(line.Axis).SplitAlong(line.Position)
	return r.WithInterval(line.Axis, l), r.WithInterval(line.Axis, rt)
}

func (r Region) String() string {
	return fmt.Sprintf("x=%s,y=%s,z=%s", r.X, r.Y, r.Z)
}
