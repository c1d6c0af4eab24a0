// Package kernel defines the abstract geometry kernel interface used to
// render reactor cells. Implementations (sdfx) provide solid modeling
// behind this interface so the rest of the system never imports a CAD
// library directly.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box returns the axis-aligned box with the given opposite corners.
	// Every component of max must be greater than the matching one in min.
	Box(min, max [3]float64) Solid

	// Union returns the union of one or more solids.
	Union(solids ...Solid) Solid

	// ToMesh tessellates a solid into triangles.
	ToMesh(s Solid) (*Mesh, error)
}
