// Package tessellate turns a region tree into triangle meshes using a
// geometry kernel. One mesh is produced per leaf.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/cubetree/pkg/geom"
	"github.com/chazu/cubetree/pkg/kernel"
	"github.com/chazu/cubetree/pkg/regiontree"
)

// ErrTooManyLeaves is returned when a tree has more leaves than the caller
// allowed to be meshed.
var ErrTooManyLeaves = errors.New("tree has too many leaves to mesh")

// Corners returns the box occupied by the cells of r. A cell at integer
// coordinate c covers [c, c+1) on its axis, so the box runs from the low
// bounds to one past the high bounds.
func Corners(r geom.Region) (min, max [3]float64) {
	axes := [...]geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ}
	for i, a := range axes {
		iv := r.Interval(a)
		min[i] = float64(iv.Low)
		max[i] = float64(iv.High) + 1
	}
	return min, max
}

// LeafName is the part name given to the mesh of the i-th leaf (0-based).
func LeafName(i int) string {
	return fmt.Sprintf("leaf-%d", i+1)
}

// checkLeaves enforces the leaf limit. A non-positive limit disables it.
func checkLeaves(t regiontree.Tree, maxLeaves int) error {
	if maxLeaves <= 0 {
		return nil
	}
	if n := regiontree.Measure(t).Leaves; n > maxLeaves {
		return fmt.Errorf("tessellate: %d leaves exceeds limit of %d: %w", n, maxLeaves, ErrTooManyLeaves)
	}
	return nil
}

// Tessellate produces one triangle mesh per leaf of t, in left-to-right
// leaf order, named by LeafName. The empty tree yields no meshes. The
// tree is read-only and never modified.
func Tessellate(t regiontree.Tree, k kernel.Kernel, maxLeaves int) ([]*kernel.Mesh, error) {
	if t == nil {
		return nil, nil
	}
	if err := checkLeaves(t, maxLeaves); err != nil {
		return nil, err
	}

	var meshes []*kernel.Mesh
	i := 0
	for r := range regiontree.Leaves(t) {
		mesh, err := k.ToMesh(k.Box(Corners(r)))
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s (%s): %w", LeafName(i), r, err)
		}
		mesh.PartName = LeafName(i)
		meshes = append(meshes, mesh)
		i++
	}
	return meshes, nil
}

// Merge unions every leaf box of t into one solid and meshes it as a
// single part named name. The empty tree yields nil.
func Merge(t regiontree.Tree, k kernel.Kernel, maxLeaves int, name string) (*kernel.Mesh, error) {
	if t == nil {
		return nil, nil
	}
	if err := checkLeaves(t, maxLeaves); err != nil {
		return nil, err
	}

	var solids []kernel.Solid
	for r := range regiontree.Leaves(t) {
		solids = append(solids, k.Box(Corners(r)))
	}

	mesh, err := k.ToMesh(k.Union(solids...))
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for merged tree: %w", err)
	}
	mesh.PartName = name
	return mesh, nil
}
