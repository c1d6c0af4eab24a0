// Package reactor turns ordered sequences of on/off cuboid updates into
// region trees. It owns the update record type, the fold over a sequence,
// the initialization-area policy, the text input format, sequence
// validation, and a dense voxel grid used as a brute-force reference.
package reactor

import (
	"fmt"

	"github.com/chazu/cubetree/pkg/geom"
	"github.com/chazu/cubetree/pkg/regiontree"
)

// DefaultInitBound is the half-width of the initialization area.
const DefaultInitBound = 50

// Step is a single reboot instruction: turn every cell of Region on or off.
type Step struct {
	Region geom.Region `json:"region"`
	On     bool        `json:"on"`
}

func (s Step) String() string {
	if s.On {
		return "on " + s.Region.String()
	}
	return "off " + s.Region.String()
}

// Apply returns the tree produced by applying s to t.
func (s Step) Apply(t regiontree.Tree) regiontree.Tree {
	if s.On {
		return regiontree.Add(t, s.Region)
	}
	return regiontree.Remove(t, s.Region)
}

// Observer is called after each step of a reboot with the step's index
// and the tree it produced.
type Observer func(i int, step Step, t regiontree.Tree)

// Reboot folds steps over the empty tree and returns the final tree.
// A non-nil observe is called after every step.
func Reboot(steps []Step, observe Observer) regiontree.Tree {
	var t regiontree.Tree
	for i, step := range steps {
		t = step.Apply(t)
		if observe != nil {
			observe(i, step, t)
		}
	}
	return t
}

// History returns the tree after every step. Later versions share
// structure with earlier ones.
func History(steps []Step) []regiontree.Tree {
	versions := make([]regiontree.Tree, 0, len(steps))
	Reboot(steps, func(_ int, _ Step, t regiontree.Tree) {
		versions = append(versions, t)
	})
	return versions
}

// InitializationArea returns the cube [-bound, bound]^3.
func InitializationArea(bound int) geom.Region {
	return geom.Cube(bound)
}

// Restrict drops steps that miss area and clamps the rest to it.
func Restrict(steps []Step, area geom.Region) []Step {
	var out []Step
	for _, step := range steps {
		if !step.Region.Intersects(area) {
			continue
		}
		out = append(out, Step{Region: step.Region.LimitTo(area), On: step.On})
	}
	return out
}

// Part selects which puzzle rule set a run uses.
type Part int

const (
	PartOne Part = 1 // only the initialization area
	PartTwo Part = 2 // the whole reactor
)

// ParsePart converts a command-line part number.
func ParsePart(n int) (Part, error) {
	switch Part(n) {
	case PartOne, PartTwo:
		return Part(n), nil
	default:
		return 0, fmt.Errorf("invalid part %d, expected 1 or 2", n)
	}
}

// Select returns the steps a part operates on.
func (p Part) Select(steps []Step, initBound int) []Step {
	if p == PartOne {
		return Restrict(steps, InitializationArea(initBound))
	}
	return steps
}
