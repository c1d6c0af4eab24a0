package regiontree

import (
	"fmt"
	"iter"

	"github.com/chazu/cubetree/pkg/geom"
)

// Leaves yields the leaf regions of t from left to right.
func Leaves(t Tree) iter.Seq[geom.Region] {
	return func(yield func(geom.Region) bool) {
		walkLeaves(t, yield)
	}
}

func walkLeaves(t Tree, yield func(geom.Region) bool) bool {
	switch n := t.(type) {
	case nil:
		return true
	case *Leaf:
		return yield(n.Region)
	case *Inner:
		return walkLeaves(n.Left, yield) && walkLeaves(n.Right, yield)
	default:
		panic(fmt.Sprintf("regiontree: unknown node type %T", t))
	}
}

// Stats describes the shape of a tree.
type Stats struct {
	Leaves int
	Inner  int
	Depth  int // 0 for the empty tree, 1 for a single leaf
	Total  int64
}

// Measure walks t and reports its shape.
func Measure(t Tree) Stats {
	var s Stats
	s.Depth = measure(t, 1, &s)
	s.Total = Total(t)
	return s
}

func measure(t Tree, depth int, s *Stats) int {
	switch n := t.(type) {
	case nil:
		return 0
	case *Leaf:
		s.Leaves++
		return depth
	case *Inner:
		s.Inner++
		return max(measure(n.Left, depth+1, s), measure(n.Right, depth+1, s))
	default:
		panic(fmt.Sprintf("regiontree: unknown node type %T", t))
	}
}
