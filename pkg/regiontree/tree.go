// Package regiontree implements a persistent binary space-partition tree
// over disjoint "on" regions. Every update returns a new tree that shares
// untouched subtrees with the one it was built from; nodes are never
// written after construction, so old versions stay valid and may be read
// from any goroutine.
//
// The empty tree is nil.
package regiontree

import (
	"fmt"

	"github.com/chazu/cubetree/pkg/geom"
)

// Tree is either a *Leaf or an *Inner. A nil Tree is empty.
type Tree interface {
	// Total returns the number of cells that are on.
	Total() int64

	node() // marker method restricting implementations to this package
}

// Leaf is a region whose cells are all on.
type Leaf struct {
	Region geom.Region
}

// Inner splits its domain by Line. Left holds the cells at or below the
// line position, Right the cells above it. Both children are non-nil.
type Inner struct {
	Line  geom.Line
	Left  Tree
	Right Tree
}

func (*Leaf) node()  {}
func (*Inner) node() {}

// Total returns the leaf volume.
func (l *Leaf) Total() int64 {
	return l.Region.Volume()
}

// Total returns the sum of both children.
func (n *Inner) Total() int64 {
	return n.Left.Total() + n.Right.Total()
}

// Total returns t's on-count, treating nil as the empty tree.
func Total(t Tree) int64 {
	if t == nil {
		return 0
	}
	return t.Total()
}

// Add returns a tree whose on-set is t's on-set united with target.
// An empty target leaves t unchanged.
func Add(t Tree, target geom.Region) Tree {
	if target.IsEmpty() {
		return t
	}

	switch n := t.(type) {
	case nil:
		return &Leaf{Region: target}
	case *Leaf:
		return n.add(target)
	case *Inner:
		return n.add(target)
	default:
		panic(fmt.Sprintf("regiontree: unknown node type %T", t))
	}
}

// Remove returns a tree whose on-set is t's on-set minus target. The
// result is nil when nothing remains on.
func Remove(t Tree, target geom.Region) Tree {
	if target.IsEmpty() {
		return t
	}

	switch n := t.(type) {
	case nil:
		return nil
	case *Leaf:
		return n.remove(target)
	case *Inner:
		return n.remove(target)
	default:
		panic(fmt.Sprintf("regiontree: unknown node type %T", t))
	}
}

func (l *Leaf) add(target geom.Region) Tree {
	if target.Within(l.Region) {
		return l
	}
	if l.Region.Within(target) {
		return &Leaf{Region: target}
	}

	line := l.Region.SeparateFrom(target)
	ownLeft, ownRight := l.Region.SplitAlong(line)
	targetLeft, targetRight := target.SplitAlong(line)

	left := pick(ownLeft, targetLeft, line)
	right := pick(ownRight, targetRight, line)

	split := &Inner{Line: line, Left: &Leaf{Region: left}, Right: &Leaf{Region: right}}
	return split.add(target)
}

// pick prefers the leaf's own half of a split and falls back to the
// target's. A line that leaves both halves empty does not separate the
// operands.
func pick(own, target geom.Region, line geom.Line) geom.Region {
	if !own.IsEmpty() {
		return own
	}
	if !target.IsEmpty() {
		return target
	}
	panic(fmt.Sprintf("regiontree: line %s leaves one side with no region", line))
}

func (l *Leaf) remove(target geom.Region) Tree {
	if !l.Region.Intersects(target) {
		return l
	}
	if l.Region.Within(target) {
		return nil
	}

	line := l.Region.SeparateFrom(target.LimitTo(l.Region))
	left, right := l.Region.SplitAlong(line)
	if left.IsEmpty() || right.IsEmpty() {
		panic(fmt.Sprintf("regiontree: line %s does not cut leaf %s", line, l.Region))
	}

	split := &Inner{Line: line, Left: &Leaf{Region: left}, Right: &Leaf{Region: right}}
	return split.remove(target)
}

func (n *Inner) add(target geom.Region) Tree {
	targetLeft, targetRight := target.SplitAlong(n.Line)

	left, right := n.Left, n.Right
	if !targetLeft.IsEmpty() {
		left = Add(left, targetLeft)
	}
	if !targetRight.IsEmpty() {
		right = Add(right, targetRight)
	}

	if left == n.Left && right == n.Right {
		return n
	}
	return &Inner{Line: n.Line, Left: left, Right: right}
}

func (n *Inner) remove(target geom.Region) Tree {
	targetLeft, targetRight := target.SplitAlong(n.Line)

	left, right := n.Left, n.Right
	if !targetLeft.IsEmpty() {
		left = Remove(left, targetLeft)
	}
	if !targetRight.IsEmpty() {
		right = Remove(right, targetRight)
	}

	if left == n.Left && right == n.Right {
		return n
	}
	return fromChildren(n.Line, left, right)
}

// fromChildren builds an inner node, collapsing it into the surviving
// child when the other side has been removed entirely.
func fromChildren(line geom.Line, left, right Tree) Tree {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	default:
		return &Inner{Line: line, Left: left, Right: right}
	}
}
