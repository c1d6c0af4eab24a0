// Package geom defines the integer geometry primitives of the reactor core:
// closed intervals, axis-aligned regions built from three of them, and the
// separating lines used to bisect space.
package geom

import "fmt"

// Interval is a closed integer range [Low, High]. An interval with
// Low > High is empty; operations that cannot produce a valid range return
// an empty interval instead.
type Interval struct {
	Low  int
	High int
}

// Empty is the canonical empty interval.
var Empty = Interval{Low: 1, High: 0}

// Span returns the interval [low, high].
func Span(low, high int) Interval {
	return Interval{Low: low, High: high}
}

// IsEmpty reports whether the interval contains no points.
func (i Interval) IsEmpty() bool {
	return i.Low > i.High
}

// Size returns the number of integer points in the interval.
func (i Interval) Size() int64 {
	if i.IsEmpty() {
		return 0
	}
	return int64(i.High) - int64(i.Low) + 1
}

// Contains reports whether point lies inside the interval.
func (i Interval) Contains(point int) bool {
	return i.Low <= point && point <= i.High
}

// Intersects reports whether the two intervals share at least one point.
func (i Interval) Intersects(other Interval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}
	return i.Low <= other.High && other.Low <= i.High
}

// Within reports whether i lies entirely inside other.
func (i Interval) Within(other Interval) bool {
	return other.Low <= i.Low && i.High <= other.High
}

// LimitTo clamps the interval to bound. The result is empty when the two
// do not overlap.
func (i Interval) LimitTo(bound Interval) Interval {
	return Interval{Low: max(i.Low, bound.Low), High: min(i.High, bound.High)}
}

// SeparateFrom returns a split point p such that splitting one of the two
// intervals at p yields a side disjoint from the other interval's overlap.
// It panics when i == other.
func (i Interval) SeparateFrom(other Interval) int {
	if i == other {
		panic(fmt.Sprintf("geom: cannot separate interval %s from itself", i))
	}

	if !i.Intersects(other) {
		return min(i.High, other.High)
	}
	if other.Low < i.Low && other.High >= i.Low {
		return i.Low - 1
	}
	if other.Low <= i.High && other.High > i.High {
		return i.High
	}

	// other lies strictly inside i.
	return other.SeparateFrom(i)
}

// SplitAlong cuts the interval into [Low, point] and [point+1, High].
// A side that would be empty is returned as Empty.
func (i Interval) SplitAlong(point int) (left, right Interval) {
	left, right = Empty, Empty
	if i.Low <= point {
		left = Interval{Low: i.Low, High: min(point, i.High)}
	}
	if i.High >= point+1 {
		right = Interval{Low: max(i.Low, point+1), High: i.High}
	}
	return left, right
}

func (i Interval) String() string {
	return fmt.Sprintf("%d..%d", i.Low, i.High)
}
