package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/cubetree/pkg/geom"
	"github.com/chazu/cubetree/pkg/reactor"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSpan wraps a geom.Interval returned by `span`.
type sexpSpan struct {
	iv geom.Interval
}

func (s *sexpSpan) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(span %d %d)", s.iv.Low, s.iv.High)
}
func (s *sexpSpan) Type() *zygo.RegisteredType { return nil }

// sexpCuboid wraps a geom.Region so it can be passed between builtins.
type sexpCuboid struct {
	region geom.Region
}

func (c *sexpCuboid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cuboid %s)", c.region)
}
func (c *sexpCuboid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toInt extracts an int from a SexpInt, rejecting values beyond
// reactor.MaxCoordinate.
func toInt(s zygo.Sexp) (int, error) {
	v, ok := s.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
	}
	if v.Val > reactor.MaxCoordinate || v.Val < -reactor.MaxCoordinate {
		return 0, fmt.Errorf("coordinate %d exceeds ±%d", v.Val, reactor.MaxCoordinate)
	}
	return int(v.Val), nil
}

// toSpan extracts an interval from a sexpSpan.
func toSpan(s zygo.Sexp) (geom.Interval, error) {
	if sp, ok := s.(*sexpSpan); ok {
		return sp.iv, nil
	}
	return geom.Empty, fmt.Errorf("expected span, got %T (%s)", s, s.SexpString(nil))
}

// toRegion accepts either a single cuboid or six integer bounds
// x0 x1 y0 y1 z0 z1.
func toRegion(args []zygo.Sexp) (geom.Region, error) {
	switch len(args) {
	case 1:
		if c, ok := args[0].(*sexpCuboid); ok {
			return c.region, nil
		}
		return geom.Region{}, fmt.Errorf("expected cuboid, got %T (%s)", args[0], args[0].SexpString(nil))
	case 6:
		var b [6]int
		for i, a := range args {
			n, err := toInt(a)
			if err != nil {
				return geom.Region{}, fmt.Errorf("bound %d: %w", i+1, err)
			}
			b[i] = n
		}
		return geom.Cuboid(b[0], b[1], b[2], b[3], b[4], b[5]), nil
	default:
		return geom.Region{}, fmt.Errorf("expected a cuboid or 6 integer bounds, got %d arguments", len(args))
	}
}

// checkRegion rejects inverted ranges before they reach the tree.
func checkRegion(r geom.Region) error {
	for _, axis := range [...]geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
		if iv := r.Interval(axis); iv.IsEmpty() {
			return fmt.Errorf("%s range %s is inverted", axis, iv)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// recorder collects the steps issued by a script.
type recorder struct {
	steps []reactor.Step
}

// registerBuiltins installs the reboot DSL into a zygomys environment.
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, rec *recorder) {

	// -----------------------------------------------------------------------
	// (span -5 5)
	// -----------------------------------------------------------------------
	env.AddFunction("span", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("span requires exactly 2 arguments, got %d", len(args))
		}
		lo, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("span: low: %w", err)
		}
		hi, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("span: high: %w", err)
		}
		if lo > hi {
			return zygo.SexpNull, fmt.Errorf("span: low %d is greater than high %d", lo, hi)
		}
		return &sexpSpan{iv: geom.Span(lo, hi)}, nil
	})

	// -----------------------------------------------------------------------
	// (cuboid :x (span 10 12) :y (span 10 12) :z (span 10 12))
	// (cuboid 10 12 10 12 10 12)
	// -----------------------------------------------------------------------
	env.AddFunction("cuboid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.kw) == 0 {
			r, err := toRegion(pa.positional)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
			}
			if err := checkRegion(r); err != nil {
				return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
			}
			return &sexpCuboid{region: r}, nil
		}

		var r geom.Region
		for _, axis := range [...]geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
			v, ok := pa.kw[axis.String()]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("cuboid: missing :%s", axis)
			}
			iv, err := toSpan(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cuboid: %s: %w", axis, err)
			}
			r = r.WithInterval(axis, iv)
		}
		return &sexpCuboid{region: r}, nil
	})

	// -----------------------------------------------------------------------
	// (cube 50) => x, y and z all span -50..50
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("cube requires exactly 1 argument, got %d", len(args))
		}
		n, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		if n < 0 {
			return zygo.SexpNull, fmt.Errorf("cube: half-width %d is negative", n)
		}
		return &sexpCuboid{region: geom.Cube(n)}, nil
	})

	// -----------------------------------------------------------------------
	// (volume c) => number of cells in c
	// -----------------------------------------------------------------------
	env.AddFunction("volume", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := toRegion(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("volume: %w", err)
		}
		return &zygo.SexpInt{Val: r.Volume()}, nil
	})

	// -----------------------------------------------------------------------
	// (on c) / (on x0 x1 y0 y1 z0 z1), and the same for off
	// -----------------------------------------------------------------------
	for _, op := range []struct {
		name string
		on   bool
	}{{"on", true}, {"off", false}} {
		env.AddFunction(op.name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			r, err := toRegion(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op.name, err)
			}
			if err := checkRegion(r); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op.name, err)
			}
			rec.steps = append(rec.steps, reactor.Step{Region: r, On: op.on})
			return &sexpCuboid{region: r}, nil
		})
	}
}
