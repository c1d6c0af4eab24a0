package main

import (
	"strings"
	"testing"

	"github.com/chazu/cubetree/pkg/geom"
	"github.com/chazu/cubetree/pkg/reactor"
)

// ---------------------------------------------------------------------------
// 1. Comments and whitespace only: no steps, no errors, zero total.
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	app := newTestApp(t, nil)

	source := `
;; This is a comment
;; Another comment
; And another
`
	result := app.Evaluate(source, reactor.PartTwo)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for comments-only source: %v", result.Errors)
	}
	if result.Steps != 0 || result.Total != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestE2ECommentsWithWhitespace(t *testing.T) {
	app := newTestApp(t, nil)

	source := `
  ;; leading whitespace
  ;; trailing whitespace
  ; tabs	everywhere
`
	result := app.Evaluate(source, reactor.PartTwo)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for comments+whitespace source: %v", result.Errors)
	}
}

func TestE2EWhitespaceOnly(t *testing.T) {
	app := newTestApp(t, nil)

	result := app.Evaluate("   \n\t\n   ", reactor.PartTwo)
	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors, got %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// 2. Rapid evaluation: no panics, and the engine recovers cleanly between
//    error and success states.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	app := newTestApp(t, nil)

	sources := []struct {
		source  string
		wantErr bool
		total   int64
	}{
		{`(on 0 1 0 1 0 1)`, false, 8},
		{`(on 0 1 0 1`, true, 0},
		{``, false, 0},
		{`(on (cuboid :x (span 0 1)))`, true, 0},
		{`(on (cuboid :x (span 0 2) :y (span 0 0) :z (span 0 0)))`, false, 3},
		{`(+ 1 2)`, false, 0},
		{`;; just a comment`, false, 0},
		{`(undefined-func 1 2 3)`, true, 0},
		{`(on 0 9 0 9 0 9) (off 0 8 0 9 0 9)`, false, 100},
	}

	for i, tt := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, tt.source, r)
				}
			}()
			result := app.Evaluate(tt.source, reactor.PartTwo)
			if gotErr := len(result.Errors) > 0; gotErr != tt.wantErr {
				t.Errorf("iteration %d (%q): errors = %v, wantErr %v", i, tt.source, result.Errors, tt.wantErr)
			}
			if result.Total != tt.total {
				t.Errorf("iteration %d (%q): total = %d, want %d", i, tt.source, result.Total, tt.total)
			}
		}()
	}
}

// ---------------------------------------------------------------------------
// 3. Large coordinates: totals beyond 32 bits survive the whole pipeline.
// ---------------------------------------------------------------------------

func TestE2ELargeRegion(t *testing.T) {
	app := newTestApp(t, nil)

	result := app.Evaluate(`(on -50000 49999 -50000 49999 -50000 49999)`, reactor.PartTwo)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Total != 1_000_000_000_000_000 {
		t.Errorf("total = %d, want 10^15", result.Total)
	}
}

func TestE2ELargestAllowedRegion(t *testing.T) {
	app := newTestApp(t, nil)

	source := `
(def m 1000000)
(on (- 0 m) m (- 0 m) m (- 0 m) m)
`
	result := app.Evaluate(source, reactor.PartTwo)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	const side = 2*reactor.MaxCoordinate + 1
	if result.Total != int64(side)*side*side {
		t.Errorf("total = %d, want %d", result.Total, int64(side)*side*side)
	}
	if result.Total <= 0 {
		t.Errorf("total overflowed: %d", result.Total)
	}
}

func TestE2ECoordinateOutOfRange(t *testing.T) {
	app := newTestApp(t, nil)

	result := app.Evaluate(`(on 0 1000001 0 1 0 1)`, reactor.PartTwo)
	if len(result.Errors) == 0 {
		t.Fatal("expected error for coordinate beyond the limit")
	}
	if !strings.Contains(result.Errors[0].Message, "exceeds") {
		t.Errorf("unexpected message %q", result.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// 4. Part one: nothing inside the initialization area leaves zero on.
// ---------------------------------------------------------------------------

func TestE2EPartOneOutsideArea(t *testing.T) {
	app := newTestApp(t, nil)

	result := app.Evaluate(`(on 100 200 100 200 100 200)`, reactor.PartOne)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Total != 0 {
		t.Errorf("total = %d, want 0", result.Total)
	}

	result = app.Evaluate(`(on 100 200 100 200 100 200)`, reactor.PartTwo)
	if result.Total != 101*101*101 {
		t.Errorf("part two total = %d, want %d", result.Total, 101*101*101)
	}
}

func TestE2ENegativeCoordinates(t *testing.T) {
	app := newTestApp(t, nil)

	result := app.Evaluate(`(on -60 -40 -5 -5 -5 -5)`, reactor.PartOne)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	// Clamped to x=-50..-40.
	if result.Total != 11 {
		t.Errorf("total = %d, want 11", result.Total)
	}
}

// ---------------------------------------------------------------------------
// 5. Everything switched off again: empty tree, zero total.
// ---------------------------------------------------------------------------

func TestE2EAllOff(t *testing.T) {
	app := newTestApp(t, nil)

	source := `
(def box (cube 3))
(on box)
(off box)
`
	result := app.Evaluate(source, reactor.PartTwo)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Total != 0 {
		t.Errorf("total = %d, want 0", result.Total)
	}
}

// ---------------------------------------------------------------------------
// 6. Nested expressions: defs with arithmetic feed the step builtins.
// ---------------------------------------------------------------------------

func TestE2EComplexArithmeticExpressions(t *testing.T) {
	app := newTestApp(t, nil)

	source := `
(def base-length 40)
(def margin 3)
(def inner-length (- base-length (* 2 margin)))

(on 1 inner-length 0 0 0 0)
`
	result := app.Evaluate(source, reactor.PartTwo)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Total != 34 {
		t.Errorf("total = %d, want 34", result.Total)
	}
}

// ---------------------------------------------------------------------------
// 7. Color palette wrapping: more leaves than colors reuse the palette.
// ---------------------------------------------------------------------------

func TestE2EColorPaletteWrapping(t *testing.T) {
	app := newTestApp(t, nil)

	// Ten separate unit cells give ten leaves.
	var steps []reactor.Step
	for i := 0; i < 10; i++ {
		x := i * 3
		steps = append(steps, reactor.Step{Region: geom.Cuboid(x, x, 0, 0, 0, 0), On: true})
	}
	tree, err := app.Reboot(steps, reactor.PartTwo)
	if err != nil {
		t.Fatal(err)
	}

	meshes, err := app.Meshes(tree, false)
	if err != nil {
		t.Fatalf("Meshes: %v", err)
	}
	if len(meshes) != 10 {
		t.Fatalf("expected 10 meshes, got %d", len(meshes))
	}

	paletteLen := len(colorPalette)
	for i, m := range meshes {
		expected := colorPalette[i%paletteLen]
		if m.Color != expected {
			t.Errorf("mesh %d (%q): expected color %q, got %q", i, m.PartName, expected, m.Color)
		}
	}
	// The first color repeats once the palette is exhausted.
	if meshes[0].Color != meshes[paletteLen].Color {
		t.Errorf("palette should wrap: mesh 0 %q, mesh %d %q", meshes[0].Color, paletteLen, meshes[paletteLen].Color)
	}
}
