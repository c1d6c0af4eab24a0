package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chazu/cubetree/pkg/config"
	"github.com/chazu/cubetree/pkg/geom"
	"github.com/chazu/cubetree/pkg/reactor"
	"github.com/chazu/cubetree/pkg/regiontree"
	"github.com/chazu/cubetree/pkg/tessellate"
)

// newTestApp returns an App with default settings, a coarse mesh
// resolution and a silent logger.
func newTestApp(t *testing.T, edit func(*config.Config)) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Mesh.Cells = 16
	if edit != nil {
		edit(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustLoad(t *testing.T, app *App, path string, script bool) []reactor.Step {
	t.Helper()

	steps, err := app.Load(path, script)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	return steps
}

// TestE2ESmallExample runs the four-step example through the whole
// pipeline: text file -> steps -> validation -> tree.
func TestE2ESmallExample(t *testing.T) {
	app := newTestApp(t, nil)
	steps := mustLoad(t, app, "examples/small.txt", false)

	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	for _, part := range []reactor.Part{reactor.PartOne, reactor.PartTwo} {
		tree, err := app.Reboot(steps, part)
		if err != nil {
			t.Fatalf("part %d: %v", part, err)
		}
		if got := regiontree.Total(tree); got != 39 {
			t.Errorf("part %d: total = %d, want 39", part, got)
		}
	}
}

func TestE2EClampParts(t *testing.T) {
	app := newTestApp(t, nil)
	steps := mustLoad(t, app, "examples/clamp.txt", false)

	tests := []struct {
		part reactor.Part
		want int64
	}{
		{reactor.PartOne, 41},
		{reactor.PartTwo, 51},
	}
	for _, tt := range tests {
		tree, err := app.Reboot(steps, tt.part)
		if err != nil {
			t.Fatalf("part %d: %v", tt.part, err)
		}
		if got := regiontree.Total(tree); got != tt.want {
			t.Errorf("part %d: total = %d, want %d", tt.part, got, tt.want)
		}
	}
}

func TestE2EInitBoundFromConfig(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.Reboot.InitBound = 11 })
	steps := mustLoad(t, app, "examples/small.txt", false)

	tree, err := app.Reboot(steps, reactor.PartOne)
	if err != nil {
		t.Fatal(err)
	}
	// Clamping to [-11, 11]^3 drops the cells of coordinate 12 and 13.
	want := regiontree.Total(reactor.Reboot(reactor.Restrict(steps, geom.Cube(11)), nil))
	if got := regiontree.Total(tree); got != want {
		t.Errorf("total = %d, want %d", got, want)
	}
	if want >= 39 {
		t.Errorf("clamped total %d should be below 39", want)
	}
}

func TestE2EScriptMatchesText(t *testing.T) {
	app := newTestApp(t, nil)
	fromText := mustLoad(t, app, "examples/clamp.txt", false)
	fromScript := mustLoad(t, app, "examples/reactor.lisp", true)

	if diff := cmp.Diff(fromText, fromScript); diff != "" {
		t.Errorf("script steps differ from text steps (-text +script):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	app := newTestApp(t, nil)
	if _, err := app.Load("examples/does-not-exist.txt", false); err == nil {
		t.Error("expected error for missing text file")
	}
	if _, err := app.Load("examples/does-not-exist.lisp", true); err == nil {
		t.Error("expected error for missing script")
	}
}

func TestEvaluateEmptySource(t *testing.T) {
	app := newTestApp(t, nil)
	result := app.Evaluate("", reactor.PartTwo)

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if result.Total != 0 || result.Steps != 0 {
		t.Errorf("expected zero result, got %+v", result)
	}
	// Slices must be non-nil so they serialize as [] rather than null.
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	app := newTestApp(t, nil)

	result := app.Evaluate("(on 0 1 0 1 0 1)\n(on 0 1", reactor.PartTwo)
	if len(result.Errors) == 0 {
		t.Fatal("expected an eval error for unmatched parens")
	}
	if result.Errors[0].Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	if result.Total != 0 {
		t.Errorf("expected no total on error, got %d", result.Total)
	}
}

func TestEvaluateBuiltinError(t *testing.T) {
	app := newTestApp(t, nil)

	result := app.Evaluate("(on (span 3 1))", reactor.PartTwo)
	if len(result.Errors) == 0 {
		t.Fatal("expected an eval error for an inverted span")
	}
}

func TestEvaluateWarnings(t *testing.T) {
	app := newTestApp(t, nil)

	result := app.Evaluate("(off 0 1 0 1 0 1)\n(on 0 1 0 1 0 1)\n(on 0 1 0 1 0 1)", reactor.PartTwo)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("expected leading-off and repeated-step warnings, got %v", result.Warnings)
	}
	if result.Total != 8 {
		t.Errorf("total = %d, want 8", result.Total)
	}
	if result.Steps != 3 {
		t.Errorf("steps = %d, want 3", result.Steps)
	}
}

func TestRebootRejectsInvalidSteps(t *testing.T) {
	app := newTestApp(t, nil)
	steps := []reactor.Step{
		{Region: geom.Cuboid(0, 1, 0, 1, 0, 1), On: true},
		{Region: geom.Cuboid(5, 4, 0, 1, 0, 1), On: true},
	}

	_, err := app.Reboot(steps, reactor.PartTwo)
	if !errors.Is(err, ErrInvalidSteps) {
		t.Fatalf("expected ErrInvalidSteps, got %v", err)
	}
	var ve reactor.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a wrapped ValidationError, got %v", err)
	}
	if ve.Step != 1 {
		t.Errorf("validation error at step %d, want 1", ve.Step)
	}
}

func TestVerify(t *testing.T) {
	app := newTestApp(t, nil)
	steps := mustLoad(t, app, "examples/clamp.txt", false)

	res, err := app.Verify(steps, reactor.PartOne)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Tree != 41 || res.Grid != 41 {
		t.Errorf("Verify = %+v, want 41/41", res)
	}
}

func TestVerifyGridTooLarge(t *testing.T) {
	app := newTestApp(t, nil)
	steps := mustLoad(t, app, "examples/clamp.txt", false)

	// Part two spans 9..1001 on every axis, far beyond the grid limit.
	_, err := app.Verify(steps, reactor.PartTwo)
	if !errors.Is(err, reactor.ErrGridTooLarge) {
		t.Fatalf("expected ErrGridTooLarge, got %v", err)
	}
}

func TestStats(t *testing.T) {
	app := newTestApp(t, nil)
	steps := mustLoad(t, app, "examples/small.txt", false)

	st, err := app.Stats(steps, reactor.PartTwo)
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 39 {
		t.Errorf("Total = %d, want 39", st.Total)
	}
	if st.Leaves == 0 || st.Inner != st.Leaves-1 {
		t.Errorf("unexpected shape %+v", st)
	}
}

func TestMeshesPerLeaf(t *testing.T) {
	app := newTestApp(t, nil)
	steps := mustLoad(t, app, "examples/small.txt", false)
	tree, err := app.Reboot(steps, reactor.PartTwo)
	if err != nil {
		t.Fatal(err)
	}

	meshes, err := app.Meshes(tree, false)
	if err != nil {
		t.Fatalf("Meshes: %v", err)
	}
	if want := regiontree.Measure(tree).Leaves; len(meshes) != want {
		t.Fatalf("expected %d meshes, got %d", want, len(meshes))
	}
	for i, m := range meshes {
		if m.PartName != tessellate.LeafName(i) {
			t.Errorf("mesh %d: PartName = %q, want %q", i, m.PartName, tessellate.LeafName(i))
		}
		if want := colorPalette[i%len(colorPalette)]; m.Color != want {
			t.Errorf("mesh %d: color %q, want %q", i, m.Color, want)
		}
		if len(m.Vertices) == 0 || len(m.Indices) == 0 {
			t.Errorf("mesh %d: empty geometry", i)
		}
	}
}

func TestMeshesMerged(t *testing.T) {
	app := newTestApp(t, nil)
	steps := mustLoad(t, app, "examples/small.txt", false)
	tree, err := app.Reboot(steps, reactor.PartTwo)
	if err != nil {
		t.Fatal(err)
	}

	meshes, err := app.Meshes(tree, true)
	if err != nil {
		t.Fatalf("Meshes: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 merged mesh, got %d", len(meshes))
	}
	if meshes[0].PartName != mergedPartName || meshes[0].Color != colorPalette[0] {
		t.Errorf("unexpected merged mesh %q %q", meshes[0].PartName, meshes[0].Color)
	}
}

func TestMeshesEmptyTree(t *testing.T) {
	app := newTestApp(t, nil)

	for _, merge := range []bool{false, true} {
		meshes, err := app.Meshes(nil, merge)
		if err != nil {
			t.Fatalf("merge=%v: %v", merge, err)
		}
		if meshes == nil || len(meshes) != 0 {
			t.Errorf("merge=%v: expected empty non-nil slice, got %v", merge, meshes)
		}
	}
}

func TestMeshesLeafLimit(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.Mesh.MaxLeaves = 1 })
	steps := mustLoad(t, app, "examples/small.txt", false)
	tree, err := app.Reboot(steps, reactor.PartTwo)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := app.Meshes(tree, false); !errors.Is(err, tessellate.ErrTooManyLeaves) {
		t.Errorf("expected ErrTooManyLeaves, got %v", err)
	}
}
