package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chazu/cubetree/pkg/config"
	"github.com/chazu/cubetree/pkg/engine"
	"github.com/chazu/cubetree/pkg/kernel"
	"github.com/chazu/cubetree/pkg/kernel/sdfx"
	"github.com/chazu/cubetree/pkg/reactor"
	"github.com/chazu/cubetree/pkg/regiontree"
	"github.com/chazu/cubetree/pkg/tessellate"
	"github.com/dustin/go-humanize"
)

// colorPalette is a default palette used to assign distinct colors to leaves.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// mergedPartName names the single mesh produced by a merged tessellation.
const mergedPartName = "reactor"

var (
	// ErrInvalidSteps is returned when a sequence fails validation.
	ErrInvalidSteps = errors.New("invalid reboot steps")
	// ErrTotalMismatch is returned when the tree and the voxel grid disagree.
	ErrTotalMismatch = errors.New("tree total does not match voxel grid")
)

// App drives a reboot from its inputs to totals, checks and meshes.
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format written by the mesh command.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a serializable script or validation error.
type EvalErrorData struct {
	Line    int    `json:"line" yaml:"line"`
	Col     int    `json:"col" yaml:"col"`
	Message string `json:"message" yaml:"message"`
}

// EvalResult is the outcome of evaluating a reboot script.
type EvalResult struct {
	Steps    int             `json:"steps" yaml:"steps"`
	Total    int64           `json:"total" yaml:"total"`
	Errors   []EvalErrorData `json:"errors" yaml:"errors"`
	Warnings []EvalErrorData `json:"warnings" yaml:"warnings"`
}

// VerifyResult holds both totals of a cross-check.
type VerifyResult struct {
	Tree int64
	Grid int64
}

// NewApp creates an App with an engine and the sdfx kernel configured
// from cfg.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		log:    logger,
		engine: engine.NewEngineWithTimeout(cfg.Engine.Timeout),
		kernel: sdfx.NewWithCells(cfg.Mesh.Cells),
	}
}

// DefaultPart returns the configured part.
func (a *App) DefaultPart() reactor.Part {
	return reactor.Part(a.cfg.Reboot.DefaultPart)
}

// LoadText reads a file in the line-oriented text format.
func (a *App) LoadText(path string) ([]reactor.Step, error) {
	steps, err := reactor.ParseFile(path)
	if err != nil {
		return nil, err
	}
	a.log.Debug("parsed reboot file", "path", path, "steps", len(steps))
	return steps, nil
}

// LoadScript evaluates a script file and returns the steps it issued.
func (a *App) LoadScript(path string) ([]reactor.Step, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	steps, evalErrs, err := a.engine.Evaluate(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%s: %s", path, strings.Join(msgs, "; "))
	}

	a.log.Debug("evaluated reboot script", "path", path, "steps", len(steps))
	return steps, nil
}

// Load reads steps from a script when script is set and from the text
// format otherwise.
func (a *App) Load(path string, script bool) ([]reactor.Step, error) {
	if script {
		return a.LoadScript(path)
	}
	return a.LoadText(path)
}

// Evaluate takes script source and returns the resulting on-count along
// with any script errors and validation findings.
func (a *App) Evaluate(source string, part reactor.Part) EvalResult {
	result := EvalResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into reboot steps.
	steps, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate fatal error", "error", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.Steps = len(steps)

	// Step 3: Validate. Errors block the reboot, warnings are reported.
	vr := reactor.ValidateAll(steps)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}
	if !vr.OK() {
		for _, e := range vr.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		return result
	}

	// Step 4: Fold the selected steps.
	tree := a.fold(part.Select(steps, a.cfg.Reboot.InitBound), part)
	result.Total = regiontree.Total(tree)
	return result
}

// Reboot validates steps, selects the part's subset and folds them.
func (a *App) Reboot(steps []reactor.Step, part reactor.Part) (regiontree.Tree, error) {
	selected, err := a.prepare(steps, part)
	if err != nil {
		return nil, err
	}
	return a.fold(selected, part), nil
}

// Verify reboots steps and cross-checks the tree's total against a dense
// voxel grid replay of the same steps.
func (a *App) Verify(steps []reactor.Step, part reactor.Part) (VerifyResult, error) {
	selected, err := a.prepare(steps, part)
	if err != nil {
		return VerifyResult{}, err
	}

	res := VerifyResult{Tree: regiontree.Total(a.fold(selected, part))}

	start := time.Now()
	res.Grid, err = reactor.Replay(selected, a.cfg.Verify.MaxCells)
	if err != nil {
		return res, fmt.Errorf("grid replay: %w", err)
	}
	a.log.Debug("grid replay finished", "total", humanize.Comma(res.Grid), "elapsed", time.Since(start))

	if res.Tree != res.Grid {
		return res, fmt.Errorf("%w: tree %s, grid %s", ErrTotalMismatch,
			humanize.Comma(res.Tree), humanize.Comma(res.Grid))
	}
	return res, nil
}

// Stats reboots steps and reports the shape of the final tree.
func (a *App) Stats(steps []reactor.Step, part reactor.Part) (regiontree.Stats, error) {
	tree, err := a.Reboot(steps, part)
	if err != nil {
		return regiontree.Stats{}, err
	}
	return regiontree.Measure(tree), nil
}

// Meshes tessellates tree into colored meshes, one per leaf, or a single
// mesh of their union when merge is set.
func (a *App) Meshes(tree regiontree.Tree, merge bool) ([]MeshData, error) {
	var meshes []*kernel.Mesh
	if merge {
		m, err := tessellate.Merge(tree, a.kernel, a.cfg.Mesh.MaxLeaves, mergedPartName)
		if err != nil {
			return nil, err
		}
		if m != nil {
			meshes = append(meshes, m)
		}
	} else {
		var err error
		meshes, err = tessellate.Tessellate(tree, a.kernel, a.cfg.Mesh.MaxLeaves)
		if err != nil {
			return nil, err
		}
	}

	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return out, nil
}

// prepare validates steps, logs warnings and applies the part's clamp.
func (a *App) prepare(steps []reactor.Step, part reactor.Part) ([]reactor.Step, error) {
	vr := reactor.ValidateAll(steps)
	for _, w := range vr.Warnings {
		a.log.Warn("validation warning", "step", w.Step+1, "message", w.Message)
	}
	if !vr.OK() {
		errs := []error{ErrInvalidSteps}
		for _, e := range vr.Errors {
			errs = append(errs, e)
		}
		return nil, errors.Join(errs...)
	}
	return part.Select(steps, a.cfg.Reboot.InitBound), nil
}

// fold runs the reboot, logging the running total at debug level.
func (a *App) fold(steps []reactor.Step, part reactor.Part) regiontree.Tree {
	start := time.Now()
	tree := reactor.Reboot(steps, a.observe)
	a.log.Debug("reboot finished",
		"part", int(part),
		"steps", len(steps),
		"total", humanize.Comma(regiontree.Total(tree)),
		"elapsed", time.Since(start))
	return tree
}

func (a *App) observe(i int, step reactor.Step, t regiontree.Tree) {
	if !a.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	a.log.Debug("step applied", "n", i+1, "step", step.String(), "total", humanize.Comma(regiontree.Total(t)))
}
