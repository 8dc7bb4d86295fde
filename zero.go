package meshzero

import (
	"path/filepath"
	"strings"
)

// Result describes a completed zeroing run.
type Result struct {
	Input  string
	Output string
	Mode   Mode
	Shift  Vector
	Before Box
	After  Box
	Mesh   *Mesh
}

// OutputPath derives the default destination for input by inserting
// "_zeroed" before the extension: part.stl becomes part_zeroed.stl.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_zeroed" + ext
}

// ShiftVector returns the translation that moves the reference point
// selected by mode to the origin.
func ShiftVector(g Geometry, mesh *Mesh, mode Mode) (Vector, error) {
	switch mode {
	case ModeMin:
		return g.Bounds(mesh).Min.Negate(), nil
	case ModeCenter:
		return g.Bounds(mesh).Center().Negate(), nil
	case ModeMass:
		return g.CenterOfMass(mesh).Negate(), nil
	}
	return Vector{}, &InvalidModeError{mode.String()}
}

// Shift computes the shift for mode and applies it to mesh in place.
func Shift(g Geometry, mesh *Mesh, mode Mode) (*Result, error) {
	shift, err := ShiftVector(g, mesh, mode)
	if err != nil {
		return nil, err
	}
	before := g.Bounds(mesh)
	g.Translate(mesh, shift)
	return &Result{
		Mode:   mode,
		Shift:  shift,
		Before: before,
		After:  g.Bounds(mesh),
		Mesh:   mesh,
	}, nil
}

// Zero loads the mesh at input, moves the reference point selected by mode
// to the origin and writes the result to output. An empty output means
// OutputPath(input).
//
// Failures are reported as *InvalidModeError, *LoadError or *WriteError, in
// that order of precedence. Nothing is written unless every earlier step
// succeeded.
func Zero(g Geometry, input, output string, mode Mode) (*Result, error) {
	r, err := shiftFile(g, input, output, mode)
	if err != nil {
		return nil, err
	}
	if err := g.Export(r.Mesh, r.Output); err != nil {
		return nil, &WriteError{r.Output, err}
	}
	return r, nil
}

// DryRun is Zero without the export.
func DryRun(g Geometry, input, output string, mode Mode) (*Result, error) {
	return shiftFile(g, input, output, mode)
}

func shiftFile(g Geometry, input, output string, mode Mode) (*Result, error) {
	if !mode.Valid() {
		return nil, &InvalidModeError{mode.String()}
	}
	if output == "" {
		output = OutputPath(input)
	}
	mesh, err := g.Load(input)
	if err != nil {
		return nil, &LoadError{input, err}
	}
	r, err := Shift(g, mesh, mode)
	if err != nil {
		return nil, err
	}
	r.Input = input
	r.Output = output
	return r, nil
}
