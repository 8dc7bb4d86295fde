package meshzero

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFormat = errors.New("unknown mesh format")
	ErrEmptyMesh     = errors.New("mesh has no faces")
	ErrTruncatedSTL  = errors.New("binary stl size does not match triangle count")
	ErrNoTriangles   = errors.New("no triangles found")
)

// InvalidModeError reports a mode selector outside the legal set.
type InvalidModeError struct {
	Value string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q: use %s", e.Value, strings.Join(modeNames, ", "))
}

// LoadError reports an input mesh that could not be opened or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// WriteError reports an output file that could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
