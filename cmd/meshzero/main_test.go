package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/netisu/meshzero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube() *meshzero.Mesh {
	vertices := []meshzero.Vector{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	faces := [][3]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{3, 7, 6}, {3, 6, 2},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
	m := meshzero.NewMesh(vertices, faces)
	m.Translate(meshzero.Vector{X: 10, Y: 20, Z: 30})
	return m
}

func writeCube(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, meshzero.SaveMesh(cube(), path))
	return path
}

func execute(args ...string) (string, string, error) {
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDefaultMode(t *testing.T) {
	in := writeCube(t, "part.stl")
	out := filepath.Join(filepath.Dir(in), "part_zeroed.stl")

	stdout, _, err := execute(in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Zeroed mesh saved to: "+out)
	assert.Contains(t, stdout, "Mode:   min")

	m, err := meshzero.LoadMesh(out)
	require.NoError(t, err)
	assert.Equal(t, meshzero.Vector{}, m.BoundingBox().Min)
}

func TestCenterModeWithOutput(t *testing.T) {
	in := writeCube(t, "part.stl")
	out := filepath.Join(t.TempDir(), "centered.stl")

	stdout, _, err := execute(in, "--mode", "center", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	m, err := meshzero.LoadMesh(out)
	require.NoError(t, err)
	assert.Equal(t, meshzero.Box{
		Min: meshzero.Vector{X: -0.5, Y: -0.5, Z: -0.5},
		Max: meshzero.Vector{X: 0.5, Y: 0.5, Z: 0.5},
	}, m.BoundingBox())
}

func TestInvalidMode(t *testing.T) {
	in := writeCube(t, "part.stl")

	_, _, err := execute(in, "--mode", "centroid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid mode "centroid"`)
	assert.NoFileExists(t, meshzero.OutputPath(in))
}

func TestMissingInput(t *testing.T) {
	in := filepath.Join(t.TempDir(), "missing.stl")

	_, _, err := execute(in)
	var loadErr *meshzero.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.NoFileExists(t, meshzero.OutputPath(in))
}

func TestUnwritableOutput(t *testing.T) {
	in := writeCube(t, "part.stl")

	_, _, err := execute(in, "-o", filepath.Join(t.TempDir(), "missing", "out.stl"))
	var writeErr *meshzero.WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestArgs(t *testing.T) {
	_, _, err := execute()
	assert.Error(t, err)

	_, _, err = execute("a.stl", "b.stl")
	assert.Error(t, err)
}

func TestDryRun(t *testing.T) {
	in := writeCube(t, "part.stl")

	stdout, _, err := execute(in, "--dry-run", "--preview", filepath.Join(t.TempDir(), "p.png"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dry run")
	assert.Contains(t, stdout, "(-10, -20, -30)")
	assert.NoFileExists(t, meshzero.OutputPath(in))
}

func TestQuiet(t *testing.T) {
	in := writeCube(t, "part.obj")

	stdout, _, err := execute(in, "-q", "-m", "mass")
	require.NoError(t, err)
	assert.Equal(t, "Zeroed mesh saved to: "+meshzero.OutputPath(in)+"\n", stdout)
}

func TestPreview(t *testing.T) {
	in := writeCube(t, "part.glb")
	preview := filepath.Join(t.TempDir(), "preview.png")

	stdout, _, err := execute(in, "--mode", "center", "--preview", preview, "--preview-size", "48")
	require.NoError(t, err)
	assert.Contains(t, stdout, preview)

	info, err := os.Stat(preview)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPreviewSizeValidation(t *testing.T) {
	in := writeCube(t, "part.stl")

	for _, size := range []string{"0", "100000"} {
		_, _, err := execute(in, "--preview", "p.png", "--preview-size", size)
		assert.ErrorContains(t, err, "--preview-size", size)
	}
	assert.NoFileExists(t, meshzero.OutputPath(in))
}
