package meshzero

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit square
o square
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
f -4/1/1 -3/1/1 -2/1/1 -1/1/1
`

func TestLoadOBJ(t *testing.T) {
	m, err := LoadOBJFromReader(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	assert.Equal(t, "square", m.Name)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, m.Faces)
}

func TestLoadOBJErrors(t *testing.T) {
	for name, src := range map[string]string{
		"bad index":    "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad vertex":   "v 0 zero 0\n",
		"short vertex": "v 0 0\n",
	} {
		_, err := LoadOBJFromReader(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestOBJRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cube := unitCube()
	cube.Name = "cube"
	require.NoError(t, WriteOBJ(&buf, cube))

	m, err := LoadOBJFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, cube, m)
}

func TestZeroOBJ(t *testing.T) {
	in := writeMesh(t, tetrahedron(), "tet.obj")

	r, err := Zero(Files{}, in, "", ModeMass)
	require.NoError(t, err)
	assert.Equal(t, "tet_zeroed.obj", filepath.Base(r.Output))

	m, err := LoadMesh(r.Output)
	require.NoError(t, err)
	assertVector(t, Vector{}, m.CenterOfMass())
	assert.Equal(t, tetrahedron().Faces, m.Faces)
}
