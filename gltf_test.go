package meshzero

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGLBRoundTrip(t *testing.T) {
	cube := box(Vector{3, -2, 5}, Vector{2, 1, 4})
	cube.Name = "cube"
	path := writeMesh(t, cube, "cube.glb")

	m, err := LoadGLTF(path)
	require.NoError(t, err)
	assert.Equal(t, "cube", m.Name)
	assert.Equal(t, cube.Faces, m.Faces)
	assert.Equal(t, cube.Vertices, m.Vertices)
}

func TestGLTFRoundTrip(t *testing.T) {
	path := writeMesh(t, tetrahedron(), "tet.gltf")

	m, err := LoadGLTF(path)
	require.NoError(t, err)
	assert.Equal(t, tetrahedron().Vertices, m.Vertices)
	assert.Equal(t, tetrahedron().Faces, m.Faces)
}

func TestZeroGLB(t *testing.T) {
	in := writeMesh(t, box(Vector{3, -2, 5}, Vector{2, 1, 4}), "part.glb")

	r, err := Zero(Files{}, in, "", ModeCenter)
	require.NoError(t, err)
	assert.Equal(t, "part_zeroed.glb", filepath.Base(r.Output))

	m, err := LoadMesh(r.Output)
	require.NoError(t, err)
	assert.Equal(t, Box{Vector{-1, -0.5, -2}, Vector{1, 0.5, 2}}, m.BoundingBox())
}

// writeScene saves a GLB whose single mesh has normals and a material and
// is instanced once per node.
func writeScene(t *testing.T, local *Mesh, nodes ...*gltf.Node) string {
	t.Helper()
	positions := make([][3]float32, len(local.Vertices))
	normals := make([][3]float32, len(local.Vertices))
	for i, v := range local.Vertices {
		positions[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		normals[i] = [3]float32{0, 0, 1}
	}
	var indices []uint32
	for _, f := range local.Faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}

	doc := gltf.NewDocument()
	doc.Materials = []*gltf.Material{{Name: "steel"}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "part",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: gltf.Attribute{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			},
			Material: gltf.Index(0),
		}},
	}}
	doc.Nodes = nodes
	for i := range nodes {
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(i))
	}

	path := filepath.Join(t.TempDir(), "scene.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTFAppliesNodeTransform(t *testing.T) {
	// scale 2, half turn about Z, then move 100 along X
	in := writeScene(t, box(Vector{}, Vector{1, 2, 3}), &gltf.Node{
		Mesh:        gltf.Index(0),
		Translation: [3]float32{100, 0, 0},
		Rotation:    [4]float32{0, 0, 1, 0},
		Scale:       [3]float32{2, 2, 2},
	})

	m, err := LoadGLTF(in)
	require.NoError(t, err)
	assertVector(t, Vector{98, -4, 0}, m.BoundingBox().Min)
	assertVector(t, Vector{100, 0, 6}, m.BoundingBox().Max)
}

func TestZeroGLBKeepsSceneIntact(t *testing.T) {
	in := writeScene(t, box(Vector{}, Vector{1, 2, 3}), &gltf.Node{
		Name:        "part",
		Mesh:        gltf.Index(0),
		Translation: [3]float32{100, 0, 0},
		Rotation:    [4]float32{0, 0, 1, 0},
		Scale:       [3]float32{2, 2, 2},
	})

	r, err := Zero(Files{}, in, "", ModeMin)
	require.NoError(t, err)
	assertVector(t, Vector{-98, 4, 0}, r.Shift)

	m, err := LoadGLTF(r.Output)
	require.NoError(t, err)
	assertVector(t, Vector{}, m.BoundingBox().Min)
	assertVector(t, Vector{2, 4, 6}, m.BoundingBox().Max)

	doc, err := gltf.Open(r.Output)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	node := doc.Nodes[0]
	assert.Equal(t, [3]float32{100, 0, 0}, node.TranslationOrDefault())
	assert.Equal(t, [4]float32{0, 0, 1, 0}, node.RotationOrDefault())
	assert.Equal(t, [3]float32{2, 2, 2}, node.ScaleOrDefault())

	require.Len(t, doc.Materials, 1)
	assert.Equal(t, "steel", doc.Materials[0].Name)
	primitive := doc.Meshes[0].Primitives[0]
	require.NotNil(t, primitive.Material)
	normalIdx, ok := primitive.Attributes[gltf.NORMAL]
	require.True(t, ok, "normals were dropped")
	normals, err := modeler.ReadNormal(doc, doc.Accessors[normalIdx], nil)
	require.NoError(t, err)
	for _, n := range normals {
		assert.Equal(t, [3]float32{0, 0, 1}, n)
	}

	// the shift lands in the node's local frame
	positions := doc.Accessors[primitive.Attributes[gltf.POSITION]]
	assert.Equal(t, []float32{49, -2, 0}, positions.Min)
	assert.Equal(t, []float32{50, 0, 3}, positions.Max)
}

func TestZeroGLBInstancedMesh(t *testing.T) {
	in := writeScene(t, unitCube(),
		&gltf.Node{Mesh: gltf.Index(0), Translation: [3]float32{5, 5, 5}},
		&gltf.Node{Mesh: gltf.Index(0), Translation: [3]float32{15, 5, 5}},
	)

	r, err := Zero(Files{}, in, "", ModeMin)
	require.NoError(t, err)

	m, err := LoadGLTF(r.Output)
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 16)
	assertVector(t, Vector{}, m.BoundingBox().Min)
	assertVector(t, Vector{11, 1, 1}, m.BoundingBox().Max)
}

func TestZeroGLBInstancesDisagree(t *testing.T) {
	in := writeScene(t, unitCube(),
		&gltf.Node{Mesh: gltf.Index(0), Translation: [3]float32{1, 1, 1}},
		&gltf.Node{Mesh: gltf.Index(0), Translation: [3]float32{5, 0, 0}, Scale: [3]float32{3, 3, 3}},
	)

	_, err := Zero(Files{}, in, "", ModeMin)
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.NoFileExists(t, OutputPath(in))
}

func TestMatrixInverseAffine(t *testing.T) {
	m := Translate(Vector{100, -3, 2}).Mul(QuaternionRotate(0, 0, 1, 0)).Mul(Scale(Vector{2, 4, 0.5}))
	inverse, ok := m.InverseAffine()
	require.True(t, ok)
	for _, v := range []Vector{{}, {1, 2, 3}, {-7, 0.25, 9}} {
		assertVector(t, v, inverse.MulPosition(m.MulPosition(v)))
	}
	assertVector(t, Vector{1, 2, 3}, Identity().MulPosition(Vector{1, 2, 3}))

	_, ok = Scale(Vector{1, 0, 1}).InverseAffine()
	assert.False(t, ok)
}
