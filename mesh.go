package meshzero

import (
	"log"
	"math"
)

// Encoding records which on-disk variant a mesh was read from so that it
// can be written back the same way.
type Encoding int

const (
	_ Encoding = iota
	EncodingBinary
	EncodingASCII
)

// Mesh is an indexed triangle mesh. Faces index into Vertices.
type Mesh struct {
	Name     string
	Vertices []Vector
	Faces    [][3]int
	Encoding Encoding

	// scene is the glTF document the mesh was read from, if any.
	scene *gltfScene
}

func NewMesh(vertices []Vector, faces [][3]int) *Mesh {
	return &Mesh{Vertices: vertices, Faces: faces}
}

// NewMeshFromTriangles builds an indexed mesh from a triangle soup, welding
// corners with identical coordinates into a single vertex.
func NewMeshFromTriangles(triangles [][3]Vector) *Mesh {
	lookup := make(map[Vector]int, len(triangles))
	vertices := make([]Vector, 0, len(triangles))
	faces := make([][3]int, len(triangles))
	for i, t := range triangles {
		for j, v := range t {
			index, ok := lookup[v]
			if !ok {
				index = len(vertices)
				vertices = append(vertices, v)
				lookup[v] = index
			}
			faces[i][j] = index
		}
	}
	return NewMesh(vertices, faces)
}

func (m *Mesh) Copy() *Mesh {
	vertices := make([]Vector, len(m.Vertices))
	copy(vertices, m.Vertices)
	faces := make([][3]int, len(m.Faces))
	copy(faces, m.Faces)
	return &Mesh{Name: m.Name, Vertices: vertices, Faces: faces, Encoding: m.Encoding, scene: m.scene}
}

// Triangle returns the corner positions of face i.
func (m *Mesh) Triangle(i int) (Vector, Vector, Vector) {
	f := m.Faces[i]
	return m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
}

func (m *Mesh) BoundingBox() Box {
	return BoxForVectors(m.Vertices)
}

// Translate moves every vertex by v. Faces are left untouched.
func (m *Mesh) Translate(v Vector) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(v)
	}
}

// Volume returns the signed volume enclosed by the surface. It is only
// meaningful for closed meshes; outward-facing winding gives a positive value.
func (m *Mesh) Volume() float64 {
	ref := m.BoundingBox().Center()
	var volume float64
	for i := range m.Faces {
		a, b, c := m.Triangle(i)
		a, b, c = a.Sub(ref), b.Sub(ref), c.Sub(ref)
		volume += a.Dot(b.Cross(c))
	}
	return volume / 6
}

// SurfaceArea returns the total area of all faces.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for i := range m.Faces {
		a, b, c := m.Triangle(i)
		area += b.Sub(a).Cross(c.Sub(a)).Length() / 2
	}
	return area
}

// volumeEpsilon is the enclosed volume, relative to the cube of the largest
// bounding box dimension, below which a mesh is treated as enclosing nothing.
const volumeEpsilon = 1e-9

// CenterOfMass returns the centroid of the volume enclosed by the mesh,
// assuming uniform density. Each face contributes the signed tetrahedron it
// forms with a reference point, so the result is exact for closed meshes.
//
// Open or flat meshes that enclose no measurable volume fall back to the
// area-weighted centroid of the surface, and meshes with no area fall back
// to the bounding box center.
func (m *Mesh) CenterOfMass() Vector {
	box := m.BoundingBox()
	ref := box.Center()
	size := box.Size().MaxComponent()

	var volume float64
	var moment Vector
	for i := range m.Faces {
		a, b, c := m.Triangle(i)
		a, b, c = a.Sub(ref), b.Sub(ref), c.Sub(ref)
		v := a.Dot(b.Cross(c))
		volume += v
		moment = moment.Add(a.Add(b).Add(c).MulScalar(v))
	}
	if size > 0 && math.Abs(volume/6) > volumeEpsilon*size*size*size {
		return ref.Add(moment.DivScalar(4 * volume))
	}

	log.Printf("meshzero: mesh %q encloses no volume, using surface centroid", m.Name)
	var area float64
	var weighted Vector
	for i := range m.Faces {
		a, b, c := m.Triangle(i)
		a, b, c = a.Sub(ref), b.Sub(ref), c.Sub(ref)
		w := b.Sub(a).Cross(c.Sub(a)).Length() / 2
		area += w
		weighted = weighted.Add(a.Add(b).Add(c).MulScalar(w / 3))
	}
	if area == 0 {
		return ref
	}
	return ref.Add(weighted.DivScalar(area))
}
