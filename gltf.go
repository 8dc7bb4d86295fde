package meshzero

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfScene keeps the document a mesh was loaded from, so that exporting it
// rewrites POSITION data and leaves nodes, normals and materials alone.
type gltfScene struct {
	doc      *gltf.Document
	parts    []gltfPart
	vertices int
}

// gltfPart maps one instanced primitive onto a range of Mesh.Vertices.
type gltfPart struct {
	accessor uint32
	first    int
	count    int
	world    Matrix
}

type gltfInstance struct {
	mesh  uint32
	world Matrix
}

// LoadGLTF loads a .gltf or .glb file. Every triangle primitive reachable
// from the default scene is merged into a single indexed mesh, with node
// transforms applied so that vertices are in world space.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}

	var name string
	var vertices []Vector
	var faces [][3]int
	var parts []gltfPart

	for _, inst := range gltfInstances(doc) {
		if int(inst.mesh) >= len(doc.Meshes) {
			return nil, fmt.Errorf("node references missing mesh %d", inst.mesh)
		}
		mesh := doc.Meshes[inst.mesh]
		if name == "" {
			name = mesh.Name
		}
		for _, primitive := range mesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := primitive.Attributes[gltf.POSITION]
			if !ok || int(posIdx) >= len(doc.Accessors) {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, err
			}

			var indices []uint32
			if primitive.Indices != nil {
				if int(*primitive.Indices) >= len(doc.Accessors) {
					return nil, fmt.Errorf("mesh %q: missing index accessor %d", mesh.Name, *primitive.Indices)
				}
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
				if err != nil {
					return nil, err
				}
			} else {
				indices = make([]uint32, len(positions))
				for k := range indices {
					indices[k] = uint32(k)
				}
			}
			if len(indices)%3 != 0 {
				return nil, fmt.Errorf("mesh %q: %d indices is not a multiple of 3", mesh.Name, len(indices))
			}

			base := len(vertices)
			for _, p := range positions {
				v := Vector{float64(p[0]), float64(p[1]), float64(p[2])}
				vertices = append(vertices, inst.world.MulPosition(v))
			}
			parts = append(parts, gltfPart{posIdx, base, len(positions), inst.world})
			for i := 0; i < len(indices); i += 3 {
				var f [3]int
				for j := range f {
					index := int(indices[i+j])
					if index >= len(positions) {
						return nil, fmt.Errorf("mesh %q: index %d out of range", mesh.Name, index)
					}
					f[j] = base + index
				}
				faces = append(faces, f)
			}
		}
	}

	if len(faces) == 0 {
		return nil, ErrNoTriangles
	}
	m := NewMesh(vertices, faces)
	m.Name = name
	m.scene = &gltfScene{doc, parts, len(vertices)}
	return m, nil
}

// gltfInstances walks the node hierarchy of the default scene and returns
// every mesh reference with its world transform. Documents without nodes
// yield each mesh once, untransformed.
func gltfInstances(doc *gltf.Document) []gltfInstance {
	var roots []uint32
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	default:
		children := make(map[uint32]bool)
		for _, node := range doc.Nodes {
			for _, child := range node.Children {
				children[child] = true
			}
		}
		for i := range doc.Nodes {
			if !children[uint32(i)] {
				roots = append(roots, uint32(i))
			}
		}
	}

	var instances []gltfInstance
	visited := make(map[uint32]bool)
	var walk func(index uint32, parent Matrix)
	walk = func(index uint32, parent Matrix) {
		if int(index) >= len(doc.Nodes) || visited[index] {
			return
		}
		visited[index] = true
		node := doc.Nodes[index]
		world := parent.Mul(nodeMatrix(node))
		if node.Mesh != nil {
			instances = append(instances, gltfInstance{*node.Mesh, world})
		}
		for _, child := range node.Children {
			walk(child, world)
		}
	}
	for _, root := range roots {
		walk(root, Identity())
	}

	if len(instances) == 0 {
		for i := range doc.Meshes {
			instances = append(instances, gltfInstance{uint32(i), Identity()})
		}
	}
	return instances
}

// nodeMatrix returns the local transform of node, from its matrix when one
// is set and from translation, rotation and scale otherwise.
func nodeMatrix(node *gltf.Node) Matrix {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
		// column-major
		return Matrix{
			float64(m[0]), float64(m[4]), float64(m[8]), float64(m[12]),
			float64(m[1]), float64(m[5]), float64(m[9]), float64(m[13]),
			float64(m[2]), float64(m[6]), float64(m[10]), float64(m[14]),
			float64(m[3]), float64(m[7]), float64(m[11]), float64(m[15])}
	}
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	translate := Translate(Vector{float64(t[0]), float64(t[1]), float64(t[2])})
	rotate := QuaternionRotate(float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3]))
	scale := Scale(Vector{float64(s[0]), float64(s[1]), float64(s[2])})
	return translate.Mul(rotate).Mul(scale)
}

// SaveGLTF writes mesh as a JSON glTF document with every buffer embedded
// as a data URI.
func SaveGLTF(mesh *Mesh, path string) error {
	doc, err := gltfExport(mesh)
	if err != nil {
		return err
	}
	embedBuffers(doc, false)
	return gltf.Save(doc, path)
}

// SaveGLB writes mesh as a binary glTF container.
func SaveGLB(mesh *Mesh, path string) error {
	doc, err := gltfExport(mesh)
	if err != nil {
		return err
	}
	embedBuffers(doc, true)
	return gltf.SaveBinary(doc, path)
}

// gltfExport returns the document to write for mesh: the source document
// with updated positions when mesh came from glTF, a new one otherwise.
func gltfExport(mesh *Mesh) (*gltf.Document, error) {
	s := mesh.scene
	if s == nil || s.vertices != len(mesh.Vertices) {
		return gltfDocument(mesh), nil
	}

	written := make(map[uint32][][3]float32)
	for _, part := range s.parts {
		inverse, ok := part.world.InverseAffine()
		if !ok {
			return nil, fmt.Errorf("accessor %d: node transform is not invertible", part.accessor)
		}
		local := make([][3]float32, part.count)
		for i := range local {
			v := inverse.MulPosition(mesh.Vertices[part.first+i])
			local[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		if prev, ok := written[part.accessor]; ok {
			if !samePositions(prev, local) {
				return nil, fmt.Errorf("accessor %d is instanced by nodes whose transforms do not share a linear part", part.accessor)
			}
			continue
		}
		written[part.accessor] = local
		if err := writePositions(s.doc, part.accessor, local); err != nil {
			return nil, err
		}
	}
	return s.doc, nil
}

// writePositions overwrites the data of a POSITION accessor. Tightly packed
// or interleaved float data is rewritten in place; anything else gets a
// fresh buffer view under the same accessor index.
func writePositions(doc *gltf.Document, index uint32, data [][3]float32) error {
	acr := doc.Accessors[index]
	scratch := gltf.NewDocument()
	bounds := scratch.Accessors[modeler.WritePosition(scratch, data)]

	if acr.BufferView == nil || acr.Sparse != nil || int(*acr.BufferView) >= len(doc.BufferViews) {
		fresh := modeler.WritePosition(doc, data)
		doc.Accessors[index] = doc.Accessors[fresh]
		doc.Accessors = doc.Accessors[:fresh]
		return nil
	}

	buf, err := modeler.ReadBufferView(doc, doc.BufferViews[*acr.BufferView])
	if err != nil {
		return err
	}
	stride := int(doc.BufferViews[*acr.BufferView].ByteStride)
	if stride == 0 {
		stride = 12
	}
	offset := int(acr.ByteOffset)
	if len(data) > 0 && offset+stride*(len(data)-1)+12 > len(buf) {
		return io.ErrShortBuffer
	}
	for i, p := range data {
		for j, c := range p {
			binary.LittleEndian.PutUint32(buf[offset+i*stride+4*j:], math.Float32bits(c))
		}
	}
	acr.Min, acr.Max = bounds.Min, bounds.Max
	return nil
}

func samePositions(a, b [][3]float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		for j := range a[i] {
			d := math.Abs(float64(a[i][j] - b[i][j]))
			if d > 1e-5*(1+math.Abs(float64(a[i][j]))) {
				return false
			}
		}
	}
	return true
}

// embedBuffers makes the document self-contained. In a GLB the first
// buffer becomes the binary chunk; all other buffers become data URIs.
func embedBuffers(doc *gltf.Document, glb bool) {
	for i, b := range doc.Buffers {
		b.ByteLength = uint32(len(b.Data))
		if glb && i == 0 {
			b.URI = ""
			continue
		}
		b.URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.Data)
	}
}

func gltfDocument(mesh *Mesh) *gltf.Document {
	positions := make([][3]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	indices := make([]uint32, 0, 3*len(mesh.Faces))
	for _, f := range mesh.Faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}

	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Name: mesh.Name,
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: gltf.Attribute{
				gltf.POSITION: modeler.WritePosition(doc, positions),
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: mesh.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}
