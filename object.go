package meshzero

// Object is a renderable set of triangles and lines sharing one color.
type Object struct {
	Triangles []*Triangle
	Lines     []*Line
	Color     Color
}

// NewObjectFromMesh converts the faces of mesh into flat-shaded triangles.
func NewObjectFromMesh(mesh *Mesh, c Color) *Object {
	triangles := make([]*Triangle, len(mesh.Faces))
	for i := range mesh.Faces {
		a, b, cc := mesh.Triangle(i)
		n := faceNormal(a, b, cc)
		triangles[i] = NewTriangle(
			Vertex{Position: a, Normal: n},
			Vertex{Position: b, Normal: n},
			Vertex{Position: cc, Normal: n})
	}
	return &Object{Triangles: triangles, Color: c}
}

func NewLineObject(lines []*Line, c Color) *Object {
	return &Object{Lines: lines, Color: c}
}

// NewAxisObjects returns one line object per axis, running from the origin
// to length along +X, +Y and +Z.
func NewAxisObjects(length float64) []*Object {
	axes := []struct {
		dir   Vector
		color Color
	}{
		{Vector{1, 0, 0}, HexColor("e53935")},
		{Vector{0, 1, 0}, HexColor("43a047")},
		{Vector{0, 0, 1}, HexColor("1e88e5")},
	}
	objects := make([]*Object, len(axes))
	for i, a := range axes {
		line := NewLine(Vertex{}, Vertex{Position: a.dir.MulScalar(length)})
		objects[i] = NewLineObject([]*Line{line}, a.color)
	}
	return objects
}

// BoundingBox covers every triangle and line vertex of the objects.
func BoundingBox(objects []*Object) Box {
	var points []Vector
	for _, o := range objects {
		for _, t := range o.Triangles {
			points = append(points, t.V1.Position, t.V2.Position, t.V3.Position)
		}
		for _, l := range o.Lines {
			points = append(points, l.V1.Position, l.V2.Position)
		}
	}
	return BoxForVectors(points)
}
