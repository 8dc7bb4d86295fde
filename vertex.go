package meshzero

// Vertex carries a position through the rendering pipeline. Output is the
// clip-space position written by the vertex shader.
type Vertex struct {
	Position Vector
	Normal   Vector
	Output   VectorW
}

func (a Vertex) Outside() bool {
	return a.Output.Outside()
}

type Triangle struct {
	V1, V2, V3 Vertex
}

func NewTriangle(v1, v2, v3 Vertex) *Triangle {
	return &Triangle{v1, v2, v3}
}

type Line struct {
	V1, V2 Vertex
}

func NewLine(v1, v2 Vertex) *Line {
	return &Line{v1, v2}
}

// InterpolateVertexes blends three vertexes with perspective-correct
// barycentric weights b, where b.W is the reciprocal of the weight sum.
func InterpolateVertexes(v1, v2, v3 Vertex, b VectorW) Vertex {
	v := Vertex{}
	v.Position = InterpolateVectors(v1.Position, v2.Position, v3.Position, b)
	v.Normal = InterpolateVectors(v1.Normal, v2.Normal, v3.Normal, b)
	v.Output = v1.Output.MulScalar(b.X).Add(v2.Output.MulScalar(b.Y)).Add(v3.Output.MulScalar(b.Z)).MulScalar(b.W)
	return v
}

func InterpolateVectors(v1, v2, v3 Vector, b VectorW) Vector {
	n := Vector{}
	n = n.Add(v1.MulScalar(b.X))
	n = n.Add(v2.MulScalar(b.Y))
	n = n.Add(v3.MulScalar(b.Z))
	return n.MulScalar(b.W)
}
