package meshzero

// Geometry is the mesh backend the zeroing pipeline runs against.
type Geometry interface {
	Load(path string) (*Mesh, error)
	Bounds(mesh *Mesh) Box
	CenterOfMass(mesh *Mesh) Vector
	Translate(mesh *Mesh, v Vector)
	Export(mesh *Mesh, path string) error
}

// Files is the default Geometry. It reads and writes mesh files using the
// codec registered for each file extension.
type Files struct{}

func (Files) Load(path string) (*Mesh, error) {
	return LoadMesh(path)
}

func (Files) Bounds(mesh *Mesh) Box {
	return mesh.BoundingBox()
}

func (Files) CenterOfMass(mesh *Mesh) Vector {
	return mesh.CenterOfMass()
}

func (Files) Translate(mesh *Mesh, v Vector) {
	mesh.Translate(v)
}

func (Files) Export(mesh *Mesh, path string) error {
	return SaveMesh(mesh, path)
}
