package meshzero

import (
	"image"
	"image/png"
	"math"
	"os"

	"github.com/nfnt/resize"
)

// Preview renders a shaded image of a mesh together with the coordinate
// axes, so the position of the origin relative to the part is visible.
//
// The scene is drawn at Size*Scale pixels and shrunk to Size. Direction
// points from the scene center towards the camera.
type Preview struct {
	Size       int
	Scale      int
	Background Color
	MeshColor  Color
	Direction  Vector
	Up         Vector
	Light      Vector
}

// MaxRenderSize bounds the side of the supersampled image. Previews whose
// Size*Scale exceeds it are drawn at a lower scale.
const MaxRenderSize = 4096

func NewPreview(size int) *Preview {
	return &Preview{
		Size:       size,
		Scale:      4,
		Background: HexColor("f4f4f4"),
		MeshColor:  HexColor("9e9e9e"),
		Direction:  Vector{1.2, -1.6, 1},
		Up:         Vector{0, 0, 1},
		Light:      Vector{0.5, -0.8, 1},
	}
}

// Scene holds the objects of one preview and the camera looking at them.
type Scene struct {
	Context  *Context
	Objects  []*Object
	Axes     []*Object
	eye, up  Vector
	box      Box
	fovy     float64
	near     float64
	far      float64
	camera   Matrix
	shader   Shader
	ambient  Color
	diffuse  Color
	lightDir Vector
}

func NewScene(p *Preview, mesh *Mesh) *Scene {
	objects := []*Object{NewObjectFromMesh(mesh, p.MeshColor)}
	meshBox := BoundingBox(objects)
	axes := NewAxisObjects(math.Max(meshBox.Diagonal()*0.6, 1))

	box := BoundingBox(append(append([]*Object{}, objects...), axes...))
	diagonal := math.Max(box.Diagonal(), 1e-9)
	distance := diagonal * 2
	eye := box.Center().Add(p.Direction.Normalize().MulScalar(distance))

	s := &Scene{
		Objects:  objects,
		Axes:     axes,
		eye:      eye,
		up:       p.Up,
		box:      box,
		near:     distance - diagonal*0.6,
		far:      distance + diagonal*0.6,
		ambient:  HexColor("404040"),
		diffuse:  HexColor("c0c0c0"),
		lightDir: p.Light,
	}
	scale := p.Scale
	if p.Size*scale > MaxRenderSize {
		scale = MaxRenderSize / p.Size
	}
	if scale < 1 {
		scale = 1
	}
	s.camera = s.FitObjectsToScene(1)
	s.shader = NewPhongShader(s.camera, s.lightDir, s.eye, s.ambient, s.diffuse)
	s.Context = NewContext(p.Size*scale, p.Size*scale, s.shader)
	s.Context.ClearColor = p.Background
	s.Context.LineWidth = float64(2 * scale)
	return s
}

// FitObjectsToScene returns a view-projection matrix whose vertical field
// of view just contains every corner of the scene box.
func (s *Scene) FitObjectsToScene(aspect float64) Matrix {
	center := s.box.Center()
	viewMatrix := LookAt(s.eye, center, s.up)

	var maxAngleX, maxAngleY float64
	for _, corner := range s.box.Corners() {
		p := viewMatrix.MulPosition(corner)

		// the camera looks down -Z in view space
		absZ := math.Abs(p.Z)
		if absZ < 1e-12 {
			continue
		}
		maxAngleX = math.Max(maxAngleX, math.Atan(math.Abs(p.X)/absZ))
		maxAngleY = math.Max(maxAngleY, math.Atan(math.Abs(p.Y)/absZ))
	}

	fovyFromY := 2 * maxAngleY
	fovyFromX := 2 * math.Atan(math.Tan(maxAngleX)/aspect)
	fovy := math.Max(fovyFromX, fovyFromY) * (180 / math.Pi) * 1.05
	s.fovy = math.Min(math.Max(fovy, 1), 170)

	return viewMatrix.Perspective(s.fovy, aspect, s.near, s.far)
}

// Draw renders the mesh with depth testing, then the axes on top of it.
func (s *Scene) Draw() image.Image {
	dc := s.Context
	dc.ClearColorBuffer()
	dc.ClearDepthBuffer()
	dc.Shader = s.shader
	dc.ReadDepth = true
	dc.WriteDepth = true
	for _, o := range s.Objects {
		dc.DrawObject(o)
	}

	dc.Shader = NewSolidColorShader(s.camera)
	dc.ReadDepth = false
	dc.WriteDepth = false
	for _, o := range s.Axes {
		dc.DrawObject(o)
	}
	return dc.Image()
}

// Render draws mesh at Size*Scale and downsamples it to Size.
func (p *Preview) Render(mesh *Mesh) image.Image {
	im := NewScene(p, mesh).Draw()
	if im.Bounds().Dx() == p.Size {
		return im
	}
	return resize.Resize(uint(p.Size), uint(p.Size), im, resize.Bilinear)
}

// Save renders mesh and writes it to path as a PNG.
func (p *Preview) Save(mesh *Mesh, path string) error {
	im := p.Render(mesh)
	return writeAtomic(path, func(tmp string) error {
		file, err := os.Create(tmp)
		if err != nil {
			return err
		}
		if err := png.Encode(file, im); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	})
}
