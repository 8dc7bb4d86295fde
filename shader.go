package meshzero

import (
	"math"
)

// Shader shader interface
type Shader interface {
	Vertex(Vertex) Vertex
	Fragment(Vertex, *Object) Color
}

// PhongShader lights both sides of every face, so meshes with inconsistent
// winding still render solid.
type PhongShader struct {
	Matrix         Matrix
	LightDirection Vector
	CameraPosition Vector
	AmbientColor   Color
	DiffuseColor   Color
	SpecularColor  Color
	SpecularPower  float64
}

func NewPhongShader(matrix Matrix, lightDirection, cameraPosition Vector, ambient, diffuse Color) *PhongShader {
	return &PhongShader{
		Matrix:         matrix,
		LightDirection: lightDirection.Normalize(),
		CameraPosition: cameraPosition,
		AmbientColor:   ambient,
		DiffuseColor:   diffuse,
		SpecularColor:  White,
		SpecularPower:  32,
	}
}

func (shader *PhongShader) Vertex(v Vertex) Vertex {
	v.Output = shader.Matrix.MulPositionW(v.Position)
	return v
}

func (shader *PhongShader) Fragment(v Vertex, fromObject *Object) Color {
	camera := shader.CameraPosition.Sub(v.Position).Normalize()
	normal := v.Normal
	if normal.Dot(camera) < 0 {
		normal = normal.Negate()
	}

	light := shader.AmbientColor
	diffuse := math.Max(normal.Dot(shader.LightDirection), 0)
	light = light.Add(shader.DiffuseColor.MulScalar(diffuse))
	if diffuse > 0 && shader.SpecularPower > 0 {
		reflected := shader.LightDirection.Negate().Reflect(normal)
		specular := math.Max(camera.Dot(reflected), 0)
		if specular > 0 {
			specular = math.Pow(specular, shader.SpecularPower)
			light = light.Add(shader.SpecularColor.MulScalar(specular))
		}
	}
	return fromObject.Color.Mul(light).Min(White).Alpha(fromObject.Color.A)
}

// SolidColorShader renders everything in the object's color.
type SolidColorShader struct {
	Matrix Matrix
}

func NewSolidColorShader(matrix Matrix) *SolidColorShader {
	return &SolidColorShader{matrix}
}

func (s *SolidColorShader) Vertex(v Vertex) Vertex {
	v.Output = s.Matrix.MulPositionW(v.Position)
	return v
}

func (s *SolidColorShader) Fragment(v Vertex, fromObject *Object) Color {
	return fromObject.Color
}
