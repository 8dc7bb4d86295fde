package meshzero

import (
	"image"
	"math"
	"runtime"
	"sync"
)

// Context rasterizes objects into a color and depth buffer.
type Context struct {
	Width        int
	Height       int
	Shader       Shader
	ColorBuffer  *image.NRGBA
	DepthBuffer  []float64
	ClearColor   Color
	ReadDepth    bool
	WriteDepth   bool
	LineWidth    float64
	screenMatrix Matrix
	locks        []sync.Mutex
}

func NewContext(width, height int, shader Shader) *Context {
	dc := &Context{}
	dc.Width = width
	dc.Height = height
	dc.Shader = shader
	dc.ColorBuffer = image.NewNRGBA(image.Rect(0, 0, width, height))
	dc.DepthBuffer = make([]float64, width*height)
	dc.ClearColor = Transparent
	dc.ReadDepth = true
	dc.WriteDepth = true
	dc.LineWidth = 2
	dc.screenMatrix = Screen(width, height)
	dc.locks = make([]sync.Mutex, 256)
	dc.ClearDepthBuffer()
	return dc
}

func (dc *Context) Image() image.Image {
	return dc.ColorBuffer
}

// ClearColorBufferWith fills the color buffer one row at a time.
func (dc *Context) ClearColorBufferWith(c Color) {
	nrgba := c.NRGBA()
	row := make([]uint8, dc.Width*4)
	for x := 0; x < dc.Width; x++ {
		i := x * 4
		row[i+0] = nrgba.R
		row[i+1] = nrgba.G
		row[i+2] = nrgba.B
		row[i+3] = nrgba.A
	}
	pix := dc.ColorBuffer.Pix
	stride := dc.ColorBuffer.Stride
	for y := 0; y < dc.Height; y++ {
		copy(pix[y*stride:], row)
	}
}

func (dc *Context) ClearColorBuffer() {
	dc.ClearColorBufferWith(dc.ClearColor)
}

func (dc *Context) ClearDepthBuffer() {
	for i := range dc.DepthBuffer {
		dc.DepthBuffer[i] = math.MaxFloat64
	}
}

func edge(a, b, c Vector) float64 {
	return (b.X-c.X)*(a.Y-c.Y) - (b.Y-c.Y)*(a.X-c.X)
}

func (dc *Context) rasterize(v0, v1, v2 Vertex, s0, s1, s2 Vector, fromObject *Object) {
	min := s0.Min(s1.Min(s2)).Floor()
	max := s0.Max(s1.Max(s2)).Ceil()

	x0 := ClampInt(int(min.X), 0, dc.Width-1)
	x1 := ClampInt(int(max.X), 0, dc.Width-1)
	y0 := ClampInt(int(min.Y), 0, dc.Height-1)
	y1 := ClampInt(int(max.Y), 0, dc.Height-1)

	area := edge(s0, s1, s2)
	if area == 0 {
		return
	}

	p := Vector{float64(x0) + 0.5, float64(y0) + 0.5, 0}
	w00 := edge(s1, s2, p)
	w01 := edge(s2, s0, p)
	w02 := edge(s0, s1, p)
	a01 := s1.Y - s0.Y
	b01 := s0.X - s1.X
	a12 := s2.Y - s1.Y
	b12 := s1.X - s2.X
	a20 := s0.Y - s2.Y
	b20 := s2.X - s0.X

	ra := 1 / area
	r0 := 1 / v0.Output.W
	r1 := 1 / v1.Output.W
	r2 := 1 / v2.Output.W

	stride := dc.Width
	pix := dc.ColorBuffer.Pix

	for y := y0; y <= y1; y++ {
		w0 := w00
		w1 := w01
		w2 := w02
		for x := x0; x <= x1; x++ {
			b0 := w0 * ra
			b1 := w1 * ra
			b2 := w2 * ra
			w0 += a12
			w1 += a20
			w2 += a01

			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}
			i := y*stride + x
			z := b0*s0.Z + b1*s1.Z + b2*s2.Z

			// early depth test
			if dc.ReadDepth && z > dc.DepthBuffer[i] {
				continue
			}

			b := VectorW{b0 * r0, b1 * r1, b2 * r2, 0}
			b.W = 1 / (b.X + b.Y + b.Z)
			v := InterpolateVertexes(v0, v1, v2, b)
			c := dc.Shader.Fragment(v, fromObject).NRGBA()

			lock := &dc.locks[(x+y)&255]
			lock.Lock()
			if !dc.ReadDepth || z <= dc.DepthBuffer[i] {
				if dc.WriteDepth {
					dc.DepthBuffer[i] = z
				}
				j := i * 4
				pix[j+0] = c.R
				pix[j+1] = c.G
				pix[j+2] = c.B
				pix[j+3] = c.A
			}
			lock.Unlock()
		}
		w00 += b12
		w01 += b20
		w02 += b01
	}
}

// line draws a segment as a screen-space quad LineWidth pixels wide.
func (dc *Context) line(v0, v1 Vertex, s0, s1 Vector, fromObject *Object) {
	if s0.X == s1.X && s0.Y == s1.Y {
		return
	}
	n := s1.Sub(s0).Perpendicular().Normalize().MulScalar(dc.LineWidth / 2)
	s00 := s0.Add(n)
	s01 := s0.Sub(n)
	s10 := s1.Add(n)
	s11 := s1.Sub(n)
	dc.rasterize(v1, v0, v0, s11, s01, s00, fromObject)
	dc.rasterize(v1, v1, v0, s10, s11, s00, fromObject)
}

func (dc *Context) screen(v Vertex) Vector {
	return dc.screenMatrix.MulPosition(v.Output.DivScalar(v.Output.W).Vector())
}

// DrawTriangle shades and rasterizes t. Triangles with any corner outside
// the view volume are skipped rather than clipped.
func (dc *Context) DrawTriangle(t *Triangle, fromObject *Object) {
	v1 := dc.Shader.Vertex(t.V1)
	v2 := dc.Shader.Vertex(t.V2)
	v3 := dc.Shader.Vertex(t.V3)
	if v1.Outside() || v2.Outside() || v3.Outside() {
		return
	}
	dc.rasterize(v1, v2, v3, dc.screen(v1), dc.screen(v2), dc.screen(v3), fromObject)
}

func (dc *Context) DrawLine(l *Line, fromObject *Object) {
	v1 := dc.Shader.Vertex(l.V1)
	v2 := dc.Shader.Vertex(l.V2)
	if v1.Outside() || v2.Outside() {
		return
	}
	dc.line(v1, v2, dc.screen(v1), dc.screen(v2), fromObject)
}

// DrawObject spreads the object's primitives over one goroutine per CPU.
func (dc *Context) DrawObject(o *Object) {
	var wg sync.WaitGroup
	wn := runtime.NumCPU()
	wg.Add(wn)
	for wi := 0; wi < wn; wi++ {
		go func(wi int) {
			defer wg.Done()
			for i := wi; i < len(o.Triangles); i += wn {
				dc.DrawTriangle(o.Triangles[i], o)
			}
			for i := wi; i < len(o.Lines); i += wn {
				dc.DrawLine(o.Lines[i], o)
			}
		}(wi)
	}
	wg.Wait()
}
