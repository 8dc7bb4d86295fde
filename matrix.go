package meshzero

import "math"

// Matrix is a row-major 4x4 transform.
type Matrix struct {
	x00, x01, x02, x03 float64
	x10, x11, x12, x13 float64
	x20, x21, x22, x23 float64
	x30, x31, x32, x33 float64
}

func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1}
}

func Translate(v Vector) Matrix {
	return Matrix{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1}
}

func Scale(v Vector) Matrix {
	return Matrix{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1}
}

// QuaternionRotate returns the rotation described by the unit quaternion
// (x, y, z, w).
func QuaternionRotate(x, y, z, w float64) Matrix {
	return Matrix{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), 0,
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), 0,
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1}
}

func Frustum(l, r, b, t, n, f float64) Matrix {
	t1 := 2 * n
	t2 := r - l
	t3 := t - b
	t4 := f - n
	return Matrix{
		t1 / t2, 0, (r + l) / t2, 0,
		0, t1 / t3, (t + b) / t3, 0,
		0, 0, (-f - n) / t4, (-t1 * f) / t4,
		0, 0, -1, 0}
}

// Perspective takes the vertical field of view in degrees.
func Perspective(fovy, aspect, near, far float64) Matrix {
	ymax := near * math.Tan(fovy*math.Pi/360)
	xmax := ymax * aspect
	return Frustum(-xmax, xmax, -ymax, ymax, near, far)
}

func LookAt(eye, center, up Vector) Matrix {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return Matrix{
		x.X, x.Y, x.Z, -x.Dot(eye),
		y.X, y.Y, y.Z, -y.Dot(eye),
		z.X, z.Y, z.Z, -z.Dot(eye),
		0, 0, 0, 1}
}

// Screen maps normalized device coordinates to pixel coordinates with the
// origin at the top left and depth in [0, 1].
func Screen(w, h int) Matrix {
	w2 := float64(w) / 2
	h2 := float64(h) / 2
	return Matrix{
		w2, 0, 0, w2,
		0, -h2, 0, h2,
		0, 0, 0.5, 0.5,
		0, 0, 0, 1}
}

func (m Matrix) Perspective(fovy, aspect, near, far float64) Matrix {
	return Perspective(fovy, aspect, near, far).Mul(m)
}

func (a Matrix) Mul(b Matrix) Matrix {
	m := Matrix{}
	m.x00 = a.x00*b.x00 + a.x01*b.x10 + a.x02*b.x20 + a.x03*b.x30
	m.x10 = a.x10*b.x00 + a.x11*b.x10 + a.x12*b.x20 + a.x13*b.x30
	m.x20 = a.x20*b.x00 + a.x21*b.x10 + a.x22*b.x20 + a.x23*b.x30
	m.x30 = a.x30*b.x00 + a.x31*b.x10 + a.x32*b.x20 + a.x33*b.x30
	m.x01 = a.x00*b.x01 + a.x01*b.x11 + a.x02*b.x21 + a.x03*b.x31
	m.x11 = a.x10*b.x01 + a.x11*b.x11 + a.x12*b.x21 + a.x13*b.x31
	m.x21 = a.x20*b.x01 + a.x21*b.x11 + a.x22*b.x21 + a.x23*b.x31
	m.x31 = a.x30*b.x01 + a.x31*b.x11 + a.x32*b.x21 + a.x33*b.x31
	m.x02 = a.x00*b.x02 + a.x01*b.x12 + a.x02*b.x22 + a.x03*b.x32
	m.x12 = a.x10*b.x02 + a.x11*b.x12 + a.x12*b.x22 + a.x13*b.x32
	m.x22 = a.x20*b.x02 + a.x21*b.x12 + a.x22*b.x22 + a.x23*b.x32
	m.x32 = a.x30*b.x02 + a.x31*b.x12 + a.x32*b.x22 + a.x33*b.x32
	m.x03 = a.x00*b.x03 + a.x01*b.x13 + a.x02*b.x23 + a.x03*b.x33
	m.x13 = a.x10*b.x03 + a.x11*b.x13 + a.x12*b.x23 + a.x13*b.x33
	m.x23 = a.x20*b.x03 + a.x21*b.x13 + a.x22*b.x23 + a.x23*b.x33
	m.x33 = a.x30*b.x03 + a.x31*b.x13 + a.x32*b.x23 + a.x33*b.x33
	return m
}

func (a Matrix) MulPosition(b Vector) Vector {
	x := a.x00*b.X + a.x01*b.Y + a.x02*b.Z + a.x03
	y := a.x10*b.X + a.x11*b.Y + a.x12*b.Z + a.x13
	z := a.x20*b.X + a.x21*b.Y + a.x22*b.Z + a.x23
	return Vector{x, y, z}
}

func (a Matrix) MulPositionW(b Vector) VectorW {
	x := a.x00*b.X + a.x01*b.Y + a.x02*b.Z + a.x03
	y := a.x10*b.X + a.x11*b.Y + a.x12*b.Z + a.x13
	z := a.x20*b.X + a.x21*b.Y + a.x22*b.Z + a.x23
	w := a.x30*b.X + a.x31*b.Y + a.x32*b.Z + a.x33
	return VectorW{x, y, z, w}
}

// InverseAffine inverts a matrix whose bottom row is (0, 0, 0, 1). It
// reports false when the linear part is singular.
func (a Matrix) InverseAffine() (Matrix, bool) {
	c00 := a.x11*a.x22 - a.x12*a.x21
	c10 := a.x12*a.x20 - a.x10*a.x22
	c20 := a.x10*a.x21 - a.x11*a.x20
	d := a.x00*c00 + a.x01*c10 + a.x02*c20
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return Matrix{}, false
	}
	m := Matrix{}
	m.x00 = c00 / d
	m.x01 = (a.x02*a.x21 - a.x01*a.x22) / d
	m.x02 = (a.x01*a.x12 - a.x02*a.x11) / d
	m.x10 = c10 / d
	m.x11 = (a.x00*a.x22 - a.x02*a.x20) / d
	m.x12 = (a.x02*a.x10 - a.x00*a.x12) / d
	m.x20 = c20 / d
	m.x21 = (a.x01*a.x20 - a.x00*a.x21) / d
	m.x22 = (a.x00*a.x11 - a.x01*a.x10) / d
	m.x03 = -(m.x00*a.x03 + m.x01*a.x13 + m.x02*a.x23)
	m.x13 = -(m.x10*a.x03 + m.x11*a.x13 + m.x12*a.x23)
	m.x23 = -(m.x20*a.x03 + m.x21*a.x13 + m.x22*a.x23)
	m.x33 = 1
	return m, true
}
