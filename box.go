package meshzero

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vector
}

// BoxForVectors returns the smallest box containing every vector. An empty
// slice yields the zero box.
func BoxForVectors(vectors []Vector) Box {
	if len(vectors) == 0 {
		return Box{}
	}
	min := vectors[0]
	max := vectors[0]
	for _, v := range vectors[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return Box{min, max}
}

func (a Box) Size() Vector {
	return a.Max.Sub(a.Min)
}

func (a Box) Center() Vector {
	return a.Min.Add(a.Max).MulScalar(0.5)
}

func (a Box) Diagonal() float64 {
	return a.Size().Length()
}

// Corners returns the eight corners of the box.
func (a Box) Corners() []Vector {
	return []Vector{
		{a.Min.X, a.Min.Y, a.Min.Z},
		{a.Min.X, a.Min.Y, a.Max.Z},
		{a.Min.X, a.Max.Y, a.Min.Z},
		{a.Min.X, a.Max.Y, a.Max.Z},
		{a.Max.X, a.Min.Y, a.Min.Z},
		{a.Max.X, a.Min.Y, a.Max.Z},
		{a.Max.X, a.Max.Y, a.Min.Z},
		{a.Max.X, a.Max.Y, a.Max.Z},
	}
}

func (a Box) String() string {
	return a.Min.String() + " - " + a.Max.String()
}
