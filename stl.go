package meshzero

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/fogleman/simplify"
)

const (
	stlHeaderSize   = 84
	stlTriangleSize = 50
)

// LoadSTL reads a binary or ASCII STL file. Binary files are recognised by
// their size matching the triangle count in the header, which also covers
// binary files whose header happens to start with "solid".
func LoadSTL(path string) (*Mesh, error) {
	encoding, err := detectSTL(path)
	if err != nil {
		return nil, err
	}
	if encoding == EncodingBinary {
		return loadBinarySTL(path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadASCIISTLFromReader(file)
}

func detectSTL(path string) (Encoding, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return 0, err
	}
	header := make([]byte, stlHeaderSize)
	n, err := io.ReadFull(file, header)
	switch err {
	case nil:
		count := int64(binary.LittleEndian.Uint32(header[80:]))
		if info.Size() == stlHeaderSize+stlTriangleSize*count {
			return EncodingBinary, nil
		}
	case io.EOF, io.ErrUnexpectedEOF:
	default:
		return 0, err
	}
	if bytes.HasPrefix(bytes.TrimSpace(header[:n]), []byte("solid")) {
		return EncodingASCII, nil
	}
	return 0, ErrTruncatedSTL
}

func loadBinarySTL(path string) (*Mesh, error) {
	sm, err := simplify.LoadBinarySTL(path)
	if err != nil {
		return nil, err
	}
	triangles := make([][3]Vector, len(sm.Triangles))
	for i, t := range sm.Triangles {
		triangles[i] = [3]Vector{fromSimplify(t.V1), fromSimplify(t.V2), fromSimplify(t.V3)}
	}
	mesh := NewMeshFromTriangles(triangles)
	mesh.Encoding = EncodingBinary
	return mesh, nil
}

// LoadASCIISTLFromReader parses the text STL variant.
func LoadASCIISTLFromReader(r io.Reader) (*Mesh, error) {
	var name string
	var triangles [][3]Vector
	var facet []Vector

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			if name == "" && len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
		case "facet":
			facet = facet[:0]
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var c [3]float64
			for i := range c {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %v", line, err)
				}
				c[i] = f
			}
			facet = append(facet, Vector{c[0], c[1], c[2]})
		case "endfacet":
			if len(facet) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, want 3", line, len(facet))
			}
			triangles = append(triangles, [3]Vector{facet[0], facet[1], facet[2]})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(triangles) == 0 {
		return nil, ErrNoTriangles
	}
	mesh := NewMeshFromTriangles(triangles)
	mesh.Name = name
	mesh.Encoding = EncodingASCII
	return mesh, nil
}

// SaveSTL writes mesh as STL, keeping the ASCII variant for meshes that were
// loaded from ASCII and using binary otherwise.
func SaveSTL(mesh *Mesh, path string) error {
	if mesh.Encoding != EncodingASCII {
		return saveBinarySTL(mesh, path)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteASCIISTL(file, mesh); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func saveBinarySTL(mesh *Mesh, path string) error {
	triangles := make([]*simplify.Triangle, len(mesh.Faces))
	for i := range mesh.Faces {
		a, b, c := mesh.Triangle(i)
		triangles[i] = &simplify.Triangle{V1: toSimplify(a), V2: toSimplify(b), V3: toSimplify(c)}
	}
	sm := &simplify.Mesh{Triangles: triangles}
	return sm.SaveBinarySTL(path)
}

// WriteASCIISTL writes the text STL variant. Coordinates use the shortest
// representation that parses back to the same value.
func WriteASCIISTL(w io.Writer, mesh *Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.TrimSpace("solid "+mesh.Name))
	for i := range mesh.Faces {
		a, b, c := mesh.Triangle(i)
		n := faceNormal(a, b, c)
		fmt.Fprintf(bw, "  facet normal %v %v %v\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range [3]Vector{a, b, c} {
			fmt.Fprintf(bw, "      vertex %v %v %v\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintln(bw, strings.TrimSpace("endsolid "+mesh.Name))
	return bw.Flush()
}

func faceNormal(a, b, c Vector) Vector {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 || math.IsNaN(l) {
		return Vector{}
	}
	return n.DivScalar(l)
}

func fromSimplify(v simplify.Vector) Vector {
	return Vector{v.X, v.Y, v.Z}
}

func toSimplify(v Vector) simplify.Vector {
	return simplify.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
