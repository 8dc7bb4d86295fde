package meshzero

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

func LoadOBJ(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadOBJFromReader(file)
}

// LoadOBJFromReader reads vertex positions and faces. Polygons are split
// into triangle fans; texture and normal references are ignored.
func LoadOBJFromReader(r io.Reader) (*Mesh, error) {
	vs := make([]Vector, 0, 1024)
	var faces [][3]int
	var name string

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "o":
			if name == "" && len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
		case "v":
			if len(fields) < 4 {
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
			vs = append(vs, Vector{c[0], c[1], c[2]})
		case "f":
			args := fields[1:]
			if len(args) < 3 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", line)
			}
			fvs := make([]int, len(args))
			for i, arg := range args {
				index, err := fixIndex(strings.SplitN(arg, "/", 2)[0], len(vs))
				if err != nil {
					return nil, fmt.Errorf("line %d: %v", line, err)
				}
				fvs[i] = index
			}
			for i := 1; i < len(fvs)-1; i++ {
				faces = append(faces, [3]int{fvs[0], fvs[i], fvs[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	mesh := NewMesh(vs, faces)
	mesh.Name = name
	return mesh, nil
}

// fixIndex converts a one-based, possibly negative OBJ index into a
// zero-based index into a list of the given length.
func fixIndex(value string, length int) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	index := parsed - 1
	if parsed < 0 {
		index = parsed + length
	}
	if index < 0 || index >= length {
		return 0, fmt.Errorf("vertex index %d out of range", parsed)
	}
	return index, nil
}

func SaveOBJ(mesh *Mesh, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(file, mesh); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func WriteOBJ(w io.Writer, mesh *Mesh) error {
	bw := bufio.NewWriter(w)
	if mesh.Name != "" {
		fmt.Fprintf(bw, "o %s\n", mesh.Name)
	}
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %v %v %v\n", v.X, v.Y, v.Z)
	}
	for _, f := range mesh.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}
