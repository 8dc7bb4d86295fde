package meshzero

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type format struct {
	load func(path string) (*Mesh, error)
	save func(mesh *Mesh, path string) error
}

var formats = map[string]format{
	".stl":  {LoadSTL, SaveSTL},
	".obj":  {LoadOBJ, SaveOBJ},
	".gltf": {LoadGLTF, SaveGLTF},
	".glb":  {LoadGLTF, SaveGLB},
}

// Extensions returns the supported file extensions in sorted order.
func Extensions() []string {
	var exts []string
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func formatFor(path string) (format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := formats[ext]
	if !ok {
		return format{}, fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, ext, strings.Join(Extensions(), " "))
	}
	return f, nil
}

// LoadMesh reads the mesh at path, choosing the codec by file extension.
func LoadMesh(path string) (*Mesh, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	mesh, err := f.load(path)
	if err != nil {
		return nil, err
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrEmptyMesh
	}
	return mesh, nil
}

// SaveMesh writes mesh to path, choosing the codec by file extension. The
// data goes to a temporary file in the destination directory first and is
// renamed into place only once the codec has finished.
func SaveMesh(mesh *Mesh, path string) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	return writeAtomic(path, func(tmp string) error {
		return f.save(mesh, tmp)
	})
}

func writeAtomic(path string, write func(tmp string) error) error {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := file.Name()
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
