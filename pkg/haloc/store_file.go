package haloc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

// FileFeatureStore persists one YAML file per node under a scratch
// directory unique to this engine instance.
//
// The scratch directory is created by NewFileFeatureStore and removed
// entirely by Close, so an engine that is Finalized leaves nothing
// behind.
type FileFeatureStore struct {
	dir string
}

// NewFileFeatureStore creates a uuid-suffixed scratch directory under
// base (os.TempDir() if base is empty) and returns a store rooted
// there. The suffix keeps concurrent engine instances from colliding
// on the same base directory.
func NewFileFeatureStore(base string) (*FileFeatureStore, error) {
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "haloc-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	return &FileFeatureStore{dir: dir}, nil
}

func (s *FileFeatureStore) path(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("node-%08d.yaml", index))
}

func (s *FileFeatureStore) Put(index int, name string, keypoints []Point2D, descriptors [][]float64, points3d []Point3D) error {
	r := record{Name: name, Keypoints: keypoints, Descriptors: descriptors, Points3D: points3d}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("haloc: marshal node %d: %w", index, err)
	}
	return os.WriteFile(s.path(index), data, 0o600)
}

func (s *FileFeatureStore) Get(index int) (string, []Point2D, [][]float64, []Point3D, error) {
	data, err := os.ReadFile(s.path(index))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil, nil, fmt.Errorf("%w: index %d", ErrNotFound, index)
		}
		return "", nil, nil, nil, err
	}
	var r record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return "", nil, nil, nil, fmt.Errorf("haloc: unmarshal node %d: %w", index, err)
	}
	return r.Name, r.Keypoints, r.Descriptors, r.Points3D, nil
}

// Close removes the entire scratch directory; a finalized engine leaves
// no scratch state behind.
func (s *FileFeatureStore) Close() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	return nil
}
