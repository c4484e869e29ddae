package haloc

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/vislam/haloc/pkg/storage"
)

// ObjectFeatureStore persists one YAML object per node through a
// [storage.FileStore], so node records can be mirrored to an
// off-robot object store (e.g. [storage.S3Store]) for offline
// analysis, per the storage package's documented purpose.
//
// Unlike [FileFeatureStore], ObjectFeatureStore does not own or remove
// a scratch directory: the backing FileStore's lifecycle is the
// caller's responsibility. Close is a no-op.
type ObjectFeatureStore struct {
	fs     storage.FileStore
	prefix string
}

// NewObjectFeatureStore wraps fs, storing node records under
// "<prefix>/node-XXXXXXXX.yaml".
func NewObjectFeatureStore(fs storage.FileStore, prefix string) *ObjectFeatureStore {
	return &ObjectFeatureStore{fs: fs, prefix: prefix}
}

func (s *ObjectFeatureStore) path(index int) string {
	if s.prefix == "" {
		return fmt.Sprintf("node-%08d.yaml", index)
	}
	return fmt.Sprintf("%s/node-%08d.yaml", s.prefix, index)
}

func (s *ObjectFeatureStore) Put(index int, name string, keypoints []Point2D, descriptors [][]float64, points3d []Point3D) error {
	r := record{Name: name, Keypoints: keypoints, Descriptors: descriptors, Points3D: points3d}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("haloc: marshal node %d: %w", index, err)
	}
	ctx := context.Background()
	w, err := s.fs.Write(ctx, s.path(index))
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (s *ObjectFeatureStore) Get(index int) (string, []Point2D, [][]float64, []Point3D, error) {
	ctx := context.Background()
	r, err := s.fs.Read(ctx, s.path(index))
	if err != nil {
		return "", nil, nil, nil, fmt.Errorf("%w: index %d: %v", ErrNotFound, index, err)
	}
	defer r.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", nil, nil, nil, err
	}
	var rec record
	if err := yaml.Unmarshal(buf.Bytes(), &rec); err != nil {
		return "", nil, nil, nil, fmt.Errorf("haloc: unmarshal node %d: %w", index, err)
	}
	return rec.Name, rec.Keypoints, rec.Descriptors, rec.Points3D, nil
}

func (s *ObjectFeatureStore) Close() error { return nil }
