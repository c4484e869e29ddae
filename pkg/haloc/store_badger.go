package haloc

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// BadgerFeatureStore persists node records as msgpack values in a
// BadgerDB database, one key per node index. It is the backend of
// choice for sequences long enough that per-file syscalls (as in
// [FileFeatureStore]) become the bottleneck.
type BadgerFeatureStore struct {
	db  *badger.DB
	dir string
}

// NewBadgerFeatureStore opens a uuid-suffixed BadgerDB database under
// base (os.TempDir() if empty).
func NewBadgerFeatureStore(base string) (*BadgerFeatureStore, error) {
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "haloc-badger-"+uuid.NewString())
	opts := badger.DefaultOptions(dir).WithLogger(quietBadgerLogger{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	return &BadgerFeatureStore{db: db, dir: dir}, nil
}

func nodeKey(index int) []byte {
	return fmt.Appendf(nil, "node/%08d", index)
}

func (s *BadgerFeatureStore) Put(index int, name string, keypoints []Point2D, descriptors [][]float64, points3d []Point3D) error {
	r := record{Name: name, Keypoints: keypoints, Descriptors: descriptors, Points3D: points3d}
	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("haloc: marshal node %d: %w", index, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(nodeKey(index), data)
	})
}

func (s *BadgerFeatureStore) Get(index int) (string, []Point2D, [][]float64, []Point3D, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nodeKey(index))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil, nil, nil, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	if err != nil {
		return "", nil, nil, nil, err
	}
	var r record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return "", nil, nil, nil, fmt.Errorf("haloc: unmarshal node %d: %w", index, err)
	}
	return r.Name, r.Keypoints, r.Descriptors, r.Points3D, nil
}

// Close closes the BadgerDB handle and removes its data directory,
// matching FileFeatureStore's no-trace-left teardown.
func (s *BadgerFeatureStore) Close() error {
	closeErr := s.db.Close()
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	return closeErr
}

// quietBadgerLogger suppresses Badger's debug/info chatter while still
// surfacing warnings and errors through the standard logger, matching
// the engine's otherwise slog-only logging without pulling badger's
// default verbose logger into every node Put/Get.
type quietBadgerLogger struct{}

func (quietBadgerLogger) Errorf(f string, v ...interface{})   { log.Printf("[badger] ERROR: "+f, v...) }
func (quietBadgerLogger) Warningf(f string, v ...interface{}) { log.Printf("[badger] WARN: "+f, v...) }
func (quietBadgerLogger) Infof(string, ...interface{})        {}
func (quietBadgerLogger) Debugf(string, ...interface{})       {}
