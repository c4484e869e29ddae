package haloc

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleRecord() (string, []Point2D, [][]float64, []Point3D) {
	name := "frame-0"
	kp := []Point2D{{X: 1, Y: 2}, {X: 3, Y: 4}}
	desc := [][]float64{{0.1, 0.2}, {0.3, 0.4}}
	p3d := []Point3D{{X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}}
	return name, kp, desc, p3d
}

func testFeatureStoreRoundTrip(t *testing.T, store FeatureStore) {
	t.Helper()
	name, kp, desc, p3d := sampleRecord()
	if err := store.Put(3, name, kp, desc, p3d); err != nil {
		t.Fatalf("Put: %v", err)
	}

	gotName, gotKP, gotDesc, gotP3D, err := store.Get(3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotName != name {
		t.Errorf("name = %q, want %q", gotName, name)
	}
	if len(gotKP) != len(kp) || gotKP[0] != kp[0] {
		t.Errorf("keypoints = %v, want %v", gotKP, kp)
	}
	if len(gotDesc) != len(desc) || gotDesc[1][1] != desc[1][1] {
		t.Errorf("descriptors = %v, want %v", gotDesc, desc)
	}
	if len(gotP3D) != len(p3d) || gotP3D[0] != p3d[0] {
		t.Errorf("points3d = %v, want %v", gotP3D, p3d)
	}

	if _, _, _, _, err := store.Get(999); err == nil {
		t.Errorf("Get(999) succeeded, want ErrNotFound")
	}
}

func TestMemoryFeatureStore(t *testing.T) {
	testFeatureStoreRoundTrip(t, NewMemoryFeatureStore())
}

func TestFileFeatureStoreRoundTrip(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileFeatureStore(base)
	if err != nil {
		t.Fatalf("NewFileFeatureStore: %v", err)
	}
	testFeatureStoreRoundTrip(t, store)

	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(store.dir); !os.IsNotExist(err) {
		t.Errorf("scratch directory %s still exists after Close", store.dir)
	}
}

func TestFileFeatureStoreUniqueScratchDirs(t *testing.T) {
	base := t.TempDir()
	s1, err := NewFileFeatureStore(base)
	if err != nil {
		t.Fatalf("first store: %v", err)
	}
	defer s1.Close()
	s2, err := NewFileFeatureStore(base)
	if err != nil {
		t.Fatalf("second store: %v", err)
	}
	defer s2.Close()

	if s1.dir == s2.dir {
		t.Fatalf("two engine instances collided on scratch dir %s", s1.dir)
	}
	if filepath.Dir(s1.dir) != base {
		t.Fatalf("scratch dir %s not under base %s", s1.dir, base)
	}
}
