// Package haloc detects loop closures in a stream of monocular or stereo
// frames: for each ingested frame, decide whether it revisits a location
// seen earlier and, for stereo, recover the rigid transform between the
// two viewpoints.
//
// The package couples three pieces: a [Hasher] that summarizes a frame's
// local-feature descriptors into a fixed-length, order- and count-
// invariant vector; a [HashIndex] that ranks prior frames by hash
// distance; and a [Verifier] that confirms or rejects the top-ranked
// candidates by cross-checked descriptor matching plus epipolar (mono)
// or PnP (stereo) geometric consistency. [LoopClosureEngine] wires the
// three together.
//
// Keypoint and descriptor extraction is out of scope: callers supply an
// [Extractor] that turns raw images into descriptor matrices, keypoints,
// and (for stereo) 3-D points.
package haloc

import "gonum.org/v1/gonum/mat"

// Point2D is a 2-D point in pixel coordinates.
type Point2D struct {
	X, Y float64
}

// Point3D is a 3-D point, typically in a camera's reference frame.
type Point3D struct {
	X, Y, Z float64
}

// Node is one ingested frame: its keypoints, descriptor matrix, and
// (for stereo) 3-D points, plus a caller-supplied name. Nodes are
// immutable once created and are assigned indices in ingestion order
// starting at 0.
type Node struct {
	Index       int
	Name        string
	Keypoints   []Point2D
	Descriptors [][]float64 // K rows of length D; K may be 0
	Points3D    []Point3D   // empty for mono, len == len(Keypoints) for stereo
}

// Dim returns the descriptor dimensionality of the node, or 0 if it has
// no descriptors.
func (n Node) Dim() int {
	if len(n.Descriptors) == 0 {
		return 0
	}
	return len(n.Descriptors[0])
}

// descriptorMatrix lifts Node.Descriptors into a dense matrix for linear
// algebra. Returns nil if the node has no descriptors.
func (n Node) descriptorMatrix() *mat.Dense {
	k := len(n.Descriptors)
	if k == 0 {
		return nil
	}
	d := len(n.Descriptors[0])
	m := mat.NewDense(k, d, nil)
	for i, row := range n.Descriptors {
		m.SetRow(i, row)
	}
	return m
}

// Transform is a rigid transform from a candidate's camera frame to the
// query's camera frame, as produced by stereo verification. Mono
// verification has no recoverable scale and returns Identity().
type Transform struct {
	R *mat.Dense // 3x3 rotation
	T []float64  // length-3 translation
}

// Identity returns the identity transform (used for mono results, where
// no metric pose is recoverable, and as the zero value for rejected
// closures).
func Identity() Transform {
	r := mat.NewDense(3, 3, nil)
	r.Set(0, 0, 1)
	r.Set(1, 1, 1)
	r.Set(2, 2, 1)
	return Transform{R: r, T: []float64{0, 0, 0}}
}

// Intrinsics is a pinhole camera's 3x3 intrinsic matrix (no distortion),
// required before the first stereo SetNode call.
type Intrinsics struct {
	FX, FY float64 // focal lengths in pixels
	CX, CY float64 // principal point
}

// Matrix returns the 3x3 intrinsic matrix K.
func (k Intrinsics) Matrix() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	m.Set(0, 0, k.FX)
	m.Set(1, 1, k.FY)
	m.Set(0, 2, k.CX)
	m.Set(1, 2, k.CY)
	m.Set(2, 2, 1)
	return m
}
