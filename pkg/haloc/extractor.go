package haloc

// Extractor turns a raw frame into keypoints, descriptors, and
// (optionally) triangulated 3-D points. Keypoint/pixel-level image
// processing is out of scope for this package; callers own the
// computer-vision front end and satisfy this interface over it.
type Extractor interface {
	// ExtractMono returns keypoints and descriptors for a single image.
	// Points3D is unused for mono nodes.
	ExtractMono(frame any) (keypoints []Point2D, descriptors [][]float64, err error)

	// ExtractStereo returns keypoints, descriptors, and one triangulated
	// 3-D point per keypoint for a stereo image pair. len(points3d) ==
	// len(keypoints).
	ExtractStereo(left, right any) (keypoints []Point2D, descriptors [][]float64, points3d []Point3D, err error)

	// Dimension returns the descriptor length D this extractor produces.
	Dimension() int
}
