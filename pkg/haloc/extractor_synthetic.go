package haloc

import "fmt"

// SyntheticFrame is the "frame" type [SyntheticExtractor] expects:
// pre-computed keypoints, descriptors, and (for stereo) 3-D points,
// handed straight through without any actual image processing.
type SyntheticFrame struct {
	Keypoints   []Point2D
	Descriptors [][]float64
	Points3D    []Point3D
}

// SyntheticExtractor is a deterministic Extractor test double: it does
// no image processing and simply returns the fields of the
// [SyntheticFrame] it is given, after checking descriptor
// dimensionality. It exists to drive the engine's scenario tests
// without a real computer-vision front end.
type SyntheticExtractor struct {
	dim int
}

// NewSyntheticExtractor creates a SyntheticExtractor expecting
// descriptors of length dim.
func NewSyntheticExtractor(dim int) *SyntheticExtractor {
	return &SyntheticExtractor{dim: dim}
}

func (e *SyntheticExtractor) Dimension() int { return e.dim }

func (e *SyntheticExtractor) ExtractMono(frame any) ([]Point2D, [][]float64, error) {
	sf, ok := frame.(SyntheticFrame)
	if !ok {
		return nil, nil, fmt.Errorf("haloc: SyntheticExtractor requires a SyntheticFrame, got %T", frame)
	}
	if err := e.checkDim(sf.Descriptors); err != nil {
		return nil, nil, err
	}
	return sf.Keypoints, sf.Descriptors, nil
}

func (e *SyntheticExtractor) ExtractStereo(left, _ any) ([]Point2D, [][]float64, []Point3D, error) {
	sf, ok := left.(SyntheticFrame)
	if !ok {
		return nil, nil, nil, fmt.Errorf("haloc: SyntheticExtractor requires a SyntheticFrame, got %T", left)
	}
	if err := e.checkDim(sf.Descriptors); err != nil {
		return nil, nil, nil, err
	}
	if len(sf.Points3D) != len(sf.Keypoints) {
		return nil, nil, nil, fmt.Errorf("haloc: stereo frame has %d keypoints but %d 3-D points", len(sf.Keypoints), len(sf.Points3D))
	}
	return sf.Keypoints, sf.Descriptors, sf.Points3D, nil
}

func (e *SyntheticExtractor) checkDim(descriptors [][]float64) error {
	for _, row := range descriptors {
		if len(row) != e.dim {
			return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, e.dim, len(row))
		}
	}
	return nil
}
