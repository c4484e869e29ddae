package haloc

import "errors"

// Sentinel errors for the loop-closure engine, checkable with [errors.Is].
//
// Only ErrConfigInvalid, ErrDirectory, and ErrDimensionMismatch can abort
// a public call outright. ErrNotFound and ErrDegenerateGeometry are
// recoverable: the engine treats them as "this candidate rejected, try
// the next" and they never escape GetLoopClosure.
var (
	// ErrConfigInvalid is returned by SetParams when a parameter is out
	// of range (e.g. NumProj <= 0).
	ErrConfigInvalid = errors.New("haloc: invalid configuration")

	// ErrDirectory is returned by Init/Finalize when the scratch
	// directory cannot be created or removed.
	ErrDirectory = errors.New("haloc: scratch directory error")

	// ErrDimensionMismatch is returned by SetNode when a node's
	// descriptor dimensionality differs from the dimensionality the
	// hash basis was initialized with.
	ErrDimensionMismatch = errors.New("haloc: descriptor dimension mismatch")

	// ErrNotFound is returned by a FeatureStore when an index was never
	// stored. The verifier skips candidates that fail with this error.
	ErrNotFound = errors.New("haloc: node not found")

	// ErrDegenerateGeometry is returned internally when a fundamental
	// matrix or PnP solve is numerically degenerate. It is never
	// returned to callers; it collapses to a verification failure.
	ErrDegenerateGeometry = errors.New("haloc: degenerate geometry")
)
