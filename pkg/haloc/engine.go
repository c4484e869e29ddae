package haloc

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/vislam/haloc/pkg/storage"
)

// engineState tracks the engine lifecycle.
type engineState int

const (
	stateUninitialized engineState = iota
	stateWarming
	stateActive
)

// LoopClosureEngine orchestrates the hash-then-verify loop-closure
// pipeline: ingest a node, hash it, rank prior nodes by hash distance,
// geometrically verify the top candidates, and optionally cross-check
// against a candidate's temporal neighbors before accepting.
//
// An engine is not reentrant: SetNode and GetLoopClosure must be
// called by a single goroutine in strict alternation.
type LoopClosureEngine struct {
	cfg   Config
	k     Intrinsics
	state engineState

	store FeatureStore
	index *HashIndex
	hash  *Hasher
	rng   *rand.Rand

	nextIndex    int
	currentIndex int
	stereo       bool
}

// NewLoopClosureEngine creates an engine. Call SetParams before Init
// if a non-default Config is needed.
func NewLoopClosureEngine() *LoopClosureEngine {
	return &LoopClosureEngine{cfg: DefaultConfig()}
}

// SetParams validates and installs cfg. Must be called before Init.
func (e *LoopClosureEngine) SetParams(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	e.cfg = cfg
	if cfg.Stereo {
		e.stereo = true
	}
	return nil
}

// SetCameraModel installs the intrinsic matrix used by stereo PnP
// verification, and switches the engine to stereo verification.
// Required before the first stereo SetNode call.
func (e *LoopClosureEngine) SetCameraModel(k Intrinsics) {
	e.k = k
	e.stereo = true
}

// Init allocates the engine's backing FeatureStore and resets all
// state. Returns ErrDirectory if the store's scratch directory cannot
// be created.
func (e *LoopClosureEngine) Init() error {
	store, err := e.newStore()
	if err != nil {
		return err
	}
	e.store = store
	e.index = NewHashIndex()
	e.hash = nil
	e.rng = rand.New(rand.NewPCG(e.cfg.Seed, e.cfg.Seed^0x5eed5eed))
	e.state = stateUninitialized
	e.nextIndex = 0
	e.currentIndex = -1
	slog.Debug("haloc: engine initialized", "store", e.cfg.Store, "num_proj", e.cfg.NumProj)
	return nil
}

func (e *LoopClosureEngine) newStore() (FeatureStore, error) {
	switch e.cfg.Store {
	case BackendMemory:
		return NewMemoryFeatureStore(), nil
	case BackendBadger:
		return NewBadgerFeatureStore(e.cfg.ScratchDir)
	case BackendObject:
		fs, err := storage.NewLocal(e.cfg.ObjectDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDirectory, err)
		}
		return NewObjectFeatureStore(fs, e.cfg.ObjectPrefix), nil
	case BackendFile, "":
		return NewFileFeatureStore(e.cfg.ScratchDir)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", ErrConfigInvalid, e.cfg.Store)
	}
}

// SetNode extracts features from left (and, for stereo, right) with
// extractor and stores the resulting node, assigning it the next
// sequential index.
//
// For mono nodes pass right == nil; for stereo nodes pass both frames.
func (e *LoopClosureEngine) SetNode(extractor Extractor, left, right any, name string) error {
	var keypoints []Point2D
	var descriptors [][]float64
	var points3d []Point3D
	var err error

	if right != nil {
		keypoints, descriptors, points3d, err = extractor.ExtractStereo(left, right)
	} else {
		keypoints, descriptors, err = extractor.ExtractMono(left)
	}
	if err != nil {
		return err
	}

	if e.hash != nil && len(descriptors) > 0 {
		if d := rowDim(descriptors); d != e.hash.Dim() {
			return fmt.Errorf("%w: node has dimension %d, basis is %d", ErrDimensionMismatch, d, e.hash.Dim())
		}
	}

	index := e.nextIndex
	if err := e.store.Put(index, name, keypoints, descriptors, points3d); err != nil {
		return err
	}
	e.nextIndex++
	e.currentIndex = index
	slog.Debug("haloc: node ingested", "index", index, "keypoints", len(keypoints))
	return nil
}

func rowDim(m [][]float64) int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// LoopClosureResult is the outcome of a GetLoopClosure call.
type LoopClosureResult struct {
	Valid     bool
	Index     int
	Name      string
	Transform Transform
}

// noClosure is the canonical "no loop closure found" result.
func noClosure() LoopClosureResult {
	return LoopClosureResult{Valid: false, Index: -1, Transform: Identity()}
}

// GetLoopClosure runs the ranking-then-verification algorithm against
// the most recently ingested node.
func (e *LoopClosureEngine) GetLoopClosure() (LoopClosureResult, error) {
	if e.currentIndex < 0 {
		return noClosure(), nil
	}
	name, keypoints, descriptors, points3d, err := e.store.Get(e.currentIndex)
	if err != nil {
		return noClosure(), err
	}
	current := Node{Index: e.currentIndex, Name: name, Keypoints: keypoints, Descriptors: descriptors, Points3D: points3d}

	if e.hash == nil {
		if len(descriptors) == 0 {
			return noClosure(), nil
		}
		e.hash = NewHasher(e.cfg.NumProj, rowDim(descriptors), len(descriptors), e.cfg.Seed)
		e.index.Append(e.currentIndex, e.hash.Hash(current.descriptorMatrix()))
		e.state = stateWarming
		return noClosure(), nil
	}

	if len(descriptors) == 0 {
		// Featureless frames are stored but never hashed, so the hash
		// index only tracks nodes that can participate in ranking.
		return noClosure(), nil
	}
	hq := e.hash.Hash(current.descriptorMatrix())
	e.index.Append(e.currentIndex, hq)

	if e.index.Size() <= e.cfg.MinNeighbour {
		return noClosure(), nil
	}
	if e.state == stateWarming {
		e.state = stateActive
	}

	candidates := e.index.TopCandidates(hq, e.currentIndex, e.cfg.MinNeighbour, e.cfg.NCandidates)
	verifier := newVerifier(e.cfg, e.k, e.rng)

	for _, cand := range candidates {
		candNode, err := e.loadNode(cand.Index)
		if err != nil {
			continue // missing candidate record: skip, try the next rank
		}
		res := verifier.verify(current, candNode, e.stereo)
		if !res.ok {
			slog.Debug("haloc: candidate rejected",
				"query", e.currentIndex, "candidate", cand.Index,
				"matches", res.matches, "inliers", res.inliers, "err", res.err)
			continue
		}
		if !e.cfg.Validate {
			return LoopClosureResult{Valid: true, Index: cand.Index, Name: candNode.Name, Transform: res.transform}, nil
		}
		if e.validatesNeighbors(current, cand.Index, verifier) {
			return LoopClosureResult{Valid: true, Index: cand.Index, Name: candNode.Name, Transform: res.transform}, nil
		}
	}
	return noClosure(), nil
}

// validatesNeighbors requires an accepted candidate to also plausibly
// match one of its temporal neighbors; a spurious match rarely does.
func (e *LoopClosureEngine) validatesNeighbors(current Node, candidateIndex int, verifier *Verifier) bool {
	for _, neighborIndex := range []int{candidateIndex - 1, candidateIndex + 1} {
		if neighborIndex < 0 || neighborIndex == current.Index {
			continue
		}
		neighbor, err := e.loadNode(neighborIndex)
		if err != nil {
			continue
		}
		if verifier.verify(current, neighbor, e.stereo).ok {
			return true
		}
	}
	return false
}

func (e *LoopClosureEngine) loadNode(index int) (Node, error) {
	name, keypoints, descriptors, points3d, err := e.store.Get(index)
	if err != nil {
		return Node{}, err
	}
	return Node{Index: index, Name: name, Keypoints: keypoints, Descriptors: descriptors, Points3D: points3d}, nil
}

// Finalize releases the engine's FeatureStore, removing its scratch
// directory, and clears all in-memory state.
func (e *LoopClosureEngine) Finalize() error {
	var err error
	if e.store != nil {
		err = e.store.Close()
	}
	e.store = nil
	e.index = nil
	e.hash = nil
	e.state = stateUninitialized
	e.nextIndex = 0
	e.currentIndex = -1
	slog.Debug("haloc: engine finalized")
	return err
}
