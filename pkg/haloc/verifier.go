package haloc

import (
	"math"
	"math/rand/v2"
)

// match is one accepted cross-check descriptor correspondence.
type match struct {
	queryRow     int
	candidateRow int
}

// Verifier confirms or rejects a hash candidate by cross-checked
// descriptor matching followed by epipolar (mono) or PnP (stereo)
// geometric verification.
type Verifier struct {
	cfg Config
	k   Intrinsics
	rng *rand.Rand
}

// newVerifier builds a Verifier from the engine's active configuration
// and camera intrinsics (intrinsics are unused for mono verification).
func newVerifier(cfg Config, k Intrinsics, rng *rand.Rand) *Verifier {
	return &Verifier{cfg: cfg, k: k, rng: rng}
}

// verifyResult is the outcome of verifying one candidate. err carries
// the rejection cause for logging; it never propagates to callers of
// GetLoopClosure.
type verifyResult struct {
	ok        bool
	matches   int
	inliers   int
	transform Transform
	err       error
}

// verify runs matching then geometry against one candidate node.
func (v *Verifier) verify(query, candidate Node, stereo bool) verifyResult {
	matches := crossCheckMatch(query.Descriptors, candidate.Descriptors, v.cfg.DescThresh, v.cfg.BinaryDescriptors)
	if len(matches) < v.cfg.MinMatches {
		return verifyResult{ok: false, matches: len(matches)}
	}

	if stereo {
		return v.verifyStereo(query, candidate, matches)
	}
	return v.verifyMono(query, candidate, matches)
}

func (v *Verifier) verifyMono(query, candidate Node, matches []match) verifyResult {
	pq := make([]Point2D, len(matches))
	pc := make([]Point2D, len(matches))
	for i, m := range matches {
		pq[i] = query.Keypoints[m.queryRow]
		pc[i] = candidate.Keypoints[m.candidateRow]
	}

	f, inliers := ransacFundamental(pq, pc, v.cfg.EpipolarThresh, v.rng)
	if f == nil {
		return verifyResult{ok: false, matches: len(matches), err: ErrDegenerateGeometry}
	}
	if len(inliers) < v.cfg.MinInliers {
		return verifyResult{ok: false, matches: len(matches), inliers: len(inliers)}
	}
	return verifyResult{ok: true, matches: len(matches), inliers: len(inliers), transform: Identity()}
}

func (v *Verifier) verifyStereo(query, candidate Node, matches []match) verifyResult {
	p3d := make([]Point3D, len(matches))
	p2d := make([]Point2D, len(matches))
	for i, m := range matches {
		p3d[i] = candidate.Points3D[m.candidateRow]
		p2d[i] = query.Keypoints[m.queryRow]
	}

	tr, inliers := ransacPnP(p3d, p2d, v.k, v.cfg.MaxReprojErr, v.rng)
	if tr == nil {
		return verifyResult{ok: false, matches: len(matches), err: ErrDegenerateGeometry}
	}
	if len(inliers) < v.cfg.MinInliers {
		return verifyResult{ok: false, matches: len(matches), inliers: len(inliers)}
	}
	return verifyResult{ok: true, matches: len(matches), inliers: len(inliers), transform: *tr}
}

// crossCheckMatch performs mutual-nearest-neighbor ratio-test matching
// between descriptor sets a (query) and b (candidate): a pair survives
// only if each side's ratio-tested nearest neighbor picks the other.
func crossCheckMatch(a, b [][]float64, ratioThresh float64, binary bool) []match {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	dist := l2Distance
	if binary {
		dist = hammingDistance
	}

	aToB := nearestWithRatio(a, b, ratioThresh, dist)
	bToA := nearestWithRatio(b, a, ratioThresh, dist)

	out := make([]match, 0, len(aToB))
	for qi, ci := range aToB {
		if ci < 0 {
			continue
		}
		if back, ok := bToA[ci]; ok && back == qi {
			out = append(out, match{queryRow: qi, candidateRow: ci})
		}
	}
	return out
}

// nearestWithRatio returns, for every row of from, the index of its
// best match in to that survives Lowe's ratio test, or -1.
func nearestWithRatio(from, to [][]float64, ratioThresh float64, dist func(a, b []float64) float64) map[int]int {
	out := make(map[int]int, len(from))
	for i, row := range from {
		bestIdx, secondIdx := -1, -1
		best, second := math.Inf(1), math.Inf(1)
		for j, cand := range to {
			d := dist(row, cand)
			if d < best {
				second, secondIdx = best, bestIdx
				best, bestIdx = d, j
			} else if d < second {
				second, secondIdx = d, j
			}
		}
		if bestIdx < 0 {
			out[i] = -1
			continue
		}
		if secondIdx < 0 || best < ratioThresh*second {
			out[i] = bestIdx
		} else {
			out[i] = -1
		}
	}
	return out
}

func l2Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// hammingDistance treats each descriptor entry as a single bit (0 or
// nonzero) and counts mismatches, for callers whose extractor already
// unpacked a binary descriptor into a float64 row.
func hammingDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		if (a[i] != 0) != (b[i] != 0) {
			sum++
		}
	}
	return sum
}
