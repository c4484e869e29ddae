package haloc

import (
	"math/rand/v2"
	"testing"
)

func TestCrossCheckMatchMutualNearest(t *testing.T) {
	a := [][]float64{{0, 0}, {10, 10}, {20, 20}}
	b := [][]float64{{20, 20}, {0.1, 0.1}, {10.1, 10.1}}

	matches := crossCheckMatch(a, b, 0.9, false)
	want := map[int]int{0: 1, 1: 2, 2: 0}
	if len(matches) != len(want) {
		t.Fatalf("got %d matches, want %d: %+v", len(matches), len(want), matches)
	}
	for _, m := range matches {
		if want[m.queryRow] != m.candidateRow {
			t.Errorf("match %+v not expected", m)
		}
	}
}

func TestCrossCheckMatchRatioRejectsAmbiguous(t *testing.T) {
	a := [][]float64{{0, 0}}
	// Two near-equidistant candidates: ratio test should reject.
	b := [][]float64{{1, 0}, {1.01, 0}}
	matches := crossCheckMatch(a, b, 0.5, false)
	if len(matches) != 0 {
		t.Fatalf("expected ratio test to reject ambiguous match, got %+v", matches)
	}
}

func TestVerifyMonoAcceptsConsistentGeometry(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	n := 60
	query := make([]Point2D, n)
	candidate := make([]Point2D, n)
	descQ := make([][]float64, n)
	descC := make([][]float64, n)
	for i := 0; i < n; i++ {
		x, y := rng.Float64()*400, rng.Float64()*400
		query[i] = Point2D{X: x, Y: y}
		// A small consistent shift stands in for a nearby-viewpoint
		// epipolar-consistent pair without needing a full camera model.
		candidate[i] = Point2D{X: x + 5, Y: y - 3}
		d := []float64{float64(i), float64(i) * 0.5}
		descQ[i] = d
		descC[i] = d
	}

	cfg := DefaultConfig()
	v := newVerifier(cfg, Intrinsics{}, rng)
	res := v.verify(
		Node{Keypoints: query, Descriptors: descQ},
		Node{Keypoints: candidate, Descriptors: descC},
		false,
	)
	if res.matches != n {
		t.Fatalf("matches = %d, want %d", res.matches, n)
	}
	if !res.ok {
		t.Fatalf("expected mono verification to accept a pure-translation pair, got ok=false inliers=%d", res.inliers)
	}
}

func TestVerifyRejectsBelowMinMatches(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewPCG(1, 1))
	v := newVerifier(cfg, Intrinsics{}, rng)

	res := v.verify(
		Node{Keypoints: []Point2D{{X: 0, Y: 0}}, Descriptors: [][]float64{{1}}},
		Node{Keypoints: []Point2D{{X: 0, Y: 0}}, Descriptors: [][]float64{{1}}},
		false,
	)
	if res.ok {
		t.Fatalf("expected ok=false with only 1 match (min_matches=%d)", cfg.MinMatches)
	}
}
