package haloc

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func randDescriptors(rng *rand.Rand, k, d int) [][]float64 {
	m := make([][]float64, k)
	for i := range m {
		row := make([]float64, d)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		m[i] = row
	}
	return m
}

func toDense(m [][]float64) *mat.Dense {
	if len(m) == 0 {
		return nil
	}
	d := len(m[0])
	out := mat.NewDense(len(m), d, nil)
	for i, row := range m {
		out.SetRow(i, row)
	}
	return out
}

func TestHasherDeterminism(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	desc := randDescriptors(rng, 20, 8)

	h1 := NewHasher(16, 8, 20, 42)
	h2 := NewHasher(16, 8, 20, 42)

	v1 := h1.Hash(toDense(desc))
	v2 := h2.Hash(toDense(desc))

	if len(v1) != len(v2) {
		t.Fatalf("length mismatch: %d vs %d", len(v1), len(v2))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("hash[%d] differs: %v vs %v", i, v1[i], v2[i])
		}
	}
}

func TestHasherPermutationInvariance(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	desc := randDescriptors(rng, 15, 6)

	h := NewHasher(10, 6, 15, 1)
	base := h.Hash(toDense(desc))

	perm := rng.Perm(len(desc))
	shuffled := make([][]float64, len(desc))
	for i, p := range perm {
		shuffled[i] = desc[p]
	}
	got := h.Hash(toDense(shuffled))

	for i := range base {
		if base[i] != got[i] {
			t.Fatalf("hash not permutation-invariant at %d: %v vs %v", i, base[i], got[i])
		}
	}
}

func TestHasherShorterLaterRow(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	desc := randDescriptors(rng, 20, 4)
	h := NewHasher(8, 4, 20, 5)

	full := h.Hash(toDense(desc))
	short := h.Hash(toDense(desc[:5]))

	for i := range full {
		if full[i] == short[i] {
			t.Fatalf("expected hashes of different-K inputs to differ at %d", i)
		}
	}
}

func TestMatchSymmetric(t *testing.T) {
	a := HashVector{1, 2, 3}
	b := HashVector{4, 1, 0}
	if Match(a, b) != Match(b, a) {
		t.Fatalf("Match is not symmetric")
	}
	if Match(a, a) != 0 {
		t.Fatalf("Match(a,a) = %v, want 0", Match(a, a))
	}
}
