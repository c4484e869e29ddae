package haloc

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// HashVector is a fixed-length real vector summarizing a node's
// descriptor set, invariant to keypoint count (up to a cap) and order.
type HashVector []float64

// Hasher maps a variable-height descriptor matrix to a fixed-length
// HashVector via random projection. The construction is the usual
// random-hyperplane one from locality-sensitive hashing, except the
// sign-bit quantization is replaced with a sorted-prefix sum, which is
// what makes the hash invariant to keypoint count and ordering.
//
// Hasher is initialized once, from the first non-empty descriptor
// matrix ingested by the engine, and is immutable thereafter.
type Hasher struct {
	basis *mat.Dense // P x D, each row a unit-norm random vector
	p, d  int
	l     int // reference prefix length, clamped to the first node's K
}

// NewHasher samples a P x D basis of i.i.d. standard-normal vectors,
// each normalized to unit length, using seed for reproducibility. l0 is
// the keypoint count of the node that triggers initialization; it becomes
// the fixed prefix-clamp length L for the lifetime of the Hasher.
func NewHasher(p, d int, l0 int, seed uint64) *Hasher {
	rng := rand.New(rand.NewPCG(seed, seed^0xd1ce5eed))
	basis := mat.NewDense(p, d, nil)
	for i := 0; i < p; i++ {
		row := make([]float64, d)
		var norm float64
		for j := range row {
			v := rng.NormFloat64()
			row[j] = v
			norm += v * v
		}
		norm = sqrtOrOne(norm)
		for j := range row {
			row[j] /= norm
		}
		basis.SetRow(i, row)
	}
	return &Hasher{basis: basis, p: p, d: d, l: l0}
}

func sqrtOrOne(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Sqrt(x)
}

// Dim returns the descriptor dimensionality D the hasher was initialized for.
func (h *Hasher) Dim() int { return h.d }

// Bits returns the projection count P (the hash length).
func (h *Hasher) Bits() int { return h.p }

// Hash projects a node's descriptor matrix into a HashVector of length P.
//
// For each basis row, it computes the dot product against every
// descriptor row, sorts the resulting K scalars in descending order,
// and sums the first L = min(K, K0) of them. Sorting before summing
// makes the result independent of descriptor row order; clamping to L
// makes it tolerate keypoint-count drift without the hash growing
// unboundedly with K.
func (h *Hasher) Hash(m *mat.Dense) HashVector {
	out := make(HashVector, h.p)
	if m == nil {
		return out
	}
	k, d := m.Dims()
	if d != h.d {
		panic("haloc: descriptor dimension does not match hasher basis")
	}
	prefix := h.l
	if k < prefix {
		prefix = k
	}

	// projections[j] = basis row j . every descriptor row (K scalars).
	var proj mat.Dense
	proj.Mul(h.basis, m.T()) // P x K

	scalars := make([]float64, k)
	for j := 0; j < h.p; j++ {
		copy(scalars, proj.RawRowView(j))
		sort.Sort(sort.Reverse(sort.Float64Slice(scalars)))
		var sum float64
		for i := 0; i < prefix; i++ {
			sum += scalars[i]
		}
		out[j] = sum
	}
	return out
}

// Match returns the L1 distance between two hash vectors. Smaller means
// more similar; the result is not normalized.
func Match(a, b HashVector) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		sum += diff
	}
	return sum
}
