package haloc

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// ransacConfidence is the confidence level used to size the iteration
// count of the fundamental-matrix RANSAC loop. The PnP loop runs a
// fixed number of iterations instead.
const ransacConfidence = 0.999

// degenerateEpsilon is the floor below which a fitted fundamental
// matrix is treated as degenerate. A near-zero matrix cannot be scored
// with Sampson distance, so it is rejected outright.
const degenerateEpsilon = 1e-9

// normalization holds a Hartley similarity transform: translate the
// centroid to the origin and scale so the mean distance from the
// origin is sqrt(2). Normalizing before the 8-point solve is what
// keeps it numerically stable.
type normalization struct {
	t *mat.Dense // 3x3 homogeneous transform
}

func normalizePoints(pts []Point2D) ([]Point2D, normalization) {
	n := float64(len(pts))
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= n
	cy /= n

	var meanDist float64
	for _, p := range pts {
		dx, dy := p.X-cx, p.Y-cy
		meanDist += math.Hypot(dx, dy)
	}
	meanDist /= n
	scale := 1.0
	if meanDist > 1e-12 {
		scale = math.Sqrt2 / meanDist
	}

	out := make([]Point2D, len(pts))
	for i, p := range pts {
		out[i] = Point2D{X: (p.X - cx) * scale, Y: (p.Y - cy) * scale}
	}
	t := mat.NewDense(3, 3, []float64{
		scale, 0, -scale * cx,
		0, scale, -scale * cy,
		0, 0, 1,
	})
	return out, normalization{t: t}
}

// fitFundamental8Point solves the normalized linear 8-point algorithm
// for a set of >= 8 correspondences, enforces the rank-2 constraint,
// and denormalizes back to pixel coordinates.
func fitFundamental8Point(q, c []Point2D) *mat.Dense {
	nq, tq := normalizePoints(q)
	nc, tc := normalizePoints(c)

	n := len(nq)
	a := mat.NewDense(n, 9, nil)
	for i := 0; i < n; i++ {
		x1, y1 := nq[i].X, nq[i].Y
		x2, y2 := nc[i].X, nc[i].Y
		a.SetRow(i, []float64{
			x2 * x1, x2 * y1, x2,
			y2 * x1, y2 * y1, y2,
			x1, y1, 1,
		})
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return nil
	}
	var v mat.Dense
	svd.VTo(&v)
	// Last column of V (smallest singular value) reshaped to 3x3.
	fRaw := mat.NewDense(3, 3, nil)
	col := 8
	for r := 0; r < 3; r++ {
		for cc := 0; cc < 3; cc++ {
			fRaw.Set(r, cc, v.At(r*3+cc, col))
		}
	}

	f := enforceRank2(fRaw)

	// Denormalize: F = Tc^T * Fn * Tq
	var tmp, fDenorm mat.Dense
	tmp.Mul(tc.t.T(), f)
	fDenorm.Mul(&tmp, tq.t)
	return &fDenorm
}

// enforceRank2 zeroes the smallest singular value of a 3x3 matrix so
// the result has rank exactly 2, as a valid fundamental matrix must.
func enforceRank2(f *mat.Dense) *mat.Dense {
	var svd mat.SVD
	if !svd.Factorize(f, mat.SVDFull) {
		return f
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sv := svd.Values(nil)
	sv[2] = 0
	s := mat.NewDense(3, 3, nil)
	s.Set(0, 0, sv[0])
	s.Set(1, 1, sv[1])
	s.Set(2, 2, sv[2])

	var tmp, out mat.Dense
	tmp.Mul(&u, s)
	out.Mul(&tmp, v.T())
	return &out
}

// sampsonDistance is the first-order approximation to the geometric
// reprojection error of a point correspondence against a fundamental
// matrix.
func sampsonDistance(f *mat.Dense, p1, p2 Point2D) float64 {
	x1 := []float64{p1.X, p1.Y, 1}
	x2 := []float64{p2.X, p2.Y, 1}

	fx1 := mulVec(f, x1)
	ftx2 := mulVec(f.T(), x2)

	num := dot(x2, fx1)
	num *= num

	denom := fx1[0]*fx1[0] + fx1[1]*fx1[1] + ftx2[0]*ftx2[0] + ftx2[1]*ftx2[1]
	if denom < 1e-12 {
		return math.Inf(1)
	}
	return num / denom
}

func mulVec(m mat.Matrix, v []float64) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		var s float64
		for j := range v {
			s += m.At(i, j) * v[j]
		}
		out[i] = s
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// isDegenerateFundamental reports whether f should be rejected as
// numerically degenerate: an (near-)zero matrix, which Sampson
// distance cannot meaningfully score.
func isDegenerateFundamental(f *mat.Dense) bool {
	var sum float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum += math.Abs(f.At(i, j))
		}
	}
	return sum < degenerateEpsilon
}

// ransacFundamental robustly fits a fundamental matrix from >= 8
// correspondences, returning the best model's inlier indices. It
// returns a nil slice if fewer than 8 correspondences are available or
// no degenerate-free model beats zero inliers.
func ransacFundamental(q, c []Point2D, thresh float64, rng *rand.Rand) (*mat.Dense, []int) {
	n := len(q)
	if n < 8 {
		return nil, nil
	}
	maxIters := ransacIterations(8, n, rng)

	var bestF *mat.Dense
	var bestInliers []int

	for iter := 0; iter < maxIters; iter++ {
		sample := sampleIndices(n, 8, rng)
		sq := gather(q, sample)
		sc := gather(c, sample)
		f := fitFundamental8Point(sq, sc)
		if f == nil || isDegenerateFundamental(f) {
			continue
		}
		inliers := make([]int, 0, n)
		for i := 0; i < n; i++ {
			if sampsonDistance(f, q[i], c[i]) < thresh*thresh {
				inliers = append(inliers, i)
			}
		}
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
			bestF = f
		}
	}
	if bestF == nil || isDegenerateFundamental(bestF) {
		return nil, nil
	}
	// Refit on all inliers for a tighter final model.
	if len(bestInliers) >= 8 {
		refined := fitFundamental8Point(gather(q, bestInliers), gather(c, bestInliers))
		if refined != nil && !isDegenerateFundamental(refined) {
			bestF = refined
		}
	}
	return bestF, bestInliers
}

// ransacIterations sizes a RANSAC loop once, up front, using the
// standard formula for the configured confidence with a fixed,
// pessimistic 50% inlier ratio, clamped to [50, 500] to keep tests fast.
// The count is not updated from the inlier ratio observed while the
// loop runs.
func ransacIterations(sampleSize, n int, _ *rand.Rand) int {
	if n < sampleSize {
		return 0
	}
	w := 0.5 // assumed inlier ratio
	p := ransacConfidence
	denom := math.Log(1 - math.Pow(w, float64(sampleSize)))
	if denom >= 0 {
		return 200
	}
	k := math.Log(1-p) / denom
	iters := int(math.Ceil(k))
	if iters < 50 {
		iters = 50
	}
	if iters > 500 {
		iters = 500
	}
	return iters
}

func sampleIndices(n, k int, rng *rand.Rand) []int {
	idx := rng.Perm(n)
	return idx[:k]
}

func gather[T any](items []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

// --- PnP ---

// pnpDLT solves for a camera pose from >= 6 3D-2D correspondences by
// the direct linear transform, then polar-decomposes the rotation
// block back onto SO(3).
func pnpDLT(points3d []Point3D, points2d []Point2D, k Intrinsics) *Transform {
	n := len(points3d)
	if n < 6 {
		return nil
	}
	a := mat.NewDense(2*n, 12, nil)
	for i := 0; i < n; i++ {
		X, Y, Z := points3d[i].X, points3d[i].Y, points3d[i].Z
		u := (points2d[i].X - k.CX) / k.FX
		v := (points2d[i].Y - k.CY) / k.FY
		a.SetRow(2*i, []float64{
			X, Y, Z, 1, 0, 0, 0, 0, -u * X, -u * Y, -u * Z, -u,
		})
		a.SetRow(2*i+1, []float64{
			0, 0, 0, 0, X, Y, Z, 1, -v * X, -v * Y, -v * Z, -v,
		})
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return nil
	}
	var v mat.Dense
	svd.VTo(&v)
	p := make([]float64, 12)
	for i := range p {
		p[i] = v.At(i, 11)
	}

	r := mat.NewDense(3, 3, []float64{
		p[0], p[1], p[2],
		p[4], p[5], p[6],
		p[8], p[9], p[10],
	})
	t := []float64{p[3], p[7], p[11]}

	// Scale so the rotation block is unit-determinant orthonormal, and
	// orthonormalize via polar decomposition (SVD).
	var rsvd mat.SVD
	if !rsvd.Factorize(r, mat.SVDFull) {
		return nil
	}
	sv := rsvd.Values(nil)
	scale := 3.0 / (sv[0] + sv[1] + sv[2])
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return nil
	}

	var u, vt mat.Dense
	rsvd.UTo(&u)
	rsvd.VTo(&vt)
	var rOrtho mat.Dense
	rOrtho.Mul(&u, vt.T())
	if mat.Det(&rOrtho) < 0 {
		for i := 0; i < 3; i++ {
			vt.Set(i, 2, -vt.At(i, 2))
		}
		rOrtho.Mul(&u, vt.T())
	}
	for i := range t {
		t[i] *= scale
	}
	return &Transform{R: &rOrtho, T: t}
}

func project(tr *Transform, k Intrinsics, p Point3D) Point2D {
	x := mulVec(tr.R, []float64{p.X, p.Y, p.Z})
	for i := range x {
		x[i] += tr.T[i]
	}
	if x[2] <= 1e-9 {
		return Point2D{X: math.Inf(1), Y: math.Inf(1)}
	}
	return Point2D{
		X: k.FX*x[0]/x[2] + k.CX,
		Y: k.FY*x[1]/x[2] + k.CY,
	}
}

// ransacPnP robustly fits a pose from >= 6 3D-2D correspondences,
// up to 100 iterations, accepting a model only when at least 40
// correspondences reproject within thresh pixels.
func ransacPnP(points3d []Point3D, points2d []Point2D, k Intrinsics, thresh float64, rng *rand.Rand) (*Transform, []int) {
	n := len(points3d)
	if n < 6 {
		return nil, nil
	}
	const maxIters = 100
	const minAccept = 40

	var bestT *Transform
	var bestInliers []int

	for iter := 0; iter < maxIters; iter++ {
		sample := sampleIndices(n, 6, rng)
		tr := pnpDLT(gather(points3d, sample), gather(points2d, sample), k)
		if tr == nil {
			continue
		}
		inliers := make([]int, 0, n)
		for i := 0; i < n; i++ {
			proj := project(tr, k, points3d[i])
			dx, dy := proj.X-points2d[i].X, proj.Y-points2d[i].Y
			if math.Hypot(dx, dy) < thresh {
				inliers = append(inliers, i)
			}
		}
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
			bestT = tr
		}
	}
	if bestT == nil || len(bestInliers) < minAccept {
		return nil, nil
	}
	if refined := pnpDLT(gather(points3d, bestInliers), gather(points2d, bestInliers), k); refined != nil {
		bestT = refined
	}
	return bestT, bestInliers
}
