// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hmatrix implements the H-matrix representation of the
// spec's §4.3 (UPDATEH contract) and design note 9: an opaque value
// exposing {Update, OmegaCol, OmegaMul, HessMul-equivalent Lagrange
// evaluation} instead of raw bmat/zmat/idz arrays to the driver.
//
// The representation itself — bmat (n x (npt+n)) and zmat
// (npt x (npt-n-1)) factoring Ω = Z·diag(dz)·Zᵀ — follows the data
// model of spec.md §3 exactly. Where this module departs from Powell's
// original NEWUOA is *how* bmat/zmat/idz are refreshed on a point
// replacement: instead of the incremental bordered-rotation update
// (UPDATEH in the classical Fortran), Update re-solves the bordered
// KKT system from scratch and re-diagonalizes its Ω block with
// gonum/mat's symmetric eigensolver. This is the O((npt+n)^3)-per-call
// "contract, not performance-optimal" implementation the spec
// sanctions in §1 ("their internal linear-algebra is out of scope
// except where it constrains the driver") — see DESIGN.md.
package hmatrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// H is the inverse-KKT representation for one interpolation set.
type H struct {
	n, npt int
	// idz is the 0-indexed adaptation of the spec's 1-indexed idz:
	// zmat[:, 0:idz] carry dz=-1, zmat[:, idz:] carry dz=+1.
	idz  int
	bmat [][]float64 // n x (npt+n)
	zmat [][]float64 // npt x (npt-n-1)
}

// N, Npt, Idz, Bmat and Zmat expose the representation for tests.
// Bmat and Zmat return the internal slices, not copies.
func (h *H) N() int            { return h.n }
func (h *H) Npt() int          { return h.npt }
func (h *H) Idz() int          { return h.idz }
func (h *H) Bmat() [][]float64 { return h.bmat }
func (h *H) Zmat() [][]float64 { return h.zmat }

// BmatCol returns column k of bmat (length n), for k in [0, npt+n).
func (h *H) BmatCol(k int) []float64 {
	col := make([]float64, h.n)
	for i := 0; i < h.n; i++ {
		col[i] = h.bmat[i][k]
	}
	return col
}

// OmegaCol returns column k of Ω = Z·diag(dz)·Zᵀ, for k in [0, npt).
func (h *H) OmegaCol(k int) []float64 {
	m := len(h.zmat[0])
	col := make([]float64, h.npt)
	for i := 0; i < h.npt; i++ {
		sum := 0.0
		for j := 0; j < m; j++ {
			sign := 1.0
			if j < h.idz {
				sign = -1.0
			}
			sum += sign * h.zmat[i][j] * h.zmat[k][j]
		}
		col[i] = sum
	}
	return col
}

// OmegaMul returns Ω·v for v of length npt.
func (h *H) OmegaMul(v []float64) []float64 {
	m := len(h.zmat[0])
	zv := make([]float64, m)
	for j := 0; j < m; j++ {
		sum := 0.0
		for i := 0; i < h.npt; i++ {
			sum += h.zmat[i][j] * v[i]
		}
		zv[j] = sum
	}
	out := make([]float64, h.npt)
	for i := 0; i < h.npt; i++ {
		sum := 0.0
		for j := 0; j < m; j++ {
			sign := 1.0
			if j < h.idz {
				sign = -1.0
			}
			sum += sign * h.zmat[i][j] * zv[j]
		}
		out[i] = sum
	}
	return out
}

// WeightedHessMul returns (Σ_k w_k xpt[:,k] xpt[:,k]ᵀ) v, the implicit
// curvature term shared by the least-Frobenius model formula (§4.5)
// and the model-update gradient shift (§4.4).
func WeightedHessMul(w []float64, xpt [][]float64, v []float64, n int) []float64 {
	out := make([]float64, n)
	for k, wk := range w {
		if wk == 0 {
			continue
		}
		dot := 0.0
		for i := 0; i < n; i++ {
			dot += xpt[i][k] * v[i]
		}
		c := wk * dot
		for i := 0; i < n; i++ {
			out[i] += c * xpt[i][k]
		}
	}
	return out
}

// LeastFrobeniusModel builds the least-Frobenius-norm interpolant's
// (gq, pq) — with hq implicitly zero — for values centered at
// fval[kopt], per §4.5:
//
//	pq = Ω·(fval-fopt)
//	gq = bmat[:,1:npt]·(fval-fopt) + (Σ pq_k xpt[:,k]xpt[:,k]ᵀ)·xopt
func (h *H) LeastFrobeniusModel(xpt [][]float64, fval []float64, kopt int) (gq, pq []float64) {
	n, npt := h.n, h.npt
	fopt := fval[kopt]
	diff := make([]float64, npt)
	for k := 0; k < npt; k++ {
		diff[k] = fval[k] - fopt
	}
	pq = h.OmegaMul(diff)

	g := make([]float64, n)
	for i := 0; i < n; i++ {
		s := 0.0
		for k := 0; k < npt; k++ {
			s += h.bmat[i][k] * diff[k]
		}
		g[i] = s
	}
	xopt := make([]float64, n)
	for i := 0; i < n; i++ {
		xopt[i] = xpt[i][kopt]
	}
	extra := WeightedHessMul(pq, xpt, xopt, n)
	for i := 0; i < n; i++ {
		g[i] += extra[i]
	}
	return g, pq
}

// Lagrange evaluates the k-th Lagrange cardinal function at the point
// xbase+y, given the point set xpt (n x npt) that h was built from:
//
//	L_k(xbase+y) = c_k + bmat[:,k]·y + 0.5 Σ_j Ω(j,k) (xpt[:,j]·y)²
//
// bmat and zmat do not carry the constant c_k, so it is recovered from
// the cardinal condition at the first point, L_k(xbase+xpt[:,0]) = δ_k0.
func (h *H) Lagrange(k int, xpt [][]float64, y []float64) float64 {
	bc := h.BmatCol(k)
	omega := h.OmegaCol(k)
	partial := func(v []float64) float64 {
		lin := 0.0
		for i := 0; i < h.n; i++ {
			lin += bc[i] * v[i]
		}
		quad := 0.0
		for j := 0; j < h.npt; j++ {
			if omega[j] == 0 {
				continue
			}
			dot := 0.0
			for i := 0; i < h.n; i++ {
				dot += xpt[i][j] * v[i]
			}
			quad += omega[j] * dot * dot
		}
		return lin + 0.5*quad
	}
	x0 := make([]float64, h.n)
	for i := range x0 {
		x0[i] = xpt[i][0]
	}
	c := -partial(x0)
	if k == 0 {
		c += 1
	}
	return partial(y) + c
}

// Beta computes the denominator correction β(xbase+y) used by the
// driver's setdrop_tr rule (§4.1(d)): score_k = |β·h_kk + λ_k²| where
// λ_k = Lagrange(k, xpt, y) and h_kk = OmegaCol(k)[k], both evaluated
// against the *current* interpolation set — no per-candidate rebuild.
//
// β is the Schur complement of notionally appending y as an
// (npt+1)-th row/column to the bordered KKT matrix Rebuild inverts,
// keeping every existing row/column untouched: with w_j =
// 0.5(xpt[:,j].y)^2 and the trailing n x n corner of bmat standing in
// for the [1|xptᵀ] block's own cross term (the constant-row block of
// the inverse is always zero, which is exactly why bmat never stores
// it),
//
//	β(y) = 0.5|y|^4 - wᵀΩw - 2yᵀB w - yᵀCy
//
// where B = bmat[:,0:npt] and C = bmat[:,npt:npt+n].
func (h *H) Beta(xpt [][]float64, y []float64) float64 {
	n, npt := h.n, h.npt
	w := make([]float64, npt)
	for j := 0; j < npt; j++ {
		dot := 0.0
		for i := 0; i < n; i++ {
			dot += xpt[i][j] * y[i]
		}
		w[j] = 0.5 * dot * dot
	}
	omegaW := h.OmegaMul(w)
	quadOmega := 0.0
	for j := 0; j < npt; j++ {
		quadOmega += w[j] * omegaW[j]
	}
	lin2 := 0.0
	for i := 0; i < n; i++ {
		bw := 0.0
		row := h.bmat[i]
		for j := 0; j < npt; j++ {
			bw += row[j] * w[j]
		}
		lin2 += 2 * y[i] * bw
	}
	quadC := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			quadC += y[i] * y[j] * h.bmat[i][npt+j]
		}
	}
	ySq := 0.0
	for i := 0; i < n; i++ {
		ySq += y[i] * y[i]
	}
	return 0.5*ySq*ySq - quadOmega - lin2 - quadC
}

// AnyNaN reports whether bmat or zmat carries a NaN, the checkpoint
// spec.md §7 requires before the TR solve and before the geometry step.
func (h *H) AnyNaN() bool {
	for _, row := range h.bmat {
		for _, x := range row {
			if math.IsNaN(x) {
				return true
			}
		}
	}
	for _, row := range h.zmat {
		for _, x := range row {
			if math.IsNaN(x) {
				return true
			}
		}
	}
	return false
}

// New builds the H-representation for the initial interpolation set
// xpt (n x npt, columns are displacements from xbase).
func New(n, npt int, xpt [][]float64) (*H, error) {
	h := &H{n: n, npt: npt}
	if err := h.Rebuild(xpt); err != nil {
		return nil, err
	}
	return h, nil
}

// Update replaces the effect of column knew of xptOld with the new
// point y (xopt+d, in xbase-relative coordinates) and rebuilds the
// representation. xptOld is the pre-replacement point set; Update
// does not mutate it.
func (h *H) Update(knew int, y []float64, xptOld [][]float64) error {
	xptNew := make([][]float64, h.n)
	for i := 0; i < h.n; i++ {
		xptNew[i] = append([]float64(nil), xptOld[i]...)
		xptNew[i][knew] = y[i]
	}
	return h.Rebuild(xptNew)
}

// Rebuild recomputes bmat, zmat and idz from scratch for the point set
// xpt by inverting the bordered KKT matrix
//
//	[ A  Y ]   A_ij = 0.5 (xpt_i . xpt_j)^2       (npt x npt)
//	[ Yᵀ 0 ]   Y    = [1 | xptᵀ]                  (npt x (n+1))
//
// and re-diagonalizing its top-left npt x npt block Ω.
func (h *H) Rebuild(xpt [][]float64) error {
	n, npt := h.n, h.npt
	size := npt + n + 1
	w := mat.NewSymDense(size, nil)
	for i := 0; i < npt; i++ {
		for j := i; j < npt; j++ {
			dot := 0.0
			for d := 0; d < n; d++ {
				dot += xpt[d][i] * xpt[d][j]
			}
			w.SetSym(i, j, 0.5*dot*dot)
		}
	}
	for i := 0; i < npt; i++ {
		w.SetSym(i, npt, 1.0)
		for d := 0; d < n; d++ {
			w.SetSym(i, npt+1+d, xpt[d][i])
		}
	}
	for i := npt; i < size; i++ {
		for j := i; j < size; j++ {
			w.SetSym(i, j, 0.0)
		}
	}

	var lu mat.LU
	wd := mat.DenseCopyOf(w)
	lu.Factorize(wd)
	var inv mat.Dense
	if err := lu.SolveTo(&inv, false, eye(size)); err != nil {
		return err
	}

	omega := mat.NewSymDense(npt, nil)
	for i := 0; i < npt; i++ {
		for j := i; j < npt; j++ {
			omega.SetSym(i, j, 0.5*(inv.At(i, j)+inv.At(j, i)))
		}
	}

	m := npt - n - 1
	h.bmat = make([][]float64, n)
	for i := 0; i < n; i++ {
		h.bmat[i] = make([]float64, npt+n)
		for k := 0; k < npt; k++ {
			h.bmat[i][k] = inv.At(npt+1+i, k)
		}
		for k := 0; k < n; k++ {
			h.bmat[i][npt+k] = inv.At(npt+1+i, npt+1+k)
		}
	}

	if m <= 0 {
		h.zmat = make([][]float64, npt)
		for i := range h.zmat {
			h.zmat[i] = nil
		}
		h.idz = 0
		return nil
	}

	var es mat.EigenSym
	if ok := es.Factorize(omega, true); !ok {
		return errEigenFailed
	}
	values := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	evs := make([]eigPair, npt)
	for j := 0; j < npt; j++ {
		vec := make([]float64, npt)
		for i := 0; i < npt; i++ {
			vec[i] = vecs.At(i, j)
		}
		evs[j] = eigPair{values[j], vec}
	}
	sortByAbsDesc(evs)
	evs = evs[:m]
	sortNegFirst(evs)

	h.zmat = make([][]float64, npt)
	for i := 0; i < npt; i++ {
		h.zmat[i] = make([]float64, m)
	}
	idz := 0
	for j := 0; j < m; j++ {
		scale := math.Sqrt(math.Abs(evs[j].val))
		for i := 0; i < npt; i++ {
			h.zmat[i][j] = evs[j].vec[i] * scale
		}
		if evs[j].val < 0 {
			idz++
		}
	}
	h.idz = idz
	return nil
}

func eye(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1.0)
	}
	return id
}

type eigPair struct {
	val float64
	vec []float64
}

func sortByAbsDesc(evs []eigPair) {
	for i := 1; i < len(evs); i++ {
		for j := i; j > 0 && math.Abs(evs[j].val) > math.Abs(evs[j-1].val); j-- {
			evs[j], evs[j-1] = evs[j-1], evs[j]
		}
	}
}

func sortNegFirst(evs []eigPair) {
	for i := 1; i < len(evs); i++ {
		for j := i; j > 0 && evs[j].val < 0 && evs[j-1].val >= 0; j-- {
			evs[j], evs[j-1] = evs[j-1], evs[j]
		}
	}
}

var errEigenFailed = &rebuildError{"symmetric eigendecomposition of omega failed to converge"}

type rebuildError struct{ msg string }

func (e *rebuildError) Error() string { return e.msg }
