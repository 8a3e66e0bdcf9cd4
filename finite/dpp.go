/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package finite

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/dpp-project/godpp/data"
	"github.com/dpp-project/godpp/internal"
)

// KernelType tells how the kernel matrix of a DPP is to be interpreted.
type KernelType int

const (
	// Correlation marks a correlation kernel K, with
	// P(S ⊆ X) = det K_S. Its eigenvalues must lie in [0, 1].
	Correlation KernelType = iota
	// Likelihood marks a likelihood kernel L, with
	// P(X = S) proportional to det L_S. Its eigenvalues must be
	// non-negative.
	Likelihood
)

const eigTol = 1e-8

// DPP represents a finite determinantal point process over the ground
// set {0, ..., N-1}, defined by a correlation or a likelihood kernel.
type DPP struct {
	kind       KernelType
	projection bool
	symmetric  bool

	k data.Matrix
	l data.Matrix

	// low-rank factor of the likelihood kernel, L = Phi^T Phi
	phi data.Matrix

	// eigendecomposition cache of the defining kernel
	eigVecs data.Matrix
	eigVals data.Vector

	// history of index sets drawn on this instance
	samples [][]int
}

// NewDPP validates the kernel and returns a new DPP instance. The
// projection flag declares that the kernel satisfies M^2 = M, which is
// spot-checked. Non-symmetric kernels are accepted only as projection
// correlation kernels, sampled with the Schur mode.
func NewDPP(kind KernelType, kernel data.Matrix, projection bool) (*DPP, error) {
	if err := kernel.CheckSquare(); err != nil {
		return nil, err
	}
	symmetric := kernel.CheckSymmetric() == nil
	if projection {
		if err := kernel.CheckProjection(); err != nil {
			return nil, err
		}
	}
	if !symmetric && !(projection && kind == Correlation) {
		return nil, internal.ErrNotSymmetric
	}

	dpp := &DPP{
		kind:       kind,
		projection: projection,
		symmetric:  symmetric,
	}
	if kind == Correlation {
		dpp.k = kernel
	} else {
		dpp.l = kernel
	}

	return dpp, nil
}

// NewProjectionDPP is shorthand for a DPP given by an orthogonal
// projection correlation kernel.
func NewProjectionDPP(kernel data.Matrix) (*DPP, error) {
	return NewDPP(Correlation, kernel, true)
}

// NewLowRankDPP returns the DPP with likelihood kernel L = Phi^T Phi
// for a full row rank d x N feature matrix phi. The factor is kept so
// that the eigendecomposition works on the d x d dual Gram matrix
// Phi Phi^T instead of the N x N kernel.
func NewLowRankDPP(phi data.Matrix) (*DPP, error) {
	if err := phi.CheckFullRowRank(); err != nil {
		return nil, err
	}
	l, err := data.LinearKernel(phi.Transpose(), nil)
	if err != nil {
		return nil, err
	}

	return &DPP{
		kind:      Likelihood,
		symmetric: true,
		l:         l,
		phi:       phi,
	}, nil
}

// GroundSetSize returns N, the size of the ground set.
func (dpp *DPP) GroundSetSize() int {
	if dpp.k != nil {
		return dpp.k.Rows()
	}

	return dpp.l.Rows()
}

// eigen returns the cached eigendecomposition of the defining kernel,
// computing it on first use. Eigenvalues of a correlation kernel are
// checked to lie in [0, 1], those of a likelihood kernel to be
// non-negative.
func (dpp *DPP) eigen() (data.Matrix, data.Vector, error) {
	if dpp.eigVecs != nil {
		return dpp.eigVecs, dpp.eigVals, nil
	}
	if dpp.phi != nil {
		return dpp.eigenLowRank()
	}
	if !dpp.symmetric {
		return nil, nil, internal.ErrNotSymmetric
	}

	kernel := dpp.k
	if dpp.kind == Likelihood {
		kernel = dpp.l
	}

	var es mat.EigenSym
	if ok := es.Factorize(kernel.ToSymDense(), true); !ok {
		return nil, nil, errors.New("eigendecomposition failed")
	}
	vals := data.NewVector(es.Values(nil))
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	if dpp.kind == Correlation {
		if err := vals.CheckInUnitInterval(eigTol); err != nil {
			return nil, nil, errors.Wrap(err, "correlation kernel eigenvalues")
		}
	} else {
		if err := vals.CheckNonNegative(eigTol); err != nil {
			return nil, nil, errors.Wrap(err, "likelihood kernel eigenvalues")
		}
	}

	dpp.eigVecs = data.FromDense(&vecs)
	dpp.eigVals = vals

	return dpp.eigVecs, dpp.eigVals, nil
}

// eigenLowRank eigendecomposes the d x d dual Gram matrix Phi Phi^T
// and lifts the eigenvectors to those of L = Phi^T Phi through
// u_i = Phi^T v_i / sqrt(lambda_i). The lifted decomposition is thin:
// the N - d zero eigenvalues of L are omitted, which leaves every
// expansion over the eigenpairs unchanged.
func (dpp *DPP) eigenLowRank() (data.Matrix, data.Vector, error) {
	dual, err := dpp.phi.Mul(dpp.phi.Transpose())
	if err != nil {
		return nil, nil, err
	}

	var es mat.EigenSym
	if ok := es.Factorize(dual.ToSymDense(), true); !ok {
		return nil, nil, errors.New("eigendecomposition failed")
	}
	vals := data.NewVector(es.Values(nil))
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	vecsThin, valsThin, err := data.StableEigenFilter(data.FromDense(&vecs), vals)
	if err != nil {
		return nil, nil, errors.Wrap(err, "dual kernel eigenvalues")
	}

	u, err := dpp.phi.Transpose().Mul(vecsThin)
	if err != nil {
		return nil, nil, err
	}
	for j, l := range valsThin {
		s := 1 / math.Sqrt(l)
		for i := range u {
			u[i][j] *= s
		}
	}

	dpp.eigVecs = u
	dpp.eigVals = valsThin

	return dpp.eigVecs, dpp.eigVals, nil
}

// CorrelationKernel returns the correlation kernel K of the process,
// computing K = L (L + I)^-1 from the likelihood kernel if needed.
func (dpp *DPP) CorrelationKernel() (data.Matrix, error) {
	if dpp.k != nil {
		return dpp.k, nil
	}

	vecs, vals, err := dpp.eigen()
	if err != nil {
		return nil, err
	}
	k, err := eigExpand(vecs, vals.Apply(func(l float64) float64 {
		return l / (1 + l)
	}))
	if err != nil {
		return nil, err
	}
	dpp.k = k

	return dpp.k, nil
}

// LikelihoodKernel returns the likelihood kernel L of the process,
// computing L = K (I - K)^-1 from the correlation kernel if needed.
// It returns an error if K has an eigenvalue equal to 1, in which case
// L does not exist.
func (dpp *DPP) LikelihoodKernel() (data.Matrix, error) {
	if dpp.l != nil {
		return dpp.l, nil
	}
	if dpp.projection {
		return nil, errors.Wrap(internal.ErrKernelMissing,
			"projection correlation kernel admits no likelihood kernel")
	}

	vecs, vals, err := dpp.eigen()
	if err != nil {
		return nil, err
	}
	for _, l := range vals {
		if l > 1-eigTol {
			return nil, errors.Wrap(internal.ErrKernelMissing,
				"correlation kernel has an eigenvalue equal to 1")
		}
	}
	l, err := eigExpand(vecs, vals.Apply(func(l float64) float64 {
		return l / (1 - l)
	}))
	if err != nil {
		return nil, err
	}
	dpp.l = l

	return dpp.l, nil
}

// eigExpand reassembles sum_i vals[i] * u_i u_i^T from eigenvectors
// given as columns of vecs.
func eigExpand(vecs data.Matrix, vals data.Vector) (data.Matrix, error) {
	d := data.NewConstantMatrix(len(vals), len(vals), 0)
	for i, l := range vals {
		d[i][i] = l
	}
	t, err := vecs.Mul(d)
	if err != nil {
		return nil, err
	}

	return t.Mul(vecs.Transpose())
}

// Likelihood returns the probability mass the process assigns to the
// index set s: det K_S for a correlation kernel (the probability that
// s is included in a sample), det L_S / det(L + I) for a likelihood
// kernel (the probability that the sample equals s).
func (dpp *DPP) Likelihood(s []int) (float64, error) {
	if dpp.kind == Correlation {
		return dpp.k.SubmatrixDet(s, nil)
	}

	num, err := dpp.l.SubmatrixDet(s, nil)
	if err != nil {
		return 0, err
	}
	lPlusI, err := dpp.l.Add(data.NewIdentityMatrix(dpp.l.Rows()))
	if err != nil {
		return 0, err
	}
	den, err := lPlusI.Det()
	if err != nil {
		return 0, err
	}

	return num / den, nil
}

// LogLikelihood returns the natural logarithm of Likelihood(s),
// computed through log-determinants for numerical range.
func (dpp *DPP) LogLikelihood(s []int) (float64, error) {
	kernel := dpp.k
	if dpp.kind == Likelihood {
		kernel = dpp.l
	}
	sub, err := kernel.Submatrix(s, s)
	if err != nil {
		return 0, err
	}
	logDet := 0.0
	if sub.Rows() > 0 {
		ld, sign := mat.LogDet(sub.ToDense())
		if sign <= 0 {
			return 0, errors.New("submatrix determinant is not positive")
		}
		logDet = ld
	}
	if dpp.kind == Correlation {
		return logDet, nil
	}

	lPlusI, err := dpp.l.Add(data.NewIdentityMatrix(dpp.l.Rows()))
	if err != nil {
		return 0, err
	}
	ldNorm, _ := mat.LogDet(lPlusI.ToDense())

	return logDet - ldNorm, nil
}

// Sample generates one exact sample from the process. Projection
// correlation kernels are sampled directly with the chain rule; all
// other kernels go through the spectral method. A nil src draws
// non-reproducible randomness from crypto/rand.
func (dpp *DPP) Sample(src rand.Source) ([]int, error) {
	if dpp.projection && dpp.kind == Correlation {
		return dpp.SampleProjection(ModeDefault, 0, src)
	}

	idx, err := dpp.sampleSpectral(src)
	if err != nil {
		return nil, err
	}
	dpp.record(idx)

	return idx, nil
}

// SampleK generates one exact sample of fixed size k (a k-DPP sample).
func (dpp *DPP) SampleK(k int, src rand.Source) ([]int, error) {
	if k <= 0 {
		return nil, internal.ErrSizeRequired
	}
	if dpp.projection && dpp.kind == Correlation {
		return dpp.SampleProjection(ModeDefault, k, src)
	}

	idx, err := dpp.sampleSpectralK(k, src)
	if err != nil {
		return nil, err
	}
	dpp.record(idx)

	return idx, nil
}

// record appends a drawn index set to the sample history.
func (dpp *DPP) record(idx []int) {
	dpp.samples = append(dpp.samples, idx)
}

// Samples returns all index sets drawn on this instance so far, in
// drawing order.
func (dpp *DPP) Samples() [][]int {
	return dpp.samples
}

// FlushSamples empties the sample history.
func (dpp *DPP) FlushSamples() {
	dpp.samples = nil
}
