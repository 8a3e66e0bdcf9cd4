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
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/dpp-project/godpp/data"
	"github.com/dpp-project/godpp/internal"
	"github.com/dpp-project/godpp/sample"
)

// sampleSpectral draws an exact sample with the spectral method: each
// eigenvector is kept independently, with probability lambda for a
// correlation kernel and lambda/(1+lambda) for a likelihood kernel, and
// the projection kernel spanned by the kept eigenvectors is sampled
// with the Gram-Schmidt chain rule.
func (dpp *DPP) sampleSpectral(src rand.Source) ([]int, error) {
	src = sample.CheckSource(src)
	vecs, vals, err := dpp.eigen()
	if err != nil {
		return nil, err
	}

	selected := make([]int, 0, len(vals))
	for i, l := range vals {
		p := l
		if dpp.kind == Likelihood {
			p = l / (1 + l)
		}
		if sample.Bernoulli(p, src) {
			selected = append(selected, i)
		}
	}

	return samplePhaseTwo(vecs, selected, src)
}

// sampleSpectralK draws an exact k-DPP sample: the number of kept
// eigenvectors is conditioned to be exactly k via the elementary
// symmetric polynomial recursion over the likelihood eigenvalues, and
// phase two proceeds as in the spectral method.
func (dpp *DPP) sampleSpectralK(k int, src rand.Source) ([]int, error) {
	src = sample.CheckSource(src)
	vecs, vals, err := dpp.eigen()
	if err != nil {
		return nil, err
	}

	// Work with the eigenvalues of L. For a correlation kernel,
	// lambda_L = lambda_K / (1 - lambda_K).
	lVals := vals
	if dpp.kind == Correlation {
		lVals = make(data.Vector, len(vals))
		for i, l := range vals {
			if l > 1-eigTol {
				return nil, errors.Wrap(internal.ErrKernelMissing,
					"k-DPP over a correlation kernel with an eigenvalue equal to 1")
			}
			lVals[i] = l / (1 - l)
		}
	}

	positive := 0
	for _, l := range lVals {
		if l > eigTol {
			positive++
		}
	}
	if k > positive {
		return nil, internal.ErrSizeExceedsRank
	}

	selected, err := selectEigenvaluesK(lVals, k, src)
	if err != nil {
		return nil, err
	}

	return samplePhaseTwo(vecs, selected, src)
}

// selectEigenvaluesK draws a subset of exactly k eigenvalue indices
// with probability proportional to the product of the selected
// eigenvalues, using the backward elementary symmetric polynomial
// recursion.
func selectEigenvaluesK(vals data.Vector, k int, src rand.Source) ([]int, error) {
	n := len(vals)
	e := data.ElementarySymmetric(k, vals)

	selected := make([]int, 0, k)
	l := k
	for m := n; m > 0 && l > 0; m-- {
		if m == l {
			// all remaining eigenvalues must be taken
			for i := m - 1; i >= 0; i-- {
				selected = append(selected, i)
			}
			l = 0
			break
		}
		p := vals[m-1] * e[l-1][m-1] / e[l][m]
		if sample.Bernoulli(p, src) {
			selected = append(selected, m-1)
			l--
		}
	}
	if l != 0 {
		return nil, errors.New("eigenvalue selection failed to reach the requested size")
	}

	return selected, nil
}

// samplePhaseTwo samples the projection DPP whose kernel is spanned by
// the selected eigenvector columns of vecs.
func samplePhaseTwo(vecs data.Matrix, selected []int, src rand.Source) ([]int, error) {
	if len(selected) == 0 {
		return []int{}, nil
	}

	rows := make([]int, vecs.Rows())
	for i := range rows {
		rows[i] = i
	}
	v, err := vecs.Submatrix(rows, selected)
	if err != nil {
		return nil, err
	}
	proj, err := v.Mul(v.Transpose())
	if err != nil {
		return nil, err
	}

	return ProjectionSampleGS(proj, len(selected), src)
}
