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

package data

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/dpp-project/godpp/internal"
)

// checkWindow bounds the number of indices inspected by the cheap
// structural checks below. The checks are spot checks on a small
// leading submatrix, not full verifications.
const checkWindow = 10

const defaultTol = 1e-8

// CheckSquare verifies that matrix m is square.
func (m Matrix) CheckSquare() error {
	if m.Rows() != m.Cols() {
		return internal.ErrNotSquare
	}

	return nil
}

// CheckSymmetric is a cheap test of M^T = M on a small leading window.
func (m Matrix) CheckSymmetric() error {
	if err := m.CheckSquare(); err != nil {
		return err
	}

	n := min(checkWindow, m.Rows())
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(m[i][j]-m[j][i]) > defaultTol {
				return internal.ErrNotSymmetric
			}
		}
	}

	return nil
}

// CheckProjection is a cheap test of the reproducing property M^2 = M
// on a small leading window.
func (m Matrix) CheckProjection() error {
	if err := m.CheckSquare(); err != nil {
		return err
	}

	n := min(checkWindow, m.Rows())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var s float64
			for k := 0; k < m.Cols(); k++ {
				s += m[i][k] * m[k][j]
			}
			if math.Abs(s-m[i][j]) > defaultTol {
				return internal.ErrNotProjection
			}
		}
	}

	return nil
}

// CheckOrthonormalColumns is a cheap test of M^T M = I on a small
// window of columns.
func (m Matrix) CheckOrthonormalColumns() error {
	n := min(checkWindow, m.Cols())
	for i := 0; i < n; i++ {
		u, _ := m.GetCol(i)
		for j := i; j < n; j++ {
			v, _ := m.GetCol(j)
			prod, _ := u.Dot(v)

			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod-want) > defaultTol {
				return internal.ErrNotOrthonormal
			}
		}
	}

	return nil
}

// CheckZeroOne checks if all elements of vector v are in {0, 1},
// for a given tolerance.
func (v Vector) CheckZeroOne(tol float64) error {
	for _, c := range v {
		if math.Abs(c) > tol && math.Abs(1-c) > tol {
			return errors.New("vector with entries not all in {0,1}")
		}
	}

	return nil
}

// CheckInUnitInterval checks if all elements of vector v are in [0, 1],
// for a given tolerance.
func (v Vector) CheckInUnitInterval(tol float64) error {
	for _, c := range v {
		if c < -tol || c > 1+tol {
			return errors.New("vector with entries not all in [0,1]")
		}
	}

	return nil
}

// CheckNonNegative checks if all elements of vector v are >= 0,
// for a given tolerance.
func (v Vector) CheckNonNegative(tol float64) error {
	for _, c := range v {
		if c < -tol {
			return errors.New("vector entries not all >= 0")
		}
	}

	return nil
}

// CheckFullRowRank verifies that a d x N matrix with d <= N has
// rank d. The rank is computed from the singular values of m.
func (m Matrix) CheckFullRowRank() error {
	d, n := m.Rows(), m.Cols()
	if d == 0 || n == 0 {
		return errors.New("matrix is empty")
	}
	if d > n {
		return errors.Errorf("matrix is not full row rank: d(=%d) > N(=%d)", d, n)
	}

	var svd mat.SVD
	if ok := svd.Factorize(m.ToDense(), mat.SVDNone); !ok {
		return errors.New("SVD factorization failed")
	}
	vals := svd.Values(nil)

	thresh := vals[0] * float64(max(d, n)) * epsFloat64
	rank := 0
	for _, s := range vals {
		if s > thresh {
			rank++
		}
	}
	if rank != d {
		return errors.Errorf("matrix is not full row rank: d(=%d) != rank(=%d)", d, rank)
	}

	return nil
}

var epsFloat64 = math.Nextafter(1, 2) - 1

// StableEigenFilter reduces an eigendecomposition of a PSD matrix to
// the eigenpairs whose eigenvalues are numerically stable. Eigenvectors
// are given as columns of vecs. The threshold follows the pinv
// convention: max |eigenvalue| times the dimension times machine
// epsilon. An error is returned if a clearly negative eigenvalue is
// present.
func StableEigenFilter(vecs Matrix, vals Vector) (Matrix, Vector, error) {
	n := vecs.Rows()
	if !vecs.CheckDims(n, len(vals)) {
		return nil, nil, errors.Errorf("sizes of %dx%d eigenvectors and %d eigenvalues do not match",
			vecs.Rows(), vecs.Cols(), len(vals))
	}

	var maxAbs float64
	for _, l := range vals {
		maxAbs = math.Max(maxAbs, math.Abs(l))
	}
	thresh := maxAbs * float64(len(vals)) * epsFloat64

	keep := make([]int, 0, len(vals))
	for i, l := range vals {
		if l < -thresh {
			return nil, nil, errors.Wrapf(internal.ErrNotPSD, "eigenvalue %g < 0", l)
		}
		if math.Abs(l) > thresh {
			keep = append(keep, i)
		}
	}

	valsThin := make(Vector, len(keep))
	for i, k := range keep {
		valsThin[i] = vals[k]
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	vecsThin, err := vecs.Submatrix(rows, keep)
	if err != nil {
		return nil, nil, err
	}

	return vecsThin, valsThin, nil
}

// StableInvertRoot computes a thin representation of the pseudo-inverse
// square root of a PSD matrix given by its eigendecomposition. Near-zero
// eigenvalues and the associated eigenvectors are dropped.
func StableInvertRoot(vecs Matrix, vals Vector) (Matrix, Vector, error) {
	vecsThin, valsThin, err := StableEigenFilter(vecs, vals)
	if err != nil {
		return nil, nil, err
	}

	invRoot := valsThin.Apply(func(l float64) float64 {
		return 1 / math.Sqrt(l)
	})

	return vecsThin, invRoot, nil
}
