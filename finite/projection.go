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

	"github.com/dpp-project/godpp/data"
	"github.com/dpp-project/godpp/internal"
	"github.com/dpp-project/godpp/sample"
)

// checkProjectionSize resolves the requested sample size against the
// rank of a projection kernel, rank(K) = round(trace(K)). A size <= 0
// requests a full sample of rank(K) points.
func checkProjectionSize(k data.Matrix, size int) (int, int, error) {
	rank := int(math.Round(k.Trace()))
	if size <= 0 {
		size = rank
	}
	if size > rank {
		return 0, 0, internal.ErrSizeExceedsRank
	}

	return size, rank, nil
}

// ProjectionSampleGS generates an exact sample from DPP(K), or from
// k-DPP(K) with k = size if size > 0, where K is a symmetric orthogonal
// projection kernel. The chain rule is applied through sequential
// Gram-Schmidt orthogonalization of the rows of K.
func ProjectionSampleGS(k data.Matrix, size int, src rand.Source) ([]int, error) {
	size, _, err := checkProjectionSize(k, size)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []int{}, nil
	}

	n := k.Rows()
	rem := make([]bool, n)
	for i := range rem {
		rem[i] = true
	}
	norm2 := k.Diag().Copy()
	c := data.NewConstantMatrix(n, size, 0)
	res := make([]int, size)

	for it := 0; it < size; it++ {
		weights := make([]float64, n)
		for i := 0; i < n; i++ {
			if rem[i] {
				weights[i] = math.Abs(norm2[i])
			}
		}
		j, err := sample.Categorical(weights, src)
		if err != nil {
			return nil, err
		}
		res[it] = j
		rem[j] = false
		if it == size-1 {
			break
		}

		sqrtNorm := math.Sqrt(norm2[j])
		for i := 0; i < n; i++ {
			if !rem[i] {
				continue
			}
			var dot float64
			for b := 0; b < it; b++ {
				dot += c[i][b] * c[j][b]
			}
			c[i][it] = (k[i][j] - dot) / sqrtNorm
			norm2[i] -= c[i][it] * c[i][it]
		}
	}

	return res, nil
}

// ProjectionSampleChol generates an exact sample from DPP(K), or from
// k-DPP(K) with k = size if size > 0, where K is a symmetric orthogonal
// projection kernel. The chain rule is applied by performing Cholesky
// updates with symmetric pivoting of the kernel.
func ProjectionSampleChol(k data.Matrix, size int, src rand.Source) ([]int, error) {
	size, _, err := checkProjectionSize(k, size)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []int{}, nil
	}

	n := k.Rows()
	a := k.Copy()
	d := k.Diag().Copy()
	ground := make([]int, n)
	for i := range ground {
		ground[i] = i
	}

	for j := 0; j < size; j++ {
		weights := make([]float64, n-j)
		for i := j; i < n; i++ {
			weights[i-j] = math.Abs(d[i])
		}
		t, err := sample.Categorical(weights, src)
		if err != nil {
			return nil, err
		}
		t += j

		cholSwap(a, j, t)
		ground[j], ground[t] = ground[t], ground[j]
		d[j], d[t] = d[t], d[j]

		a[j][j] = math.Sqrt(d[j])
		if j == size-1 {
			break
		}

		for r := j + 1; r < n; r++ {
			var dot float64
			for b := 0; b < j; b++ {
				dot += a[r][b] * a[j][b]
			}
			a[r][j] = (a[r][j] - dot) / a[j][j]
			d[r] -= a[r][j] * a[r][j]
		}
	}

	return ground[:size], nil
}

// cholSwap exchanges indices j and t of the partially factorized kernel
// a, touching only the entries the factorization still reads.
func cholSwap(a data.Matrix, j, t int) {
	if j == t {
		return
	}
	n := a.Rows()

	// bottom swap
	for r := t + 1; r < n; r++ {
		a[r][j], a[r][t] = a[r][t], a[r][j]
	}
	// inner swap
	for r := j + 1; r < t; r++ {
		a[r][j], a[t][r] = a[t][r], a[r][j]
	}
	// diagonal swap
	a[j][j], a[t][t] = a[t][t], a[j][j]
	// left swap
	for c := 0; c < j; c++ {
		a[j][c], a[t][c] = a[t][c], a[j][c]
	}
}

// ProjectionSampleSchur generates an exact sample from DPP(K), or from
// k-DPP(K) with k = size if size > 0, where K is a projection kernel,
// not necessarily symmetric. The chain rule is applied by computing
// Schur complements explicitly, growing the inverse of the sampled
// principal submatrix with the Woodbury identity.
func ProjectionSampleSchur(k data.Matrix, size int, src rand.Source) ([]int, error) {
	size, _, err := checkProjectionSize(k, size)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []int{}, nil
	}

	n := k.Rows()
	rem := make([]bool, n)
	for i := range rem {
		rem[i] = true
	}
	res := make([]int, size)

	schur := k.Diag().Copy()
	kInv := data.NewConstantMatrix(size, size, 0)

	for it := 0; it < size; it++ {
		weights := make([]float64, n)
		for i := 0; i < n; i++ {
			if rem[i] {
				weights[i] = math.Abs(schur[i])
			}
		}
		j, err := sample.Categorical(weights, src)
		if err != nil {
			return nil, err
		}
		res[it] = j
		rem[j] = false
		if it == size-1 {
			break
		}

		// Grow the inverse of K restricted to the sampled indices.
		switch it {
		case 0:
			kInv[0][0] = 1 / k[j][j]
		case 1:
			i := res[0]
			det := k[i][i]*k[j][j] - k[i][j]*k[j][i]
			kInv[0][0] = k[j][j] / det
			kInv[0][1] = -k[i][j] / det
			kInv[1][0] = -k[j][i] / det
			kInv[1][1] = k[i][i] / det
		default:
			tmp1 := make([]float64, it)
			for a := 0; a < it; a++ {
				for b := 0; b < it; b++ {
					tmp1[a] += kInv[a][b] * k[res[b]][j]
				}
			}
			schurJ := k[j][j]
			for a := 0; a < it; a++ {
				schurJ -= k[j][res[a]] * tmp1[a]
			}
			tmp2 := make([]float64, it)
			for b := 0; b < it; b++ {
				for a := 0; a < it; a++ {
					tmp2[b] += k[j][res[a]] * kInv[a][b]
				}
				tmp2[b] /= schurJ
			}
			for a := 0; a < it; a++ {
				for b := 0; b < it; b++ {
					kInv[a][b] += tmp1[a] * tmp2[b]
				}
				kInv[a][it] = -tmp1[a] / schurJ
				kInv[it][a] = -tmp2[a]
			}
			kInv[it][it] = 1 / schurJ
		}

		// Update the Schur complements K_ii - K_iY (K_Y)^-1 K_Yi
		// of the remaining indices.
		for i := 0; i < n; i++ {
			if !rem[i] {
				continue
			}
			s := k[i][i]
			for a := 0; a <= it; a++ {
				var row float64
				for b := 0; b <= it; b++ {
					row += kInv[a][b] * k[res[b]][i]
				}
				s -= k[i][res[a]] * row
			}
			schur[i] = s
		}
	}

	return res, nil
}
