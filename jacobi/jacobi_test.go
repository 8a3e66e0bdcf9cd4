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

package jacobi_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpp-project/godpp/jacobi"
	"github.com/dpp-project/godpp/sample"
)

func TestNewOPE_Validation(t *testing.T) {
	_, err := jacobi.NewOPE(0, 0, 0)
	assert.Error(t, err)

	_, err = jacobi.NewOPE(3, -1, 0)
	assert.Error(t, err)

	_, err = jacobi.NewOPE(3, 0, -1.5)
	assert.Error(t, err)
}

func TestOPE_LegendreBasis(t *testing.T) {
	// a = b = 0 gives the Legendre weight; the orthonormal
	// polynomials are sqrt((2k+1)/2) P_k
	o, err := jacobi.NewOPE(3, 0, 0)
	assert.NoError(t, err)

	x := 0.5
	p := o.EvalBasis(x)

	assert.InDelta(t, 1/math.Sqrt2, p[0], 1e-12)
	assert.InDelta(t, math.Sqrt(3.0/2)*x, p[1], 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/2)*(3*x*x-1)/2, p[2], 1e-12)
}

func TestOPE_BasisOrthonormality(t *testing.T) {
	o, err := jacobi.NewOPE(4, 0, 0)
	assert.NoError(t, err)

	// trapezoid quadrature of p_i p_j over [-1, 1]
	const grid = 200000
	gram := [4][4]float64{}
	for g := 0; g <= grid; g++ {
		x := -1 + 2*float64(g)/grid
		w := 2.0 / grid
		if g == 0 || g == grid {
			w /= 2
		}
		p := o.EvalBasis(x)
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				gram[i][j] += w * p[i] * p[j]
			}
		}
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, gram[i][j], 1e-3)
		}
	}
}

func TestOPE_KernelDiagonalIntegratesToN(t *testing.T) {
	o, err := jacobi.NewOPE(5, 0, 0)
	assert.NoError(t, err)

	// integral of K_n(x, x) w(x) dx equals n
	const grid = 200000
	var total float64
	for g := 0; g <= grid; g++ {
		x := -1 + 2*float64(g)/grid
		w := 2.0 / grid
		if g == 0 || g == grid {
			w /= 2
		}
		total += w * o.Kernel(x, x) * o.Weight(x)
	}
	assert.InDelta(t, 5.0, total, 1e-2)
}

func TestOPE_Sample(t *testing.T) {
	o, err := jacobi.NewOPE(5, 0.5, 0.5)
	assert.NoError(t, err)

	src := sample.NewSource(43)
	for rep := 0; rep < 20; rep++ {
		pts, err := o.Sample(src)
		assert.NoError(t, err)
		assert.Equal(t, 5, len(pts))
		for _, x := range pts {
			assert.True(t, x > -1 && x < 1, "sampled point outside (-1,1)")
		}
	}
}

func TestOPE_IntegrateMC(t *testing.T) {
	o, err := jacobi.NewOPE(8, 0, 0)
	assert.NoError(t, err)

	src := sample.NewSource(47)
	one := func(x float64) float64 { return 1 }

	// estimator of the weight mass: integral of w over [-1,1] is 2
	const reps = 50
	var total float64
	for rep := 0; rep < reps; rep++ {
		pts, err := o.Sample(src)
		assert.NoError(t, err)
		total += o.IntegrateMC(one, pts)
	}
	assert.InDelta(t, 2.0, total/reps, 0.15)
}
