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

package finite_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpp-project/godpp/data"
	"github.com/dpp-project/godpp/finite"
	"github.com/dpp-project/godpp/sample"
)

// testProjectionKernel builds a rank 3 orthogonal projection kernel
// over a ground set of 6 points from a seeded random feature matrix.
func testProjectionKernel(t *testing.T) data.Matrix {
	rng := rand.New(sample.NewSource(5))
	rows := make([]data.Vector, 3)
	for i := range rows {
		rows[i] = make(data.Vector, 6)
		for j := range rows[i] {
			rows[i][j] = 2*rng.Float64() - 1
		}
	}
	phi, err := data.NewMatrix(rows)
	assert.NoError(t, err)

	k, err := data.GramProjection(phi)
	assert.NoError(t, err)
	assert.NoError(t, k.CheckProjection())

	return k
}

func distinct(idx []int) bool {
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if seen[i] {
			return false
		}
		seen[i] = true
	}

	return true
}

func TestProjectionSamplers_SizeAndDistinct(t *testing.T) {
	k := testProjectionKernel(t)

	samplers := map[string]func(data.Matrix, int, rand.Source) ([]int, error){
		"GS":    finite.ProjectionSampleGS,
		"Chol":  finite.ProjectionSampleChol,
		"Schur": finite.ProjectionSampleSchur,
	}

	for name, sampler := range samplers {
		t.Run(name, func(t *testing.T) {
			src := sample.NewSource(11)
			for rep := 0; rep < 100; rep++ {
				idx, err := sampler(k, 0, src)
				assert.NoError(t, err)
				assert.Equal(t, 3, len(idx), "full sample should have rank(K) points")
				assert.True(t, distinct(idx))
				for _, i := range idx {
					assert.True(t, i >= 0 && i < 6)
				}
			}

			idx, err := sampler(k, 2, src)
			assert.NoError(t, err)
			assert.Equal(t, 2, len(idx))
			assert.True(t, distinct(idx))

			_, err = sampler(k, 4, src)
			assert.Error(t, err, "size above rank should be rejected")
		})
	}
}

func TestProjectionSamplers_Marginals(t *testing.T) {
	k := testProjectionKernel(t)

	const reps = 4000
	samplers := map[string]func(data.Matrix, int, rand.Source) ([]int, error){
		"GS":    finite.ProjectionSampleGS,
		"Chol":  finite.ProjectionSampleChol,
		"Schur": finite.ProjectionSampleSchur,
	}

	for name, sampler := range samplers {
		t.Run(name, func(t *testing.T) {
			src := sample.NewSource(17)
			counts := make([]int, 6)
			for rep := 0; rep < reps; rep++ {
				idx, err := sampler(k, 0, src)
				assert.NoError(t, err)
				for _, i := range idx {
					counts[i]++
				}
			}
			// inclusion frequency of i should approach K_ii
			for i := 0; i < 6; i++ {
				assert.InDelta(t, k[i][i], float64(counts[i])/reps, 0.05,
					"%s marginal of index %d", name, i)
			}
		})
	}
}

func TestProjectionSampleSchur_ObliqueKernel(t *testing.T) {
	// idempotent but not symmetric: an oblique projection
	k, _ := data.NewMatrix([]data.Vector{
		{1, 1},
		{0, 0},
	})
	assert.NoError(t, k.CheckProjection())
	assert.Error(t, k.CheckSymmetric())

	src := sample.NewSource(23)
	for rep := 0; rep < 20; rep++ {
		idx, err := finite.ProjectionSampleSchur(k, 0, src)
		assert.NoError(t, err)
		assert.Equal(t, []int{0}, idx, "the only nonzero marginal is index 0")
	}
}

func TestNewDPP_Validation(t *testing.T) {
	rect, _ := data.NewMatrix([]data.Vector{
		{1, 2, 3},
	})
	_, err := finite.NewDPP(finite.Correlation, rect, false)
	assert.Error(t, err)

	notProj, _ := data.NewMatrix([]data.Vector{
		{1, 2},
		{2, 1},
	})
	_, err = finite.NewDPP(finite.Correlation, notProj, true)
	assert.Error(t, err)

	asym, _ := data.NewMatrix([]data.Vector{
		{0.5, 0.1},
		{0.2, 0.5},
	})
	_, err = finite.NewDPP(finite.Correlation, asym, false)
	assert.Error(t, err, "non-symmetric kernels are only valid as projections")
}

func TestDPP_KernelConversion(t *testing.T) {
	l, _ := data.NewMatrix([]data.Vector{
		{2, 0},
		{0, 0.5},
	})
	dpp, err := finite.NewDPP(finite.Likelihood, l, false)
	assert.NoError(t, err)

	k, err := dpp.CorrelationKernel()
	assert.NoError(t, err)
	assert.InDelta(t, 2.0/3, k[0][0], 1e-10)
	assert.InDelta(t, 1.0/3, k[1][1], 1e-10)
	assert.InDelta(t, 0.0, k[0][1], 1e-10)

	kDpp, err := finite.NewDPP(finite.Correlation, k, false)
	assert.NoError(t, err)
	lBack, err := kDpp.LikelihoodKernel()
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, lBack[0][0], 1e-9)
	assert.InDelta(t, 0.5, lBack[1][1], 1e-9)
}

func TestDPP_LikelihoodKernelOfProjection(t *testing.T) {
	k := testProjectionKernel(t)
	dpp, err := finite.NewProjectionDPP(k)
	assert.NoError(t, err)

	_, err = dpp.LikelihoodKernel()
	assert.Error(t, err, "projection correlation kernel admits no likelihood kernel")
}

func TestDPP_Likelihood(t *testing.T) {
	k, _ := data.NewMatrix([]data.Vector{
		{0.5, 0},
		{0, 0.5},
	})
	dpp, err := finite.NewDPP(finite.Correlation, k, false)
	assert.NoError(t, err)

	p, err := dpp.Likelihood([]int{0})
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	p, err = dpp.Likelihood([]int{0, 1})
	assert.NoError(t, err)
	assert.InDelta(t, 0.25, p, 1e-12)

	p, err = dpp.Likelihood([]int{})
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-12, "empty set has inclusion probability 1")

	l, _ := data.NewMatrix([]data.Vector{
		{1, 0},
		{0, 1},
	})
	lDpp, err := finite.NewDPP(finite.Likelihood, l, false)
	assert.NoError(t, err)

	p, err = lDpp.Likelihood([]int{0})
	assert.NoError(t, err)
	assert.InDelta(t, 0.25, p, 1e-12, "det L_S / det(L+I) = 1/4")

	logP, err := lDpp.LogLikelihood([]int{0})
	assert.NoError(t, err)
	assert.InDelta(t, math.Log(0.25), logP, 1e-10)
}

func TestDPP_SampleSpectral(t *testing.T) {
	l, _ := data.NewMatrix([]data.Vector{
		{3, 0, 0},
		{0, 1, 0},
		{0, 0, 0.2},
	})
	dpp, err := finite.NewDPP(finite.Likelihood, l, false)
	assert.NoError(t, err)

	src := sample.NewSource(29)
	expected := 3.0/4 + 1.0/2 + 0.2/1.2

	const reps = 3000
	total := 0
	for rep := 0; rep < reps; rep++ {
		idx, err := dpp.Sample(src)
		assert.NoError(t, err)
		assert.True(t, distinct(idx))
		total += len(idx)
	}
	assert.InDelta(t, expected, float64(total)/reps, 0.1,
		"mean sample size should approach sum lambda/(1+lambda)")
}

func TestDPP_SampleK(t *testing.T) {
	l, _ := data.NewMatrix([]data.Vector{
		{3, 0, 0, 0},
		{0, 2, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 0.5},
	})
	dpp, err := finite.NewDPP(finite.Likelihood, l, false)
	assert.NoError(t, err)

	src := sample.NewSource(31)
	for rep := 0; rep < 200; rep++ {
		idx, err := dpp.SampleK(2, src)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(idx), "k-DPP sample must have exactly k points")
		assert.True(t, distinct(idx))
	}

	_, err = dpp.SampleK(5, src)
	assert.Error(t, err, "k above the number of positive eigenvalues should be rejected")

	_, err = dpp.SampleK(0, src)
	assert.Error(t, err)
}

func TestDPP_SampleProjection_LikelihoodNeedsSize(t *testing.T) {
	k := testProjectionKernel(t)
	dpp, err := finite.NewDPP(finite.Likelihood, k, true)
	assert.NoError(t, err)

	src := sample.NewSource(37)
	_, err = dpp.SampleProjection(finite.ModeDefault, 0, src)
	assert.Error(t, err, "likelihood projection kernels admit only fixed-size sampling")

	idx, err := dpp.SampleProjection(finite.ModeDefault, 2, src)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(idx))
}

func TestDPP_SampleProjectionModes(t *testing.T) {
	k := testProjectionKernel(t)
	dpp, err := finite.NewProjectionDPP(k)
	assert.NoError(t, err)

	src := sample.NewSource(41)
	for _, mode := range []finite.Mode{finite.ModeGS, finite.ModeChol, finite.ModeSchur} {
		idx, err := dpp.SampleProjection(mode, 0, src)
		assert.NoError(t, err)
		assert.Equal(t, 3, len(idx))
	}

	_, err = dpp.SampleProjection(finite.Mode("bogus"), 0, src)
	assert.Error(t, err)
}

func TestDPP_SamplesBookkeeping(t *testing.T) {
	dpp, err := finite.NewProjectionDPP(testProjectionKernel(t))
	assert.NoError(t, err)
	assert.Empty(t, dpp.Samples())

	src := sample.NewSource(53)
	first, err := dpp.Sample(src)
	assert.NoError(t, err)
	_, err = dpp.SampleK(2, src)
	assert.NoError(t, err)
	_, err = dpp.SampleProjection(finite.ModeChol, 0, src)
	assert.NoError(t, err)

	drawn := dpp.Samples()
	assert.Equal(t, 3, len(drawn))
	assert.Equal(t, first, drawn[0])
	assert.Equal(t, 2, len(drawn[1]))

	dpp.FlushSamples()
	assert.Empty(t, dpp.Samples())

	// failed draws leave the history untouched
	_, err = dpp.SampleK(4, src)
	assert.Error(t, err)
	assert.Empty(t, dpp.Samples())
}

func TestNewLowRankDPP(t *testing.T) {
	phi, _ := data.NewMatrix([]data.Vector{
		{1, 0, 1, 0},
		{0, 1, 0, 1},
	})
	dpp, err := finite.NewLowRankDPP(phi)
	assert.NoError(t, err)
	assert.Equal(t, 4, dpp.GroundSetSize())

	l, err := dpp.LikelihoodKernel()
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, l[0][0], 1e-12)
	assert.InDelta(t, 0.0, l[0][1], 1e-12)
	assert.InDelta(t, 1.0, l[0][2], 1e-12)

	// the dual eigendecomposition must agree with the dense one
	dense, err := finite.NewDPP(finite.Likelihood, l, false)
	assert.NoError(t, err)
	kLow, err := dpp.CorrelationKernel()
	assert.NoError(t, err)
	kDense, err := dense.CorrelationKernel()
	assert.NoError(t, err)
	for i := range kDense {
		for j := range kDense[i] {
			assert.InDelta(t, kDense[i][j], kLow[i][j], 1e-9)
		}
	}

	src := sample.NewSource(59)
	for rep := 0; rep < 50; rep++ {
		idx, err := dpp.Sample(src)
		assert.NoError(t, err)
		assert.True(t, len(idx) <= 2, "sample size bounded by the factor rank")
		assert.True(t, distinct(idx))
	}
	idx, err := dpp.SampleK(2, src)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(idx))

	rankDeficient, _ := data.NewMatrix([]data.Vector{
		{1, 0, 1},
		{2, 0, 2},
	})
	_, err = finite.NewLowRankDPP(rankDeficient)
	assert.Error(t, err)
}
