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

package sample_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpp-project/godpp/sample"
)

func TestDetSource_Reproducible(t *testing.T) {
	key := [32]byte{1, 2, 3}

	s1 := sample.NewDetSource(&key)
	s2 := sample.NewDetSource(&key)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, s1.Uint64(), s2.Uint64(), "same key should yield the same stream")
	}

	other := [32]byte{4, 5, 6}
	s3 := sample.NewDetSource(&key)
	s4 := sample.NewDetSource(&other)
	same := true
	for i := 0; i < 10; i++ {
		if s3.Uint64() != s4.Uint64() {
			same = false
		}
	}
	assert.False(t, same, "different keys should yield different streams")
}

func TestCheckSource(t *testing.T) {
	src := sample.NewSource(7)
	assert.Equal(t, src, sample.CheckSource(src))
	assert.NotNil(t, sample.CheckSource(nil))
}

func TestCategorical(t *testing.T) {
	src := sample.NewSource(42)

	counts := make([]int, 3)
	weights := []float64{1, 2, 1}
	for i := 0; i < 20000; i++ {
		idx, err := sample.Categorical(weights, src)
		assert.NoError(t, err)
		counts[idx]++
	}

	// frequencies should approach 0.25, 0.5, 0.25
	assert.InDelta(t, 0.25, float64(counts[0])/20000, 0.02)
	assert.InDelta(t, 0.5, float64(counts[1])/20000, 0.02)
	assert.InDelta(t, 0.25, float64(counts[2])/20000, 0.02)

	_, err := sample.Categorical([]float64{0, 0}, src)
	assert.Error(t, err, "all-zero weights should be rejected")

	_, err = sample.Categorical([]float64{1, -1}, src)
	assert.Error(t, err, "negative weights should be rejected")

	idx, err := sample.Categorical([]float64{0, 0, 3, 0}, src)
	assert.NoError(t, err)
	assert.Equal(t, 2, idx, "the only positive weight must be chosen")
}

func TestBernoulli(t *testing.T) {
	src := sample.NewSource(1)

	hits := 0
	for i := 0; i < 20000; i++ {
		if sample.Bernoulli(0.3, src) {
			hits++
		}
	}
	assert.InDelta(t, 0.3, float64(hits)/20000, 0.02)

	assert.False(t, sample.Bernoulli(0, src))
	assert.True(t, sample.Bernoulli(1.1, src), "probabilities above 1 always succeed")
}

func TestUniformRange(t *testing.T) {
	src := sample.NewSource(3)
	for i := 0; i < 1000; i++ {
		x := sample.UniformRange(-1, 1, src)
		assert.True(t, x >= -1 && x < 1)
	}
}

func TestPermutation(t *testing.T) {
	src := sample.NewSource(9)
	p := sample.Permutation(10, src)
	assert.Equal(t, 10, len(p))

	seen := make([]bool, 10)
	for _, v := range p {
		seen[v] = true
	}
	for i, s := range seen {
		assert.True(t, s, "index %d missing from permutation", i)
	}
}
