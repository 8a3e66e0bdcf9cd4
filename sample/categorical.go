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

package sample

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Categorical draws a single index from {0, ..., len(weights)-1} with
// probability proportional to the weights. Weights must be non-negative
// and not all zero.
func Categorical(weights []float64, src rand.Source) (int, error) {
	for _, w := range weights {
		if w < 0 {
			return 0, errors.New("weights must be non-negative")
		}
	}

	w := sampleuv.NewWeighted(weights, CheckSource(src))
	idx, ok := w.Take()
	if !ok {
		return 0, errors.New("weights must not be all zero")
	}

	return idx, nil
}

// Bernoulli returns true with probability p.
func Bernoulli(p float64, src rand.Source) bool {
	return rand.New(CheckSource(src)).Float64() < p
}

// UniformRange draws a uniform real from the interval [min, max).
func UniformRange(min, max float64, src rand.Source) float64 {
	return min + (max-min)*rand.New(CheckSource(src)).Float64()
}

// Permutation returns a uniformly random permutation of {0, ..., n-1}.
func Permutation(n int, src rand.Source) []int {
	return rand.New(CheckSource(src)).Perm(n)
}
