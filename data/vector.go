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
	"fmt"
	"math"
)

// Vector wraps a slice of float64 elements.
type Vector []float64

// NewVector returns a new Vector instance.
func NewVector(coordinates []float64) Vector {
	return Vector(coordinates)
}

// NewConstantVector returns a new Vector instance
// with all elements set to constant c.
func NewConstantVector(len int, c float64) Vector {
	vec := make(Vector, len)
	for i := 0; i < len; i++ {
		vec[i] = c
	}

	return vec
}

// Copy creates a new vector with the same values
// of the entries.
func (v Vector) Copy() Vector {
	newVec := make(Vector, len(v))
	copy(newVec, v)

	return newVec
}

// Add adds vectors v and other.
// The result is returned in a new Vector.
func (v Vector) Add(other Vector) Vector {
	sum := make(Vector, len(v))
	for i, c := range v {
		sum[i] = c + other[i]
	}

	return sum
}

// Sub subtracts vector other from v.
// The result is returned in a new Vector.
func (v Vector) Sub(other Vector) Vector {
	diff := make(Vector, len(v))
	for i, c := range v {
		diff[i] = c - other[i]
	}

	return diff
}

// Dot calculates the dot product (inner product) of vectors v and other.
// It returns an error if the vectors have different numbers of elements.
func (v Vector) Dot(other Vector) (float64, error) {
	if len(v) != len(other) {
		return 0, fmt.Errorf("vectors should be of the same length")
	}

	var prod float64
	for i, c := range v {
		prod += c * other[i]
	}

	return prod, nil
}

// MulScalar multiplies vector v by a scalar x.
// The result is returned in a new Vector.
func (v Vector) MulScalar(x float64) Vector {
	return v.Apply(func(c float64) float64 {
		return c * x
	})
}

// Apply applies an element-wise function f to vector v.
// The result is returned in a new Vector.
func (v Vector) Apply(f func(float64) float64) Vector {
	res := make(Vector, len(v))
	for i, c := range v {
		res[i] = f(c)
	}

	return res
}

// Norm returns the Euclidean norm of vector v.
func (v Vector) Norm() float64 {
	prod, _ := v.Dot(v)

	return math.Sqrt(prod)
}

// Sum returns the sum of the elements of vector v.
func (v Vector) Sum() float64 {
	var s float64
	for _, c := range v {
		s += c
	}

	return s
}
