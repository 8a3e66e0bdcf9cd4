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
)

// LinearKernel returns the Gram matrix of the rows of x and y,
// K[i][j] = <x_i, y_j>. If y is nil, y = x is taken.
func LinearKernel(x, y Matrix) (Matrix, error) {
	if y == nil {
		y = x
	}
	if x.Cols() != y.Cols() {
		return nil, errors.New("points should have the same dimension")
	}

	return x.Mul(y.Transpose())
}

// PolynomialKernel returns the polynomial kernel matrix
// K[i][j] = <x_i, y_j>^p. If y is nil, y = x is taken.
func PolynomialKernel(x, y Matrix, p int) (Matrix, error) {
	k, err := LinearKernel(x, y)
	if err != nil {
		return nil, err
	}

	return k.Apply(func(c float64) float64 {
		return math.Pow(c, float64(p))
	}), nil
}

// MinimumKernel returns the kernel matrix K[i][j] = min(x_i, y_j) for
// points in [0, 1]. If y is nil, y = x is taken.
// An error is returned if any point lies outside the unit interval.
func MinimumKernel(x, y Vector) (Matrix, error) {
	if err := x.CheckInUnitInterval(defaultTol); err != nil {
		return nil, err
	}
	if y == nil {
		y = x
	} else if err := y.CheckInUnitInterval(defaultTol); err != nil {
		return nil, err
	}

	k := make(Matrix, len(x))
	for i, xi := range x {
		k[i] = make(Vector, len(y))
		for j, yj := range y {
			k[i][j] = math.Min(xi, yj)
		}
	}

	return k, nil
}

// GramProjection builds the orthogonal projection kernel
// K = Phi^T (Phi Phi^T)^-1 Phi from a full row rank d x N feature
// matrix phi. The result is an N x N projection matrix of rank d.
func GramProjection(phi Matrix) (Matrix, error) {
	if err := phi.CheckFullRowRank(); err != nil {
		return nil, err
	}

	gram, err := phi.Mul(phi.Transpose())
	if err != nil {
		return nil, err
	}
	gramInv, err := gram.Inverse()
	if err != nil {
		return nil, err
	}

	t, err := phi.Transpose().Mul(gramInv)
	if err != nil {
		return nil, err
	}

	return t.Mul(phi)
}
