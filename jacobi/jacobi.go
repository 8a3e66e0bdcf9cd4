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

// Package jacobi implements the orthogonal polynomial ensemble of the
// Jacobi weight on [-1, 1], a continuous determinantal point process,
// together with the Monte Carlo integration estimator it supports.
//
// The kernel is K_n(x, y) = sum_{k<n} p_k(x) p_k(y), where p_k are the
// polynomials orthonormal with respect to w(x) = (1-x)^a (1+x)^b. A
// sample of the ensemble consists of n points in (-1, 1), and the
// linear statistic sum f(x_i)/K_n(x_i, x_i) is an unbiased estimator
// of the integral of f against w whose fluctuations decay faster than
// those of independent sampling.
package jacobi

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dpp-project/godpp/data"
	"github.com/dpp-project/godpp/sample"
)

// rejection tuning
const (
	boundGrid    = 1024
	boundSafety  = 1.5
	maxRejection = 100000
)

// OPE is the n-point orthogonal polynomial ensemble of the Jacobi
// weight (1-x)^a (1+x)^b.
type OPE struct {
	n    int
	a, b float64

	// three-term recurrence coefficients of the orthonormal basis;
	// beta[0] holds the total mass of the weight
	alpha, beta []float64
}

// NewOPE returns the n-point Jacobi ensemble with weight exponents
// a, b > -1.
func NewOPE(n int, a, b float64) (*OPE, error) {
	if n < 1 {
		return nil, errors.New("ensemble must have at least one point")
	}
	if a <= -1 || b <= -1 {
		return nil, errors.New("weight exponents must be > -1")
	}

	o := &OPE{
		n:     n,
		a:     a,
		b:     b,
		alpha: make([]float64, n),
		beta:  make([]float64, n+1),
	}

	s := a + b
	o.alpha[0] = (b - a) / (s + 2)
	for k := 1; k < n; k++ {
		d := 2*float64(k) + s
		o.alpha[k] = (b*b - a*a) / (d * (d + 2))
	}

	o.beta[0] = math.Exp((s+1)*math.Ln2 + mathext.Lbeta(a+1, b+1))
	o.beta[1] = 4 * (a + 1) * (b + 1) / ((s + 2) * (s + 2) * (s + 3))
	for k := 2; k <= n; k++ {
		fk := float64(k)
		d := 2*fk + s
		o.beta[k] = 4 * fk * (fk + a) * (fk + b) * (fk + s) /
			(d * d * (d + 1) * (d - 1))
	}

	return o, nil
}

// N returns the number of points of the ensemble.
func (o *OPE) N() int {
	return o.n
}

// Weight evaluates the Jacobi weight (1-x)^a (1+x)^b at x.
func (o *OPE) Weight(x float64) float64 {
	return math.Pow(1-x, o.a) * math.Pow(1+x, o.b)
}

// EvalBasis evaluates the first n orthonormal Jacobi polynomials at x
// through the three-term recurrence.
func (o *OPE) EvalBasis(x float64) data.Vector {
	p := make(data.Vector, o.n)
	p[0] = 1 / math.Sqrt(o.beta[0])
	if o.n == 1 {
		return p
	}

	// p_{-1} = 0 starts the recurrence, so the sqrt(beta[0]) term
	// vanishes at k = 0 and beta[0] only ever enters through p[0].
	prev := 0.0
	for k := 0; k < o.n-1; k++ {
		next := ((x-o.alpha[k])*p[k] - math.Sqrt(o.beta[k])*prev) / math.Sqrt(o.beta[k+1])
		prev = p[k]
		p[k+1] = next
	}

	return p
}

// Kernel evaluates K_n(x, y) = sum_{k<n} p_k(x) p_k(y).
func (o *OPE) Kernel(x, y float64) float64 {
	px := o.EvalBasis(x)
	if x == y {
		var s float64
		for _, v := range px {
			s += v * v
		}
		return s
	}
	py := o.EvalBasis(y)
	s, _ := px.Dot(py)

	return s
}

// Sample draws the n points of the ensemble with the chain rule. Each
// conditional density is sampled by rejection against the arcsine
// distribution, with a bound estimated on a Chebyshev grid.
func (o *OPE) Sample(src rand.Source) (data.Vector, error) {
	src = sample.CheckSource(src)
	proposal := distuv.Beta{Alpha: 0.5, Beta: 0.5, Src: src}

	points := make(data.Vector, 0, o.n)
	basis := make([]data.Vector, 0, o.n)
	var kInv data.Matrix

	for it := 0; it < o.n; it++ {
		target := func(x float64) float64 {
			return o.conditional(x, basis, kInv) * o.Weight(x) / float64(o.n-it)
		}
		bound := o.rejectionBound(target)

		accepted := false
		var x float64
		for trial := 0; trial < maxRejection; trial++ {
			x = 2*proposal.Rand() - 1
			q := 1 / (math.Pi * math.Sqrt(1-x*x))
			if sample.Bernoulli(target(x)/(bound*q), src) {
				accepted = true
				break
			}
		}
		if !accepted {
			return nil, errors.New("rejection sampling failed to accept")
		}

		points = append(points, x)
		basis = append(basis, o.EvalBasis(x))
		var err error
		kInv, err = o.gramInverse(basis)
		if err != nil {
			return nil, err
		}
	}

	return points, nil
}

// conditional evaluates the Schur complement
// K(x, x) - k_Y(x)^T K_Y^-1 k_Y(x) of the kernel at x given the
// already selected points, represented by their basis evaluations.
func (o *OPE) conditional(x float64, basis []data.Vector, kInv data.Matrix) float64 {
	px := o.EvalBasis(x)
	kxx, _ := px.Dot(px)
	if len(basis) == 0 {
		return kxx
	}

	kxy := make(data.Vector, len(basis))
	for i, py := range basis {
		kxy[i], _ = px.Dot(py)
	}
	t, _ := kInv.MulVec(kxy)
	s, _ := kxy.Dot(t)

	// numerical round-off can push the complement slightly negative
	return math.Max(kxx-s, 0)
}

// gramInverse inverts the kernel matrix of the selected points.
func (o *OPE) gramInverse(basis []data.Vector) (data.Matrix, error) {
	m := len(basis)
	gram := data.NewConstantMatrix(m, m, 0)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			v, _ := basis[i].Dot(basis[j])
			gram[i][j] = v
			gram[j][i] = v
		}
	}

	return gram.Inverse()
}

// rejectionBound estimates sup target/q over (-1, 1) on a Chebyshev
// grid, inflated by a safety factor. q is the arcsine density.
func (o *OPE) rejectionBound(target func(float64) float64) float64 {
	var bound float64
	for g := 1; g < boundGrid; g++ {
		x := math.Cos(math.Pi * float64(g) / boundGrid)
		q := 1 / (math.Pi * math.Sqrt(1-x*x))
		if r := target(x) / q; r > bound {
			bound = r
		}
	}

	return bound * boundSafety
}

// IntegrateMC evaluates the determinantal Monte Carlo estimator
// sum f(x_i) / K_n(x_i, x_i) over a sample of the ensemble. Its
// expectation is the integral of f against the Jacobi weight.
func (o *OPE) IntegrateMC(f func(float64) float64, points data.Vector) float64 {
	var est float64
	for _, x := range points {
		est += f(x) / o.Kernel(x, x)
	}

	return est
}
