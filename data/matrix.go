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

	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a slice of Vector elements. It represents a row-major
// order matrix.
//
// The j-th element from the i-th vector of the matrix can be obtained
// as m[i][j].
type Matrix []Vector

// NewMatrix accepts a slice of Vector elements and
// returns a new Matrix instance.
// It returns error if not all the vectors have the same number of elements.
func NewMatrix(vectors []Vector) (Matrix, error) {
	l := -1
	newVectors := make([]Vector, len(vectors))

	if len(vectors) > 0 {
		l = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != l {
			return nil, fmt.Errorf("all vectors should be of the same length")
		}
		newVectors[i] = NewVector(v)
	}

	return Matrix(newVectors), nil
}

// NewConstantMatrix returns a new Matrix instance
// with all elements set to constant c.
func NewConstantMatrix(rows, cols int, c float64) Matrix {
	m := make([]Vector, rows)
	for i := 0; i < rows; i++ {
		m[i] = NewConstantVector(cols, c)
	}

	return m
}

// NewIdentityMatrix returns the identity matrix of dimension n.
func NewIdentityMatrix(n int) Matrix {
	m := NewConstantMatrix(n, n, 0)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}

	return m
}

// FromDense converts a gonum dense matrix into a new Matrix instance.
func FromDense(d mat.Matrix) Matrix {
	rows, cols := d.Dims()
	m := make(Matrix, rows)
	for i := 0; i < rows; i++ {
		m[i] = make(Vector, cols)
		for j := 0; j < cols; j++ {
			m[i][j] = d.At(i, j)
		}
	}

	return m
}

// ToDense converts matrix m into a gonum dense matrix, on which
// decompositions can be performed.
func (m Matrix) ToDense() *mat.Dense {
	rows, cols := m.Rows(), m.Cols()
	d := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d.Set(i, j, m[i][j])
		}
	}

	return d
}

// ToSymDense converts a square matrix m into a gonum symmetric dense
// matrix by reading its upper triangle.
func (m Matrix) ToSymDense() *mat.SymDense {
	n := m.Rows()
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d.SetSym(i, j, m[i][j])
		}
	}

	return d
}

// Rows returns the number of rows of matrix m.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns of matrix m.
func (m Matrix) Cols() int {
	if len(m) != 0 {
		return len(m[0])
	}

	return 0
}

// DimsMatch returns a bool indicating whether matrices
// m and other have the same dimensions.
func (m Matrix) DimsMatch(other Matrix) bool {
	return m.Rows() == other.Rows() && m.Cols() == other.Cols()
}

// GetCol returns i-th column of matrix m as a vector.
// It returns error if i >= the number of m's columns.
func (m Matrix) GetCol(i int) (Vector, error) {
	if i >= m.Cols() {
		return nil, fmt.Errorf("column index exceeds matrix dimensions")
	}

	column := make([]float64, m.Rows())
	for j := 0; j < m.Rows(); j++ {
		column[j] = m[j][i]
	}

	return NewVector(column), nil
}

// Diag returns the diagonal of matrix m as a vector.
func (m Matrix) Diag() Vector {
	diag := make(Vector, m.Rows())
	for i := range diag {
		diag[i] = m[i][i]
	}

	return diag
}

// Trace returns the sum of the diagonal elements of matrix m.
func (m Matrix) Trace() float64 {
	return m.Diag().Sum()
}

// Copy creates a new matrix with the same values of the entries.
func (m Matrix) Copy() Matrix {
	newMat := make(Matrix, m.Rows())
	for i, v := range m {
		newMat[i] = v.Copy()
	}

	return newMat
}

// Transpose transposes matrix m and returns
// the result in a new Matrix.
func (m Matrix) Transpose() Matrix {
	transposed := make([]Vector, m.Cols())
	for i := 0; i < m.Cols(); i++ {
		transposed[i], _ = m.GetCol(i)
	}

	mT, _ := NewMatrix(transposed)

	return mT
}

// CheckDims checks whether dimensions of matrix m match
// the provided rows and cols arguments.
func (m Matrix) CheckDims(rows, cols int) bool {
	return m.Rows() == rows && m.Cols() == cols
}

// Apply applies an element-wise function f to matrix m.
// The result is returned in a new Matrix.
func (m Matrix) Apply(f func(float64) float64) Matrix {
	res := make(Matrix, len(m))
	for i, vi := range m {
		res[i] = vi.Apply(f)
	}

	return res
}

// Add adds matrices m and other.
// The result is returned in a new Matrix.
// Error is returned if m and other have different dimensions.
func (m Matrix) Add(other Matrix) (Matrix, error) {
	if !m.DimsMatch(other) {
		return nil, fmt.Errorf("matrices mismatch in dimensions")
	}

	vectors := make([]Vector, m.Rows())
	for i, v := range m {
		vectors[i] = v.Add(other[i])
	}

	return NewMatrix(vectors)
}

// Sub subtracts matrix other from m.
// The result is returned in a new Matrix.
// Error is returned if m and other have different dimensions.
func (m Matrix) Sub(other Matrix) (Matrix, error) {
	if !m.DimsMatch(other) {
		return nil, fmt.Errorf("matrices mismatch in dimensions")
	}

	vecs := make([]Vector, m.Rows())
	for i, v := range m {
		vecs[i] = v.Sub(other[i])
	}

	return NewMatrix(vecs)
}

// Mul multiplies matrices m and other.
// The result is returned in a new Matrix.
// Error is returned if the dimensions do not allow multiplication.
func (m Matrix) Mul(other Matrix) (Matrix, error) {
	if m.Cols() != other.Rows() {
		return nil, fmt.Errorf("cannot multiply matrices")
	}

	var prod mat.Dense
	prod.Mul(m.ToDense(), other.ToDense())

	return FromDense(&prod), nil
}

// MulScalar multiplies elements of matrix m by a scalar x.
// The result is returned in a new Matrix.
func (m Matrix) MulScalar(x float64) Matrix {
	return m.Apply(func(c float64) float64 {
		return c * x
	})
}

// MulVec multiplies matrix m and vector v.
// It returns the resulting vector.
// Error is returned if the number of columns of m differs from the number
// of elements of v.
func (m Matrix) MulVec(v Vector) (Vector, error) {
	if m.Cols() != len(v) {
		return nil, fmt.Errorf("cannot multiply matrix by a vector")
	}

	res := make(Vector, m.Rows())
	for i, row := range m {
		res[i], _ = row.Dot(v)
	}

	return res, nil
}

// Submatrix returns the submatrix of m with rows indexed by rows
// and columns indexed by cols.
// It returns an error if any index is out of bounds.
func (m Matrix) Submatrix(rows, cols []int) (Matrix, error) {
	sub := make(Matrix, len(rows))
	for i, r := range rows {
		if r < 0 || r >= m.Rows() {
			return nil, fmt.Errorf("row index out of bounds")
		}
		sub[i] = make(Vector, len(cols))
		for j, c := range cols {
			if c < 0 || c >= m.Cols() {
				return nil, fmt.Errorf("column index out of bounds")
			}
			sub[i][j] = m[r][c]
		}
	}

	return sub, nil
}

// Det returns the determinant of a square matrix m.
// It returns an error if m is not square.
func (m Matrix) Det() (float64, error) {
	if m.Rows() != m.Cols() {
		return 0, fmt.Errorf("number of rows must equal number of columns")
	}
	if m.Rows() == 0 {
		return 1, nil
	}

	return mat.Det(m.ToDense()), nil
}

// SubmatrixDet computes the determinant of the submatrix of m with rows
// indexed by s and columns indexed by t. If t is nil the principal
// submatrix indexed by s is taken. The determinant of the empty
// submatrix is 1 by convention.
func (m Matrix) SubmatrixDet(s, t []int) (float64, error) {
	if t == nil {
		t = s
	}
	sub, err := m.Submatrix(s, t)
	if err != nil {
		return 0, err
	}

	return sub.Det()
}

// Inverse returns the inverse matrix of m.
// It returns an error in case matrix is singular.
func (m Matrix) Inverse() (Matrix, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.ToDense()); err != nil {
		return nil, fmt.Errorf("matrix non-invertable")
	}

	return FromDense(&inv), nil
}
