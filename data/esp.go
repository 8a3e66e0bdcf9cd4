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

// ElementarySymmetric evaluates the elementary symmetric polynomials
// e_i(x_1, ..., x_m) for all degrees i <= k and all prefixes
// x_1, ..., x_m of x. The result is a (k+1) x (n+1) matrix E with
// E[i][m] = e_i(x_1, ..., x_m), E[0][m] = 1.
func ElementarySymmetric(k int, x Vector) Matrix {
	n := len(x)
	e := NewConstantMatrix(k+1, n+1, 0)
	for m := 0; m <= n; m++ {
		e[0][m] = 1
	}

	for i := 1; i <= k; i++ {
		for m := 0; m < n; m++ {
			e[i][m+1] = e[i][m] + x[m]*e[i-1][m]
		}
	}

	return e
}
