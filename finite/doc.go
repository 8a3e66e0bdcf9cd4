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

// Package finite implements exact sampling from finite determinantal
// point processes (DPPs) and k-DPPs.
//
// A finite DPP over the ground set {0, ..., N-1} is defined either by
// an N x N correlation kernel K, with subset inclusion probabilities
// P(S ⊆ X) = det K_S, or by a likelihood kernel L, with
// P(X = S) = det L_S / det(L + I).
//
// Projection correlation kernels admit direct chain rule sampling; three
// variants are provided: Gram-Schmidt updates, Cholesky updates with
// symmetric pivoting, and explicit Schur complements via the Woodbury
// identity. General kernels are sampled with the spectral method, which
// reduces the problem to a projection kernel built from a random subset
// of eigenvectors. Fixed-size samples (k-DPPs) use the elementary
// symmetric polynomial recursion to select the eigenvectors.
package finite
