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

package internal

import (
	"errors"
)

var ErrNotSquare = errors.New("matrix is not square")
var ErrNotSymmetric = errors.New("matrix is not symmetric: M^T != M")
var ErrNotProjection = errors.New("matrix is not a projection: M^2 != M")
var ErrNotOrthonormal = errors.New("matrix columns are not orthonormal: M^T M != I")
var ErrNotPSD = errors.New("matrix is not positive semi-definite")
var ErrSizeExceedsRank = errors.New("requested sample size exceeds the kernel rank")
var ErrKernelMissing = errors.New("kernel matrix is not available")
var ErrSizeRequired = errors.New("sample size must be provided for a likelihood kernel")
