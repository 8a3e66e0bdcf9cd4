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

package finite

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/dpp-project/godpp/internal"
)

// Mode selects the chain rule variant used for projection kernels.
type Mode string

const (
	// ModeDefault resolves to ModeGS for symmetric kernels and to
	// ModeSchur otherwise.
	ModeDefault Mode = ""
	// ModeGS applies sequential Gram-Schmidt orthogonalization.
	ModeGS Mode = "GS"
	// ModeChol applies Cholesky updates with symmetric pivoting.
	ModeChol Mode = "Chol"
	// ModeSchur computes Schur complements explicitly; the only mode
	// valid for non-symmetric projection kernels.
	ModeSchur Mode = "Schur"
)

// SampleProjection generates an exact sample from a projection kernel
// using the requested chain rule variant. A size <= 0 requests a full
// sample of rank(K) points, except for likelihood kernels, which only
// admit fixed-size (k-DPP) projection sampling and therefore require
// size > 0.
func (dpp *DPP) SampleProjection(mode Mode, size int, src rand.Source) ([]int, error) {
	if !dpp.projection {
		return nil, errors.New("projection sampling requires a projection kernel")
	}

	kernel := dpp.k
	if dpp.kind == Likelihood {
		if size <= 0 {
			return nil, internal.ErrSizeRequired
		}
		kernel = dpp.l
	}

	var idx []int
	var err error
	if !dpp.symmetric {
		switch mode {
		case ModeDefault, ModeSchur:
			idx, err = ProjectionSampleSchur(kernel, size, src)
		default:
			return nil, errors.Errorf("mode %q requires a symmetric kernel", mode)
		}
	} else {
		switch mode {
		case ModeDefault, ModeGS:
			idx, err = ProjectionSampleGS(kernel, size, src)
		case ModeChol:
			idx, err = ProjectionSampleChol(kernel, size, src)
		case ModeSchur:
			idx, err = ProjectionSampleSchur(kernel, size, src)
		default:
			return nil, errors.Errorf("unknown sampling mode %q", mode)
		}
	}
	if err != nil {
		return nil, err
	}
	dpp.record(idx)

	return idx, nil
}
