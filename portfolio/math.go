// Copyright 2023-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package portfolio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Return computes the expected portfolio return as the dot product of weights
// and expected returns. The two asset sets must match exactly.
func Return(weights WeightVector, er ExpectedReturns) (float64, error) {
	if len(weights) != len(er) {
		return 0, fmt.Errorf("%w: %d weights for %d expected returns", ErrDimensionMismatch, len(weights), len(er))
	}

	total := 0.0
	for asset, w := range weights {
		r, ok := er[asset]
		if !ok {
			return 0, fmt.Errorf("%w: missing asset %s", ErrDimensionMismatch, asset)
		}
		total += w * r
	}

	return total, nil
}

// Volatility computes sqrt(wᵀ Σ w). The weight asset set must match the
// covariance matrix's asset set exactly.
func Volatility(weights WeightVector, cov *Covariance) (float64, error) {
	vec, err := cov.vector(weights)
	if err != nil {
		return 0, err
	}

	wVec := mat.NewVecDense(len(vec), vec)
	variance := mat.Inner(wVec, cov.sigma, wVec)
	if variance < 0 {
		// roundoff on a positive-semidefinite matrix
		variance = 0
	}

	return math.Sqrt(variance), nil
}

// variance is the hot-path form of Volatility used inside solver objectives;
// the weight slice is already in covariance order
func (cov *Covariance) variance(vec []float64) float64 {
	n := len(vec)
	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			total += vec[i] * vec[j] * cov.sigma.At(i, j)
		}
	}
	return total
}
