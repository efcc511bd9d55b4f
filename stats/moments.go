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

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Skewness computes the third standardized moment of the series. The
// standardization uses the population standard deviation (ddof=0), not the
// sample standard deviation; the two produce different numeric results and the
// population form is the one used throughout this package.
func Skewness(rets []float64) (float64, error) {
	if len(rets) == 0 {
		return 0, ErrInvalidInput
	}

	mean := stat.Mean(rets, nil)
	popStd := math.Sqrt(stat.MomentAbout(2, rets, mean, nil))
	if popStd == 0 {
		return 0, ErrZeroVolatility
	}

	return stat.MomentAbout(3, rets, mean, nil) / math.Pow(popStd, 3), nil
}

// Kurtosis computes the fourth standardized moment of the series using the
// population standard deviation (ddof=0). The result is raw kurtosis, not
// excess kurtosis; a normal distribution yields 3.
func Kurtosis(rets []float64) (float64, error) {
	if len(rets) == 0 {
		return 0, ErrInvalidInput
	}

	mean := stat.Mean(rets, nil)
	popStd := math.Sqrt(stat.MomentAbout(2, rets, mean, nil))
	if popStd == 0 {
		return 0, ErrZeroVolatility
	}

	return stat.MomentAbout(4, rets, mean, nil) / math.Pow(popStd, 4), nil
}
