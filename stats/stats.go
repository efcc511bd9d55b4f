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

// Package stats provides scalar risk and return statistics over per-period
// return series. All functions fail fast with a typed error rather than
// returning NaN or Inf for degenerate input.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CompoundReturn computes the total geometric return of the series,
// i.e. the product of (1+r) across all periods, minus 1
func CompoundReturn(rets []float64) float64 {
	growth := 1.0
	for _, r := range rets {
		growth *= 1.0 + r
	}
	return growth - 1.0
}

// AnnualizedReturn compounds the per-period returns and scales the result to an
// annual basis. periodsPerYear is 252 for daily data, 12 for monthly.
func AnnualizedReturn(rets []float64, periodsPerYear float64) (float64, error) {
	if len(rets) == 0 {
		return 0, ErrInvalidInput
	}

	growth := 1.0 + CompoundReturn(rets)
	return math.Pow(growth, periodsPerYear/float64(len(rets))) - 1.0, nil
}

// AnnualizedVolatility scales the sample standard deviation of the series by
// the square root of periodsPerYear
func AnnualizedVolatility(rets []float64, periodsPerYear float64) (float64, error) {
	if len(rets) < 2 {
		return 0, ErrInvalidInput
	}

	return stat.StdDev(rets, nil) * math.Sqrt(periodsPerYear), nil
}

// SharpeRatio is the annualized excess return per unit of annualized
// volatility. riskFreeRate is an annual rate; it is converted to a per-period
// rate before being subtracted from each return. The volatility in the
// denominator is that of the original series, not the excess series. A zero
// volatility denominator returns ErrZeroVolatility rather than Inf.
func SharpeRatio(rets []float64, riskFreeRate, periodsPerYear float64) (float64, error) {
	if len(rets) == 0 {
		return 0, ErrInvalidInput
	}

	rfPerPeriod := math.Pow(1.0+riskFreeRate, 1.0/periodsPerYear) - 1.0
	excess := make([]float64, len(rets))
	for idx, r := range rets {
		excess[idx] = r - rfPerPeriod
	}

	annExcess, err := AnnualizedReturn(excess, periodsPerYear)
	if err != nil {
		return 0, err
	}

	annVol, err := AnnualizedVolatility(rets, periodsPerYear)
	if err != nil {
		return 0, err
	}
	if annVol == 0 {
		return 0, ErrZeroVolatility
	}

	return annExcess / annVol, nil
}

// SortinoRatio is a variation of the Sharpe ratio that only penalizes downside
// volatility. The denominator is the annualized standard deviation of the
// negative excess returns.
func SortinoRatio(rets []float64, riskFreeRate, periodsPerYear float64) (float64, error) {
	if len(rets) == 0 {
		return 0, ErrInvalidInput
	}

	rfPerPeriod := math.Pow(1.0+riskFreeRate, 1.0/periodsPerYear) - 1.0
	excess := make([]float64, len(rets))
	downside := 0.0
	for idx, r := range rets {
		excess[idx] = r - rfPerPeriod
		if excess[idx] < 0 {
			downside += excess[idx] * excess[idx] // much faster than math.Pow
		}
	}

	annExcess, err := AnnualizedReturn(excess, periodsPerYear)
	if err != nil {
		return 0, err
	}

	downsideDeviation := math.Sqrt(downside/float64(len(rets))) * math.Sqrt(periodsPerYear)
	if downsideDeviation == 0 {
		return 0, ErrZeroVolatility
	}

	return annExcess / downsideDeviation, nil
}
