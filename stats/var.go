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
	"sort"

	"github.com/penny-vault/pv-frontier/dataframe"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultVaRLevel is the percentile used for value-at-risk when no explicit
// level is requested
const DefaultVaRLevel = 5.0

// HistoricVaR returns the negative of the level-th percentile of the series.
// level is expressed in percent and must lie in the open interval (0, 100); a
// level of 5 means losses are expected to exceed the result in 5% of periods.
func HistoricVaR(rets []float64, level float64) (float64, error) {
	if len(rets) == 0 {
		return 0, ErrInvalidInput
	}
	if level <= 0 || level >= 100 {
		return 0, ErrInvalidLevel
	}

	sorted := make([]float64, len(rets))
	copy(sorted, rets)
	sort.Float64s(sorted)

	return -percentile(sorted, level), nil
}

// HistoricVaRTable applies HistoricVaR to each column of the dataframe
func HistoricVaRTable(df *dataframe.DataFrame, level float64) (map[string]float64, error) {
	res := make(map[string]float64, df.ColCount())
	for colIdx, colName := range df.ColNames {
		v, err := HistoricVaR(df.Vals[colIdx], level)
		if err != nil {
			return nil, err
		}
		res[colName] = v
	}
	return res, nil
}

// HistoricCVaR returns the conditional value-at-risk: the negated mean of all
// observations at or below the negated historic VaR
func HistoricCVaR(rets []float64, level float64) (float64, error) {
	hVaR, err := HistoricVaR(rets, level)
	if err != nil {
		return 0, err
	}

	threshold := -hVaR
	tail := make([]float64, 0, len(rets))
	for _, r := range rets {
		if r <= threshold {
			tail = append(tail, r)
		}
	}

	if len(tail) == 0 {
		// cannot happen when VaR is interpolated from the same series; guard anyway
		return 0, ErrInvalidInput
	}

	return -stat.Mean(tail, nil), nil
}

// HistoricCVaRTable applies HistoricCVaR to each column of the dataframe
func HistoricCVaRTable(df *dataframe.DataFrame, level float64) (map[string]float64, error) {
	res := make(map[string]float64, df.ColCount())
	for colIdx, colName := range df.ColNames {
		v, err := HistoricCVaR(df.Vals[colIdx], level)
		if err != nil {
			return nil, err
		}
		res[colName] = v
	}
	return res, nil
}

// GaussianVaR computes parametric value-at-risk assuming returns are normally
// distributed. When modified is true the z-score is adjusted with the
// Cornish-Fisher expansion to account for the observed skewness and kurtosis:
//
//	z' = z + (z²−1)s/6 + (z³−3z)(k−3)/24 − (2z³−5z)s²/36
//
// The standard deviation used is the population standard deviation (ddof=0).
func GaussianVaR(rets []float64, level float64, modified bool) (float64, error) {
	if len(rets) == 0 {
		return 0, ErrInvalidInput
	}
	if level <= 0 || level >= 100 {
		return 0, ErrInvalidLevel
	}

	z := distuv.UnitNormal.Quantile(level / 100.0)

	if modified {
		s, err := Skewness(rets)
		if err != nil {
			return 0, err
		}
		k, err := Kurtosis(rets)
		if err != nil {
			return 0, err
		}

		z = z + (z*z-1)*s/6 + (z*z*z-3*z)*(k-3)/24 - (2*z*z*z-5*z)*s*s/36
	}

	mean := stat.Mean(rets, nil)
	popStd := math.Sqrt(stat.MomentAbout(2, rets, mean, nil))

	return -(mean + z*popStd), nil
}

// GaussianVaRTable applies GaussianVaR to each column of the dataframe
func GaussianVaRTable(df *dataframe.DataFrame, level float64, modified bool) (map[string]float64, error) {
	res := make(map[string]float64, df.ColCount())
	for colIdx, colName := range df.ColNames {
		v, err := GaussianVaR(df.Vals[colIdx], level, modified)
		if err != nil {
			return nil, err
		}
		res[colName] = v
	}
	return res, nil
}

// percentile computes the level-th percentile of an already-sorted slice using
// linear interpolation between closest ranks. gonum's CumulantKind variants use
// a different percentile convention so the interpolation is done directly.
func percentile(sorted []float64, level float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	h := level / 100.0 * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}

	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
