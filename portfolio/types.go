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

// Package portfolio aggregates asset weights into portfolio-level return and
// volatility and derives optimal weight vectors from expected returns and a
// covariance matrix. All values are annualized on a consistent basis.
package portfolio

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/solver"
	"github.com/penny-vault/pv-frontier/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrDimensionMismatch  = errors.New("asset sets do not align")
	ErrInvalidInput       = errors.New("empty or malformed input")
	ErrSingularCovariance = errors.New("covariance matrix is singular")
)

// WeightVector maps asset identifiers to portfolio weights
type WeightVector map[string]float64

// Sum returns the total of all weights
func (w WeightVector) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Assets returns the asset identifiers in sorted order
func (w WeightVector) Assets() []string {
	assets := make([]string, 0, len(w))
	for k := range w {
		assets = append(assets, k)
	}
	sort.Strings(assets)
	return assets
}

// ExpectedReturns maps asset identifiers to annualized expected returns
type ExpectedReturns map[string]float64

// Covariance is a symmetric positive-semidefinite covariance matrix over a
// fixed, ordered set of assets. The diagonal holds variances. Annualization
// must match that of any ExpectedReturns it is combined with.
type Covariance struct {
	assets []string
	sigma  *mat.SymDense
}

// NewCovariance wraps a symmetric matrix with its ordered asset labels
func NewCovariance(assets []string, sigma *mat.SymDense) (*Covariance, error) {
	if sigma == nil || len(assets) == 0 {
		return nil, ErrInvalidInput
	}
	if n := sigma.SymmetricDim(); n != len(assets) {
		return nil, fmt.Errorf("%w: %d assets for %dx%d matrix", ErrDimensionMismatch, len(assets), n, n)
	}
	return &Covariance{assets: assets, sigma: sigma}, nil
}

// CovarianceFromReturns estimates the annualized sample covariance of the
// dataframe's per-period return columns. periodsPerYear scales the per-period
// covariance to an annual basis.
func CovarianceFromReturns(df *dataframe.DataFrame, periodsPerYear float64) (*Covariance, error) {
	if err := df.Validate(); err != nil {
		return nil, err
	}
	if df.Len() < 2 || df.ColCount() == 0 {
		return nil, ErrInvalidInput
	}

	// stat.CovarianceMatrix wants observations in rows
	obs := mat.NewDense(df.Len(), df.ColCount(), nil)
	for colIdx := range df.ColNames {
		for rowIdx := 0; rowIdx < df.Len(); rowIdx++ {
			obs.Set(rowIdx, colIdx, df.Vals[colIdx][rowIdx])
		}
	}

	sigma := mat.NewSymDense(df.ColCount(), nil)
	stat.CovarianceMatrix(sigma, obs, nil)
	sigma.ScaleSym(periodsPerYear, sigma)

	assets := make([]string, len(df.ColNames))
	copy(assets, df.ColNames)

	return &Covariance{assets: assets, sigma: sigma}, nil
}

// ExpectedReturnsFromDataFrame annualizes each column's compound return
func ExpectedReturnsFromDataFrame(df *dataframe.DataFrame, periodsPerYear float64) (ExpectedReturns, error) {
	if err := df.Validate(); err != nil {
		return nil, err
	}

	er := make(ExpectedReturns, df.ColCount())
	for colIdx, colName := range df.ColNames {
		r, err := stats.AnnualizedReturn(df.Vals[colIdx], periodsPerYear)
		if err != nil {
			return nil, err
		}
		er[colName] = r
	}

	return er, nil
}

// Assets returns the covariance matrix's ordered asset labels
func (cov *Covariance) Assets() []string {
	return cov.assets
}

// Sym returns the underlying symmetric matrix
func (cov *Covariance) Sym() *mat.SymDense {
	return cov.sigma
}

// NumAssets returns the dimension of the covariance matrix
func (cov *Covariance) NumAssets() int {
	return len(cov.assets)
}

// vector extracts the values for the covariance matrix's assets, in covariance
// order, failing when the asset sets differ
func (cov *Covariance) vector(vals map[string]float64) ([]float64, error) {
	if len(vals) != len(cov.assets) {
		return nil, fmt.Errorf("%w: %d values for %d assets", ErrDimensionMismatch, len(vals), len(cov.assets))
	}

	vec := make([]float64, len(cov.assets))
	for idx, asset := range cov.assets {
		v, ok := vals[asset]
		if !ok {
			return nil, fmt.Errorf("%w: missing asset %s", ErrDimensionMismatch, asset)
		}
		vec[idx] = v
	}

	return vec, nil
}

// weightsFromVector pairs an ordered weight slice back with asset labels
func (cov *Covariance) weightsFromVector(vec []float64) WeightVector {
	w := make(WeightVector, len(cov.assets))
	for idx, asset := range cov.assets {
		w[asset] = vec[idx]
	}
	return w
}

// Opts configure the bounds and solver budget used by the optimizing
// constructors. The defaults are long-only with no leverage.
type Opts struct {
	LowerBound float64
	UpperBound float64
	Solver     *solver.Options
}

// DefaultOpts returns long-only [0, 1] bounds with solver defaults
func DefaultOpts() *Opts {
	return &Opts{LowerBound: 0, UpperBound: 1}
}

func (opts *Opts) bounds(n int) []solver.Bound {
	bounds := make([]solver.Bound, n)
	for idx := range bounds {
		bounds[idx] = solver.Bound{Lower: opts.LowerBound, Upper: opts.UpperBound}
	}
	return bounds
}

// equalWeight is the default initial guess for every optimizing constructor
func equalWeight(n int) []float64 {
	x := make([]float64, n)
	for idx := range x {
		x[idx] = 1.0 / float64(n)
	}
	return x
}

// normalize rescales the weights to sum to exactly 1
func normalize(vec []float64) {
	total := 0.0
	for _, v := range vec {
		total += v
	}
	if total == 0 || math.IsNaN(total) {
		return
	}
	for idx := range vec {
		vec[idx] /= total
	}
}
