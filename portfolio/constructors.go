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
	"math"

	"github.com/penny-vault/pv-frontier/solver"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FrontierPoint is a single portfolio on the efficient frontier
type FrontierPoint struct {
	Return     float64
	Volatility float64
	Weights    WeightVector
}

// MinVolatilityForTarget finds the weights that minimize portfolio volatility
// subject to the budget constraint (weights sum to 1) and an equality
// constraint pinning the expected portfolio return to target. This is the
// per-point solve used to trace the efficient frontier.
func MinVolatilityForTarget(target float64, er ExpectedReturns, cov *Covariance, opts *Opts) (WeightVector, error) {
	if opts == nil {
		opts = DefaultOpts()
	}

	mu, err := cov.vector(er)
	if err != nil {
		return nil, err
	}

	n := cov.NumAssets()
	prob := solver.Problem{
		Objective: func(x []float64) float64 {
			return math.Sqrt(math.Max(cov.variance(x), 0))
		},
		NumVars: n,
		Bounds:  opts.bounds(n),
		Equalities: []solver.Constraint{
			func(x []float64) float64 { return floats.Sum(x) - 1.0 },
			func(x []float64) float64 { return floats.Dot(x, mu) - target },
		},
		InitialGuess: equalWeight(n),
	}

	vec, err := solver.Minimize(prob, opts.Solver)
	if err != nil {
		log.Warn().Stack().Err(err).Float64("TargetReturn", target).Msg("minimum volatility solve failed")
		return nil, err
	}

	normalize(vec)
	return cov.weightsFromVector(vec), nil
}

// MaxSharpe finds the weights that maximize the Sharpe ratio by minimizing its
// negation subject to the budget constraint and bounds
func MaxSharpe(riskFreeRate float64, er ExpectedReturns, cov *Covariance, opts *Opts) (WeightVector, error) {
	if opts == nil {
		opts = DefaultOpts()
	}

	mu, err := cov.vector(er)
	if err != nil {
		return nil, err
	}

	n := cov.NumAssets()
	prob := solver.Problem{
		Objective: func(x []float64) float64 {
			vol := math.Sqrt(math.Max(cov.variance(x), 0))
			if vol < 1e-12 {
				// degenerate corner; steer the search away instead of dividing by zero
				return math.MaxFloat64
			}
			return -(floats.Dot(x, mu) - riskFreeRate) / vol
		},
		NumVars: n,
		Bounds:  opts.bounds(n),
		Equalities: []solver.Constraint{
			func(x []float64) float64 { return floats.Sum(x) - 1.0 },
		},
		InitialGuess: equalWeight(n),
	}

	vec, err := solver.Minimize(prob, opts.Solver)
	if err != nil {
		log.Warn().Stack().Err(err).Float64("RiskFreeRate", riskFreeRate).Msg("max sharpe solve failed")
		return nil, err
	}

	normalize(vec)
	return cov.weightsFromVector(vec), nil
}

// GlobalMinimumVariance finds the weights with the smallest volatility among
// all budget-and-bounds-feasible portfolios. This is the direct formulation;
// deriving it by handing MaxSharpe a uniform return vector is not equivalent
// in general and is not used here.
func GlobalMinimumVariance(cov *Covariance, opts *Opts) (WeightVector, error) {
	if opts == nil {
		opts = DefaultOpts()
	}

	n := cov.NumAssets()
	prob := solver.Problem{
		Objective: func(x []float64) float64 {
			return math.Sqrt(math.Max(cov.variance(x), 0))
		},
		NumVars: n,
		Bounds:  opts.bounds(n),
		Equalities: []solver.Constraint{
			func(x []float64) float64 { return floats.Sum(x) - 1.0 },
		},
		InitialGuess: equalWeight(n),
	}

	vec, err := solver.Minimize(prob, opts.Solver)
	if err != nil {
		log.Warn().Stack().Err(err).Msg("global minimum variance solve failed")
		return nil, err
	}

	normalize(vec)
	return cov.weightsFromVector(vec), nil
}

// TangencyWeights computes the closed-form unconstrained tangency portfolio
// w ∝ Σ⁻¹μ by solving the linear system against the covariance matrix with a
// Cholesky factorization (LU when the matrix is only semidefinite) rather than
// an explicit inverse. When rescale is true the weights are scaled to sum
// to 1. Bounds are NOT enforced: components may be negative or exceed 1 and
// callers must check the result against their long-only policy before use.
func TangencyWeights(excessReturns ExpectedReturns, cov *Covariance, rescale bool) (WeightVector, error) {
	mu, err := cov.vector(excessReturns)
	if err != nil {
		return nil, err
	}

	n := cov.NumAssets()
	muVec := mat.NewVecDense(n, mu)
	sol := mat.NewVecDense(n, nil)

	var chol mat.Cholesky
	if chol.Factorize(cov.sigma) {
		if err := chol.SolveVecTo(sol, muVec); err != nil {
			return nil, ErrSingularCovariance
		}
	} else {
		var lu mat.LU
		lu.Factorize(cov.sigma)
		if err := lu.SolveVecTo(sol, false, muVec); err != nil {
			log.Error().Stack().Err(err).Msg("covariance matrix is not invertible")
			return nil, ErrSingularCovariance
		}
	}

	vec := make([]float64, n)
	copy(vec, sol.RawVector().Data)

	if rescale {
		normalize(vec)
	}

	return cov.weightsFromVector(vec), nil
}

// EfficientFrontier traces nPoints portfolios along the efficient frontier by
// sweeping MinVolatilityForTarget across equally spaced target returns between
// the global minimum variance portfolio's return and the largest single-asset
// expected return. Sweeping targets, rather than re-solving one problem
// nPoints times, is what gives the frontier its spread.
func EfficientFrontier(nPoints int, er ExpectedReturns, cov *Covariance, opts *Opts) ([]FrontierPoint, error) {
	if nPoints < 2 {
		return nil, ErrInvalidInput
	}
	if opts == nil {
		opts = DefaultOpts()
	}

	gmv, err := GlobalMinimumVariance(cov, opts)
	if err != nil {
		return nil, err
	}

	gmvReturn, err := Return(gmv, er)
	if err != nil {
		return nil, err
	}

	maxReturn := math.Inf(-1)
	for _, asset := range cov.Assets() {
		if er[asset] > maxReturn {
			maxReturn = er[asset]
		}
	}

	targets := make([]float64, nPoints)
	floats.Span(targets, gmvReturn, maxReturn)

	frontier := make([]FrontierPoint, 0, nPoints)
	for _, target := range targets {
		weights, err := MinVolatilityForTarget(target, er, cov, opts)
		if err != nil {
			return nil, err
		}

		ret, err := Return(weights, er)
		if err != nil {
			return nil, err
		}

		vol, err := Volatility(weights, cov)
		if err != nil {
			return nil, err
		}

		frontier = append(frontier, FrontierPoint{Return: ret, Volatility: vol, Weights: weights})
	}

	return frontier, nil
}
