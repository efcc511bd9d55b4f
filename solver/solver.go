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

// Package solver minimizes a scalar objective over a real vector subject to
// box bounds and equality constraints. Constraint handling wraps gonum's
// derivative-free Nelder-Mead minimizer in a quadratic-penalty outer loop: the
// penalty weight grows each round until the constraint residual falls below
// tolerance. Each call is a pure function of its inputs; no state is carried
// between optimizations.
package solver

import (
	"errors"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/optimize"
)

var (
	ErrOptimizationDiverged = errors.New("optimization did not converge")
	ErrBadProblem           = errors.New("malformed optimization problem")
)

const (
	defaultMaxIterations = 10_000
	defaultTolerance     = 1e-6

	penaltyRounds  = 10
	initialPenalty = 100.0
	penaltyGrowth  = 10.0
)

// Constraint is an equality constraint g(x) = 0
type Constraint func(x []float64) float64

// Bound is a box constraint on a single variable
type Bound struct {
	Lower float64
	Upper float64
}

// Problem describes a constrained minimization. Bounds defaults to [0, 1] per
// variable and InitialGuess defaults to 1/n when nil.
type Problem struct {
	Objective    func(x []float64) float64
	NumVars      int
	Bounds       []Bound
	Equalities   []Constraint
	InitialGuess []float64
}

// Options control the iteration budget of the inner minimizer and the
// convergence tolerance of the constraint residual
type Options struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultOptions reads `solver.max_iterations` and `solver.tolerance` from
// viper, falling back to compiled defaults when unset
func DefaultOptions() Options {
	opts := Options{
		MaxIterations: viper.GetInt("solver.max_iterations"),
		Tolerance:     viper.GetFloat64("solver.tolerance"),
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = defaultMaxIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = defaultTolerance
	}
	return opts
}

// Minimize searches for the vector that minimizes the problem objective while
// satisfying all equality constraints and bounds. When the penalty loop cannot
// drive the constraint residual below tolerance it returns
// ErrOptimizationDiverged; a partial solution is never returned.
func Minimize(prob Problem, opts *Options) ([]float64, error) {
	if prob.Objective == nil || prob.NumVars < 1 {
		return nil, ErrBadProblem
	}

	var o Options
	if opts != nil {
		o = *opts
	} else {
		o = DefaultOptions()
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}

	bounds := prob.Bounds
	if bounds == nil {
		bounds = make([]Bound, prob.NumVars)
		for idx := range bounds {
			bounds[idx] = Bound{Lower: 0, Upper: 1}
		}
	}
	if len(bounds) != prob.NumVars {
		return nil, ErrBadProblem
	}

	x := make([]float64, prob.NumVars)
	if prob.InitialGuess != nil {
		if len(prob.InitialGuess) != prob.NumVars {
			return nil, ErrBadProblem
		}
		copy(x, prob.InitialGuess)
	} else {
		for idx := range x {
			x[idx] = 1.0 / float64(prob.NumVars)
		}
	}
	clamp(x, bounds)

	mu := initialPenalty
	for round := 0; round < penaltyRounds; round++ {
		penalized := func(cand []float64) float64 {
			v := prob.Objective(cand)
			if math.IsNaN(v) {
				return math.MaxFloat64
			}
			for _, g := range prob.Equalities {
				r := g(cand)
				v += mu * r * r
			}
			for idx, b := range bounds {
				if cand[idx] < b.Lower {
					d := b.Lower - cand[idx]
					v += mu * d * d
				} else if cand[idx] > b.Upper {
					d := cand[idx] - b.Upper
					v += mu * d * d
				}
			}
			return v
		}

		settings := &optimize.Settings{
			MajorIterations: o.MaxIterations,
			Converger: &optimize.FunctionConverge{
				Absolute:   o.Tolerance * 1e-4,
				Iterations: 100,
			},
		}

		result, err := optimize.Minimize(optimize.Problem{Func: penalized}, x, settings, &optimize.NelderMead{})
		if err != nil && result == nil {
			log.Warn().Stack().Err(err).Int("Round", round).Msg("inner minimizer failed")
			mu *= penaltyGrowth
			continue
		}
		// warm start the next penalty round from the current solution
		copy(x, result.X)

		if residual(x, prob.Equalities, bounds) <= o.Tolerance {
			clamp(x, bounds)
			return x, nil
		}

		mu *= penaltyGrowth
	}

	log.Warn().Float64("Residual", residual(x, prob.Equalities, bounds)).Float64("Tolerance", o.Tolerance).Msg("constraint residual did not converge")
	return nil, ErrOptimizationDiverged
}

// residual returns the largest absolute constraint or bound violation
func residual(x []float64, equalities []Constraint, bounds []Bound) float64 {
	worst := 0.0
	for _, g := range equalities {
		worst = math.Max(worst, math.Abs(g(x)))
	}
	for idx, b := range bounds {
		if x[idx] < b.Lower {
			worst = math.Max(worst, b.Lower-x[idx])
		} else if x[idx] > b.Upper {
			worst = math.Max(worst, x[idx]-b.Upper)
		}
	}
	return worst
}

func clamp(x []float64, bounds []Bound) {
	for idx, b := range bounds {
		x[idx] = math.Max(b.Lower, math.Min(b.Upper, x[idx]))
	}
}
