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

package solver_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-frontier/solver"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"
)

var _ = Describe("When minimizing a constrained objective", func() {
	Context("with a separable quadratic and a budget constraint", func() {
		It("finds the constrained minimum", func() {
			// unconstrained minimum is (0.8, 0.8); the budget constraint pulls
			// the solution back to the symmetric point (0.5, 0.5)
			prob := solver.Problem{
				Objective: func(x []float64) float64 {
					return (x[0]-0.8)*(x[0]-0.8) + (x[1]-0.8)*(x[1]-0.8)
				},
				NumVars: 2,
				Equalities: []solver.Constraint{
					func(x []float64) float64 { return floats.Sum(x) - 1.0 },
				},
			}

			x, err := solver.Minimize(prob, nil)
			Expect(err).To(BeNil())
			Expect(x[0]).To(BeNumerically("~", 0.5, 1e-3))
			Expect(x[1]).To(BeNumerically("~", 0.5, 1e-3))
			Expect(floats.Sum(x)).To(BeNumerically("~", 1.0, 1e-5))
		})

		It("respects box bounds", func() {
			// unconstrained minimum at (2, -1) lies outside [0, 1] x [0, 1]
			prob := solver.Problem{
				Objective: func(x []float64) float64 {
					return (x[0]-2.0)*(x[0]-2.0) + (x[1]+1.0)*(x[1]+1.0)
				},
				NumVars: 2,
				Equalities: []solver.Constraint{
					func(x []float64) float64 { return floats.Sum(x) - 1.0 },
				},
			}

			x, err := solver.Minimize(prob, nil)
			Expect(err).To(BeNil())
			Expect(x[0]).To(BeNumerically(">=", 0.0))
			Expect(x[0]).To(BeNumerically("<=", 1.0))
			Expect(x[1]).To(BeNumerically(">=", 0.0))
			Expect(x[1]).To(BeNumerically("<=", 1.0))
			Expect(x[0]).To(BeNumerically("~", 1.0, 1e-3))
			Expect(x[1]).To(BeNumerically("~", 0.0, 1e-3))
		})

		It("honors custom bounds", func() {
			prob := solver.Problem{
				Objective: func(x []float64) float64 {
					return x[0] * x[0]
				},
				NumVars: 1,
				Bounds:  []solver.Bound{{Lower: 0.25, Upper: 2.0}},
			}

			x, err := solver.Minimize(prob, nil)
			Expect(err).To(BeNil())
			Expect(x[0]).To(BeNumerically("~", 0.25, 1e-3))
		})
	})

	Context("with an infeasible constraint set", func() {
		It("returns ErrOptimizationDiverged rather than garbage", func() {
			// sum of two variables bounded by [0, 1] can never equal 5
			prob := solver.Problem{
				Objective: func(x []float64) float64 {
					return x[0] * x[0]
				},
				NumVars: 2,
				Equalities: []solver.Constraint{
					func(x []float64) float64 { return floats.Sum(x) - 5.0 },
				},
			}

			x, err := solver.Minimize(prob, nil)
			Expect(err).To(MatchError(solver.ErrOptimizationDiverged))
			Expect(x).To(BeNil())
		})
	})

	Context("with a malformed problem", func() {
		It("rejects a missing objective", func() {
			_, err := solver.Minimize(solver.Problem{NumVars: 2}, nil)
			Expect(err).To(MatchError(solver.ErrBadProblem))
		})

		It("rejects mismatched bounds", func() {
			prob := solver.Problem{
				Objective: func(x []float64) float64 { return x[0] },
				NumVars:   2,
				Bounds:    []solver.Bound{{Lower: 0, Upper: 1}},
			}
			_, err := solver.Minimize(prob, nil)
			Expect(err).To(MatchError(solver.ErrBadProblem))
		})

		It("rejects a mismatched initial guess", func() {
			prob := solver.Problem{
				Objective:    func(x []float64) float64 { return x[0] },
				NumVars:      2,
				InitialGuess: []float64{1.0},
			}
			_, err := solver.Minimize(prob, nil)
			Expect(err).To(MatchError(solver.ErrBadProblem))
		})
	})

	Context("with options from configuration", func() {
		It("reads limits from viper", func() {
			viper.Set("solver.max_iterations", 123)
			viper.Set("solver.tolerance", 1e-5)
			defer func() {
				viper.Set("solver.max_iterations", 0)
				viper.Set("solver.tolerance", 0.0)
			}()

			opts := solver.DefaultOptions()
			Expect(opts.MaxIterations).To(Equal(123))
			Expect(opts.Tolerance).To(Equal(1e-5))
		})

		It("falls back to compiled defaults", func() {
			opts := solver.DefaultOptions()
			Expect(opts.MaxIterations).To(BeNumerically(">", 0))
			Expect(opts.Tolerance).To(BeNumerically(">", 0))
		})
	})
})
