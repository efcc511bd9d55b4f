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

package portfolio_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/portfolio"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("When aggregating weights into portfolio measures", func() {
	var (
		cov     *portfolio.Covariance
		er      portfolio.ExpectedReturns
		weights portfolio.WeightVector
	)

	BeforeEach(func() {
		var err error
		cov, err = portfolio.NewCovariance(
			[]string{"VFINX", "PRIDX"},
			mat.NewSymDense(2, []float64{0.04, 0.01, 0.01, 0.09}))
		Expect(err).To(BeNil())

		er = portfolio.ExpectedReturns{"VFINX": 0.08, "PRIDX": 0.12}
		weights = portfolio.WeightVector{"VFINX": 0.6, "PRIDX": 0.4}
	})

	Context("when computing portfolio return", func() {
		It("takes the dot product of weights and expected returns", func() {
			ret, err := portfolio.Return(weights, er)
			Expect(err).To(BeNil())
			Expect(ret).To(BeNumerically("~", 0.6*0.08+0.4*0.12, 1e-12))
		})

		It("rejects mismatched asset sets", func() {
			_, err := portfolio.Return(portfolio.WeightVector{"VFINX": 1.0}, er)
			Expect(err).To(MatchError(portfolio.ErrDimensionMismatch))

			_, err = portfolio.Return(portfolio.WeightVector{"VFINX": 0.5, "SPY": 0.5}, er)
			Expect(err).To(MatchError(portfolio.ErrDimensionMismatch))
		})
	})

	Context("when computing portfolio volatility", func() {
		It("computes sqrt of the quadratic form", func() {
			vol, err := portfolio.Volatility(weights, cov)
			Expect(err).To(BeNil())

			variance := 0.6*0.6*0.04 + 2*0.6*0.4*0.01 + 0.4*0.4*0.09
			Expect(vol).To(BeNumerically("~", math.Sqrt(variance), 1e-12))
		})

		It("is non-negative for any valid weights", func() {
			for _, w := range []portfolio.WeightVector{
				{"VFINX": 1.0, "PRIDX": 0.0},
				{"VFINX": 0.0, "PRIDX": 1.0},
				{"VFINX": 0.25, "PRIDX": 0.75},
			} {
				vol, err := portfolio.Volatility(w, cov)
				Expect(err).To(BeNil())
				Expect(vol).To(BeNumerically(">=", 0))
			}
		})

		It("rejects weights that do not align with the covariance assets", func() {
			_, err := portfolio.Volatility(portfolio.WeightVector{"VFINX": 0.5, "SPY": 0.5}, cov)
			Expect(err).To(MatchError(portfolio.ErrDimensionMismatch))
		})
	})

	Context("when constructing covariance from returns", func() {
		It("estimates the annualized sample covariance", func() {
			df := &dataframe.DataFrame{
				Dates: []time.Time{
					time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.April, 1, 0, 0, 0, 0, time.UTC),
				},
				ColNames: []string{"A", "B"},
				Vals: [][]float64{
					{0.01, -0.02, 0.03, 0.00},
					{0.02, 0.01, -0.01, 0.03},
				},
			}

			covariance, err := portfolio.CovarianceFromReturns(df, 12)
			Expect(err).To(BeNil())
			Expect(covariance.Assets()).To(Equal([]string{"A", "B"}))
			Expect(covariance.NumAssets()).To(Equal(2))

			// diagonal must hold annualized variances
			Expect(covariance.Sym().At(0, 0)).To(BeNumerically(">", 0))
			Expect(covariance.Sym().At(0, 1)).To(BeNumerically("~", covariance.Sym().At(1, 0), 1e-12))
		})

		It("rejects a frame with fewer than two rows", func() {
			df := &dataframe.DataFrame{
				Dates:    []time.Time{time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)},
				ColNames: []string{"A"},
				Vals:     [][]float64{{0.01}},
			}
			_, err := portfolio.CovarianceFromReturns(df, 12)
			Expect(err).To(MatchError(portfolio.ErrInvalidInput))
		})
	})

	Context("when constructing a covariance wrapper", func() {
		It("rejects mismatched dimensions", func() {
			_, err := portfolio.NewCovariance([]string{"A"}, mat.NewSymDense(2, nil))
			Expect(err).To(MatchError(portfolio.ErrDimensionMismatch))
		})

		It("rejects nil matrices", func() {
			_, err := portfolio.NewCovariance([]string{"A"}, nil)
			Expect(err).To(MatchError(portfolio.ErrInvalidInput))
		})
	})
})
