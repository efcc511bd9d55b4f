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

package stats_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-frontier/stats"
)

var _ = Describe("When computing drawdowns", func() {
	Context("with monotonically positive returns", func() {
		rets := []float64{0.01, 0.02, 0.01, 0.03}

		It("produces a non-decreasing wealth index", func() {
			dd, err := stats.Drawdown(rets)
			Expect(err).To(BeNil())

			for ii := 1; ii < len(dd.Wealth); ii++ {
				Expect(dd.Wealth[ii]).To(BeNumerically(">=", dd.Wealth[ii-1]))
			}
		})

		It("never draws down", func() {
			dd, err := stats.Drawdown(rets)
			Expect(err).To(BeNil())

			for _, v := range dd.Drawdown {
				Expect(v).To(BeNumerically("~", 0, 1e-12))
			}

			maxDD, err := stats.MaxDrawdown(rets)
			Expect(err).To(BeNil())
			Expect(maxDD).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Context("with a loss and recovery", func() {
		rets := []float64{0.10, -0.50, 0.25, 0.20}

		It("starts the wealth index at 1000", func() {
			dd, err := stats.Drawdown(rets)
			Expect(err).To(BeNil())
			Expect(dd.Wealth[0]).To(BeNumerically("~", 1100, 1e-9))
		})

		It("keeps peaks at or above wealth", func() {
			dd, err := stats.Drawdown(rets)
			Expect(err).To(BeNil())

			for ii := range dd.Wealth {
				Expect(dd.Peaks[ii]).To(BeNumerically(">=", dd.Wealth[ii]))
			}
		})

		It("keeps drawdown non-positive", func() {
			dd, err := stats.Drawdown(rets)
			Expect(err).To(BeNil())

			for _, v := range dd.Drawdown {
				Expect(v).To(BeNumerically("<=", 0))
			}
		})

		It("reports the deepest decline as a positive magnitude", func() {
			maxDD, err := stats.MaxDrawdown(rets)
			Expect(err).To(BeNil())
			Expect(maxDD).To(BeNumerically("~", 0.50, 1e-12))
		})
	})

	Context("with an empty series", func() {
		It("returns ErrInvalidInput", func() {
			_, err := stats.Drawdown([]float64{})
			Expect(err).To(MatchError(stats.ErrInvalidInput))
		})
	})
})
