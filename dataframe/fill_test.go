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

package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-frontier/dataframe"
)

var _ = Describe("When filling missing values", func() {
	var df *dataframe.DataFrame

	BeforeEach(func() {
		df = &dataframe.DataFrame{
			Dates: []time.Time{
				time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2021, time.January, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2021, time.January, 3, 0, 0, 0, 0, time.UTC),
				time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC),
			},
			ColNames: []string{"A", "B"},
			Vals: [][]float64{
				{.01, math.NaN(), math.NaN(), .04},
				{math.NaN(), .02, .03, math.NaN()},
			},
		}
	})

	Context("with interior and edge gaps", func() {
		It("forward fills interior gaps", func() {
			Expect(df.FillNA()).To(Succeed())
			Expect(df.Vals[0]).To(Equal([]float64{.01, .01, .01, .04}))
		})

		It("backward fills leading gaps and forward fills trailing gaps", func() {
			Expect(df.FillNA()).To(Succeed())
			Expect(df.Vals[1]).To(Equal([]float64{.02, .02, .03, .03}))
		})

		It("reports NA before filling and none after", func() {
			Expect(df.HasNA()).To(BeTrue())
			Expect(df.FillNA()).To(Succeed())
			Expect(df.HasNA()).To(BeFalse())
		})
	})

	Context("with a column that has no observations", func() {
		It("returns ErrInvalidInput", func() {
			df.Vals[0] = []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}
			Expect(df.FillNA()).To(MatchError(dataframe.ErrInvalidInput))
		})
	})

	Context("when looking up the last observation", func() {
		It("skips NaN values walking backwards", func() {
			Expect(df.LastObserved("A", 2)).To(Equal(.01))
			Expect(df.LastObserved("B", 3)).To(Equal(.03))
		})

		It("returns NaN for an unknown column", func() {
			Expect(math.IsNaN(df.LastObserved("C", 3))).To(BeTrue())
		})
	})
})
