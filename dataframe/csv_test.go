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
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-frontier/dataframe"
)

var _ = Describe("When parsing a return matrix from csv", func() {
	Context("with a well-formed file", func() {
		input := `Date,VFINX,PRIDX
2021-01-01,0.01,0.005
2021-01-04,-0.02,0.01
2021-01-05,0.03,-0.015
`

		It("builds a validated dataframe", func() {
			df, err := dataframe.FromCSV(strings.NewReader(input))
			Expect(err).To(BeNil())
			Expect(df.Validate()).To(BeNil())
			Expect(df.ColNames).To(Equal([]string{"VFINX", "PRIDX"}))
			Expect(df.Len()).To(Equal(3))
			Expect(df.Dates[0]).To(Equal(time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)))
			Expect(df.Vals[0]).To(Equal([]float64{0.01, -0.02, 0.03}))
			Expect(df.Vals[1]).To(Equal([]float64{0.005, 0.01, -0.015}))
		})
	})

	Context("with missing values", func() {
		input := `Date,VFINX
2021-01-01,0.01
2021-01-04,
2021-01-05,0.03
`

		It("maps empty cells to NaN", func() {
			df, err := dataframe.FromCSV(strings.NewReader(input))
			Expect(err).To(BeNil())
			Expect(df.HasNA()).To(BeTrue())
			Expect(df.Vals[0][0]).To(Equal(0.01))
			Expect(df.Vals[0][2]).To(Equal(0.03))
		})
	})

	Context("with malformed input", func() {
		It("rejects a file without data rows", func() {
			_, err := dataframe.FromCSV(strings.NewReader("Date,VFINX\n"))
			Expect(err).To(MatchError(dataframe.ErrInvalidInput))
		})

		It("rejects an unparseable date", func() {
			_, err := dataframe.FromCSV(strings.NewReader("Date,VFINX\nJan 1 2021,0.01\n"))
			Expect(err).To(MatchError(dataframe.ErrInvalidInput))
		})

		It("rejects an unparseable value", func() {
			_, err := dataframe.FromCSV(strings.NewReader("Date,VFINX\n2021-01-01,one\n"))
			Expect(err).To(MatchError(dataframe.ErrInvalidInput))
		})

		It("rejects out of order dates", func() {
			input := "Date,VFINX\n2021-01-05,0.01\n2021-01-01,0.02\n"
			_, err := dataframe.FromCSV(strings.NewReader(input))
			Expect(err).To(MatchError(dataframe.ErrDateIndexNotAligned))
		})
	})
})
