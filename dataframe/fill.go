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

package dataframe

import (
	"fmt"
	"math"
)

// FillNA replaces NaN values in-place, forward filling each column from the most
// recent observation and then backward filling any leading NaN values. A column
// with no observations at all cannot be filled and returns ErrInvalidInput.
func (df *DataFrame) FillNA() error {
	for colIdx, col := range df.Vals {
		lastObserved := math.NaN()
		for rowIdx, v := range col {
			if math.IsNaN(v) {
				col[rowIdx] = lastObserved
			} else {
				lastObserved = v
			}
		}

		if math.IsNaN(lastObserved) {
			return fmt.Errorf("%w: column %s has no observations", ErrInvalidInput, df.ColNames[colIdx])
		}

		// backward fill the leading gap
		firstObserved := math.NaN()
		for rowIdx := len(col) - 1; rowIdx >= 0; rowIdx-- {
			if math.IsNaN(col[rowIdx]) {
				col[rowIdx] = firstObserved
			} else {
				firstObserved = col[rowIdx]
			}
		}
	}

	return nil
}

// HasNA returns true if any value in the dataframe is NaN
func (df *DataFrame) HasNA() bool {
	for _, col := range df.Vals {
		for _, v := range col {
			if math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

// LastObserved returns the most recent non-NaN value in the named column at or
// before rowIdx; NaN if there is none
func (df *DataFrame) LastObserved(colName string, rowIdx int) float64 {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return math.NaN()
	}

	col := df.Vals[colIdx]
	if rowIdx >= len(col) {
		rowIdx = len(col) - 1
	}

	for ; rowIdx >= 0; rowIdx-- {
		if !math.IsNaN(col[rowIdx]) {
			return col[rowIdx]
		}
	}

	return math.NaN()
}
