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
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// AsMap creates a map with the date as the key and the specified column as the value
func (df *DataFrame) AsMap(colName string) map[time.Time]float64 {
	res := make(map[time.Time]float64, df.Len())
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		// column does not exist, return empty map
		return res
	}

	for idx, date := range df.Dates {
		res[date] = df.Vals[colIdx][idx]
	}

	return res
}

// Breakout takes a dataframe with multiple columns and returns a map of dataframes, one per column
func (df *DataFrame) Breakout() Map {
	dfMap := Map{}
	for idx, col := range df.ColNames {
		dfMap[col] = &DataFrame{
			Dates:    df.Dates,
			ColNames: []string{col},
			Vals:     [][]float64{df.Vals[idx]},
		}
	}
	return dfMap
}

// Col returns the values of the named column; nil if the column does not exist
func (df *DataFrame) Col(colName string) []float64 {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return nil
	}
	return df.Vals[colIdx]
}

// ColIndex returns the index of the specified column; returns -1 if column doesn't exist
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// Copy creates a copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		ColNames: make([]string, len(df.ColNames)),
		Dates:    make([]time.Time, len(df.Dates)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Dates, df.Dates)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Drop removes rows that contain the value `val` from the dataframe
func (df *DataFrame) Drop(val float64) *DataFrame {
	isNA := math.IsNaN(val)
	newVals := make([][]float64, len(df.Vals))
	newDates := make([]time.Time, 0, len(df.Dates))

	for idx, date := range df.Dates {
		keep := true
		for _, col := range df.Vals {
			rowVal := col[idx]
			keep = keep && !(rowVal == val || (isNA && math.IsNaN(rowVal)))
			if !keep {
				break
			}
		}

		if keep {
			newDates = append(newDates, date)
			for colIdx, col := range df.Vals {
				newVals[colIdx] = append(newVals[colIdx], col[idx])
			}
		}
	}

	df.Vals = newVals
	df.Dates = newDates
	return df
}

// End returns the last date in the DataFrame
func (df *DataFrame) End() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[len(df.Dates)-1]
}

// Insert a new column to the end of the dataframe
func (df *DataFrame) Insert(name string, col []float64) *DataFrame {
	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, col)
	return df
}

// InsertRow adds a new row to the dataframe. The date must be after the last date
// in the dataframe and the number of vals must equal the number of columns,
// otherwise ErrDateIndexNotAligned / ErrInvalidInput is returned
func (df *DataFrame) InsertRow(date time.Time, vals ...float64) error {
	if len(df.Dates) != 0 {
		last := df.Dates[len(df.Dates)-1]
		if !last.Before(date) {
			return fmt.Errorf("%w: new date %s is not after %s", ErrDateIndexNotAligned, date.Format("2006-01-02"), last.Format("2006-01-02"))
		}
	}

	if len(vals) != len(df.ColNames) {
		return fmt.Errorf("%w: %d vals passed for %d columns", ErrInvalidInput, len(vals), len(df.ColNames))
	}

	df.Dates = append(df.Dates, date)
	for colIdx := range df.ColNames {
		df.Vals[colIdx] = append(df.Vals[colIdx], vals[colIdx])
	}

	return nil
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// Row returns the values at the given row index, one per column, in column order
func (df *DataFrame) Row(rowIdx int) []float64 {
	row := make([]float64, len(df.ColNames))
	for colIdx := range df.ColNames {
		row[colIdx] = df.Vals[colIdx][rowIdx]
	}
	return row
}

// Slice returns a copy of the rows in the half-open range [start, end).
// Indices outside the dataframe are clamped.
func (df *DataFrame) Slice(start, end int) *DataFrame {
	if start < 0 {
		start = 0
	}
	if end > df.Len() {
		end = df.Len()
	}
	if start >= end {
		return &DataFrame{ColNames: df.ColNames, Dates: []time.Time{}, Vals: make([][]float64, len(df.ColNames))}
	}

	df2 := &DataFrame{
		ColNames: df.ColNames,
		Dates:    make([]time.Time, end-start),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.Dates, df.Dates[start:end])
	for colIdx := range df.Vals {
		df2.Vals[colIdx] = make([]float64, end-start)
		copy(df2.Vals[colIdx], df.Vals[colIdx][start:end])
	}

	return df2
}

// Start returns the first date of the dataframe
func (df *DataFrame) Start() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[0]
}

// Table prints an ASCII formatted table to a string
func (df *DataFrame) Table() string {
	if len(df.Dates) == 0 {
		return "<NO DATA>" // nothing to do as there is no data available in the dataframe
	}

	// construct table header
	tableCols := append([]string{"Date"}, df.ColNames...)

	// initialize table
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	footer[1] = fmt.Sprintf("%d", df.Len())
	table.SetFooter(footer)
	table.SetBorder(false)

	for idx, date := range df.Dates {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, date.Format("2006-01-02"))

		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.4f", col[idx]))
		}

		table.Append(row)
	}

	table.Render()
	return s.String()
}

// Trim the dataframe to the specified date range (inclusive)
func (df *DataFrame) Trim(begin, end time.Time) *DataFrame {
	df2 := &DataFrame{
		ColNames: df.ColNames,
		Dates:    df.Dates,
		Vals:     df.Vals,
	}

	// special case 0: requested range is invalid
	if end.Before(begin) {
		df2.Dates = []time.Time{}
		df2.Vals = [][]float64{}
		return df2
	}

	// special case 1: data frame is empty
	if df.Len() == 0 {
		return df2
	}

	// special case 2: end time is before data frame start
	if end.Before(df.Start()) {
		df2.Dates = []time.Time{}
		df2.Vals = [][]float64{}
		return df2
	}

	// special case 3: start time is after data frame end
	if begin.After(df.End()) {
		df2.Dates = []time.Time{}
		df2.Vals = [][]float64{}
		return df2
	}

	// use binary search to find the indexes corresponding to the start and end times
	beginIdx := sort.Search(len(df.Dates), func(i int) bool {
		return df.Dates[i].After(begin) || df.Dates[i].Equal(begin)
	})

	endIdx := sort.Search(len(df.Dates), func(i int) bool {
		return df.Dates[i].After(end) || df.Dates[i].Equal(end)
	})

	if endIdx != len(df.Dates) && df.Dates[endIdx].Equal(end) {
		endIdx++
	}

	df2.Dates = df.Dates[beginIdx:endIdx]
	df2.Vals = make([][]float64, len(df.Vals))
	for colIdx, col := range df.Vals {
		df2.Vals[colIdx] = col[beginIdx:endIdx]
	}

	return df2
}

// Validate checks the alignment invariant: the number of column names must match
// the number of value columns, every column must have exactly one value per date,
// and dates must be strictly increasing
func (df *DataFrame) Validate() error {
	if len(df.ColNames) != len(df.Vals) {
		return fmt.Errorf("%w: %d column names for %d value columns", ErrInvalidInput, len(df.ColNames), len(df.Vals))
	}

	for colIdx, col := range df.Vals {
		if len(col) != len(df.Dates) {
			return fmt.Errorf("%w: column %s has %d values for %d dates", ErrDateIndexNotAligned, df.ColNames[colIdx], len(col), len(df.Dates))
		}
	}

	for idx := 1; idx < len(df.Dates); idx++ {
		if !df.Dates[idx-1].Before(df.Dates[idx]) {
			return fmt.Errorf("%w: dates must be strictly increasing at row %d", ErrDateIndexNotAligned, idx)
		}
	}

	return nil
}
