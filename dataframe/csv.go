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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const csvDateLayout = "2006-01-02"

// FromCSV parses a return matrix from CSV. The first header cell names the
// date column and the remaining header cells name the assets. Dates must be
// formatted YYYY-MM-DD and appear in increasing order. Empty cells become NaN
// so the caller can decide on a fill policy.
func FromCSV(r io.Reader) (*DataFrame, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", ErrInvalidInput)
	}

	header := records[0]
	nCols := len(header) - 1
	nRows := len(records) - 1

	df := &DataFrame{
		Dates:    make([]time.Time, 0, nRows),
		ColNames: make([]string, nCols),
		Vals:     make([][]float64, nCols),
	}
	copy(df.ColNames, header[1:])
	for colIdx := range df.Vals {
		df.Vals[colIdx] = make([]float64, 0, nRows)
	}

	for rowNum, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, expected %d", ErrInvalidInput, rowNum+2, len(record), len(header))
		}

		dt, err := time.Parse(csvDateLayout, record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %s", ErrInvalidInput, rowNum+2, err)
		}
		df.Dates = append(df.Dates, dt)

		for colIdx, field := range record[1:] {
			if field == "" {
				df.Vals[colIdx] = append(df.Vals[colIdx], math.NaN())
				continue
			}

			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %s", ErrInvalidInput, rowNum+2, df.ColNames[colIdx], err)
			}
			df.Vals[colIdx] = append(df.Vals[colIdx], v)
		}
	}

	if err := df.Validate(); err != nil {
		return nil, err
	}

	return df, nil
}

// FromCSVFile reads a return matrix from the CSV file at fn
func FromCSVFile(fn string) (*DataFrame, error) {
	fh, err := os.Open(fn)
	if err != nil {
		log.Error().Stack().Err(err).Str("FileName", fn).Msg("could not open csv file")
		return nil, err
	}
	defer fh.Close()

	return FromCSV(fh)
}
