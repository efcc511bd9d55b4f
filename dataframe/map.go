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
	"time"

	"github.com/rs/zerolog/log"
)

type Map map[string]*DataFrame

// Align finds the maximum start and minimum end across all dataframes and trims them to match
func (dfMap Map) Align() Map {
	var start time.Time
	var end time.Time

	// initialize end time with a value from dfMap
	for _, df := range dfMap {
		end = df.End()
		break
	}

	for _, df := range dfMap {
		if df.Start().After(start) {
			start = df.Start()
		}
		if df.End().Before(end) {
			end = df.End()
		}
	}

	dfMapTrimmed := make(Map, len(dfMap))
	for k, df := range dfMap {
		dfMapTrimmed[k] = df.Trim(start, end)
	}

	return dfMapTrimmed
}

// DataFrame converts each item in the map to a column in a single dataframe. If
// the dataframes do not align they are trimmed to the max start and min end. The
// resulting column order follows the provided keys; omit keys to use map order.
func (dfMap Map) DataFrame(keys ...string) (*DataFrame, error) {
	if len(keys) == 0 {
		keys = make([]string, 0, len(dfMap))
		for k := range dfMap {
			keys = append(keys, k)
		}
	}

	df := &DataFrame{}
	first := true
	aligned := dfMap.Align()
	for _, k := range keys {
		v, ok := aligned[k]
		if !ok {
			log.Error().Str("Column", k).Msg("requested column not in map")
			return nil, ErrInvalidInput
		}

		if first {
			df.Dates = v.Dates
			df.ColNames = append([]string{}, v.ColNames...)
			df.Vals = append([][]float64{}, v.Vals...)
			first = false
			continue
		}

		if len(df.Dates) != len(v.Dates) || !df.Start().Equal(v.Start()) || !df.End().Equal(v.End()) {
			log.Error().Time("df1.Start", df.Start()).Time("df1.End", df.End()).Time("df2.Start", v.Start()).Time("df2.End", v.End()).Msg("date indexes do not match - cannot merge into single dataframe")
			return nil, ErrDateIndexNotAligned
		}

		df.ColNames = append(df.ColNames, v.ColNames...)
		df.Vals = append(df.Vals, v.Vals...)
	}

	return df, nil
}
