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
	"errors"
	"time"
)

// DataFrame stores a table of per-period returns organized by date.
// The vals array is column major - e.g.,
// VFINX  PRIDX
// .01    .04
// .02    .05
// .03    .06
//
// Vals[0][0] = .01
// Vals[0][1] = .02
type DataFrame struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

var (
	ErrInvalidInput        = errors.New("empty or malformed series")
	ErrDateIndexNotAligned = errors.New("date index does not align")
)
