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

package stats

import (
	"github.com/rs/zerolog"
)

// StartingWealth is the initial value of the wealth index computed by Drawdown
const StartingWealth = 1000.0

// DrawdownSeries holds the wealth index, running peaks, and percent drawdown
// for a return series. All three slices align with the input series index.
type DrawdownSeries struct {
	Wealth   []float64
	Peaks    []float64
	Drawdown []float64
}

func (dd *DrawdownSeries) MarshalZerologObject(e *zerolog.Event) {
	e.Int("NumPeriods", len(dd.Wealth))
	if len(dd.Wealth) != 0 {
		e.Float64("FinalWealth", dd.Wealth[len(dd.Wealth)-1])
	}
}

// Drawdown compounds the return series into a wealth index starting at 1000
// and computes the percent decline from the running peak at every period. The
// drawdown value is always <= 0.
func Drawdown(rets []float64) (*DrawdownSeries, error) {
	if len(rets) == 0 {
		return nil, ErrInvalidInput
	}

	dd := &DrawdownSeries{
		Wealth:   make([]float64, len(rets)),
		Peaks:    make([]float64, len(rets)),
		Drawdown: make([]float64, len(rets)),
	}

	wealth := StartingWealth
	peak := 0.0
	for idx, r := range rets {
		wealth *= 1.0 + r
		if wealth > peak {
			peak = wealth
		}
		dd.Wealth[idx] = wealth
		dd.Peaks[idx] = peak
		dd.Drawdown[idx] = (wealth - peak) / peak
	}

	return dd, nil
}

// MaxDrawdown returns the magnitude of the deepest drawdown as a positive
// number; 0 if the series never declines from a peak
func MaxDrawdown(rets []float64) (float64, error) {
	dd, err := Drawdown(rets)
	if err != nil {
		return 0, err
	}

	worst := 0.0
	for _, v := range dd.Drawdown {
		if v < worst {
			worst = v
		}
	}

	return -worst, nil
}
