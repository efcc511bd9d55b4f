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

// Package backtest replays a weighting scheme across sliding historical
// windows. At each step the scheme sees only the window's data; the resulting
// weights are paired with the next period's returns to realize one portfolio
// return. Output is always in input time order, even when windows are solved
// concurrently.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInsufficientData = errors.New("series must be longer than the window")
)

const defaultPeriodsPerYear = 252.0

// Backtester replays Scheme across every Window-length slice of a return
// matrix. PeriodsPerYear controls the annualization basis of the per-window
// expected returns and covariance (252 when zero). When Parallel is set the
// per-window solves run concurrently across Workers goroutines; results are
// reassembled in time order so the output is identical either way.
type Backtester struct {
	Window         int
	Scheme         WeightingScheme
	PeriodsPerYear float64
	Parallel       bool
	Workers        int
}

// Result holds the realized portfolio returns, one per post-window period,
// plus the weight vector that produced each of them
type Result struct {
	Dates   []time.Time
	Returns []float64
	Weights []portfolio.WeightVector
}

// DataFrame converts the realized return series to a single-column dataframe
func (res *Result) DataFrame(colName string) *dataframe.DataFrame {
	return &dataframe.DataFrame{
		Dates:    res.Dates,
		ColNames: []string{colName},
		Vals:     [][]float64{res.Returns},
	}
}

// New creates a backtester with the worker count read from the
// `backtest.workers` viper key (NumCPU when unset)
func New(window int, scheme WeightingScheme) *Backtester {
	workers := viper.GetInt("backtest.workers")
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Backtester{
		Window:         window,
		Scheme:         scheme,
		PeriodsPerYear: defaultPeriodsPerYear,
		Workers:        workers,
	}
}

// Run slides the window across the return matrix. For a matrix of N periods
// and window W it produces exactly N-W realized returns, the first at index W.
// Weights at step i never use data at or after index i+W.
func (bt *Backtester) Run(ctx context.Context, df *dataframe.DataFrame) (*Result, error) {
	if bt.Scheme == nil {
		return nil, fmt.Errorf("%w: no weighting scheme", dataframe.ErrInvalidInput)
	}
	if err := df.Validate(); err != nil {
		return nil, err
	}

	window := bt.Window
	if window < 1 {
		return nil, fmt.Errorf("%w: window must be at least 1", dataframe.ErrInvalidInput)
	}
	if window > df.Len() {
		window = df.Len()
	}
	if df.Len() <= window {
		return nil, fmt.Errorf("%w: %d periods for window of %d", ErrInsufficientData, df.Len(), window)
	}

	periodsPerYear := bt.PeriodsPerYear
	if periodsPerYear <= 0 {
		periodsPerYear = defaultPeriodsPerYear
	}

	steps := df.Len() - window
	res := &Result{
		Dates:   make([]time.Time, steps),
		Returns: make([]float64, steps),
		Weights: make([]portfolio.WeightVector, steps),
	}
	copy(res.Dates, df.Dates[window:])

	log.Info().Str("Scheme", bt.Scheme.Name()).Int("Window", window).Int("Steps", steps).Bool("Parallel", bt.Parallel).Msg("starting rolling backtest")

	if bt.Parallel {
		if err := bt.runParallel(ctx, df, window, periodsPerYear, res); err != nil {
			return nil, err
		}
		return res, nil
	}

	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		weights, realized, err := bt.solveWindow(df, step, window, periodsPerYear)
		if err != nil {
			return nil, err
		}
		res.Weights[step] = weights
		res.Returns[step] = realized
	}

	return res, nil
}

func (bt *Backtester) runParallel(ctx context.Context, df *dataframe.DataFrame, window int, periodsPerYear float64, res *Result) error {
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(bt.workerCount())

	for step := range res.Returns {
		step := step
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}

			weights, realized, err := bt.solveWindow(df, step, window, periodsPerYear)
			if err != nil {
				return err
			}

			// each goroutine owns exactly one slot; reassembly preserves time order
			res.Weights[step] = weights
			res.Returns[step] = realized
			return nil
		})
	}

	return grp.Wait()
}

func (bt *Backtester) workerCount() int {
	if bt.Workers > 0 {
		return bt.Workers
	}
	return runtime.NumCPU()
}

// solveWindow derives weights from the window [start, start+window) and pairs
// them with the returns at index start+window
func (bt *Backtester) solveWindow(df *dataframe.DataFrame, start, window int, periodsPerYear float64) (portfolio.WeightVector, float64, error) {
	slice := df.Slice(start, start+window)
	if slice.HasNA() {
		// edge policy: fill inside the window rather than dropping it
		if err := slice.FillNA(); err != nil {
			return nil, 0, err
		}
	}

	er, err := portfolio.ExpectedReturnsFromDataFrame(slice, periodsPerYear)
	if err != nil {
		return nil, 0, err
	}

	cov, err := portfolio.CovarianceFromReturns(slice, periodsPerYear)
	if err != nil {
		return nil, 0, err
	}

	weights, err := bt.Scheme.Weights(slice, er, cov)
	if err != nil {
		return nil, 0, fmt.Errorf("weighting scheme %s failed at step %d: %w", bt.Scheme.Name(), start, err)
	}

	realized := 0.0
	for colIdx, colName := range df.ColNames {
		w, ok := weights[colName]
		if !ok {
			return nil, 0, fmt.Errorf("%w: scheme %s returned no weight for %s", portfolio.ErrDimensionMismatch, bt.Scheme.Name(), colName)
		}

		v := df.Vals[colIdx][start+window]
		if math.IsNaN(v) {
			// a missing realization value is forward-filled from the window,
			// never from the future
			v = slice.Vals[colIdx][window-1]
		}
		realized += w * v
	}

	return weights, realized, nil
}
