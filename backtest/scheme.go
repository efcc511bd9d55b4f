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

package backtest

import (
	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/portfolio"
)

// WeightFn derives a weight vector from a single historical window. Everything
// a weighting function needs is passed explicitly: the filled window itself
// plus the expected returns and covariance estimated from it. Weighting
// functions must never reach for data outside their window.
type WeightFn func(window *dataframe.DataFrame, er portfolio.ExpectedReturns, cov *portfolio.Covariance) (portfolio.WeightVector, error)

// WeightingScheme is the closed set of per-window weighting policies accepted
// by the Backtester
type WeightingScheme interface {
	Name() string
	Weights(window *dataframe.DataFrame, er portfolio.ExpectedReturns, cov *portfolio.Covariance) (portfolio.WeightVector, error)
}

// EqualWeight assigns 1/n to every asset in the window
type EqualWeight struct{}

func (EqualWeight) Name() string {
	return "EqualWeight"
}

func (EqualWeight) Weights(window *dataframe.DataFrame, _ portfolio.ExpectedReturns, _ *portfolio.Covariance) (portfolio.WeightVector, error) {
	n := window.ColCount()
	if n == 0 {
		return nil, dataframe.ErrInvalidInput
	}

	weights := make(portfolio.WeightVector, n)
	for _, colName := range window.ColNames {
		weights[colName] = 1.0 / float64(n)
	}
	return weights, nil
}

// MaxSharpe solves for the maximum Sharpe ratio portfolio on each window
type MaxSharpe struct {
	RiskFreeRate float64
	Opts         *portfolio.Opts
}

func (MaxSharpe) Name() string {
	return "MaxSharpe"
}

func (scheme MaxSharpe) Weights(_ *dataframe.DataFrame, er portfolio.ExpectedReturns, cov *portfolio.Covariance) (portfolio.WeightVector, error) {
	return portfolio.MaxSharpe(scheme.RiskFreeRate, er, cov, scheme.Opts)
}

// GlobalMinVariance solves for the global minimum variance portfolio on each
// window
type GlobalMinVariance struct {
	Opts *portfolio.Opts
}

func (GlobalMinVariance) Name() string {
	return "GlobalMinVariance"
}

func (scheme GlobalMinVariance) Weights(_ *dataframe.DataFrame, _ portfolio.ExpectedReturns, cov *portfolio.Covariance) (portfolio.WeightVector, error) {
	return portfolio.GlobalMinimumVariance(cov, scheme.Opts)
}

// Custom wraps a caller-supplied weighting function
type Custom struct {
	Description string
	Fn          WeightFn
}

func (scheme Custom) Name() string {
	if scheme.Description != "" {
		return scheme.Description
	}
	return "Custom"
}

func (scheme Custom) Weights(window *dataframe.DataFrame, er portfolio.ExpectedReturns, cov *portfolio.Covariance) (portfolio.WeightVector, error) {
	return scheme.Fn(window, er, cov)
}
