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

package cmd

import (
	"context"
	"fmt"

	"github.com/penny-vault/pv-frontier/backtest"
	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	backtestWindow   int
	backtestScheme   string
	backtestRiskFree float64
	backtestPeriods  float64
	backtestParallel bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().IntVar(&backtestWindow, "window", 60, "number of periods in each estimation window")
	backtestCmd.Flags().StringVar(&backtestScheme, "scheme", "equal", "weighting scheme: equal, minvar, or maxsharpe")
	backtestCmd.Flags().Float64Var(&backtestRiskFree, "risk-free", 0, "annual risk free rate used by maxsharpe and the summary")
	backtestCmd.Flags().Float64Var(&backtestPeriods, "periods-per-year", 252, "annualization basis of the input returns")
	backtestCmd.Flags().BoolVar(&backtestParallel, "parallel", false, "solve windows concurrently")
}

var backtestCmd = &cobra.Command{
	Use:        "backtest [flags] returns.csv",
	Short:      "Replay a weighting scheme across rolling windows",
	Long:       `Slide an estimation window across a CSV of per-period returns, re-solve the weighting scheme at every step, and summarize the realized out-of-sample portfolio returns.`,
	Args:       cobra.ExactArgs(1),
	ArgAliases: []string{"ReturnsCSV"},
	Run: func(cmd *cobra.Command, args []string) {
		df, err := dataframe.FromCSVFile(args[0])
		if err != nil {
			log.Fatal().Stack().Err(err).Str("FileName", args[0]).Msg("could not load return matrix")
		}

		scheme, err := schemeByName(backtestScheme)
		if err != nil {
			log.Fatal().Err(err).Str("Scheme", backtestScheme).Msg("unknown weighting scheme")
		}

		bt := backtest.New(backtestWindow, scheme)
		bt.PeriodsPerYear = backtestPeriods
		bt.Parallel = backtestParallel

		res, err := bt.Run(context.Background(), df)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("backtest failed")
		}

		rows, err := report.Summary(res.DataFrame(scheme.Name()), backtestRiskFree, backtestPeriods)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("could not summarize realized returns")
		}

		fmt.Println(report.Table(rows))
	},
}

func schemeByName(name string) (backtest.WeightingScheme, error) {
	switch name {
	case "equal":
		return backtest.EqualWeight{}, nil
	case "minvar":
		return backtest.GlobalMinVariance{}, nil
	case "maxsharpe":
		return backtest.MaxSharpe{RiskFreeRate: backtestRiskFree}, nil
	}
	return nil, fmt.Errorf("no weighting scheme named %q", name)
}
