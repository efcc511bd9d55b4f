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
	"fmt"

	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	summaryRiskFree float64
	summaryPeriods  float64
	summaryJSON     bool
)

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().Float64Var(&summaryRiskFree, "risk-free", 0, "annual risk free rate used for the sharpe ratio")
	summaryCmd.Flags().Float64Var(&summaryPeriods, "periods-per-year", 252, "annualization basis of the input returns")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "emit the summary as json instead of a table")
}

var summaryCmd = &cobra.Command{
	Use:        "summary [flags] returns.csv",
	Short:      "Compute risk and return statistics per asset",
	Long:       `Compute annualized return and volatility, higher moments, value at risk, sharpe ratio, and maximum drawdown for every column of a CSV of per-period returns.`,
	Args:       cobra.ExactArgs(1),
	ArgAliases: []string{"ReturnsCSV"},
	Run: func(cmd *cobra.Command, args []string) {
		df, err := dataframe.FromCSVFile(args[0])
		if err != nil {
			log.Fatal().Stack().Err(err).Str("FileName", args[0]).Msg("could not load return matrix")
		}
		if df.HasNA() {
			if err := df.FillNA(); err != nil {
				log.Fatal().Stack().Err(err).Msg("could not fill missing values")
			}
		}

		rows, err := report.Summary(df, summaryRiskFree, summaryPeriods)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("could not summarize returns")
		}

		if summaryJSON {
			raw, err := report.JSON(rows)
			if err != nil {
				log.Fatal().Stack().Err(err).Msg("could not serialize summary")
			}
			fmt.Println(string(raw))
			return
		}

		fmt.Println(report.Table(rows))
	},
}
