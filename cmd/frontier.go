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
	"os"

	json "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	frontierPoints  int
	frontierPeriods float64
	frontierJSON    bool
)

func init() {
	rootCmd.AddCommand(frontierCmd)

	frontierCmd.Flags().IntVar(&frontierPoints, "points", 25, "number of portfolios to trace along the frontier")
	frontierCmd.Flags().Float64Var(&frontierPeriods, "periods-per-year", 252, "annualization basis of the input returns")
	frontierCmd.Flags().BoolVar(&frontierJSON, "json", false, "emit the frontier as json instead of a table")
}

var frontierCmd = &cobra.Command{
	Use:        "frontier [flags] returns.csv",
	Short:      "Trace the efficient frontier of a return matrix",
	Long:       `Estimate annualized expected returns and covariance from a CSV of per-period returns and trace the efficient frontier between the global minimum variance portfolio and the best single asset.`,
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

		er, err := portfolio.ExpectedReturnsFromDataFrame(df, frontierPeriods)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("could not estimate expected returns")
		}

		cov, err := portfolio.CovarianceFromReturns(df, frontierPeriods)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("could not estimate covariance")
		}

		frontier, err := portfolio.EfficientFrontier(frontierPoints, er, cov, nil)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("could not trace efficient frontier")
		}

		if frontierJSON {
			raw, err := json.MarshalIndent(frontier, "", "  ")
			if err != nil {
				log.Fatal().Stack().Err(err).Msg("could not serialize frontier")
			}
			fmt.Println(string(raw))
			return
		}

		printFrontier(frontier, cov.Assets())
	},
}

func printFrontier(frontier []portfolio.FrontierPoint, assets []string) {
	header := []string{"Return", "Volatility"}
	header = append(header, assets...)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetBorder(false)

	for _, pt := range frontier {
		row := []string{
			fmt.Sprintf("%.4f", pt.Return),
			fmt.Sprintf("%.4f", pt.Volatility),
		}
		for _, asset := range assets {
			row = append(row, fmt.Sprintf("%.4f", pt.Weights[asset]))
		}
		table.Append(row)
	}

	table.Render()
}
