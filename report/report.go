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

// Package report aggregates per-asset risk and return statistics into a
// single tabular summary
package report

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/stats"
	"github.com/rs/zerolog"
)

// Row summarizes a single asset's return series
type Row struct {
	Asset                string  `json:"asset"`
	AnnualizedReturn     float64 `json:"annualizedReturn"`
	AnnualizedVolatility float64 `json:"annualizedVolatility"`
	Skewness             float64 `json:"skewness"`
	Kurtosis             float64 `json:"kurtosis"`
	CornishFisherVaR5    float64 `json:"cornishFisherVar5"`
	HistoricCVaR5        float64 `json:"historicCvar5"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	MaxDrawdown          float64 `json:"maxDrawdown"`
}

func (row *Row) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Asset", row.Asset).
		Float64("AnnualizedReturn", row.AnnualizedReturn).
		Float64("AnnualizedVolatility", row.AnnualizedVolatility).
		Float64("Skewness", row.Skewness).
		Float64("Kurtosis", row.Kurtosis).
		Float64("CornishFisherVaR5", row.CornishFisherVaR5).
		Float64("HistoricCVaR5", row.HistoricCVaR5).
		Float64("SharpeRatio", row.SharpeRatio).
		Float64("MaxDrawdown", row.MaxDrawdown)
}

// Summary computes one row of statistics per column of the return matrix.
// Column order is preserved. riskFreeRate is an annual rate used for the
// Sharpe ratio; periodsPerYear is the annualization basis of the input series.
func Summary(df *dataframe.DataFrame, riskFreeRate, periodsPerYear float64) ([]Row, error) {
	if err := df.Validate(); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, df.ColCount())
	for colIdx, colName := range df.ColNames {
		rets := df.Vals[colIdx]
		row := Row{Asset: colName}
		var err error

		if row.AnnualizedReturn, err = stats.AnnualizedReturn(rets, periodsPerYear); err != nil {
			return nil, err
		}
		if row.AnnualizedVolatility, err = stats.AnnualizedVolatility(rets, periodsPerYear); err != nil {
			return nil, err
		}
		if row.Skewness, err = stats.Skewness(rets); err != nil {
			return nil, err
		}
		if row.Kurtosis, err = stats.Kurtosis(rets); err != nil {
			return nil, err
		}
		if row.CornishFisherVaR5, err = stats.GaussianVaR(rets, stats.DefaultVaRLevel, true); err != nil {
			return nil, err
		}
		if row.HistoricCVaR5, err = stats.HistoricCVaR(rets, stats.DefaultVaRLevel); err != nil {
			return nil, err
		}
		if row.SharpeRatio, err = stats.SharpeRatio(rets, riskFreeRate, periodsPerYear); err != nil {
			return nil, err
		}
		if row.MaxDrawdown, err = stats.MaxDrawdown(rets); err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// Table renders the summary rows as an ASCII table
func Table(rows []Row) string {
	if len(rows) == 0 {
		return "<NO DATA>"
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Asset", "Ann. Return", "Ann. Vol", "Skewness", "Kurtosis", "CF VaR (5%)", "Hist. CVaR (5%)", "Sharpe", "Max Drawdown"})
	table.SetBorder(false)

	for _, row := range rows {
		table.Append([]string{
			row.Asset,
			fmt.Sprintf("%.4f", row.AnnualizedReturn),
			fmt.Sprintf("%.4f", row.AnnualizedVolatility),
			fmt.Sprintf("%.4f", row.Skewness),
			fmt.Sprintf("%.4f", row.Kurtosis),
			fmt.Sprintf("%.4f", row.CornishFisherVaR5),
			fmt.Sprintf("%.4f", row.HistoricCVaR5),
			fmt.Sprintf("%.4f", row.SharpeRatio),
			fmt.Sprintf("%.4f", row.MaxDrawdown),
		})
	}

	table.Render()
	return s.String()
}

// JSON serializes the summary rows
func JSON(rows []Row) ([]byte, error) {
	return json.Marshal(rows)
}
