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

	"github.com/penny-vault/pv-frontier/common"
	"github.com/penny-vault/pv-frontier/pkginfo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "PV_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.output", "PV_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to `stdout` or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in a human readable format")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	// Solver configuration
	rootCmd.PersistentFlags().Int("solver-max-iterations", 0, "Maximum solver iterations per optimization")
	viper.BindPFlag("solver.max_iterations", rootCmd.PersistentFlags().Lookup("solver-max-iterations"))

	rootCmd.PersistentFlags().Float64("solver-tolerance", 0, "Constraint residual tolerance for the solver")
	viper.BindPFlag("solver.tolerance", rootCmd.PersistentFlags().Lookup("solver-tolerance"))

	// Backtest configuration
	viper.BindEnv("backtest.workers", "PV_BACKTEST_WORKERS")
	rootCmd.PersistentFlags().Int("backtest-workers", 0, "Number of concurrent window solves (0 = NumCPU)")
	viper.BindPFlag("backtest.workers", rootCmd.PersistentFlags().Lookup("backtest-workers"))
}

var rootCmd = &cobra.Command{
	Use:     "pvfrontier",
	Version: pkginfo.Version,
	Short:   "pv-frontier is a mean-variance portfolio optimization toolkit",
	Long:    `Compute efficient frontiers, optimal weight vectors, rolling backtests, and risk metrics from historical return matrices.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
