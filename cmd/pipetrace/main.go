// Copyright 2026 Arcentra Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/arcentrix/pipetrace/internal/analyzer"
	"github.com/arcentrix/pipetrace/internal/tracker"
	"github.com/arcentrix/pipetrace/pkg/env"
	"github.com/arcentrix/pipetrace/pkg/version"
)

var (
	logDir        string
	daysBack      int
	retentionDays int
)

var rootCmd = &cobra.Command{
	Use:   "pipetrace",
	Short: "pipetrace analyzes persisted step/pipeline execution logs",
	Long:  "pipetrace reads the daily step and pipeline record logs and renders performance, bottleneck, data-flow, and user-activity reports.",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a short human-readable performance digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := analyzer.New(logDir)
		fmt.Print(a.QuickReport(daysBack, nil))
		return nil
	},
}

var bottlenecksCmd = &cobra.Command{
	Use:   "bottlenecks",
	Short: "Rank steps by impact-weighted slowness and failure count",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := analyzer.New(logDir)
		report, err := a.BottleneckAnalysis(daysBack)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var dataflowCmd = &cobra.Command{
	Use:   "dataflow",
	Short: "Summarize payload size transformation per step",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := analyzer.New(logDir)
		report, err := a.DataFlowAnalysis(daysBack)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Summarize per-user pipeline and step activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := analyzer.New(logDir)
		report, err := a.UserActivityAnalysis(daysBack)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete daily log files older than the retention horizon",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := tracker.NewSweeper(logDir, retentionDays).Sweep()
		if err != nil {
			return err
		}
		fmt.Printf("removed %d expired log files\n", removed)
		return nil
	},
}

func printJSON(v any) error {
	out, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir",
		env.String("PIPETRACE_LOG_DIR", tracker.DefaultLogDir),
		"directory holding the daily record logs")
	for _, cmd := range []*cobra.Command{reportCmd, bottlenecksCmd, dataflowCmd, usersCmd} {
		cmd.Flags().IntVar(&daysBack, "days", 7, "trailing window in days")
	}
	cleanupCmd.Flags().IntVar(&retentionDays, "retention-days", tracker.DefaultRetentionDays, "retention horizon in days")
	rootCmd.AddCommand(reportCmd, bottlenecksCmd, dataflowCmd, usersCmd, cleanupCmd, version.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
