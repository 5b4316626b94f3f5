package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"skyverify/internal/config"
	"skyverify/internal/flightplan"
	"skyverify/internal/logging"
	"skyverify/internal/report"
	"skyverify/internal/schedule"
	"skyverify/internal/verify"
)

var (
	verifyConfigPath    string
	verifySchemaPath    string
	verifySchedulesPath string
	verifyMissionPath   string
	verifyPrintOnly     bool
	verifyJSON          bool
	verifyLogFile       string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a mission against scheduled traffic",
	Long:  "verify loads the background schedules and a candidate mission, runs conflict detection, and reports the outcome.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(rootVerbose)

		cfg, err := config.Load(verifyConfigPath, verifySchemaPath)
		if err != nil {
			return err
		}

		svc, err := newService(cfg, verifySchedulesPath)
		if err != nil {
			return err
		}

		mission, err := loadMission(verifyMissionPath)
		if err != nil {
			return err
		}

		result := svc.VerifyMission(mission)
		logger.Info("mission verified",
			"uav_id", mission.UAVID(),
			"status", result.Status,
			"conflicts", len(result.Conflicts),
			"schedules", svc.NumSchedules())

		if verifyJSON {
			writer, cleanup, err := newWriters(verifyPrintOnly, verifyLogFile, logger)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := writer.WriteResult(result); err != nil {
				return err
			}
		} else {
			styled := term.IsTerminal(int(os.Stdout.Fd()))
			width := 0
			if styled {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					width = w
				}
			}
			fmt.Println(result.Report(styled, width))
			if verifyLogFile != "" {
				// STDOUT carries the styled report; export only to the file.
				fw, err := report.NewFileWriter(verifyLogFile, verifyLogFile+".conflicts")
				if err != nil {
					return err
				}
				defer fw.Close()
				if err := fw.WriteResult(result); err != nil {
					return err
				}
				if err := fw.WriteConflictRows(report.Rows(result)); err != nil {
					return err
				}
			}
		}

		if !result.IsClear() {
			// Non-zero exit so scripted callers can gate on the outcome.
			os.Exit(2)
		}
		return nil
	},
}

// loadMission reads a candidate mission from a JSON flight file or a
// single-flight CSV file.
func loadMission(path string) (*flightplan.FlightPlan, error) {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return schedule.LoadMissionJSON(path)
	}
	plans, err := schedule.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if len(plans) != 1 {
		return nil, fmt.Errorf("mission file %s: expected exactly one flight, found %d", path, len(plans))
	}
	return plans[0], nil
}

// newService builds the verification service from config and an optional
// schedules path override.
func newService(cfg *config.VerifyConfig, schedulesPath string) (*verify.Service, error) {
	path := cfg.Schedules
	if schedulesPath != "" {
		path = schedulesPath
	}
	var plans []*flightplan.FlightPlan
	if path != "" {
		var err error
		plans, err = schedule.Load(path)
		if err != nil {
			return nil, err
		}
	}
	return verify.NewService(plans,
		cfg.Detection.SafetyDistanceM,
		cfg.Detection.TimeStepS,
		cfg.Detection.VerticalWeight)
}

func init() {
	verifyCmd.Flags().StringVar(&verifyConfigPath, "config", "config/verify.yaml", "Path to verification configuration YAML")
	verifyCmd.Flags().StringVar(&verifySchemaPath, "schema", "schemas/verify.cue", "Path to CUE schema file")
	verifyCmd.Flags().StringVar(&verifySchedulesPath, "schedules", "", "Path to background schedules (CSV or JSON), overrides config")
	verifyCmd.Flags().StringVar(&verifyMissionPath, "mission", "", "Path to the candidate mission (JSON or single-flight CSV)")
	verifyCmd.Flags().BoolVar(&verifyPrintOnly, "print-only", false, "Print results to STDOUT instead of writing to DB")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "Emit the raw JSON result instead of the styled report")
	verifyCmd.Flags().StringVar(&verifyLogFile, "log-file", "", "Path to export verification results (JSONL)")
	verifyCmd.MarkFlagRequired("mission")
}
