package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"skyverify/internal/config"
	"skyverify/internal/logging"
	"skyverify/internal/tui"
)

var (
	inspectConfigPath    string
	inspectSchemaPath    string
	inspectSchedulesPath string
	inspectMissionPath   string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Browse a verification result interactively",
	Long:  "inspect verifies a mission and opens a terminal browser over the detected conflicts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("inspect needs an interactive terminal; use verify --json instead")
		}

		logger := logging.New(rootVerbose)

		cfg, err := config.Load(inspectConfigPath, inspectSchemaPath)
		if err != nil {
			return err
		}

		svc, err := newService(cfg, inspectSchedulesPath)
		if err != nil {
			return err
		}

		mission, err := loadMission(inspectMissionPath)
		if err != nil {
			return err
		}

		result := svc.VerifyMission(mission)
		logger.Info("mission verified",
			"uav_id", mission.UAVID(),
			"status", result.Status,
			"conflicts", len(result.Conflicts))
		return tui.Run(result)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectConfigPath, "config", "config/verify.yaml", "Path to verification configuration YAML")
	inspectCmd.Flags().StringVar(&inspectSchemaPath, "schema", "schemas/verify.cue", "Path to CUE schema file")
	inspectCmd.Flags().StringVar(&inspectSchedulesPath, "schedules", "", "Path to background schedules (CSV or JSON), overrides config")
	inspectCmd.Flags().StringVar(&inspectMissionPath, "mission", "", "Path to the candidate mission (JSON or single-flight CSV)")
	inspectCmd.MarkFlagRequired("mission")
}
