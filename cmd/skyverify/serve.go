package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"skyverify/internal/api"
	"skyverify/internal/config"
	"skyverify/internal/logging"
)

var (
	serveConfigPath    string
	serveSchemaPath    string
	serveSchedulesPath string
	serveAddr          string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the verification API over HTTP",
	Long:  "serve loads the background schedules once and answers POST /verify queries until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(rootVerbose)

		cfg, err := config.Load(serveConfigPath, serveSchemaPath)
		if err != nil {
			return err
		}

		svc, err := newService(cfg, serveSchedulesPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(svc, logger)
		logger.Info("verification API listening",
			"addr", serveAddr,
			"schedules", svc.NumSchedules())
		if err := srv.Start(ctx, serveAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("verification API stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/verify.yaml", "Path to verification configuration YAML")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "schemas/verify.cue", "Path to CUE schema file")
	serveCmd.Flags().StringVar(&serveSchedulesPath, "schedules", "", "Path to background schedules (CSV or JSON), overrides config")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}
