package main

import (
	"log/slog"
	"os"

	"skyverify/internal/report"
)

// newWriters sets up result writers based on flags and env vars.
// It returns the writer and a cleanup function to close any resources.
func newWriters(printOnly bool, logFile string, logger *slog.Logger) (report.ResultWriter, func(), error) {
	cleanup := func() {}

	writer, err := baseWriter(printOnly, logger)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := report.NewFileWriter(logFile, logFile+".conflicts")
	if err != nil {
		return nil, nil, err
	}
	cleanup = func() { fw.Close() }
	return report.NewMultiWriter(writer, fw), cleanup, nil
}

// baseWriter chooses the underlying sink based on printOnly flag and env vars.
func baseWriter(printOnly bool, logger *slog.Logger) (report.ResultWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		return &report.StdoutWriter{}, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	return report.NewGreptimeDBWriter(endpoint, database, logger)
}
