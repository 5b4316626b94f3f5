package report

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"skyverify/internal/verify"
)

// conflictTableTTL is the retention applied when GreptimeDB auto-creates
// the conflict table on first write.
const conflictTableTTL = "90d"

// GreptimeDBWriter records verification outcomes in GreptimeDB via the
// ingester client, one row per conflict.
type GreptimeDBWriter struct {
	client *greptime.Client
	db     string
	table  string
	logger *slog.Logger
}

// NewGreptimeDBWriter creates a new GreptimeDB writer. The ingester
// client has no DDL support; the table is auto-created by GreptimeDB on
// first write, with the TTL passed as a write-context hint.
func NewGreptimeDBWriter(endpoint, database string, logger *slog.Logger) (*GreptimeDBWriter, error) {
	host := endpoint
	port := 0
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client: client,
		db:     database,
		table:  ConflictTableName,
		logger: logger,
	}, nil
}

// WriteResult flattens the result and inserts its rows.
func (w *GreptimeDBWriter) WriteResult(r *verify.Result) error {
	return w.WriteConflictRows(Rows(r))
}

// WriteConflictRows inserts flattened conflict rows.
func (w *GreptimeDBWriter) WriteConflictRows(rows []ConflictRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.New(context.Background(), ingesterContext.WithHint([]*ingesterContext.Hint{
		{Key: "ttl", Value: conflictTableTTL},
	}))

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("mission_id", types.STRING)
	tbl.AddTagColumn("conflicting", types.STRING)
	tbl.AddFieldColumn("time_s", types.FLOAT64)
	tbl.AddFieldColumn("x", types.FLOAT64)
	tbl.AddFieldColumn("y", types.FLOAT64)
	tbl.AddFieldColumn("z", types.FLOAT64)
	tbl.AddFieldColumn("distance", types.FLOAT64)
	tbl.AddFieldColumn("severity", types.FLOAT64)
	tbl.AddFieldColumn("status", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(
			r.MissionID,
			r.ConflictingFlight,
			r.TimeS,
			r.X,
			r.Y,
			r.Z,
			r.Distance,
			r.Severity,
			r.Status,
			r.Timestamp,
		); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(ctx, tbl); err != nil {
		w.logger.Error("greptime write failed", "error", err)
		return err
	}

	w.logger.Debug("greptime write ok", "rows", len(rows))
	return nil
}
