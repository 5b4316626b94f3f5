// Package report delivers verification outcomes to external sinks:
// STDOUT, JSONL files, and GreptimeDB. Writers consume the stable
// flattened conflict shape and never feed anything back into the core.
package report

import (
	"os"
	"time"

	"skyverify/internal/verify"
)

// ResultWriter is an interface to support different output sinks.
type ResultWriter interface {
	WriteResult(*verify.Result) error
}

// Optional: writers may support per-conflict row output.
type conflictRowWriter interface {
	WriteConflictRows([]ConflictRow) error
}

// ConflictRow is one flattened conflict record for row-oriented sinks.
type ConflictRow struct {
	MissionID         string    `json:"mission_id"`  // TAG
	ConflictingFlight string    `json:"conflicting"` // TAG
	TimeS             float64   `json:"time_s"`      // FIELD
	X                 float64   `json:"x"`           // FIELD
	Y                 float64   `json:"y"`           // FIELD
	Z                 float64   `json:"z"`           // FIELD
	Distance          float64   `json:"distance"`    // FIELD
	Severity          float64   `json:"severity"`    // FIELD
	Status            string    `json:"status"`      // FIELD
	Timestamp         time.Time `json:"ts"`          // TIME INDEX
}

// ConflictTableName holds the table name used when writing to
// GreptimeDB. It defaults to "mission_conflicts" but can be overridden
// via the GREPTIMEDB_TABLE environment variable.
var ConflictTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "mission_conflicts"
}()

// Rows flattens a verification result into conflict rows stamped with
// the current wall-clock time. A clear result yields a single row with
// no conflict fields so the verification itself is still recorded.
func Rows(r *verify.Result) []ConflictRow {
	now := time.Now().UTC()
	if r.IsClear() {
		return []ConflictRow{{
			MissionID: r.Mission.UAVID(),
			Status:    string(r.Status),
			Timestamp: now,
		}}
	}
	rows := make([]ConflictRow, len(r.Details))
	for i, d := range r.Details {
		rows[i] = ConflictRow{
			MissionID:         r.Mission.UAVID(),
			ConflictingFlight: d.ConflictingFlight,
			TimeS:             d.Time,
			X:                 d.Location.X,
			Y:                 d.Location.Y,
			Z:                 d.Location.Z,
			Distance:          d.Distance,
			Severity:          d.Severity,
			Status:            string(r.Status),
			Timestamp:         now,
		}
	}
	return rows
}
