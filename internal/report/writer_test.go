package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"skyverify/internal/flightplan"
	"skyverify/internal/verify"
)

func transit(t *testing.T, id string, y float64) *flightplan.FlightPlan {
	t.Helper()
	p, err := flightplan.New(id, []flightplan.Waypoint{
		{X: 0, Y: y, Z: 100, Time: 0},
		{X: 600, Y: y, Z: 100, Time: 60},
	})
	if err != nil {
		t.Fatalf("plan %s: %v", id, err)
	}
	return p
}

func clearResult(t *testing.T) *verify.Result {
	t.Helper()
	svc, err := verify.NewService(nil, 0, 0, 0)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc.VerifyMission(transit(t, "UAV-m", 0))
}

func conflictResult(t *testing.T) *verify.Result {
	t.Helper()
	svc, err := verify.NewService([]*flightplan.FlightPlan{transit(t, "UAV-bg", 5)}, 0, 0, 0)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc.VerifyMission(transit(t, "UAV-m", 0))
}

func TestRowsClearResult(t *testing.T) {
	rows := Rows(clearResult(t))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 status row", len(rows))
	}
	r := rows[0]
	if r.MissionID != "UAV-m" || r.Status != string(verify.StatusClear) {
		t.Errorf("status row = %+v", r)
	}
	if r.ConflictingFlight != "" || r.Distance != 0 {
		t.Errorf("clear row carries conflict fields: %+v", r)
	}
	if r.Timestamp.IsZero() {
		t.Error("row not timestamped")
	}
}

func TestRowsConflictResult(t *testing.T) {
	result := conflictResult(t)
	rows := Rows(result)
	if len(rows) != len(result.Details) {
		t.Fatalf("got %d rows, want %d", len(rows), len(result.Details))
	}
	for i, r := range rows {
		d := result.Details[i]
		if r.MissionID != "UAV-m" || r.ConflictingFlight != "UAV-bg" {
			t.Errorf("row %d identifiers = %+v", i, r)
		}
		if r.TimeS != d.Time || r.Distance != d.Distance || r.Severity != d.Severity {
			t.Errorf("row %d values diverge from detail: %+v vs %+v", i, r, d)
		}
		if r.Status != string(verify.StatusConflictDetected) {
			t.Errorf("row %d status = %q", i, r.Status)
		}
	}
}

// mockWriter records calls and optionally fails.
type mockWriter struct {
	results []*verify.Result
	rows    [][]ConflictRow
	err     error
}

func (m *mockWriter) WriteResult(r *verify.Result) error {
	m.results = append(m.results, r)
	return m.err
}

func (m *mockWriter) WriteConflictRows(rows []ConflictRow) error {
	m.rows = append(m.rows, rows)
	return m.err
}

// resultOnlyWriter has no row support.
type resultOnlyWriter struct {
	results []*verify.Result
}

func (m *resultOnlyWriter) WriteResult(r *verify.Result) error {
	m.results = append(m.results, r)
	return nil
}

func TestMultiWriterFanOut(t *testing.T) {
	a := &mockWriter{}
	b := &resultOnlyWriter{}
	mw := NewMultiWriter(a, b)

	result := conflictResult(t)
	if err := mw.WriteResult(result); err != nil {
		t.Fatalf("WriteResult returned error: %v", err)
	}
	if len(a.results) != 1 || len(b.results) != 1 {
		t.Errorf("fan-out counts: %d/%d", len(a.results), len(b.results))
	}

	rows := Rows(result)
	if err := mw.WriteConflictRows(rows); err != nil {
		t.Fatalf("WriteConflictRows returned error: %v", err)
	}
	// Only the row-capable writer receives rows.
	if len(a.rows) != 1 {
		t.Errorf("row-capable writer got %d row batches", len(a.rows))
	}
}

func TestMultiWriterReturnsFirstError(t *testing.T) {
	wantErr := errors.New("sink down")
	failing := &mockWriter{err: wantErr}
	healthy := &mockWriter{}
	mw := NewMultiWriter(failing, healthy)

	err := mw.WriteResult(clearResult(t))
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
	// The healthy sink is still attempted.
	if len(healthy.results) != 1 {
		t.Errorf("healthy writer got %d results", len(healthy.results))
	}
}

func TestFileWriterWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	resultPath := filepath.Join(dir, "results.jsonl")
	rowsPath := filepath.Join(dir, "rows.jsonl")
	fw, err := NewFileWriter(resultPath, rowsPath)
	if err != nil {
		t.Fatalf("NewFileWriter returned error: %v", err)
	}

	result := conflictResult(t)
	if err := fw.WriteResult(result); err != nil {
		t.Fatalf("WriteResult returned error: %v", err)
	}
	rows := Rows(result)
	if err := fw.WriteConflictRows(rows); err != nil {
		t.Fatalf("WriteConflictRows returned error: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	rf, err := os.Open(resultPath)
	if err != nil {
		t.Fatalf("open results: %v", err)
	}
	defer rf.Close()
	scanner := bufio.NewScanner(rf)
	var lines int
	for scanner.Scan() {
		var doc map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &doc); err != nil {
			t.Fatalf("line %d not JSON: %v", lines+1, err)
		}
		lines++
	}
	if lines != 1 {
		t.Errorf("result file has %d lines, want 1", lines)
	}

	cf, err := os.Open(rowsPath)
	if err != nil {
		t.Fatalf("open rows: %v", err)
	}
	defer cf.Close()
	scanner = bufio.NewScanner(cf)
	lines = 0
	for scanner.Scan() {
		lines++
	}
	if lines != len(rows) {
		t.Errorf("rows file has %d lines, want %d", lines, len(rows))
	}
}

func TestFileWriterWithoutRowsPath(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(filepath.Join(dir, "results.jsonl"), "")
	if err != nil {
		t.Fatalf("NewFileWriter returned error: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteConflictRows(Rows(clearResult(t))); err != nil {
		t.Fatalf("WriteConflictRows returned error: %v", err)
	}
}
