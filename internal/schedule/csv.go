// Package schedule loads and saves flight schedules. Files are pure
// producers and consumers of flightplan types; the verification core
// performs no I/O itself.
package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"skyverify/internal/flightplan"
)

// CSV column layout, one row per waypoint, grouped by uav_id:
// uav_id,x,y,z,time,speed,priority
var csvHeader = []string{"uav_id", "x", "y", "z", "time", "speed", "priority"}

type csvRow struct {
	x, y, z, t float64
	speed      float64
}

// LoadCSV reads flight plans from a CSV schedule file. Waypoints for
// each UAV are sorted by time before construction; plans appear in
// first-seen order of their uav_id.
func LoadCSV(path string) ([]*flightplan.FlightPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()
	plans, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", path, err)
	}
	return plans, nil
}

// ReadCSV parses CSV schedule data from r.
func ReadCSV(r io.Reader) ([]*flightplan.FlightPlan, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range csvHeader[:6] {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	rows := make(map[string][]csvRow)
	var order []string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		id := rec[col["uav_id"]]
		var row csvRow
		fields := []struct {
			name string
			dst  *float64
		}{
			{"x", &row.x}, {"y", &row.y}, {"z", &row.z}, {"time", &row.t}, {"speed", &row.speed},
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(rec[col[f.name]], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", line, f.name, err)
			}
			*f.dst = v
		}
		if _, seen := rows[id]; !seen {
			order = append(order, id)
		}
		rows[id] = append(rows[id], row)
	}

	var plans []*flightplan.FlightPlan
	for _, id := range order {
		wps := rows[id]
		sort.Slice(wps, func(i, j int) bool { return wps[i].t < wps[j].t })
		waypoints := make([]flightplan.Waypoint, len(wps))
		for i, r := range wps {
			waypoints[i] = flightplan.Waypoint{X: r.x, Y: r.y, Z: r.z, Time: r.t}
		}
		speed := wps[0].speed
		if speed == 0 {
			speed = flightplan.DefaultSpeed
		}
		plan, err := flightplan.NewWithSpeed(id, speed, waypoints)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// SaveCSV writes flight plans as a CSV schedule file.
func SaveCSV(path string, plans []*flightplan.FlightPlan) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	defer f.Close()
	if err := WriteCSV(f, plans); err != nil {
		return fmt.Errorf("schedule %s: %w", path, err)
	}
	return nil
}

// WriteCSV emits CSV schedule data to w.
func WriteCSV(w io.Writer, plans []*flightplan.FlightPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range plans {
		for _, wp := range p.Waypoints() {
			rec := []string{
				p.UAVID(),
				strconv.FormatFloat(wp.X, 'g', -1, 64),
				strconv.FormatFloat(wp.Y, 'g', -1, 64),
				strconv.FormatFloat(wp.Z, 'g', -1, 64),
				strconv.FormatFloat(wp.Time, 'g', -1, 64),
				strconv.FormatFloat(p.Speed(), 'g', -1, 64),
				"1",
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
