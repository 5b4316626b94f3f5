package verify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"skyverify/internal/conflict"
	"skyverify/internal/flightplan"
)

// Status is the outcome of a mission verification.
type Status string

const (
	StatusClear            Status = "CLEAR"
	StatusConflictDetected Status = "CONFLICT_DETECTED"
)

// ConflictDetail is the flattened per-conflict record exposed to
// downstream reporting and rendering. Its shape is the stable contract:
// time, location triple, both UAV identifiers, distance, and severity,
// plus the identifier of the background flight involved.
type ConflictDetail struct {
	Time              float64             `json:"time"`
	Location          flightplan.Position `json:"location"`
	UAV1              string              `json:"uav1"`
	UAV2              string              `json:"uav2"`
	ConflictingFlight string              `json:"conflicting_flight"`
	Distance          float64             `json:"distance"`
	Severity          float64             `json:"severity"`
}

// Result is the immutable outcome of one VerifyMission call. Status is
// Clear exactly when Conflicts is empty.
type Result struct {
	Status    Status
	Mission   *flightplan.FlightPlan
	Conflicts []conflict.Conflict
	Details   []ConflictDetail
}

func newResult(mission *flightplan.FlightPlan, conflicts []conflict.Conflict) *Result {
	r := &Result{
		Status:    StatusClear,
		Mission:   mission,
		Conflicts: conflicts,
	}
	if len(conflicts) > 0 {
		r.Status = StatusConflictDetected
	}
	for _, c := range conflicts {
		other := c.UAV2
		if other == mission.UAVID() {
			other = c.UAV1
		}
		r.Details = append(r.Details, ConflictDetail{
			Time:              c.Time,
			Location:          c.Location,
			UAV1:              c.UAV1,
			UAV2:              c.UAV2,
			ConflictingFlight: other,
			Distance:          c.Distance,
			Severity:          c.Severity,
		})
	}
	return r
}

// IsClear reports whether the mission may execute.
func (r *Result) IsClear() bool { return r.Status == StatusClear }

// ConflictingFlights returns the distinct background UAVs involved, in
// first-seen order.
func (r *Result) ConflictingFlights() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, d := range r.Details {
		if _, ok := seen[d.ConflictingFlight]; ok {
			continue
		}
		seen[d.ConflictingFlight] = struct{}{}
		ids = append(ids, d.ConflictingFlight)
	}
	return ids
}

// Summary returns a one-line human-readable verdict.
func (r *Result) Summary() string {
	if r.IsClear() {
		return fmt.Sprintf("MISSION CLEAR - no conflicts detected for %s", r.Mission.UAVID())
	}
	return fmt.Sprintf("CONFLICT DETECTED - %d conflict(s) detected for %s",
		len(r.Conflicts), r.Mission.UAVID())
}

// MarshalJSON emits the stable reporting shape consumed by external
// tooling: status, mission summary, flattened conflict details, and a
// short aggregate block.
func (r *Result) MarshalJSON() ([]byte, error) {
	details := r.Details
	if details == nil {
		details = []ConflictDetail{}
	}
	return json.Marshal(struct {
		Status  Status `json:"status"`
		IsClear bool   `json:"is_clear"`
		Mission struct {
			UAVID         string  `json:"uav_id"`
			NumWaypoints  int     `json:"num_waypoints"`
			Duration      float64 `json:"duration_seconds"`
			TotalDistance float64 `json:"total_distance_meters"`
			StartTime     float64 `json:"start_time"`
			EndTime       float64 `json:"end_time"`
		} `json:"primary_mission"`
		Conflicts []ConflictDetail `json:"conflicts"`
		Summary   struct {
			TotalConflicts     int      `json:"total_conflicts"`
			ConflictingFlights []string `json:"conflicting_flights"`
		} `json:"summary"`
	}{
		Status:  r.Status,
		IsClear: r.IsClear(),
		Mission: struct {
			UAVID         string  `json:"uav_id"`
			NumWaypoints  int     `json:"num_waypoints"`
			Duration      float64 `json:"duration_seconds"`
			TotalDistance float64 `json:"total_distance_meters"`
			StartTime     float64 `json:"start_time"`
			EndTime       float64 `json:"end_time"`
		}{
			UAVID:         r.Mission.UAVID(),
			NumWaypoints:  r.Mission.NumWaypoints(),
			Duration:      r.Mission.Duration(),
			TotalDistance: r.Mission.TotalDistance(),
			StartTime:     r.Mission.Start(),
			EndTime:       r.Mission.End(),
		},
		Conflicts: details,
		Summary: struct {
			TotalConflicts     int      `json:"total_conflicts"`
			ConflictingFlights []string `json:"conflicting_flights"`
		}{
			TotalConflicts:     len(r.Conflicts),
			ConflictingFlights: append([]string{}, r.ConflictingFlights()...),
		},
	})
}

var (
	clearStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	conflictStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Report renders a detailed human-readable verification report. With
// styled=false the output is plain text suitable for pipes and logs;
// width bounds line length (0 means no wrapping).
func (r *Result) Report(styled bool, width int) string {
	render := func(st lipgloss.Style, s string) string {
		if styled {
			return st.Render(s)
		}
		return s
	}

	var b strings.Builder
	rule := strings.Repeat("=", 70)
	b.WriteString(render(dimStyle, rule) + "\n")
	b.WriteString(render(headerStyle, fmt.Sprintf("MISSION VERIFICATION REPORT: %s", r.Mission.UAVID())) + "\n")
	b.WriteString(render(dimStyle, rule) + "\n\n")

	if r.IsClear() {
		b.WriteString(render(clearStyle, "STATUS: CLEAR TO PROCEED") + "\n\n")
		fmt.Fprintf(&b, "Mission Duration: %.1fs\n", r.Mission.Duration())
		fmt.Fprintf(&b, "Number of Waypoints: %d\n", r.Mission.NumWaypoints())
		fmt.Fprintf(&b, "Total Distance: %.1fm\n", r.Mission.TotalDistance())
	} else {
		b.WriteString(render(conflictStyle, "STATUS: CONFLICT DETECTED - MISSION NOT SAFE") + "\n\n")
		fmt.Fprintf(&b, "Number of Conflicts: %d\n", len(r.Conflicts))
		fmt.Fprintf(&b, "Conflicting Flights: %s\n\n", strings.Join(r.ConflictingFlights(), ", "))
		b.WriteString("CONFLICT DETAILS:\n")
		b.WriteString(render(dimStyle, strings.Repeat("-", 70)) + "\n")
		for i, d := range r.Details {
			fmt.Fprintf(&b, "\nConflict #%d:\n", i+1)
			fmt.Fprintf(&b, "  Location: (%.1f, %.1f, %.1f)\n", d.Location.X, d.Location.Y, d.Location.Z)
			fmt.Fprintf(&b, "  Time: %.1fs\n", d.Time)
			fmt.Fprintf(&b, "  Conflicting Flight: %s\n", d.ConflictingFlight)
			fmt.Fprintf(&b, "  Minimum Distance: %.1fm\n", d.Distance)
			fmt.Fprintf(&b, "  Severity: %.2f\n", d.Severity)
		}
	}

	b.WriteString("\n" + render(dimStyle, rule))
	out := b.String()
	if width > 0 {
		out = wordwrap.String(out, width)
	}
	return out
}
