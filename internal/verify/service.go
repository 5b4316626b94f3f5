// Package verify exposes the mission verification query API: given a
// fixed set of background flight schedules, decide whether a candidate
// mission can execute without violating the configured safety buffer.
// The service verifies and reports; it never proposes alternatives.
package verify

import (
	"fmt"

	"skyverify/internal/conflict"
	"skyverify/internal/flightplan"
)

// Service answers verification queries against a background set fixed
// at construction. Every call is a pure computation over immutable
// inputs, so a Service is safe for concurrent use.
type Service struct {
	schedules []*flightplan.FlightPlan
	detector  *conflict.Detector
}

// NewService builds a verification service. safetyDistance and timeStep
// follow the detector defaults (10.0 m, 0.5 s) when zero; non-positive
// values are configuration errors. The background schedule slice is
// copied; later mutation of the caller's slice does not reach the
// service.
func NewService(schedules []*flightplan.FlightPlan, safetyDistance, timeStep, verticalWeight float64) (*Service, error) {
	det, err := conflict.NewDetector(safetyDistance, timeStep, verticalWeight)
	if err != nil {
		return nil, fmt.Errorf("verification service: %w", err)
	}
	return &Service{
		schedules: append([]*flightplan.FlightPlan(nil), schedules...),
		detector:  det,
	}, nil
}

// Detector returns the configured detector parameters.
func (s *Service) Detector() conflict.Detector { return *s.detector }

// NumSchedules returns the size of the background set.
func (s *Service) NumSchedules() int { return len(s.schedules) }

// Schedules returns a copy of the background schedule list.
func (s *Service) Schedules() []*flightplan.FlightPlan {
	return append([]*flightplan.FlightPlan(nil), s.schedules...)
}

// VerifyMission checks the mission against every background schedule
// and aggregates all conflicts into a fresh Result. Conflicts appear in
// background-schedule order, ascending in time within each pair. An
// empty background set trivially yields a clear result.
func (s *Service) VerifyMission(mission *flightplan.FlightPlan) *Result {
	conflicts := s.detector.Detect(mission, s.schedules)
	return newResult(mission, conflicts)
}

// Stats summarizes the configured background set for reporting.
type Stats struct {
	NumSchedules   int     `json:"num_schedules"`
	TotalWaypoints int     `json:"total_waypoints"`
	TotalDistance  float64 `json:"total_distance_meters"`
	TotalDuration  float64 `json:"total_duration_seconds"`
	SafetyDistance float64 `json:"safety_distance_m"`
	TimeStep       float64 `json:"time_step_s"`
}

// AirspaceStats returns aggregate figures over the background set.
func (s *Service) AirspaceStats() Stats {
	st := Stats{
		NumSchedules:   len(s.schedules),
		SafetyDistance: s.detector.SafetyDistance,
		TimeStep:       s.detector.TimeStep,
	}
	for _, p := range s.schedules {
		st.TotalWaypoints += p.NumWaypoints()
		st.TotalDistance += p.TotalDistance()
		st.TotalDuration += p.Duration()
	}
	return st
}
