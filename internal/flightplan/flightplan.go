// Package flightplan holds the trajectory model shared by the conflict
// detector and the verification service: time-stamped waypoints plus a
// smooth interpolant reconstructing a continuous position function.
package flightplan

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// DefaultSpeed is the nominal cruise speed in m/s assumed when a plan
// does not carry one. It is a heuristic for the traffic generator and
// plays no role in conflict detection.
const DefaultSpeed = 15.0

var (
	ErrTooFewWaypoints   = errors.New("flight plan needs at least 2 waypoints")
	ErrNonIncreasingTime = errors.New("waypoint times must be strictly increasing")
	ErrNonFiniteValue    = errors.New("waypoint values must be finite")
	ErrNonPositiveSpeed  = errors.New("speed must be positive")
)

// FlightPlan is an immutable planned trajectory for a single UAV. The
// continuous position function is reconstructed once at construction
// from the waypoints using a natural cubic spline per axis, so position
// between waypoints is twice differentiable and queries never re-derive
// the interpolant.
type FlightPlan struct {
	uavID     string
	waypoints []Waypoint
	speed     float64

	x, y, z interp.NaturalCubic
}

// New builds a validated flight plan with DefaultSpeed.
func New(uavID string, waypoints []Waypoint) (*FlightPlan, error) {
	return NewWithSpeed(uavID, DefaultSpeed, waypoints)
}

// NewWithSpeed builds a validated flight plan with an explicit nominal
// speed. Validation failures are construction errors: the detector never
// sees a malformed plan.
func NewWithSpeed(uavID string, speed float64, waypoints []Waypoint) (*FlightPlan, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("flight plan %q: %w", uavID, ErrTooFewWaypoints)
	}
	if speed <= 0 {
		return nil, fmt.Errorf("flight plan %q: %w", uavID, ErrNonPositiveSpeed)
	}
	for i, wp := range waypoints {
		if !wp.finite() {
			return nil, fmt.Errorf("flight plan %q: waypoint %d: %w", uavID, i, ErrNonFiniteValue)
		}
		if i > 0 && wp.Time <= waypoints[i-1].Time {
			return nil, fmt.Errorf("flight plan %q: waypoint %d (t=%g after t=%g): %w",
				uavID, i, wp.Time, waypoints[i-1].Time, ErrNonIncreasingTime)
		}
	}

	p := &FlightPlan{
		uavID:     uavID,
		waypoints: append([]Waypoint(nil), waypoints...),
		speed:     speed,
	}

	ts := make([]float64, len(waypoints))
	xs := make([]float64, len(waypoints))
	ys := make([]float64, len(waypoints))
	zs := make([]float64, len(waypoints))
	for i, wp := range waypoints {
		ts[i] = wp.Time
		xs[i] = wp.X
		ys[i] = wp.Y
		zs[i] = wp.Z
	}
	if err := p.x.Fit(ts, xs); err != nil {
		return nil, fmt.Errorf("flight plan %q: fit x spline: %w", uavID, err)
	}
	if err := p.y.Fit(ts, ys); err != nil {
		return nil, fmt.Errorf("flight plan %q: fit y spline: %w", uavID, err)
	}
	if err := p.z.Fit(ts, zs); err != nil {
		return nil, fmt.Errorf("flight plan %q: fit z spline: %w", uavID, err)
	}
	return p, nil
}

// UAVID returns the unique identifier of the UAV flying this plan.
func (p *FlightPlan) UAVID() string { return p.uavID }

// Speed returns the nominal cruise speed in m/s.
func (p *FlightPlan) Speed() float64 { return p.speed }

// Waypoints returns a copy of the waypoint sequence.
func (p *FlightPlan) Waypoints() []Waypoint {
	return append([]Waypoint(nil), p.waypoints...)
}

// NumWaypoints returns the number of waypoints.
func (p *FlightPlan) NumWaypoints() int { return len(p.waypoints) }

// Start returns the time the plan becomes active.
func (p *FlightPlan) Start() float64 { return p.waypoints[0].Time }

// End returns the last time the plan is active.
func (p *FlightPlan) End() float64 { return p.waypoints[len(p.waypoints)-1].Time }

// Duration returns the total flight time in seconds.
func (p *FlightPlan) Duration() float64 { return p.End() - p.Start() }

// TotalDistance returns the summed leg lengths between waypoints in meters.
func (p *FlightPlan) TotalDistance() float64 {
	var d float64
	for i := 0; i < len(p.waypoints)-1; i++ {
		d += p.waypoints[i].DistanceTo(p.waypoints[i+1])
	}
	return d
}

// PositionAt evaluates the interpolated position at time t. The second
// return value is false when t lies outside the active interval
// [Start, End]; the plan has no position then, which is how callers
// decide temporal overlap.
func (p *FlightPlan) PositionAt(t float64) (Position, bool) {
	if t < p.Start() || t > p.End() {
		return Position{}, false
	}
	return Position{
		X: p.x.Predict(t),
		Y: p.y.Predict(t),
		Z: p.z.Predict(t),
	}, true
}

// VelocityAt evaluates the interpolant's derivative at time t, in m/s
// per axis. Undefined outside the active interval.
func (p *FlightPlan) VelocityAt(t float64) (vx, vy, vz float64, ok bool) {
	if t < p.Start() || t > p.End() {
		return 0, 0, 0, false
	}
	return p.x.PredictDerivative(t), p.y.PredictDerivative(t), p.z.PredictDerivative(t), true
}

// Bounds returns the axis-aligned bounding box of the waypoints as
// (minX, maxX, minY, maxY, minZ, maxZ).
func (p *FlightPlan) Bounds() (minX, maxX, minY, maxY, minZ, maxZ float64) {
	minX, maxX = p.waypoints[0].X, p.waypoints[0].X
	minY, maxY = p.waypoints[0].Y, p.waypoints[0].Y
	minZ, maxZ = p.waypoints[0].Z, p.waypoints[0].Z
	for _, wp := range p.waypoints[1:] {
		minX, maxX = min(minX, wp.X), max(maxX, wp.X)
		minY, maxY = min(minY, wp.Y), max(maxY, wp.Y)
		minZ, maxZ = min(minZ, wp.Z), max(maxZ, wp.Z)
	}
	return
}

func (p *FlightPlan) String() string {
	return fmt.Sprintf("FlightPlan(%s, %d waypoints, %.1fs)", p.uavID, len(p.waypoints), p.Duration())
}
