package flightplan

import "math"

// Waypoint is a single 4D sample of a planned path: meters east (X),
// meters north (Y), altitude in meters (Z), and seconds from scenario
// start (Time). Values never change after construction.
type Waypoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Time float64 `json:"time"`
}

// DistanceTo returns the Euclidean distance to another waypoint.
func (w Waypoint) DistanceTo(o Waypoint) float64 {
	dx := w.X - o.X
	dy := w.Y - o.Y
	dz := w.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (w Waypoint) finite() bool {
	for _, v := range []float64{w.X, w.Y, w.Z, w.Time} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Position is a point in space returned by FlightPlan.PositionAt.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Midpoint returns the point halfway between p and o.
func (p Position) Midpoint(o Position) Position {
	return Position{
		X: (p.X + o.X) / 2,
		Y: (p.Y + o.Y) / 2,
		Z: (p.Z + o.Z) / 2,
	}
}
