// Package traffic generates synthetic background flight schedules for
// exercising the verification service. It is a producer of flightplan
// values only; nothing here participates in conflict detection.
package traffic

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"skyverify/internal/config"
	"skyverify/internal/flightplan"
)

// Pattern names accepted by Generate.
const (
	PatternMixed        = "mixed"
	PatternPointToPoint = "point_to_point"
	PatternPatrol       = "patrol"
	PatternSurvey       = "survey"
	PatternWaypointTour = "waypoint_tour"
)

var mixedPatterns = []string{PatternPointToPoint, PatternPatrol, PatternSurvey, PatternWaypointTour}

// Generator produces flight plans inside a bounded airspace. A fixed
// seed reproduces the exact same schedules.
type Generator struct {
	airspace config.Airspace
	cruise   float64
	rng      *rand.Rand
}

// NewGenerator creates a generator for the given airspace. seed 0 draws
// a random seed.
func NewGenerator(airspace config.Airspace, seed int64) *Generator {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Generator{
		airspace: airspace,
		cruise:   flightplan.DefaultSpeed,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Generate builds count flight plans of the requested pattern. The
// mixed pattern draws uniformly from all pattern types. UAV IDs carry a
// short uuid suffix so repeated runs never collide.
func (g *Generator) Generate(count int, pattern string) ([]*flightplan.FlightPlan, error) {
	plans := make([]*flightplan.FlightPlan, 0, count)
	for i := 0; i < count; i++ {
		pat := pattern
		if pat == "" || pat == PatternMixed {
			pat = mixedPatterns[g.rng.Intn(len(mixedPatterns))]
		}
		plan, err := g.GenerateFlight(generateUAVID(pat, i), pat)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// GenerateFlight builds a single plan of the given pattern, starting at
// a random offset within the first two minutes.
func (g *Generator) GenerateFlight(uavID, pattern string) (*flightplan.FlightPlan, error) {
	var points []flightplan.Position
	switch pattern {
	case PatternPointToPoint:
		points = g.pointToPoint()
	case PatternPatrol:
		if g.rng.Float64() < 0.5 {
			points = g.rectangularPatrol()
		} else {
			points = g.circularPatrol()
		}
	case PatternSurvey:
		points = g.surveyGrid()
	case PatternWaypointTour:
		points = g.waypointTour()
	default:
		return nil, fmt.Errorf("traffic: unknown pattern %q", pattern)
	}
	start := g.rng.Float64() * 120
	waypoints := g.timedWaypoints(points, start)
	return flightplan.NewWithSpeed(uavID, g.cruise, waypoints)
}

// CrossingPair builds two flights that pass through the airspace
// center at the same time, the second offset 20 m above the first.
// Useful for exercising separation thresholds near the buffer.
func (g *Generator) CrossingPair(uavID1, uavID2 string) (*flightplan.FlightPlan, *flightplan.FlightPlan, error) {
	cx := g.airspace.WidthM / 2
	cy := g.airspace.LengthM / 2
	cz := (g.airspace.MinAltitudeM + g.airspace.MaxAltitudeM) / 2
	const offset = 1500.0

	eastbound := []flightplan.Position{
		{X: cx - offset, Y: cy, Z: cz},
		{X: cx + offset, Y: cy, Z: cz},
	}
	northbound := []flightplan.Position{
		{X: cx, Y: cy - offset, Z: cz + 20},
		{X: cx, Y: cy + offset, Z: cz + 20},
	}
	p1, err := flightplan.NewWithSpeed(uavID1, g.cruise, g.timedWaypoints(eastbound, 0))
	if err != nil {
		return nil, nil, err
	}
	p2, err := flightplan.NewWithSpeed(uavID2, g.cruise, g.timedWaypoints(northbound, 0))
	if err != nil {
		return nil, nil, err
	}
	return p1, p2, nil
}

// timedWaypoints assigns times along the route proportional to the
// cumulative distance at cruise speed.
func (g *Generator) timedWaypoints(points []flightplan.Position, start float64) []flightplan.Waypoint {
	wps := make([]flightplan.Waypoint, len(points))
	t := start
	for i, p := range points {
		if i > 0 {
			prev := points[i-1]
			dx := p.X - prev.X
			dy := p.Y - prev.Y
			dz := p.Z - prev.Z
			dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
			dt := dist / g.cruise
			if dt < 1 {
				// Identical or near-identical consecutive points
				// would break strict time ordering.
				dt = 1
			}
			t += dt
		}
		wps[i] = flightplan.Waypoint{X: p.X, Y: p.Y, Z: p.Z, Time: t}
	}
	return wps
}

func generateUAVID(pattern string, index int) string {
	id := uuid.New().String()
	return fmt.Sprintf("UAV-%s-%d-%s", pattern, index, id[:8])
}
