package traffic

import (
	"math"

	"skyverify/internal/flightplan"
)

// Route patterns below mirror common UAV mission profiles. Each keeps a
// margin from the airspace edges so the fitted spline cannot overshoot
// outside the world.

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) altitude() float64 {
	return g.uniform(g.airspace.MinAltitudeM, g.airspace.MaxAltitudeM)
}

// pointToPoint is a simple A-to-B transit, half the time with one
// intermediate waypoint offset from the straight line.
func (g *Generator) pointToPoint() []flightplan.Position {
	const margin = 500
	const minDistance = 2000

	start := flightplan.Position{
		X: g.uniform(margin, g.airspace.WidthM-margin),
		Y: g.uniform(margin, g.airspace.LengthM-margin),
		Z: g.altitude(),
	}
	var end flightplan.Position
	for attempt := 0; attempt < 10; attempt++ {
		end = flightplan.Position{
			X: g.uniform(margin, g.airspace.WidthM-margin),
			Y: g.uniform(margin, g.airspace.LengthM-margin),
			Z: g.altitude(),
		}
		if math.Hypot(end.X-start.X, end.Y-start.Y) >= minDistance {
			break
		}
	}

	if g.rng.Float64() < 0.5 {
		mid := flightplan.Position{
			X: (start.X+end.X)/2 + g.uniform(-800, 800),
			Y: (start.Y+end.Y)/2 + g.uniform(-800, 800),
			Z: g.altitude(),
		}
		return []flightplan.Position{start, mid, end}
	}
	return []flightplan.Position{start, end}
}

// rectangularPatrol loops the four corners of a rectangle at constant
// altitude, closing back on the first corner.
func (g *Generator) rectangularPatrol() []flightplan.Position {
	const margin = 800
	width := g.uniform(1000, 2500)
	height := g.uniform(1000, 2500)
	alt := g.altitude()

	cx := clamp(g.airspace.WidthM/2+g.uniform(-1500, 1500), margin+width/2, g.airspace.WidthM-margin-width/2)
	cy := clamp(g.airspace.LengthM/2+g.uniform(-1500, 1500), margin+height/2, g.airspace.LengthM-margin-height/2)

	return []flightplan.Position{
		{X: cx - width/2, Y: cy - height/2, Z: alt},
		{X: cx + width/2, Y: cy - height/2, Z: alt},
		{X: cx + width/2, Y: cy + height/2, Z: alt},
		{X: cx - width/2, Y: cy + height/2, Z: alt},
		{X: cx - width/2, Y: cy - height/2, Z: alt},
	}
}

// circularPatrol approximates an orbit with 6-8 points, closed.
func (g *Generator) circularPatrol() []flightplan.Position {
	const margin = 800
	cx := g.airspace.WidthM/2 + g.uniform(-1500, 1500)
	cy := g.airspace.LengthM/2 + g.uniform(-1500, 1500)
	alt := g.altitude()

	radius := g.uniform(600, 1500)
	maxRadius := math.Min(
		math.Min(cx-margin, g.airspace.WidthM-cx-margin),
		math.Min(cy-margin, g.airspace.LengthM-cy-margin),
	)
	radius = math.Min(radius, maxRadius)

	n := 6 + g.rng.Intn(3)
	points := make([]flightplan.Position, 0, n+1)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points = append(points, flightplan.Position{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
			Z: alt,
		})
	}
	return append(points, points[0])
}

// surveyGrid is a lawnmower mapping pattern over a random sub-area.
func (g *Generator) surveyGrid() []flightplan.Position {
	const margin = 1000
	xStart := g.uniform(margin, g.airspace.WidthM/2)
	xEnd := g.uniform(g.airspace.WidthM/2, g.airspace.WidthM-margin)
	yStart := g.uniform(margin, g.airspace.LengthM/2)
	yEnd := g.uniform(g.airspace.LengthM/2, g.airspace.LengthM-margin)
	alt := g.altitude()

	passes := 3 + g.rng.Intn(3)
	var points []flightplan.Position
	for i := 0; i < passes; i++ {
		y := yStart + (yEnd-yStart)*float64(i)/float64(passes-1)
		if i%2 == 0 {
			points = append(points,
				flightplan.Position{X: xStart, Y: y, Z: alt},
				flightplan.Position{X: xEnd, Y: y, Z: alt})
		} else {
			points = append(points,
				flightplan.Position{X: xEnd, Y: y, Z: alt},
				flightplan.Position{X: xStart, Y: y, Z: alt})
		}
	}
	return points
}

// waypointTour visits 3-6 random points (delivery/inspection profile).
func (g *Generator) waypointTour() []flightplan.Position {
	const margin = 600
	n := 3 + g.rng.Intn(4)
	points := make([]flightplan.Position, n)
	for i := range points {
		points[i] = flightplan.Position{
			X: g.uniform(margin, g.airspace.WidthM-margin),
			Y: g.uniform(margin, g.airspace.LengthM-margin),
			Z: g.altitude(),
		}
	}
	return points
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
