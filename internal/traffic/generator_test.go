package traffic

import (
	"math"
	"testing"

	"skyverify/internal/config"
	"skyverify/internal/flightplan"
)

var testAirspace = config.Airspace{
	WidthM:       10000,
	LengthM:      10000,
	MinAltitudeM: 50,
	MaxAltitudeM: 400,
}

func TestGenerateCountAndValidity(t *testing.T) {
	gen := NewGenerator(testAirspace, 42)
	plans, err := gen.Generate(20, PatternMixed)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(plans) != 20 {
		t.Fatalf("got %d plans, want 20", len(plans))
	}
	for _, p := range plans {
		if p.NumWaypoints() < 2 {
			t.Errorf("%s has %d waypoints", p.UAVID(), p.NumWaypoints())
		}
		wps := p.Waypoints()
		for i := 1; i < len(wps); i++ {
			if wps[i].Time <= wps[i-1].Time {
				t.Errorf("%s times not strictly increasing at %d", p.UAVID(), i)
			}
		}
		for _, wp := range wps {
			if wp.Z < testAirspace.MinAltitudeM || wp.Z > testAirspace.MaxAltitudeM {
				t.Errorf("%s altitude %g outside band", p.UAVID(), wp.Z)
			}
		}
	}
}

func TestGenerateSeedReproducesGeometry(t *testing.T) {
	a, err := NewGenerator(testAirspace, 7).Generate(10, PatternMixed)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	b, err := NewGenerator(testAirspace, 7).Generate(10, PatternMixed)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	for i := range a {
		wa, wb := a[i].Waypoints(), b[i].Waypoints()
		if len(wa) != len(wb) {
			t.Fatalf("plan %d waypoint counts differ: %d vs %d", i, len(wa), len(wb))
		}
		for j := range wa {
			if wa[j] != wb[j] {
				t.Errorf("plan %d waypoint %d differs: %+v vs %+v", i, j, wa[j], wb[j])
			}
		}
	}
}

func TestGenerateUnknownPattern(t *testing.T) {
	gen := NewGenerator(testAirspace, 1)
	if _, err := gen.Generate(1, "zigzag"); err == nil {
		t.Fatal("expected error for unknown pattern")
	}
}

func TestGenerateFlightPatterns(t *testing.T) {
	gen := NewGenerator(testAirspace, 3)
	for _, pattern := range []string{PatternPointToPoint, PatternPatrol, PatternSurvey, PatternWaypointTour} {
		plan, err := gen.GenerateFlight("UAV-"+pattern, pattern)
		if err != nil {
			t.Fatalf("GenerateFlight(%s) returned error: %v", pattern, err)
		}
		if plan.Start() < 0 || plan.Start() > 120 {
			t.Errorf("%s starts at %g, want within the first two minutes", pattern, plan.Start())
		}
	}
}

func TestSurveyGridAlternatesDirection(t *testing.T) {
	gen := NewGenerator(testAirspace, 11)
	plan, err := gen.GenerateFlight("UAV-survey", PatternSurvey)
	if err != nil {
		t.Fatalf("GenerateFlight returned error: %v", err)
	}
	wps := plan.Waypoints()
	if len(wps) < 6 || len(wps)%2 != 0 {
		t.Fatalf("survey grid has %d waypoints, want an even count >= 6", len(wps))
	}
	// Consecutive passes run in opposite x directions.
	first := wps[1].X - wps[0].X
	second := wps[3].X - wps[2].X
	if first*second >= 0 {
		t.Errorf("passes do not alternate: %g then %g", first, second)
	}
}

func TestCrossingPairMeetsAtCenter(t *testing.T) {
	gen := NewGenerator(testAirspace, 5)
	p1, p2, err := gen.CrossingPair("UAV-A", "UAV-B")
	if err != nil {
		t.Fatalf("CrossingPair returned error: %v", err)
	}

	// Both reach the airspace center halfway through their legs.
	mid := p1.Start() + p1.Duration()/2
	pos1, ok1 := p1.PositionAt(mid)
	pos2, ok2 := p2.PositionAt(mid)
	if !ok1 || !ok2 {
		t.Fatal("midpoint time outside a plan's window")
	}
	if math.Abs(pos1.X-5000) > 1 || math.Abs(pos1.Y-5000) > 1 {
		t.Errorf("eastbound midpoint = %+v, want near (5000, 5000)", pos1)
	}
	if math.Abs(pos2.X-5000) > 1 || math.Abs(pos2.Y-5000) > 1 {
		t.Errorf("northbound midpoint = %+v, want near (5000, 5000)", pos2)
	}
	if dz := pos2.Z - pos1.Z; math.Abs(dz-20) > 1e-6 {
		t.Errorf("vertical offset = %g, want 20", dz)
	}
}

func TestTimedWaypointsUseCruiseSpeed(t *testing.T) {
	gen := NewGenerator(testAirspace, 9)
	points := []flightplan.Position{
		{X: 0, Y: 0, Z: 100},
		{X: 1500, Y: 0, Z: 100},
	}
	wps := gen.timedWaypoints(points, 10)
	if wps[0].Time != 10 {
		t.Errorf("start time = %g, want 10", wps[0].Time)
	}
	want := 10 + 1500/flightplan.DefaultSpeed
	if math.Abs(wps[1].Time-want) > 1e-9 {
		t.Errorf("arrival time = %g, want %g", wps[1].Time, want)
	}
}

func TestTimedWaypointsEnforceMinimumStep(t *testing.T) {
	gen := NewGenerator(testAirspace, 9)
	points := []flightplan.Position{
		{X: 0, Y: 0, Z: 100},
		{X: 0.001, Y: 0, Z: 100},
	}
	wps := gen.timedWaypoints(points, 0)
	if wps[1].Time-wps[0].Time < 1 {
		t.Errorf("dt = %g, want >= 1", wps[1].Time-wps[0].Time)
	}
}
