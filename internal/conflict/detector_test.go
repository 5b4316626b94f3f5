package conflict

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"skyverify/internal/flightplan"
)

func mustPlan(t *testing.T, id string, wps ...flightplan.Waypoint) *flightplan.FlightPlan {
	t.Helper()
	p, err := flightplan.New(id, wps)
	if err != nil {
		t.Fatalf("plan %s: %v", id, err)
	}
	return p
}

// straightLine builds a constant-altitude track along x at fixed y.
func straightLine(t *testing.T, id string, y float64, t0, t1 float64) *flightplan.FlightPlan {
	t.Helper()
	return mustPlan(t, id,
		flightplan.Waypoint{X: 0, Y: y, Z: 100, Time: t0},
		flightplan.Waypoint{X: 600, Y: y, Z: 100, Time: t1},
	)
}

func TestNewDetectorDefaults(t *testing.T) {
	d, err := NewDetector(0, 0, 0)
	if err != nil {
		t.Fatalf("NewDetector returned error: %v", err)
	}
	if d.SafetyDistance != DefaultSafetyDistance {
		t.Errorf("SafetyDistance = %g, want %g", d.SafetyDistance, DefaultSafetyDistance)
	}
	if d.TimeStep != DefaultTimeStep {
		t.Errorf("TimeStep = %g, want %g", d.TimeStep, DefaultTimeStep)
	}
	if d.VerticalWeight != DefaultVerticalWeight {
		t.Errorf("VerticalWeight = %g, want %g", d.VerticalWeight, DefaultVerticalWeight)
	}
}

func TestNewDetectorRejectsNegatives(t *testing.T) {
	cases := [][3]float64{
		{-1, 0.5, 1},
		{10, -0.5, 1},
		{10, 0.5, -1},
	}
	for _, c := range cases {
		if _, err := NewDetector(c[0], c[1], c[2]); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("NewDetector(%v) error = %v, want ErrInvalidParameter", c, err)
		}
	}
}

func TestDetectDeterministic(t *testing.T) {
	d, _ := NewDetector(0, 0, 0)
	a := straightLine(t, "UAV-a", 0, 0, 60)
	b := straightLine(t, "UAV-b", 5, 0, 60)

	first := d.Detect(a, []*flightplan.FlightPlan{b})
	second := d.Detect(a, []*flightplan.FlightPlan{b})
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different conflict lists")
	}
}

func TestDetectSymmetric(t *testing.T) {
	d, _ := NewDetector(0, 0, 0)
	a := straightLine(t, "UAV-a", 0, 0, 60)
	b := straightLine(t, "UAV-b", 5, 0, 60)

	ab := d.Detect(a, []*flightplan.FlightPlan{b})
	ba := d.Detect(b, []*flightplan.FlightPlan{a})
	if len(ab) != len(ba) {
		t.Fatalf("asymmetric conflict counts: %d vs %d", len(ab), len(ba))
	}
	for i := range ab {
		if ab[i].Time != ba[i].Time || ab[i].Distance != ba[i].Distance {
			t.Errorf("conflict %d differs: %+v vs %+v", i, ab[i], ba[i])
		}
		if ab[i].UAV1 != ba[i].UAV2 || ab[i].UAV2 != ba[i].UAV1 {
			t.Errorf("conflict %d identifier order not mirrored: %+v vs %+v", i, ab[i], ba[i])
		}
	}
}

func TestTemporalPruning(t *testing.T) {
	d, _ := NewDetector(0, 0, 0)
	// Same track, disjoint active windows: spatially identical, never
	// airborne together.
	a := straightLine(t, "UAV-a", 0, 0, 60)
	b := straightLine(t, "UAV-b", 0, 100, 160)

	if got := d.Detect(a, []*flightplan.FlightPlan{b}); len(got) != 0 {
		t.Errorf("disjoint windows produced %d conflicts", len(got))
	}
}

func TestThresholdIsStrict(t *testing.T) {
	d, _ := NewDetector(0, 0, 0)
	a := straightLine(t, "UAV-a", 0, 0, 60)

	// Separation exactly at the buffer is not a conflict.
	atBuffer := straightLine(t, "UAV-b", 10.0, 0, 60)
	if got := d.Detect(a, []*flightplan.FlightPlan{atBuffer}); len(got) != 0 {
		t.Errorf("separation == safety produced %d conflicts", len(got))
	}

	// A hair inside the buffer is a conflict at every sample: the
	// shared window [0,60] at 0.5 s steps yields 121 samples.
	inside := straightLine(t, "UAV-c", 9.999, 0, 60)
	got := d.Detect(a, []*flightplan.FlightPlan{inside})
	if len(got) != 121 {
		t.Errorf("separation just below safety produced %d conflicts, want 121", len(got))
	}
}

func TestConvergentCollision(t *testing.T) {
	d, _ := NewDetector(0, 0, 0)
	a := mustPlan(t, "UAV-east",
		flightplan.Waypoint{X: 4000, Y: 5000, Z: 200, Time: 0},
		flightplan.Waypoint{X: 6000, Y: 5000, Z: 200, Time: 200},
	)
	b := mustPlan(t, "UAV-north",
		flightplan.Waypoint{X: 5000, Y: 4000, Z: 200, Time: 0},
		flightplan.Waypoint{X: 5000, Y: 6000, Z: 200, Time: 200},
	)

	conflicts := d.Detect(a, []*flightplan.FlightPlan{b})
	if len(conflicts) == 0 {
		t.Fatal("converging tracks produced no conflicts")
	}
	var atImpact *Conflict
	for i := range conflicts {
		if conflicts[i].Time == 100 {
			atImpact = &conflicts[i]
		}
	}
	if atImpact == nil {
		t.Fatal("no conflict sampled at t=100")
	}
	if atImpact.Distance > 1e-6 {
		t.Errorf("distance at impact = %g, want ~0", atImpact.Distance)
	}
	if atImpact.Severity < 1-1e-9 {
		t.Errorf("severity at impact = %g, want 1", atImpact.Severity)
	}
	loc := atImpact.Location
	if math.Abs(loc.X-5000) > 1e-6 || math.Abs(loc.Y-5000) > 1e-6 || math.Abs(loc.Z-200) > 1e-6 {
		t.Errorf("impact location = %+v, want (5000, 5000, 200)", loc)
	}
}

func TestVerticalWeight(t *testing.T) {
	mk := func(id string, z float64) *flightplan.FlightPlan {
		return mustPlan(t, id,
			flightplan.Waypoint{X: 0, Y: 0, Z: z, Time: 0},
			flightplan.Waypoint{X: 600, Y: 0, Z: z, Time: 60},
		)
	}
	a := mk("UAV-low", 100)

	// 20 m vertical separation clears the 10 m buffer at weight 1.
	d1, _ := NewDetector(0, 0, 1)
	if got := d1.Detect(a, []*flightplan.FlightPlan{mk("UAV-b", 120)}); len(got) != 0 {
		t.Errorf("20 m vertical offset produced %d conflicts at weight 1", len(got))
	}

	// 5 m vertical separation violates at every one of the 121 samples.
	got := d1.Detect(a, []*flightplan.FlightPlan{mk("UAV-c", 105)})
	if len(got) != 121 {
		t.Fatalf("5 m vertical offset produced %d conflicts, want 121", len(got))
	}
	for _, c := range got {
		if math.Abs(c.Distance-5) > 1e-6 {
			t.Errorf("conflict distance = %g, want 5", c.Distance)
		}
		if math.Abs(c.Severity-0.5) > 1e-6 {
			t.Errorf("conflict severity = %g, want 0.5", c.Severity)
		}
	}

	// Weight 3 scales the same 5 m offset to 15 m, above the buffer.
	d3, _ := NewDetector(0, 0, 3)
	if got := d3.Detect(a, []*flightplan.FlightPlan{mk("UAV-d", 105)}); len(got) != 0 {
		t.Errorf("weighted vertical offset produced %d conflicts at weight 3", len(got))
	}
}

func TestFinerStepKeepsConflicts(t *testing.T) {
	a := mustPlan(t, "UAV-east",
		flightplan.Waypoint{X: 4000, Y: 5000, Z: 200, Time: 0},
		flightplan.Waypoint{X: 6000, Y: 5000, Z: 200, Time: 200},
	)
	b := mustPlan(t, "UAV-north",
		flightplan.Waypoint{X: 5000, Y: 4000, Z: 200, Time: 0},
		flightplan.Waypoint{X: 5000, Y: 6000, Z: 200, Time: 200},
	)

	coarse, _ := NewDetector(0, 0.5, 0)
	fine, _ := NewDetector(0, 0.1, 0)
	nCoarse := len(coarse.Detect(a, []*flightplan.FlightPlan{b}))
	nFine := len(fine.Detect(a, []*flightplan.FlightPlan{b}))
	if nCoarse == 0 {
		t.Fatal("coarse detector missed the collision")
	}
	if nFine < nCoarse {
		t.Errorf("finer step found fewer conflicts: %d < %d", nFine, nCoarse)
	}
}

func TestZeroLengthOverlap(t *testing.T) {
	d, _ := NewDetector(0, 0, 0)
	a := mustPlan(t, "UAV-a",
		flightplan.Waypoint{X: 0, Y: 0, Z: 100, Time: 0},
		flightplan.Waypoint{X: 600, Y: 0, Z: 100, Time: 60},
	)
	// b starts exactly where and when a ends.
	b := mustPlan(t, "UAV-b",
		flightplan.Waypoint{X: 600, Y: 0, Z: 100, Time: 60},
		flightplan.Waypoint{X: 1200, Y: 0, Z: 100, Time: 120},
	)

	got := d.Detect(a, []*flightplan.FlightPlan{b})
	if len(got) != 1 {
		t.Fatalf("single shared instant produced %d conflicts, want 1", len(got))
	}
	if got[0].Time != 60 {
		t.Errorf("conflict time = %g, want 60", got[0].Time)
	}
}

func TestEndpointSampledWhenStepDoesNotDivide(t *testing.T) {
	// Overlap [0, 60.3] with step 0.5: 120 whole steps plus the final
	// endpoint sample at 60.3.
	d, _ := NewDetector(0, 0, 0)
	a := mustPlan(t, "UAV-a",
		flightplan.Waypoint{X: 0, Y: 0, Z: 100, Time: 0},
		flightplan.Waypoint{X: 600, Y: 0, Z: 100, Time: 60.3},
	)
	b := mustPlan(t, "UAV-b",
		flightplan.Waypoint{X: 0, Y: 5, Z: 100, Time: 0},
		flightplan.Waypoint{X: 600, Y: 5, Z: 100, Time: 60.3},
	)

	got := d.Detect(a, []*flightplan.FlightPlan{b})
	if len(got) != 122 {
		t.Fatalf("got %d conflicts, want 122", len(got))
	}
	last := got[len(got)-1]
	if last.Time != 60.3 {
		t.Errorf("final sample at %g, want 60.3", last.Time)
	}
}

func TestMidpointLocation(t *testing.T) {
	d, _ := NewDetector(0, 0, 0)
	a := straightLine(t, "UAV-a", 0, 0, 60)
	b := straightLine(t, "UAV-b", 8, 0, 60)

	got := d.Detect(a, []*flightplan.FlightPlan{b})
	if len(got) == 0 {
		t.Fatal("expected conflicts for 8 m lateral offset")
	}
	for _, c := range got {
		if math.Abs(c.Location.Y-4) > 1e-6 {
			t.Errorf("location Y = %g, want midpoint 4", c.Location.Y)
		}
	}
}

func TestDetectEmptyBackground(t *testing.T) {
	d, _ := NewDetector(0, 0, 0)
	a := straightLine(t, "UAV-a", 0, 0, 60)
	if got := d.Detect(a, nil); len(got) != 0 {
		t.Errorf("empty background produced %d conflicts", len(got))
	}
}
