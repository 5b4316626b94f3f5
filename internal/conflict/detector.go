// Package conflict implements 4D (space-time) proximity checking
// between UAV flight plans.
package conflict

import (
	"errors"
	"fmt"
	"math"

	"skyverify/internal/flightplan"
)

// Defaults applied by NewDetector when a parameter is zero.
const (
	DefaultSafetyDistance = 10.0 // meters
	DefaultTimeStep       = 0.5  // seconds
	DefaultVerticalWeight = 1.0  // plain 3D Euclidean distance
)

var ErrInvalidParameter = errors.New("detector parameters must be positive")

// Conflict records one sampled instant at which two plans violated the
// safety buffer. Location is the midpoint between the two UAV positions
// at that instant. Severity is 1 - distance/safetyDistance clamped to
// [0,1]: 0 means exactly at the buffer, 1 means zero separation.
type Conflict struct {
	Time     float64             `json:"time"`
	Location flightplan.Position `json:"location"`
	UAV1     string              `json:"uav1"`
	UAV2     string              `json:"uav2"`
	Distance float64             `json:"distance"`
	Severity float64             `json:"severity"`
}

func (c Conflict) String() string {
	return fmt.Sprintf("Conflict(%s vs %s, t=%.1fs, dist=%.1fm, severity=%.2f)",
		c.UAV1, c.UAV2, c.Time, c.Distance, c.Severity)
}

// Detector samples pairs of flight plans over their shared time window
// and reports every instant the weighted separation drops strictly
// below the safety distance. It holds only configuration, so a single
// Detector is safe for concurrent use.
type Detector struct {
	SafetyDistance float64
	TimeStep       float64
	VerticalWeight float64
}

// NewDetector validates the configuration. Zero values take the
// documented defaults; negative or otherwise non-positive values are
// configuration errors, never clamped.
func NewDetector(safetyDistance, timeStep, verticalWeight float64) (*Detector, error) {
	if safetyDistance == 0 {
		safetyDistance = DefaultSafetyDistance
	}
	if timeStep == 0 {
		timeStep = DefaultTimeStep
	}
	if verticalWeight == 0 {
		verticalWeight = DefaultVerticalWeight
	}
	if safetyDistance <= 0 || timeStep <= 0 || verticalWeight <= 0 {
		return nil, fmt.Errorf("%w: safety=%g step=%g vertical=%g",
			ErrInvalidParameter, safetyDistance, timeStep, verticalWeight)
	}
	return &Detector{
		SafetyDistance: safetyDistance,
		TimeStep:       timeStep,
		VerticalWeight: verticalWeight,
	}, nil
}

// Detect checks primary against each other plan in order and returns
// all conflicts found. Results are grouped by the order of others and
// sorted by ascending time within each pair. Pairs whose active
// intervals do not overlap are skipped before any sampling happens.
func (d *Detector) Detect(primary *flightplan.FlightPlan, others []*flightplan.FlightPlan) []Conflict {
	var conflicts []Conflict
	for _, other := range others {
		conflicts = append(conflicts, d.detectPair(primary, other)...)
	}
	return conflicts
}

// detectPair walks the temporal overlap of two plans in fixed TimeStep
// increments, both endpoints included. A zero-length overlap is still a
// single shared instant and gets sampled once.
func (d *Detector) detectPair(a, b *flightplan.FlightPlan) []Conflict {
	start := math.Max(a.Start(), b.Start())
	end := math.Min(a.End(), b.End())
	if start > end {
		return nil
	}

	var conflicts []Conflict
	sample := func(t float64) {
		posA, okA := a.PositionAt(t)
		posB, okB := b.PositionAt(t)
		if !okA || !okB {
			// Should not happen inside the overlap interval; skip
			// the sample rather than fail the whole pair.
			return
		}
		dist := d.separation(posA, posB)
		if dist < d.SafetyDistance {
			conflicts = append(conflicts, Conflict{
				Time:     t,
				Location: posA.Midpoint(posB),
				UAV1:     a.UAVID(),
				UAV2:     b.UAVID(),
				Distance: dist,
				Severity: severity(dist, d.SafetyDistance),
			})
		}
	}

	// Index-based stepping avoids drift from repeated float addition.
	steps := int(math.Floor((end - start) / d.TimeStep))
	last := math.Inf(-1)
	for i := 0; i <= steps; i++ {
		t := start + float64(i)*d.TimeStep
		if t > end {
			break
		}
		sample(t)
		last = t
	}
	if last < end {
		sample(end)
	}
	return conflicts
}

// separation is the Euclidean distance with the vertical component
// scaled by VerticalWeight before squaring. Weight 1.0 reduces to the
// plain 3D distance.
func (d *Detector) separation(p, q flightplan.Position) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := (p.Z - q.Z) * d.VerticalWeight
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func severity(distance, safety float64) float64 {
	s := 1 - distance/safety
	return math.Min(1, math.Max(0, s))
}
