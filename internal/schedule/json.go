package schedule

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"skyverify/internal/flightplan"
)

// flightJSON is the on-disk shape of a single flight.
type flightJSON struct {
	UAVID     string                `json:"uav_id"`
	Speed     float64               `json:"speed"`
	Waypoints []flightplan.Waypoint `json:"waypoints"`
}

// swarmFile groups flights with free-form metadata, mirroring the
// generator's swarm export format.
type swarmFile struct {
	Metadata map[string]any `json:"metadata,omitempty"`
	Flights  []flightJSON   `json:"flights"`
}

// LoadJSON reads flight plans from a swarm JSON file.
func LoadJSON(path string) ([]*flightplan.FlightPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()
	plans, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", path, err)
	}
	return plans, nil
}

// ReadJSON parses swarm JSON data from r.
func ReadJSON(r io.Reader) ([]*flightplan.FlightPlan, error) {
	var sf swarmFile
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	plans := make([]*flightplan.FlightPlan, 0, len(sf.Flights))
	for _, fl := range sf.Flights {
		speed := fl.Speed
		if speed == 0 {
			speed = flightplan.DefaultSpeed
		}
		plan, err := flightplan.NewWithSpeed(fl.UAVID, speed, fl.Waypoints)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// LoadMissionJSON reads a single flight plan. Both a bare flight object
// and a one-flight swarm file are accepted.
func LoadMissionJSON(path string) (*flightplan.FlightPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open mission: %w", err)
	}
	var fl flightJSON
	if err := json.Unmarshal(data, &fl); err == nil && fl.UAVID != "" {
		speed := fl.Speed
		if speed == 0 {
			speed = flightplan.DefaultSpeed
		}
		return flightplan.NewWithSpeed(fl.UAVID, speed, fl.Waypoints)
	}
	var sf swarmFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("mission %s: decode: %w", path, err)
	}
	if len(sf.Flights) != 1 {
		return nil, fmt.Errorf("mission %s: expected exactly one flight, got %d", path, len(sf.Flights))
	}
	fl = sf.Flights[0]
	speed := fl.Speed
	if speed == 0 {
		speed = flightplan.DefaultSpeed
	}
	return flightplan.NewWithSpeed(fl.UAVID, speed, fl.Waypoints)
}

// SaveJSON writes flight plans as a swarm JSON file with generation
// metadata.
func SaveJSON(path string, plans []*flightplan.FlightPlan, metadata map[string]any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	defer f.Close()
	if err := WriteJSON(f, plans, metadata); err != nil {
		return fmt.Errorf("schedule %s: %w", path, err)
	}
	return nil
}

// WriteJSON emits swarm JSON data to w.
func WriteJSON(w io.Writer, plans []*flightplan.FlightPlan, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	if _, ok := metadata["generated_at"]; !ok {
		metadata["generated_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	metadata["num_flights"] = len(plans)

	sf := swarmFile{Metadata: metadata, Flights: make([]flightJSON, len(plans))}
	for i, p := range plans {
		sf.Flights[i] = flightJSON{
			UAVID:     p.UAVID(),
			Speed:     p.Speed(),
			Waypoints: p.Waypoints(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sf)
}

// Load picks the loader from the file extension: .json for swarm JSON,
// anything else is treated as CSV.
func Load(path string) ([]*flightplan.FlightPlan, error) {
	if hasJSONExt(path) {
		return LoadJSON(path)
	}
	return LoadCSV(path)
}

func hasJSONExt(path string) bool {
	return len(path) > 5 && path[len(path)-5:] == ".json"
}
