// Package scene assembles the static world: track geometry loaded from
// a YAML description plus the triangle meshes for terrain, rails,
// stations, props and signals. A built Scene is immutable and shared
// read-only by the frame loop.
package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/railsim/internal/render"
	"github.com/san-kum/railsim/internal/track"
)

// Description is the on-disk scene format.
type Description struct {
	Name      string        `yaml:"name"`
	Seed      int64         `yaml:"seed"`
	Waypoints []WaypointDef `yaml:"waypoints"`
	Stations  []StationDef  `yaml:"stations"`
}

// WaypointDef is one track control point. Bank is radians.
type WaypointDef struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Z    float64 `yaml:"z"`
	Bank float64 `yaml:"bank,omitempty"`
}

// StationDef is a platform range in track arc-length.
type StationDef struct {
	Name  string  `yaml:"name"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Stop  bool    `yaml:"stop"`
}

// Load reads a scene description from a YAML file.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return &d, nil
}

// Save writes the description as YAML.
func (d *Description) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	return nil
}

// Scene is the built world. Static holds every triangle that does not
// move; the train mesh is rebuilt each frame.
type Scene struct {
	Name   string
	Track  *track.Track
	Static []render.Triangle
}

// Build validates the description and constructs the world meshes.
// Track and station validation errors surface unchanged.
func Build(d *Description) (*Scene, error) {
	wps := make([]track.Waypoint, len(d.Waypoints))
	for i, w := range d.Waypoints {
		wps[i] = track.Waypoint{Pos: vec(w.X, w.Y, w.Z), Bank: w.Bank}
	}
	sts := make([]track.Station, len(d.Stations))
	for i, s := range d.Stations {
		sts[i] = track.Station{Name: s.Name, Start: s.Start, End: s.End, Stop: s.Stop}
	}

	trk, err := track.New(wps, sts)
	if err != nil {
		return nil, err
	}

	var static []render.Triangle
	static = append(static, buildGround(trk)...)
	static = append(static, buildRails(trk)...)
	for _, st := range trk.Stations() {
		static = append(static, buildStation(trk, st)...)
	}
	static = append(static, buildProps(trk, d.Seed)...)
	static = append(static, buildSignals(trk)...)

	return &Scene{Name: d.Name, Track: trk, Static: static}, nil
}
