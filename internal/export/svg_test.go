package export

import (
	"strings"
	"testing"

	"github.com/san-kum/railsim/internal/scene"
	"github.com/san-kum/railsim/internal/sim"
	"github.com/san-kum/railsim/internal/train"
)

func TestFrameSVG(t *testing.T) {
	sc, err := scene.Build(scene.Demo())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := sim.New(sc, train.New(train.DefaultParams()))

	before := s.State().S
	out := FrameSVG(s, 640, 360)
	if s.State().S != before {
		t.Error("FrameSVG advanced the simulation")
	}

	if !strings.HasPrefix(out, `<?xml`) {
		t.Error("missing XML header")
	}
	for _, want := range []string{"<svg", "<polygon", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestSpeedProfileSVG(t *testing.T) {
	states := []sim.State{
		{S: 0, V: 0, Limit: 11.1},
		{S: 100, V: 8, Limit: 11.1},
		{S: 200, V: 11, Limit: 16.6},
	}

	out := SpeedProfileSVG(states, 800, 200)
	if strings.Count(out, "<path") != 2 {
		t.Errorf("want 2 paths, got %d", strings.Count(out, "<path"))
	}

	if SpeedProfileSVG(nil, 800, 200) != "" {
		t.Error("empty trace should produce no document")
	}
	if SpeedProfileSVG(states[:1], 800, 200) != "" {
		t.Error("single sample should produce no document")
	}
}
